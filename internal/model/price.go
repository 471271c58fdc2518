package model

import "time"

// PriceRecord is one auction interval. StartDate identifies the record
// across the whole archive.
type PriceRecord struct {
	StartDate time.Time
	EndDate   time.Time
	Price     float64  // EUR/MWh
	Volume    *float64 // MWh, nil when the source does not publish it
}

// Float64 returns a pointer to v, used for optional volumes.
func Float64(v float64) *float64 { return &v }

// WeekWindow is a single fetch unit covering [Start, End).
type WeekWindow struct {
	Start time.Time
	End   time.Time
}

// Label renders the window start as a calendar date in its own location.
func (w WeekWindow) Label() string {
	return w.Start.Format("2006-01-02")
}
