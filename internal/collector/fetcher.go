package collector

import (
	"context"
	"errors"

	"DayAheadArchiver/internal/model"
)

var (
	// ErrNetwork marks a failed request or a non-success response.
	ErrNetwork = errors.New("network error")
	// ErrParse marks a response whose structure is not what the extractor expects.
	ErrParse = errors.New("parse error")
)

// Fetcher extracts the auction records of exactly one week.
type Fetcher interface {
	FetchWeek(ctx context.Context, week model.WeekWindow) ([]model.PriceRecord, error)
	Name() string
}
