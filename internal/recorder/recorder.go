package recorder

import "time"

// RunEvent describes one archiver run.
type RunEvent struct {
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Weeks      int
	Records    int
	Years      []int
	Error      string // empty on success
}

// YearEvent records the summary of a year written by a run.
type YearEvent struct {
	Source      string
	Year        int
	Count       int
	AvgPrice    float64
	MinPrice    float64
	MaxPrice    float64
	TotalVolume float64
}

// Recorder keeps the operational history of runs for later inspection.
type Recorder interface {
	RecordRun(evt *RunEvent) error
	RecordYear(evt *YearEvent) error
	Close() error
}
