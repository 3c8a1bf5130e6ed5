package interfaces

import "time"

// RunSummarizer aggregates a day's run journal into a CSV.
type RunSummarizer interface {
	SummarizeDay(t time.Time) (csvPath string, err error)
	SummarizeToday() (csvPath string, err error)
}
