package domain

import "time"

// PaperListing is one candidate paper discovered in a category feed.
// Listings live for a single run and are never persisted.
type PaperListing struct {
	ID        string
	Title     string
	SourceURL string
}

// ItemStatus enumerates the terminal states of one paper's run through
// the pipeline.
type ItemStatus string

const (
	StatusSkipped   ItemStatus = "skipped"
	StatusCompleted ItemStatus = "completed"
	StatusFailed    ItemStatus = "failed"
)

// ProcessingResult captures the outcome for a single listing. Used for
// run-level reporting only.
type ProcessingResult struct {
	Listing PaperListing
	Status  ItemStatus
	Err     error
}

// RunReport aggregates terminal states after every discovered item has
// settled.
type RunReport struct {
	Existing  int
	Found     int
	Skipped   int
	Completed int
	Failed    int
	Results   []ProcessingResult
	StartedAt time.Time
	EndedAt   time.Time
}

// Processed returns how many items reached a terminal state other than
// Skipped.
func (r RunReport) Processed() int {
	return r.Completed + r.Failed
}
