package ports

import (
	"context"
	"time"

	"PaperSummarizer/internal/domain"
)

// ListingSource enumerates candidate papers for a category feed.
type ListingSource interface {
	ListRecent(ctx context.Context, limit int) ([]domain.PaperListing, error)
}

// Downloader retrieves a paper's document bytes, consulting its own
// on-disk artifact cache before touching the network.
type Downloader interface {
	Fetch(ctx context.Context, listing domain.PaperListing) ([]byte, error)
}

// Extractor converts a fetched document into plain text for prompting.
type Extractor interface {
	Extract(ctx context.Context, document []byte) (string, error)
}

// Summarizer generates a natural-language summary of extracted text.
type Summarizer interface {
	Summarize(ctx context.Context, listing domain.PaperListing, text string) (string, error)
}

// CacheIndex is the snapshot of already-completed keys taken once at
// the start of a run. Pure membership checks; never re-touches storage.
type CacheIndex interface {
	Has(key string) bool
	Len() int
}

// SummaryStore owns the output artifact directory: it builds the cache
// index and persists completed summaries atomically.
type SummaryStore interface {
	BuildIndex() (CacheIndex, error)
	Persist(key, summary string) (string, error)
}

// RunRecorder archives run and per-item outcomes for auditing. The
// filesystem remains the source of truth for "already processed".
type RunRecorder interface {
	BeginRun(ctx context.Context, startedAt time.Time) (string, error)
	RecordItem(ctx context.Context, runID string, result domain.ProcessingResult) error
	FinishRun(ctx context.Context, runID string, report domain.RunReport) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
