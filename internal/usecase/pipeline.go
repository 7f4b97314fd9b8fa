package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"PaperSummarizer/internal/domain"
	"PaperSummarizer/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration
// pipeline. Downloader, Extractor, and Summarizer are required for
// processing; Recorder is optional.
type PipelineDeps struct {
	Source     ports.ListingSource
	Store      ports.SummaryStore
	Downloader ports.Downloader
	Extractor  ports.Extractor
	Summarizer ports.Summarizer
	Recorder   ports.RunRecorder
	Logger     *slog.Logger
	Limit      int
}

// Pipeline drives each discovered paper through
// fetch → extract → summarize → persist, skipping papers whose summary
// artifact already exists. Items are processed one at a time in listing
// order; the cache index snapshot taken at the start stays valid for
// the whole run because no other writer touches the store.
type Pipeline struct {
	source     ports.ListingSource
	store      ports.SummaryStore
	downloader ports.Downloader
	extractor  ports.Extractor
	summarizer ports.Summarizer
	recorder   ports.RunRecorder
	logger     *slog.Logger
	limit      int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	limit := deps.Limit
	if limit <= 0 {
		limit = 100
	}
	return &Pipeline{
		source:     deps.Source,
		store:      deps.Store,
		downloader: deps.Downloader,
		extractor:  deps.Extractor,
		summarizer: deps.Summarizer,
		recorder:   deps.Recorder,
		logger:     deps.Logger,
		limit:      limit,
	}
}

// Run executes one full pass: list candidates, filter out completed
// keys, then process the remainder sequentially. Item failures are
// logged and counted but never abort the run; only listing or index
// failures do, since without either there is nothing to process.
func (p *Pipeline) Run(ctx context.Context) (domain.RunReport, error) {
	report := domain.RunReport{StartedAt: time.Now()}

	if p.source == nil || p.store == nil || p.downloader == nil || p.extractor == nil || p.summarizer == nil {
		return report, fmt.Errorf("pipeline misconfigured: all stages are required")
	}

	index, err := p.store.BuildIndex()
	if err != nil {
		return report, fmt.Errorf("build cache index: %w", err)
	}
	report.Existing = index.Len()
	p.info("found existing summaries", "count", index.Len())

	listings, err := p.source.ListRecent(ctx, p.limit)
	if err != nil {
		return report, fmt.Errorf("list recent papers: %w", err)
	}
	listings = dedupeByKey(listings)
	report.Found = len(listings)
	p.info("found papers", "count", len(listings))

	var pending []domain.PaperListing
	for _, listing := range listings {
		if index.Has(domain.NormalizeTitle(listing.Title)) {
			report.Skipped++
			report.Results = append(report.Results, domain.ProcessingResult{
				Listing: listing,
				Status:  domain.StatusSkipped,
			})
			continue
		}
		pending = append(pending, listing)
	}
	p.info("papers need processing", "count", len(pending))

	runID := p.beginRun(ctx, report.StartedAt)
	for _, result := range report.Results {
		p.recordItem(ctx, runID, result)
	}

	for i, listing := range pending {
		result := p.processOne(ctx, listing)

		switch result.Status {
		case domain.StatusCompleted:
			report.Completed++
		case domain.StatusFailed:
			report.Failed++
		}
		report.Results = append(report.Results, result)
		p.recordItem(ctx, runID, result)

		p.info("progress", "processed", i+1, "total", len(pending))
	}

	report.EndedAt = time.Now()
	p.finishRun(ctx, runID, report)

	p.info("done",
		"skipped", report.Skipped,
		"completed", report.Completed,
		"failed", report.Failed)

	return report, nil
}

// processOne drives a single listing to a terminal state. Any stage
// error moves the item straight to Failed with the cause recorded; the
// failed item leaves no summary artifact, so the next run retries it.
func (p *Pipeline) processOne(ctx context.Context, listing domain.PaperListing) domain.ProcessingResult {
	p.info("processing", "title", listing.Title)

	fail := func(err error) domain.ProcessingResult {
		p.warn("paper failed",
			"title", listing.Title,
			"stage", domain.FailureStage(err),
			"error", err)
		return domain.ProcessingResult{Listing: listing, Status: domain.StatusFailed, Err: err}
	}

	document, err := p.downloader.Fetch(ctx, listing)
	if err != nil {
		return fail(err)
	}

	text, err := p.extractor.Extract(ctx, document)
	if err != nil {
		return fail(err)
	}

	summary, err := p.summarizer.Summarize(ctx, listing, text)
	if err != nil {
		return fail(err)
	}

	key := domain.NormalizeTitle(listing.Title)
	path, err := p.store.Persist(key, summary)
	if err != nil {
		return fail(err)
	}

	p.info("summary saved", "title", listing.Title, "path", path)
	return domain.ProcessingResult{Listing: listing, Status: domain.StatusCompleted}
}

// dedupeByKey drops listings whose normalized title was already seen,
// keeping the first occurrence in listing order.
func dedupeByKey(listings []domain.PaperListing) []domain.PaperListing {
	seen := map[string]struct{}{}
	out := listings[:0]
	for _, listing := range listings {
		key := domain.NormalizeTitle(listing.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, listing)
	}
	return out
}

func (p *Pipeline) beginRun(ctx context.Context, startedAt time.Time) string {
	if p.recorder == nil {
		return ""
	}
	runID, err := p.recorder.BeginRun(ctx, startedAt)
	if err != nil {
		p.warn("history begin run failed", "error", err)
		return ""
	}
	return runID
}

func (p *Pipeline) recordItem(ctx context.Context, runID string, result domain.ProcessingResult) {
	if p.recorder == nil || runID == "" {
		return
	}
	if err := p.recorder.RecordItem(ctx, runID, result); err != nil {
		p.warn("history record item failed", "error", err)
	}
}

func (p *Pipeline) finishRun(ctx context.Context, runID string, report domain.RunReport) {
	if p.recorder == nil || runID == "" {
		return
	}
	if err := p.recorder.FinishRun(ctx, runID, report); err != nil {
		p.warn("history finish run failed", "error", err)
	}
}

func (p *Pipeline) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
