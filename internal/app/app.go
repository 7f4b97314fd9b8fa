package app

import (
	"context"
	"fmt"
	"log/slog"

	"PaperSummarizer/internal/config"
	"PaperSummarizer/internal/domain"
	"PaperSummarizer/internal/infrastructure/extract"
	"PaperSummarizer/internal/infrastructure/fetch"
	"PaperSummarizer/internal/infrastructure/llm"
	"PaperSummarizer/internal/infrastructure/parser"
	"PaperSummarizer/internal/infrastructure/scheduler"
	"PaperSummarizer/internal/infrastructure/storage"
	"PaperSummarizer/internal/infrastructure/store"
	"PaperSummarizer/internal/logging"
	"PaperSummarizer/internal/ports"
	"PaperSummarizer/internal/scanner"
	"PaperSummarizer/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	history  *storage.HistoryRepository
}

// New builds a runnable application instance. Startup-level
// misconfiguration (missing API key, no store root) is returned as an
// error before any per-item work can begin.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewArxivScanner(nil))

	source := parser.NewStrategySource(registry, cfg.Sites, baseLogger.With("component", "source"))

	summaryStore := store.New(cfg.Store.Root)
	downloader := fetch.NewDownloader(cfg.Store.Root, nil, baseLogger.With("component", "downloader"))
	extractor := extract.NewPDFToText()
	summarizer := llm.NewOpenAISummarizer(cfg.OpenAI)

	var history *storage.HistoryRepository
	var recorder ports.RunRecorder
	if cfg.History.Path != "" {
		repo, err := storage.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open run history: %w", err)
		}
		history = repo
		recorder = repo
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Store:      summaryStore,
		Downloader: downloader,
		Extractor:  extractor,
		Summarizer: summarizer,
		Recorder:   recorder,
		Logger:     baseLogger.With("component", "pipeline"),
		Limit:      siteLimit(cfg),
	})

	return &Application{cfg: cfg, pipeline: pipeline, history: history}, nil
}

// RunOnce performs a single pipeline execution.
func (a *Application) RunOnce(ctx context.Context) (domain.RunReport, error) {
	return a.pipeline.Run(ctx)
}

// Watch runs the pipeline on the configured interval until the context
// is cancelled.
func (a *Application) Watch(ctx context.Context) error {
	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Every())
	sched := usecase.NewScheduler(driver, a.pipeline)

	if err := sched.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return sched.Stop(context.Background())
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.history != nil {
		return a.history.Close()
	}
	return nil
}

func siteLimit(cfg config.Config) int {
	total := 0
	for _, site := range cfg.Sites {
		if site.Limit <= 0 {
			return 0
		}
		total += site.Limit
	}
	return total
}
