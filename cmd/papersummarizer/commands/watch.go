package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"PaperSummarizer/internal/app"
	"PaperSummarizer/internal/logging"
)

// watchCmd keeps the process alive and re-runs the pipeline on the
// configured interval until interrupted.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the pipeline on a recurring interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		printBanner()

		cfg := loadConfig()
		logger := logging.New(cfg.Logging.Level)

		application, err := app.New(cfg, logger)
		if err != nil {
			logger.Error("startup failed", "error", err)
			return err
		}
		defer application.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("watching", "interval", cfg.Scheduler.Every().String())
		return application.Watch(ctx)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}
