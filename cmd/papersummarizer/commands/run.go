package commands

import (
	"github.com/spf13/cobra"

	"PaperSummarizer/internal/app"
	"PaperSummarizer/internal/config"
	"PaperSummarizer/internal/logging"
)

// runCmd performs a single pipeline pass and exits.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one summarization pass",
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

		if _, err := application.RunOnce(cmd.Context()); err != nil {
			logger.Error("run failed", "error", err)
			return err
		}

		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadConfig merges file/env configuration with command-line overrides.
func loadConfig() config.Config {
	cfg := config.Load()
	if storeRoot != "" {
		cfg.Store.Root = storeRoot
	}
	if historyPath != "" {
		cfg.History.Path = historyPath
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg
}
