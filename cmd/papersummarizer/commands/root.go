package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// storeRoot overrides the artifact directory from config.
	storeRoot string

	// historyPath overrides the run-history database path.
	historyPath string

	// logLevel overrides console verbosity.
	logLevel string
)

const banner = `
  _____                         _____
 |  __ \                       / ____|
 | |__) |_ _ _ __   ___ _ __  | (___  _   _ _ __ ___
 |  ___/ _' | '_ \ / _ \ '__|  \___ \| | | | '_ ' _ \
 | |  | (_| | |_) |  __/ |     ____) | |_| | | | | | |
 |_|   \__,_| .__/ \___|_|    |_____/ \__,_|_| |_| |_|
            |_|
`

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "papersummarizer",
	Short: "Summarize newly listed arXiv papers",
	Long: `papersummarizer discovers recently listed papers in a category feed,
downloads each PDF, extracts its text, summarizes it with a language
model, and stores the summary as a Markdown file. Papers already
summarized in a previous run are skipped.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func printBanner() {
	fmt.Print(banner)
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&storeRoot, "store", "",
		"Artifact directory (default: ~/ras, or $STORE_ROOT)",
	)
	rootCmd.PersistentFlags().StringVar(
		&historyPath, "history", "",
		"Run-history SQLite database path (disabled when empty)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "",
		"Log level: debug, info, warn, error",
	)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
}
