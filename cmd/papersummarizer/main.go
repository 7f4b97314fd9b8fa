package main

import (
	"os"

	"PaperSummarizer/cmd/papersummarizer/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
