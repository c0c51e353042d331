// Package main provides the CLI entry point for exmerge.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "exmerge",
		Short: "Merge Excel exports into a report template",
		Long: `exmerge copies the first sheet of two Excel exports into the "GA RAW"
sheet of a stored template and returns the merged workbook.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd(), newMergeCmd(), newSheetsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
