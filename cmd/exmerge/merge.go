package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji3/exmerge-go/pkg/exmerge"
)

func newMergeCmd() *cobra.Command {
	var (
		templatePath string
		targetSheet  string
		outputPath   string
	)
	cmd := &cobra.Command{
		Use:   "merge [file1.xlsx] [file2.xlsx]",
		Short: "Merge two workbooks into a template offline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := readInput(templatePath)
			if err != nil {
				return err
			}
			file1, err := readInput(args[0])
			if err != nil {
				return err
			}
			file2, err := readInput(args[1])
			if err != nil {
				return err
			}

			result, err := exmerge.Merge(tpl, file1, file2, targetSheet)
			if err != nil {
				return fmt.Errorf("merge failed: %w", err)
			}

			if outputPath == "" {
				name, err := exmerge.RandomName()
				if err != nil {
					return err
				}
				outputPath = name
			}
			if err := os.WriteFile(outputPath, result.Data, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows from %s, %d rows from %s\n",
				outputPath, result.RowsFromSource1, args[0], result.RowsFromSource2, args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Template workbook path")
	cmd.Flags().StringVar(&targetSheet, "sheet", exmerge.DefaultTargetSheet, "Template sheet to fill")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: merged_<n>.xlsx)")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func readInput(path string) ([]byte, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return os.ReadFile(path)
}
