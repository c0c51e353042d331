package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ukaji3/exmerge-go/pkg/exmerge"
)

func newSheetsCmd() *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "sheets [input.xlsx]",
		Short: "List the sheets of a workbook as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			summary, err := exmerge.Summarize(filepath.Base(args[0]), data)
			if err != nil {
				return err
			}

			var out []byte
			if pretty {
				out, err = json.MarshalIndent(summary, "", "  ")
			} else {
				out, err = json.Marshal(summary)
			}
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}
