package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/benchlab/internal/artifact"
)

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <artifact.json>",
		Short: "Print the summary of a stored report artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args[0])
		},
	}
}

func runReport(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("report: read artifact: %w", err)
	}

	report, err := artifact.LoadReport(data)
	if err != nil {
		return err
	}
	return printReport(cmd.OutOrStdout(), report)
}
