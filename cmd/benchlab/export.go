package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/benchlab/internal/artifact"
)

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <artifact.json>",
		Short: "Export an artifact's instances as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file (default: stdout)")
	return cmd
}

func runExport(cmd *cobra.Command, path, out string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("export: read artifact: %w", err)
	}

	stage, err := artifact.LoadStage(data)
	if err != nil {
		return err
	}

	var snapshot artifact.Snapshot
	switch stage {
	case artifact.StageReport:
		snapshot, err = artifact.LoadReport(data)
	case artifact.StageEvaluation:
		snapshot, err = artifact.LoadEvaluation(data)
	case artifact.StageExecution:
		snapshot, err = artifact.LoadExecution(data)
	case artifact.StageBenchmark:
		snapshot, err = artifact.LoadBenchmark(data)
	default:
		return fmt.Errorf("export: unknown stage %q", stage)
	}
	if err != nil {
		return err
	}

	csvData, err := artifact.EncodeCSV(snapshot)
	if err != nil {
		return err
	}

	if strings.TrimSpace(out) == "" {
		_, err = cmd.OutOrStdout().Write(csvData)
		return err
	}
	if err := os.WriteFile(out, csvData, 0o644); err != nil {
		return fmt.Errorf("export: write csv: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	return nil
}
