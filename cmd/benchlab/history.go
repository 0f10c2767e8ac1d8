package main

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/benchlab/internal/store"
)

func newHistoryCmd(st *cliState) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored benchmark runs",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, st, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "max runs to list")

	cmd.AddCommand(newHistoryShowCmd(st))
	return cmd
}

func newHistoryShowCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show details for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, st, args[0])
		},
	}
}

func runHistoryList(cmd *cobra.Command, st *cliState, limit int) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("history: missing config (internal error)")
	}

	stor, err := store.NewSQLiteStore(st.cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer stor.Close()

	runs, err := stor.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTAGE\tCREATED\tINSTANCES\tATTEMPTS\tEXEC(S)")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%.2f\n",
			run.ID, run.Name, run.Stage,
			run.CreatedAt.Local().Format(time.DateTime),
			run.NInstances, run.NAttempts, run.ExecutionSeconds)
	}
	return tw.Flush()
}

func runHistoryShow(cmd *cobra.Command, st *cliState, id string) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("history: missing config (internal error)")
	}

	stor, err := store.NewSQLiteStore(st.cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer stor.Close()

	run, err := stor.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:        %s\n", run.ID)
	fmt.Fprintf(out, "Name:       %s\n", run.Name)
	fmt.Fprintf(out, "Stage:      %s\n", run.Stage)
	fmt.Fprintf(out, "Created:    %s\n", run.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(out, "Instances:  %d\n", run.NInstances)
	fmt.Fprintf(out, "Attempts:   %d\n", run.NAttempts)
	fmt.Fprintf(out, "Execution:  %.2fs\n", run.ExecutionSeconds)
	fmt.Fprintf(out, "Evaluation: %.2fs\n", run.EvaluationSeconds)
	if run.ArtifactPath != "" {
		fmt.Fprintf(out, "Artifact:   %s\n", run.ArtifactPath)
	}

	reports, err := stor.GetReports(cmd.Context(), id)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AGGREGATOR\tOUTER\tINSTANCES")
	sort.Slice(reports, func(i, j int) bool { return reports[i].Aggregator < reports[j].Aggregator })
	for _, rep := range reports {
		fmt.Fprintf(tw, "%s\t%.4f\t%d\n", rep.Aggregator, rep.Outer, len(rep.Inner))
	}
	return tw.Flush()
}
