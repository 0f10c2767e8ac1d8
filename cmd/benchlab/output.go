package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/stellarlinkco/benchlab/internal/bench"
	"github.com/stellarlinkco/benchlab/internal/stats"
)

// printReport renders the final stage: one table with the aggregator
// outputs, one with the pooled per-metric summaries.
func printReport(w io.Writer, report *bench.Report) error {
	if report == nil {
		return fmt.Errorf("output: nil report")
	}

	spec := report.Spec()
	fmt.Fprintf(w, "Benchmark: %s\n", spec.Name)
	fmt.Fprintf(w, "Instances: %d  Attempts: %d  Execution: %.2fs  Evaluation: %.2fs\n\n",
		len(report.Instances()), spec.NAttempts,
		spec.ExecutionTime.Seconds(), spec.EvaluationTime.Seconds())

	printAggregates(w, report.Reports())

	summaries, err := report.MetricSummaries()
	if err != nil {
		return err
	}
	printSummaries(w, summaries)
	return nil
}

func printAggregates(w io.Writer, reports []bench.AggregateReport) {
	if len(reports) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AGGREGATOR\tOUTER\tINSTANCES")
	for _, rep := range reports {
		fmt.Fprintf(tw, "%s\t%.4f\t%d\n", rep.Aggregator, rep.Outer, len(rep.Inner))
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func printSummaries(w io.Writer, summaries map[string]stats.Stats) {
	if len(summaries) == 0 {
		return
	}
	names := make([]string, 0, len(summaries))
	for name := range summaries {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tATTEMPTS\tVALID\tSUMMARY")
	for _, name := range names {
		s := summaries[name]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", name, s.Attempts(), s.ValidAttempts(), summaryCell(s))
	}
	_ = tw.Flush()
}

func summaryCell(s stats.Stats) string {
	switch v := s.(type) {
	case *stats.BooleanStats:
		cell := fmt.Sprintf("rate=%.4f", v.Proportion())
		if lo, hi, err := v.ConfidenceInterval(0.95); err == nil {
			cell += fmt.Sprintf(" ci95=[%.4f, %.4f]", lo, hi)
		}
		return cell
	case *stats.RegressionStats:
		return fmt.Sprintf("mean=%.4f std=%.4f min=%.4f max=%.4f", v.Mean, v.Std, v.Min, v.Max)
	case *stats.CategoricalStats:
		return fmt.Sprintf("mode=%s freq=%.4f", v.Mode, v.Frequencies[v.Mode])
	default:
		return fmt.Sprintf("%v", s)
	}
}
