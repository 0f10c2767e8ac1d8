package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stellarlinkco/benchlab/internal/aggregate"
	"github.com/stellarlinkco/benchlab/internal/artifact"
	"github.com/stellarlinkco/benchlab/internal/bench"
	"github.com/stellarlinkco/benchlab/internal/config"
	"github.com/stellarlinkco/benchlab/internal/dataset"
	"github.com/stellarlinkco/benchlab/internal/executor"
	"github.com/stellarlinkco/benchlab/internal/metric"
	"github.com/stellarlinkco/benchlab/internal/store"
)

type runOptions struct {
	dataset  string
	attempts int
	timeout  time.Duration
	output   string
	noStore  bool
}

func newRunCmd(st *cliState) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute, evaluate and report a benchmark",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "JSONL dataset path (overrides config)")
	cmd.Flags().IntVar(&opts.attempts, "attempts", -1, "attempts per instance (overrides config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", -1, "per-attempt timeout (overrides config)")
	cmd.Flags().StringVar(&opts.output, "output", "", "artifact directory (overrides config)")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "skip writing run history")

	return cmd
}

func runBenchmark(cmd *cobra.Command, st *cliState, opts *runOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("run: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("run: nil options")
	}

	cfg := st.cfg
	if strings.TrimSpace(cfg.Command.Name) == "" {
		return fmt.Errorf("run: config is missing command.name")
	}

	datasetPath := cfg.Benchmark.Dataset
	if strings.TrimSpace(opts.dataset) != "" {
		datasetPath = opts.dataset
	}
	if strings.TrimSpace(datasetPath) == "" {
		return fmt.Errorf("run: no dataset configured (set benchmark.dataset or --dataset)")
	}

	spec, err := specFromConfig(cfg, opts)
	if err != nil {
		return err
	}

	metrics, err := resolveMetrics(cfg.Benchmark.Metrics)
	if err != nil {
		return err
	}
	aggregators, err := resolveAggregators(cfg.Benchmark.Aggregators)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	src, err := dataset.LoadJSONL(ctx, datasetPath)
	if err != nil {
		return err
	}

	b, err := bench.New(src, spec, metrics, aggregators)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Running %q: %d instances x %d attempts\n",
		spec.Name, len(b.Instances()), spec.NAttempts)

	execution, err := b.Run(ctx, commandCallable(cfg.Command), executor.Isolated{})
	if err != nil {
		return err
	}
	evaluation, err := execution.Evaluate()
	if err != nil {
		return err
	}
	report, err := evaluation.Report()
	if err != nil {
		return err
	}

	outDir := cfg.Output.Dir
	if strings.TrimSpace(opts.output) != "" {
		outDir = opts.output
	}
	artifactPath, err := writeArtifacts(report, outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Artifacts written to %s\n\n", artifactPath)

	if err := printReport(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if opts.noStore || cfg.Storage.Type == "none" {
		return nil
	}
	return saveRun(ctx, cfg, report, artifactPath)
}

func specFromConfig(cfg *config.Config, opts *runOptions) (bench.Spec, error) {
	spec := bench.NewSpec()
	if name := strings.TrimSpace(cfg.Benchmark.Name); name != "" {
		spec.Name = name
	}
	spec.InstanceIDs = cfg.Benchmark.InstanceIDs
	spec.NInstance = cfg.Benchmark.NInstance
	if cfg.Benchmark.Attempts > 0 {
		spec.NAttempts = cfg.Benchmark.Attempts
	}
	if opts.attempts >= 0 {
		spec.NAttempts = opts.attempts
	}
	spec.Timeout = cfg.Benchmark.Timeout
	if opts.timeout >= 0 {
		spec.Timeout = opts.timeout
	}
	if err := spec.Validate(); err != nil {
		return bench.Spec{}, err
	}
	return spec, nil
}

func resolveMetrics(names []string) ([]bench.Metric, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("run: no metrics configured")
	}
	out := make([]bench.Metric, 0, len(names))
	for _, name := range names {
		m, err := metric.ByName(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func resolveAggregators(names []string) ([]bench.Aggregator, error) {
	out := make([]bench.Aggregator, 0, len(names))
	for _, name := range names {
		a, err := aggregate.ByName(name)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// commandCallable adapts the configured subprocess into a Callable: it
// feeds one instance as JSON on stdin and reads the response from
// stdout.
func commandCallable(cfg config.CommandConfig) bench.Callable {
	fn := executor.Command(cfg.Name, cfg.Args...)
	return func(ctx context.Context, inst bench.Instance) (string, error) {
		payload, err := json.Marshal(inst)
		if err != nil {
			return "", fmt.Errorf("run: encode instance %s: %w", inst.ID(), err)
		}
		return fn(ctx, string(payload))
	}
}

func writeArtifacts(report *bench.Report, dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "artifacts"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("run: create artifact dir: %w", err)
	}

	base := filepath.Join(dir, report.Spec().Name)

	data, err := artifact.Encode(report)
	if err != nil {
		return "", err
	}
	jsonPath := base + ".json"
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", fmt.Errorf("run: write artifact: %w", err)
	}

	csvData, err := artifact.EncodeCSV(report)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(base+".csv", csvData, 0o644); err != nil {
		return "", fmt.Errorf("run: write csv: %w", err)
	}
	return jsonPath, nil
}

func saveRun(ctx context.Context, cfg *config.Config, report *bench.Report, artifactPath string) error {
	stor, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer stor.Close()

	spec := report.Spec()
	run := &store.RunRecord{
		ID:                uuid.NewString(),
		Name:              spec.Name,
		Stage:             string(artifact.StageReport),
		CreatedAt:         time.Now().UTC(),
		NInstances:        len(report.Instances()),
		NAttempts:         spec.NAttempts,
		ExecutionSeconds:  spec.ExecutionTime.Seconds(),
		EvaluationSeconds: spec.EvaluationTime.Seconds(),
		ArtifactPath:      artifactPath,
	}

	var reports []*store.ReportRecord
	for _, rep := range report.Reports() {
		reports = append(reports, &store.ReportRecord{
			RunID:      run.ID,
			Aggregator: rep.Aggregator,
			Outer:      rep.Outer,
			Inner:      rep.Inner,
		})
	}
	return stor.SaveRun(ctx, run, reports)
}
