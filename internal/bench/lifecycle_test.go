package bench

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stellarlinkco/benchlab/internal/stats"
)

func newRunBenchmark(t *testing.T, nInstances, nAttempts int) *Benchmark {
	t.Helper()
	spec := Spec{Name: "lifecycle", NAttempts: nAttempts}
	b, err := New(newTestSource(nInstances), spec,
		[]Metric{matchMetric{name: "match"}},
		[]Aggregator{countAggregator{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestRun_RecordsAttempts(t *testing.T) {
	b := newRunBenchmark(t, 2, 3)

	exec, err := b.Run(context.Background(), echoTruth, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, inst := range exec.Instances() {
		attempts := inst.Attempts()
		if len(attempts) != 3 {
			t.Fatalf("instance %s: got %d attempts want 3", inst.ID(), len(attempts))
		}
		for _, att := range attempts {
			if att.Status != StatusSuccess {
				t.Fatalf("instance %s: status %q", inst.ID(), att.Status)
			}
			if att.Response == nil || *att.Response != inst.GroundTruth() {
				t.Fatalf("instance %s: response %v", inst.ID(), att.Response)
			}
			if att.Runtime == nil || *att.Runtime < 0 {
				t.Fatalf("instance %s: runtime %v", inst.ID(), att.Runtime)
			}
		}
	}

	if exec.Spec().ExecutionTime <= 0 {
		t.Fatalf("execution time not recorded: %v", exec.Spec().ExecutionTime)
	}
}

func TestRun_DoesNotMutateBenchmark(t *testing.T) {
	b := newRunBenchmark(t, 1, 2)

	if _, err := b.Run(context.Background(), echoTruth, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if n := len(b.Instances()[0].Attempts()); n != 0 {
		t.Fatalf("benchmark instance gained %d attempts", n)
	}
	if b.Spec().ExecutionTime != 0 {
		t.Fatalf("benchmark spec mutated: %v", b.Spec().ExecutionTime)
	}
}

func TestRun_FailedAttemptRecorded(t *testing.T) {
	b := newRunBenchmark(t, 1, 1)

	exec, err := b.Run(context.Background(), func(ctx context.Context, inst Instance) (string, error) {
		return "", errors.New("model unavailable")
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	att := exec.Instances()[0].Attempts()[0]
	if att.Status != StatusFailure {
		t.Fatalf("status: got %q want %q", att.Status, StatusFailure)
	}
	if att.Response != nil {
		t.Fatalf("response: got %q want nil", *att.Response)
	}
}

func TestRun_TimeoutRecorded(t *testing.T) {
	spec := Spec{Name: "b", NAttempts: 1, Timeout: 50 * time.Millisecond}
	b, err := New(newTestSource(1), spec, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	exec, err := b.Run(context.Background(), func(ctx context.Context, inst Instance) (string, error) {
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
		}
		return "late", nil
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	att := exec.Instances()[0].Attempts()[0]
	if att.Status != StatusTimeout {
		t.Fatalf("status: got %q want %q", att.Status, StatusTimeout)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	b := newRunBenchmark(t, 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := b.Run(ctx, echoTruth, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run: got %v want context.Canceled", err)
	}
}

func TestEvaluate_ScoresEveryAttempt(t *testing.T) {
	b := newRunBenchmark(t, 2, 2)

	exec, err := b.Run(context.Background(), echoTruth, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	eval, err := exec.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	for _, inst := range eval.Instances() {
		scores, ok := inst.Scores()["match"]
		if !ok {
			t.Fatalf("instance %s: no scores", inst.ID())
		}
		if len(scores) != 2 {
			t.Fatalf("instance %s: got %d scores want 2", inst.ID(), len(scores))
		}
		for i, v := range scores {
			if v != true {
				t.Fatalf("instance %s score %d: got %v want true", inst.ID(), i, v)
			}
		}
	}

	// execution stays unscored
	for _, inst := range exec.Instances() {
		if inst.Scores() != nil {
			t.Fatalf("execution instance gained scores")
		}
	}
}

func TestEvaluate_NilScoreForMissingResponse(t *testing.T) {
	b := newRunBenchmark(t, 1, 1)

	exec, err := b.Run(context.Background(), func(ctx context.Context, inst Instance) (string, error) {
		return "", errors.New("down")
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	eval, err := exec.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	scores := eval.Instances()[0].Scores()["match"]
	if len(scores) != 1 || scores[0] != nil {
		t.Fatalf("scores: got %v want [nil]", scores)
	}
}

func TestReport_AggregatesAndSummaries(t *testing.T) {
	b := newRunBenchmark(t, 2, 3)

	exec, err := b.Run(context.Background(), echoTruth, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	eval, err := exec.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	report, err := eval.Report()
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	reports := report.Reports()
	if len(reports) != 1 {
		t.Fatalf("reports: got %d want 1", len(reports))
	}
	rep := reports[0]
	if rep.Aggregator != "count" {
		t.Fatalf("aggregator: got %q", rep.Aggregator)
	}
	if rep.Outer != 6 {
		t.Fatalf("outer: got %v want 6", rep.Outer)
	}
	if len(rep.Inner) != 2 || rep.Inner["inst-0"] != 3 {
		t.Fatalf("inner: got %v", rep.Inner)
	}

	summaries, err := report.MetricSummaries()
	if err != nil {
		t.Fatalf("MetricSummaries: %v", err)
	}
	s, ok := summaries["match"].(*stats.BooleanStats)
	if !ok {
		t.Fatalf("summary: got %T", summaries["match"])
	}
	if s.NTotal != 6 || s.NTrue != 6 {
		t.Fatalf("summary: got %+v", s)
	}
}

func TestMetricSummaries_SkipsUnscorableInstances(t *testing.T) {
	// one instance answers, one always fails; the failing one must be
	// excluded from the pool rather than sinking the whole summary
	b := newRunBenchmark(t, 2, 1)

	exec, err := b.Run(context.Background(), func(ctx context.Context, inst Instance) (string, error) {
		if inst.ID() == "inst-0" {
			return inst.GroundTruth(), nil
		}
		return "", errors.New("down")
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	eval, err := exec.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	report, err := eval.Report()
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	summaries, err := report.MetricSummaries()
	if err != nil {
		t.Fatalf("MetricSummaries: %v", err)
	}
	s := summaries["match"].(*stats.BooleanStats)
	if s.NTotal != 1 || s.NTrue != 1 {
		t.Fatalf("summary: got %+v", s)
	}
}
