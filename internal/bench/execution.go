package bench

import (
	"errors"
	"log"
	"time"
)

// Execution is the stage after Run: every instance carries its ordered
// attempts, no scores yet.
type Execution struct {
	stage
}

// NewExecution rebuilds an Execution from parts, used when restoring
// from an artifact.
func NewExecution(spec Spec, instances []Instance, metrics []Metric, aggregators []Aggregator) (*Execution, error) {
	st, err := newStage(spec, instances, metrics, aggregators)
	if err != nil {
		return nil, err
	}
	return &Execution{stage: st}, nil
}

// Evaluate derives the evaluation stage: for each metric, for each
// instance, one score per attempt in attempt order. Metrics that
// cannot score an attempt record nil rather than failing, so a single
// timed-out attempt never unwinds the pipeline.
func (e *Execution) Evaluate() (*Evaluation, error) {
	if e == nil {
		return nil, errors.New("bench: nil execution")
	}

	start := time.Now()
	instances := cloneInstances(e.instances)

	for _, metric := range e.metrics {
		for _, inst := range instances {
			if _, done := inst.Scores()[metric.Name()]; done {
				log.Printf("bench: metric %q already evaluated on instance %s; overwriting", metric.Name(), inst.ID())
			}
			inst.SetScores(metric.Name(), scoreAttempts(metric, inst))
		}
	}

	spec := e.spec.WithEvaluationTime(time.Since(start))
	st, err := newStage(spec, instances, e.metrics, e.aggregators)
	if err != nil {
		return nil, err
	}
	return &Evaluation{stage: st}, nil
}

// scoreAttempts applies one metric to every attempt of one instance,
// preserving attempt order. The instance passed to Score is read-only
// from the metric's point of view.
func scoreAttempts(metric Metric, inst Instance) []any {
	attempts := inst.Attempts()
	out := make([]any, len(attempts))
	for i, att := range attempts {
		out[i] = metric.Score(inst, att)
	}
	return out
}
