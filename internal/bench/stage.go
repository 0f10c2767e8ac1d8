package bench

import (
	"context"
	"fmt"
	"reflect"

	"github.com/stellarlinkco/benchlab/internal/stats"
)

// Callable is the unit under test: it maps one instance to a response.
// The response is stored and scored opaquely.
type Callable func(ctx context.Context, inst Instance) (string, error)

// Metric is a stateless scoring strategy, safely reusable across
// instances.
type Metric interface {
	// Name uniquely identifies the metric within a benchmark.
	Name() string
	// Kind tags the output type of Score.
	Kind() stats.Kind
	// Score maps one attempt to a value of the metric's kind, or nil
	// when the attempt cannot be scored (no response).
	Score(inst Instance, att Attempt) any
}

// AggregateReport is one aggregator's output: an outer cross-instance
// scalar plus the per-instance inner values.
type AggregateReport struct {
	Aggregator string             `json:"aggregator"`
	Outer      float64            `json:"outer"`
	Inner      map[string]float64 `json:"inner"`
}

// Aggregator is a stateless two-level reduction over instances.
type Aggregator interface {
	Name() string
	Aggregate(instances []Instance) (AggregateReport, error)
}

// stage bundles what every lifecycle snapshot carries. All fields are
// set once at construction and never mutated afterwards.
type stage struct {
	spec        Spec
	instances   []Instance
	metrics     []Metric
	aggregators []Aggregator
}

// Spec returns the run configuration.
func (s *stage) Spec() Spec { return s.spec }

// Instances returns the ordered instance snapshot. Callers must not
// mutate it; stage transitions clone before writing.
func (s *stage) Instances() []Instance { return s.instances }

// Metrics returns the registered metrics in order.
func (s *stage) Metrics() []Metric { return s.metrics }

// Aggregators returns the registered aggregators in order.
func (s *stage) Aggregators() []Aggregator { return s.aggregators }

// newStage validates the invariants shared by all stages: a valid spec,
// exactly one concrete instance type, and unique metric names.
func newStage(spec Spec, instances []Instance, metrics []Metric, aggregators []Aggregator) (stage, error) {
	if err := spec.Validate(); err != nil {
		return stage{}, err
	}
	if err := checkInstanceTypes(instances); err != nil {
		return stage{}, err
	}
	if err := checkMetricNames(metrics); err != nil {
		return stage{}, err
	}
	return stage{
		spec:        spec,
		instances:   instances,
		metrics:     metrics,
		aggregators: aggregators,
	}, nil
}

func checkInstanceTypes(instances []Instance) error {
	if len(instances) == 0 {
		return nil
	}
	first := reflect.TypeOf(instances[0])
	for _, inst := range instances[1:] {
		if t := reflect.TypeOf(inst); t != first {
			return fmt.Errorf("%w: mixed instance types %s and %s", ErrConsistency, first, t)
		}
	}
	return nil
}

func checkMetricNames(metrics []Metric) error {
	seen := make(map[string]struct{}, len(metrics))
	for _, m := range metrics {
		if m == nil {
			return fmt.Errorf("%w: nil metric", ErrConsistency)
		}
		name := m.Name()
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: metric %q registered twice", ErrConsistency, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func cloneInstances(instances []Instance) []Instance {
	out := make([]Instance, len(instances))
	for i, inst := range instances {
		out[i] = inst.Clone()
	}
	return out
}
