// Package bench implements the benchmark lifecycle: an immutable chain
// of snapshots Benchmark → Execution → Evaluation → Report, where each
// transition is a pure derivation over deep-copied instances.
package bench

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/stellarlinkco/benchlab/internal/executor"
)

// Benchmark is the initial stage: selected but unexecuted instances
// plus the metrics and aggregators that later stages will apply.
type Benchmark struct {
	stage
}

// New selects instances from src per the spec and builds the initial
// stage. Selection precedence: no constraint → everything in source
// order; only NInstance → first NInstance; only InstanceIDs → exactly
// those ids in the given order; both → first min(NInstance,
// len(InstanceIDs)) of InstanceIDs, with a warning since the
// combination is ambiguous.
func New(src Source, spec Spec, metrics []Metric, aggregators []Aggregator) (*Benchmark, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil instance source", ErrConfig)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	selected, err := selectInstances(src, spec)
	if err != nil {
		return nil, err
	}

	st, err := newStage(spec, selected, metrics, aggregators)
	if err != nil {
		return nil, err
	}
	return &Benchmark{stage: st}, nil
}

// NewBenchmark rebuilds a Benchmark from already-selected parts, used
// when restoring from an artifact.
func NewBenchmark(spec Spec, instances []Instance, metrics []Metric, aggregators []Aggregator) (*Benchmark, error) {
	st, err := newStage(spec, instances, metrics, aggregators)
	if err != nil {
		return nil, err
	}
	return &Benchmark{stage: st}, nil
}

func selectInstances(src Source, spec Spec) ([]Instance, error) {
	byID := len(spec.InstanceIDs) > 0
	byCount := spec.NInstance > 0

	if !byID {
		n := src.Len()
		if byCount && spec.NInstance < n {
			n = spec.NInstance
		}
		out := make([]Instance, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, src.At(i))
		}
		return out, nil
	}

	ids := spec.InstanceIDs
	if byCount {
		log.Printf("bench: both n_instance and instance_ids are set; selecting the first %d of instance_ids", spec.NInstance)
		if spec.NInstance < len(ids) {
			ids = ids[:spec.NInstance]
		}
	}

	index := make(map[string]Instance, src.Len())
	for i := 0; i < src.Len(); i++ {
		inst := src.At(i)
		index[inst.ID()] = inst
	}

	out := make([]Instance, 0, len(ids))
	for _, id := range ids {
		inst, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("%w: instance id %q not in source", ErrConfig, id)
		}
		out = append(out, inst)
	}
	return out, nil
}

// Run derives the execution stage: for every instance, NAttempts calls
// of fn under the spec timeout, each attempt recorded with its status
// and runtime. The benchmark's own instances are left untouched. A nil
// exec defaults to the goroutine-isolated executor.
func (b *Benchmark) Run(ctx context.Context, fn Callable, exec executor.Executor) (*Execution, error) {
	if b == nil {
		return nil, errors.New("bench: nil benchmark")
	}
	if ctx == nil {
		return nil, errors.New("bench: nil context")
	}
	if fn == nil {
		return nil, errors.New("bench: nil callable")
	}
	if exec == nil {
		exec = executor.Isolated{}
	}

	start := time.Now()
	instances := cloneInstances(b.instances)

	for _, inst := range instances {
		for attempt := 1; attempt <= b.spec.NAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			inst := inst
			res := exec.Execute(ctx, func(ctx context.Context) (string, error) {
				return fn(ctx, inst)
			}, b.spec.Timeout)

			status := statusFromOutcome(res.Outcome)
			switch status {
			case StatusSuccess:
				log.Printf("bench: instance %s attempt %d/%d ok (%.2fs)", inst.ID(), attempt, b.spec.NAttempts, res.Runtime.Seconds())
			case StatusTimeout:
				log.Printf("bench: instance %s attempt %d/%d timed out after %v", inst.ID(), attempt, b.spec.NAttempts, b.spec.Timeout)
			default:
				log.Printf("bench: instance %s attempt %d/%d failed: %v", inst.ID(), attempt, b.spec.NAttempts, res.Err)
			}

			att, err := NewAttempt(res.Output, res.Runtime, status)
			if err != nil {
				return nil, err
			}
			if err := inst.AddAttempt(att); err != nil {
				return nil, err
			}
		}
	}

	spec := b.spec.WithExecutionTime(time.Since(start))
	st, err := newStage(spec, instances, b.metrics, b.aggregators)
	if err != nil {
		return nil, err
	}
	return &Execution{stage: st}, nil
}

func statusFromOutcome(o executor.Outcome) Status {
	switch o {
	case executor.Success:
		return StatusSuccess
	case executor.Timeout:
		return StatusTimeout
	default:
		return StatusFailure
	}
}
