// Package artifact serializes lifecycle stages to a self-describing
// JSON form and restores them through an explicit type registry. A
// stage recorded at rank X can rebuild any stage of rank ≤ X; trailing
// data the earlier stage cannot hold is discarded on the way down.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stellarlinkco/benchlab/internal/bench"
)

var (
	// ErrCorrupted marks artifacts with missing metadata, unresolvable
	// type tags or structurally invalid records.
	ErrCorrupted = errors.New("artifact: corrupted artifact")

	// ErrStageOrder marks an attempt to build a later stage from an
	// earlier artifact.
	ErrStageOrder = errors.New("artifact: incompatible stage")
)

// Stage names a lifecycle snapshot in the serialized form.
type Stage string

const (
	StageBenchmark  Stage = "Benchmark"
	StageExecution  Stage = "BenchmarkExec"
	StageEvaluation Stage = "BenchmarkEval"
	StageReport     Stage = "BenchmarkReport"
)

var stageRanks = map[Stage]int{
	StageBenchmark:  1,
	StageExecution:  2,
	StageEvaluation: 3,
	StageReport:     4,
}

// Rank orders stages along the pipeline; unknown stages rank 0.
func (s Stage) Rank() int { return stageRanks[s] }

// Metadata identifies the serialized stage container.
type Metadata struct {
	ClassName   string `json:"class_name"`
	ClassModule string `json:"class_module"`
}

type typeRef struct {
	ClassModule string `json:"class_module"`
	ClassName   string `json:"class_name"`
}

// envelope is the on-disk artifact shape.
type envelope struct {
	Metadata    Metadata                `json:"metadata"`
	Spec        bench.Spec              `json:"spec"`
	Instances   []json.RawMessage       `json:"instances"`
	Metrics     []typeRef               `json:"metrics"`
	Aggregators []json.RawMessage       `json:"aggregators"`
	Reports     []bench.AggregateReport `json:"reports,omitempty"`
}

// requireRank fails when an artifact recorded at `from` is asked to
// build the later stage `to`.
func requireRank(from, to Stage) error {
	if from.Rank() == 0 {
		return fmt.Errorf("%w: unknown stage %q", ErrCorrupted, string(from))
	}
	if from.Rank() < to.Rank() {
		return fmt.Errorf("%w: cannot build a %s from a %s artifact; %s requires data recorded at stage %s or later",
			ErrStageOrder, to, from, to, to)
	}
	return nil
}
