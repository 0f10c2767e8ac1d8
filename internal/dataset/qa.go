// Package dataset provides instance sources: in-memory slices and
// JSONL files, plus the question/answer instance type they load.
package dataset

import (
	"github.com/stellarlinkco/benchlab/internal/artifact"
	"github.com/stellarlinkco/benchlab/internal/bench"
)

func init() {
	artifact.RegisterInstance("QAInstance", func() bench.Instance { return &QAInstance{} })
}

// QAInstance is one labeled question: a task prompt and its reference
// answer.
type QAInstance struct {
	bench.Record

	InstanceID string `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"ground_truth"`
}

// ID returns the unique instance id.
func (q *QAInstance) ID() string { return q.InstanceID }

// GroundTruth returns the reference answer.
func (q *QAInstance) GroundTruth() string { return q.Answer }

// Clone returns a deep copy.
func (q *QAInstance) Clone() bench.Instance {
	out := *q
	out.Record = q.Record.CloneRecord()
	return &out
}

// Slice is an in-memory instance source.
type Slice []bench.Instance

// Len implements bench.Source.
func (s Slice) Len() int { return len(s) }

// At implements bench.Source.
func (s Slice) At(i int) bench.Instance { return s[i] }
