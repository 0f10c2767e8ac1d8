package store

import (
	"context"
	"time"
)

// RunWriter defines persistence for finished benchmark runs.
type RunWriter interface {
	SaveRun(ctx context.Context, run *RunRecord, reports []*ReportRecord) error
}

// RunReader defines read access to run history.
type RunReader interface {
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]*RunRecord, error)
	GetReports(ctx context.Context, runID string) ([]*ReportRecord, error)
}

// Store defines persistence for benchmark run history.
type Store interface {
	RunWriter
	RunReader
	Close() error
}

// RunRecord stores one benchmark run summary.
type RunRecord struct {
	ID                string
	Name              string
	Stage             string
	CreatedAt         time.Time
	NInstances        int
	NAttempts         int
	ExecutionSeconds  float64
	EvaluationSeconds float64
	ArtifactPath      string
}

// ReportRecord stores one aggregator output of a run.
type ReportRecord struct {
	RunID      string
	Aggregator string
	Outer      float64
	Inner      map[string]float64 // JSON serialized
}
