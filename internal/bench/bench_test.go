package bench

import (
	"context"
	"fmt"

	"github.com/stellarlinkco/benchlab/internal/stats"
)

// testInstance is a minimal instance for exercising the lifecycle.
type testInstance struct {
	Record

	InstanceID string `json:"id"`
	Truth      string `json:"ground_truth"`
}

func (t *testInstance) ID() string          { return t.InstanceID }
func (t *testInstance) GroundTruth() string { return t.Truth }

func (t *testInstance) Clone() Instance {
	out := *t
	out.Record = t.Record.CloneRecord()
	return &out
}

type testSource []Instance

func (s testSource) Len() int          { return len(s) }
func (s testSource) At(i int) Instance { return s[i] }

func newTestSource(n int) testSource {
	out := make(testSource, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &testInstance{
			InstanceID: fmt.Sprintf("inst-%d", i),
			Truth:      fmt.Sprintf("truth-%d", i),
		})
	}
	return out
}

// matchMetric scores an attempt true when the response equals the
// ground truth, nil when there is no response.
type matchMetric struct{ name string }

func (m matchMetric) Name() string     { return m.name }
func (m matchMetric) Kind() stats.Kind { return stats.Boolean }

func (m matchMetric) Score(inst Instance, att Attempt) any {
	if att.Response == nil {
		return nil
	}
	return *att.Response == inst.GroundTruth()
}

// countAggregator reports the attempt count per instance and the total
// across instances.
type countAggregator struct{}

func (countAggregator) Name() string { return "count" }

func (countAggregator) Aggregate(instances []Instance) (AggregateReport, error) {
	rep := AggregateReport{Aggregator: "count", Inner: make(map[string]float64)}
	for _, inst := range instances {
		n := float64(len(inst.Attempts()))
		rep.Inner[inst.ID()] = n
		rep.Outer += n
	}
	return rep, nil
}

// echoTruth answers every instance with its ground truth.
func echoTruth(ctx context.Context, inst Instance) (string, error) {
	return inst.GroundTruth(), nil
}
