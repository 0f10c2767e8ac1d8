package aggregate

import (
	"fmt"

	"github.com/stellarlinkco/benchlab/internal/bench"
)

// Consensus is a majority vote over a target metric: inner is the
// fraction of an instance's attempts scored positive, outer is 1 when
// the mean inner value exceeds 0.5 and 0 otherwise. An empty instance
// list or an instance never scored for the target is an error;
// instances with zero attempts are skipped.
type Consensus struct {
	Target string `json:"target"`
}

// Name returns the aggregator identifier.
func (c Consensus) Name() string { return "consensus:" + c.Target }

// Aggregate implements bench.Aggregator.
func (c Consensus) Aggregate(instances []bench.Instance) (bench.AggregateReport, error) {
	if len(instances) == 0 {
		return bench.AggregateReport{}, fmt.Errorf("aggregate: consensus over empty instance list")
	}

	inner := make(map[string]float64)
	var sum float64
	counted := 0

	for _, inst := range instances {
		if len(inst.Attempts()) == 0 {
			continue
		}
		scores, ok := inst.Scores()[c.Target]
		if !ok {
			return bench.AggregateReport{}, fmt.Errorf("aggregate: instance %s has no scores for metric %q", inst.ID(), c.Target)
		}

		positive := 0
		for _, v := range scores {
			if isPositive(v) {
				positive++
			}
		}

		rate := 0.0
		if len(scores) > 0 {
			rate = float64(positive) / float64(len(scores))
		}
		inner[inst.ID()] = rate
		sum += rate
		counted++
	}

	outer := 0.0
	if counted > 0 && sum/float64(counted) > 0.5 {
		outer = 1
	}

	return bench.AggregateReport{
		Aggregator: c.Name(),
		Outer:      outer,
		Inner:      inner,
	}, nil
}

func isPositive(v any) bool {
	switch n := v.(type) {
	case bool:
		return n
	case float64:
		return n > 0
	case int:
		return n > 0
	default:
		return false
	}
}
