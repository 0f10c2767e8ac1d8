package aggregate

import "github.com/stellarlinkco/benchlab/internal/bench"

// StatusRate reduces attempt statuses: inner is the median of
// per-attempt success flags for one instance, outer the arithmetic
// mean of the inner values weighted by attempt count. Instances with
// zero attempts are skipped.
type StatusRate struct{}

// Name returns the aggregator identifier.
func (StatusRate) Name() string { return "status" }

// Aggregate implements bench.Aggregator.
func (StatusRate) Aggregate(instances []bench.Instance) (bench.AggregateReport, error) {
	inner := make(map[string]float64)

	var weightedSum, totalWeight float64
	for _, inst := range instances {
		attempts := inst.Attempts()
		if len(attempts) == 0 {
			continue
		}

		flags := make([]float64, len(attempts))
		for i, att := range attempts {
			if att.Succeeded() {
				flags[i] = 1
			}
		}

		rate := median(flags)
		inner[inst.ID()] = rate

		weight := float64(len(attempts))
		weightedSum += rate * weight
		totalWeight += weight
	}

	outer := 0.0
	if totalWeight > 0 {
		outer = weightedSum / totalWeight
	}

	return bench.AggregateReport{
		Aggregator: StatusRate{}.Name(),
		Outer:      outer,
		Inner:      inner,
	}, nil
}
