package aggregate

import "github.com/stellarlinkco/benchlab/internal/bench"

// Runtimes reduces attempt runtimes: inner is the median runtime of an
// instance's successful attempts, outer the geometric mean of the
// inner values. Instances without a successful attempt are skipped.
type Runtimes struct{}

// Name returns the aggregator identifier.
func (Runtimes) Name() string { return "runtimes" }

// Aggregate implements bench.Aggregator.
func (Runtimes) Aggregate(instances []bench.Instance) (bench.AggregateReport, error) {
	inner := make(map[string]float64)
	medians := make([]float64, 0, len(instances))

	for _, inst := range instances {
		var runtimes []float64
		for _, att := range inst.Attempts() {
			if !att.Succeeded() || att.Runtime == nil {
				continue
			}
			runtimes = append(runtimes, *att.Runtime)
		}
		if len(runtimes) == 0 {
			continue
		}
		m := median(runtimes)
		inner[inst.ID()] = m
		medians = append(medians, m)
	}

	return bench.AggregateReport{
		Aggregator: Runtimes{}.Name(),
		Outer:      geoMean(medians),
		Inner:      inner,
	}, nil
}
