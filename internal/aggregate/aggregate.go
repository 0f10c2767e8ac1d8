// Package aggregate provides the built-in cross-instance reductions.
// Each aggregator computes an inner per-instance value, then an outer
// scalar over the inner values.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/stellarlinkco/benchlab/internal/bench"
)

// ByName builds an aggregator from its registered name. Consensus
// takes its target metric after a colon: "consensus:exact_match".
func ByName(name string) (bench.Aggregator, error) {
	name = strings.TrimSpace(name)
	if target, ok := strings.CutPrefix(name, "consensus:"); ok {
		target = strings.TrimSpace(target)
		if target == "" {
			return nil, fmt.Errorf("aggregate: consensus needs a target metric, e.g. consensus:exact_match")
		}
		return Consensus{Target: target}, nil
	}
	switch name {
	case "runtimes":
		return Runtimes{}, nil
	case "status":
		return StatusRate{}, nil
	default:
		return nil, fmt.Errorf("aggregate: unknown aggregator %q", name)
	}
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// geoMean is the geometric mean in log space; any non-positive entry
// collapses the result to 0.
func geoMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var logSum float64
	for _, v := range values {
		if v <= 0 {
			return 0
		}
		logSum += math.Log(v)
	}
	return math.Exp(logSum / float64(len(values)))
}
