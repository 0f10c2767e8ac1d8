// Package stats summarizes per-attempt metric scores and pools summaries
// across instances without revisiting the underlying values.
package stats

import (
	"errors"
	"fmt"
)

// Kind tags the output type a metric produces.
type Kind string

const (
	Boolean     Kind = "boolean"
	Regression  Kind = "regression"
	Categorical Kind = "categorical"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case Boolean, Regression, Categorical:
		return true
	}
	return false
}

// ErrInsufficientData is returned when every value in the input is null.
var ErrInsufficientData = errors.New("stats: no valid values")

// Stats is a per-metric summary over one scope (a single instance's
// attempts, or a pool of instances).
type Stats interface {
	// MetricName identifies the metric the summary belongs to.
	MetricName() string
	// Attempts is the number of scored attempts, null scores included.
	Attempts() int
	// ValidAttempts is the number of non-null scores.
	ValidAttempts() int
}

// FromEval summarizes one instance's nullable per-attempt values for the
// given kind. A nil entry in values marks an attempt that produced no
// score (failed or timed out).
func FromEval(kind Kind, metric string, values []any) (Stats, error) {
	switch kind {
	case Boolean:
		return booleanFromEval(metric, values)
	case Regression:
		return regressionFromEval(metric, values)
	case Categorical:
		return categoricalFromEval(metric, values)
	default:
		return nil, fmt.Errorf("stats: unknown kind %q", kind)
	}
}

// Pool combines per-instance summaries into one, algebraically equal to
// calling FromEval on the concatenation of the underlying values. All
// entries must carry the same metric name and concrete type.
func Pool(list []Stats) (Stats, error) {
	if len(list) == 0 {
		return nil, errors.New("stats: empty stats list")
	}

	name := list[0].MetricName()
	for _, s := range list[1:] {
		if s.MetricName() != name {
			return nil, fmt.Errorf("stats: mixed metrics %q and %q", name, s.MetricName())
		}
	}

	switch first := list[0].(type) {
	case *BooleanStats:
		return poolBoolean(first, list)
	case *RegressionStats:
		return poolRegression(first, list)
	case *CategoricalStats:
		return poolCategorical(first, list)
	default:
		return nil, fmt.Errorf("stats: unknown stats type %T", list[0])
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
