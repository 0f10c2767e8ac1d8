// Package metric provides the built-in scoring strategies. Each metric
// is stateless and maps (instance, attempt) to a typed, possibly-nil
// score; attempts without a response score nil rather than erroring.
package metric

import (
	"fmt"
	"strings"

	"github.com/stellarlinkco/benchlab/internal/bench"
)

// ByName builds a metric from its registered name, for config-driven
// wiring.
func ByName(name string) (bench.Metric, error) {
	switch strings.TrimSpace(name) {
	case "exact_match":
		return ExactMatch{}, nil
	case "numeric_error":
		return NumericError{}, nil
	case "answer_choice":
		return AnswerChoice{}, nil
	default:
		return nil, fmt.Errorf("metric: unknown metric %q", name)
	}
}
