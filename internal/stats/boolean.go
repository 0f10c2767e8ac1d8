package stats

import (
	"fmt"
	"math"
)

// Two-sided z critical values for the supported confidence levels.
var zTable = map[float64]float64{
	0.90: 1.6448536269514722,
	0.95: 1.959963984540054,
	0.99: 2.5758293035489004,
}

// BooleanStats summarizes a boolean metric: counts of true and false
// among the non-null scores.
type BooleanStats struct {
	Metric string `json:"metric_name"`
	NTotal int    `json:"n_attempts"`
	NValid int    `json:"n_valid_attempts"`
	NTrue  int    `json:"n_true"`
	NFalse int    `json:"n_false"`
}

func (s *BooleanStats) MetricName() string { return s.Metric }
func (s *BooleanStats) Attempts() int      { return s.NTotal }
func (s *BooleanStats) ValidAttempts() int { return s.NValid }

// Proportion is the fraction of true among valid scores, 0 if none.
func (s *BooleanStats) Proportion() float64 {
	if s.NValid == 0 {
		return 0
	}
	return float64(s.NTrue) / float64(s.NValid)
}

// ConfidenceInterval computes the Wilson score interval for the true
// proportion at one of the supported levels (0.90, 0.95, 0.99). The
// result is clamped to [0, 1]; a summary with no valid scores yields
// (0, 0).
func (s *BooleanStats) ConfidenceInterval(level float64) (lower, upper float64, err error) {
	z, ok := zTable[level]
	if !ok {
		return 0, 0, fmt.Errorf("stats: unsupported confidence level %v (use 0.90, 0.95 or 0.99)", level)
	}
	if s.NValid == 0 {
		return 0, 0, nil
	}

	n := float64(s.NValid)
	p := float64(s.NTrue) / n

	denom := 1 + z*z/n
	center := (p + z*z/(2*n)) / denom
	margin := z * math.Sqrt((p*(1-p)+z*z/(4*n))/n) / denom

	return math.Max(0, center-margin), math.Min(1, center+margin), nil
}

func booleanFromEval(metric string, values []any) (*BooleanStats, error) {
	out := &BooleanStats{Metric: metric, NTotal: len(values)}
	for i, v := range values {
		if v == nil {
			continue
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("stats: %s: value %d is %T, want bool", metric, i, v)
		}
		out.NValid++
		if b {
			out.NTrue++
		} else {
			out.NFalse++
		}
	}
	if out.NValid == 0 {
		return nil, fmt.Errorf("%w for metric %q", ErrInsufficientData, metric)
	}
	return out, nil
}

func poolBoolean(first *BooleanStats, list []Stats) (*BooleanStats, error) {
	out := &BooleanStats{Metric: first.Metric}
	for _, s := range list {
		b, ok := s.(*BooleanStats)
		if !ok {
			return nil, fmt.Errorf("stats: mixed stats types %T and %T", first, s)
		}
		out.NTotal += b.NTotal
		out.NValid += b.NValid
		out.NTrue += b.NTrue
	}
	out.NFalse = out.NValid - out.NTrue
	return out, nil
}
