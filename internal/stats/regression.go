package stats

import (
	"fmt"
	"math"
)

// RegressionStats summarizes a numeric metric with population moments
// (ddof=0) over the non-null scores.
type RegressionStats struct {
	Metric string  `json:"metric_name"`
	NTotal int     `json:"n_attempts"`
	NValid int     `json:"n_valid_attempts"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func (s *RegressionStats) MetricName() string { return s.Metric }
func (s *RegressionStats) Attempts() int      { return s.NTotal }
func (s *RegressionStats) ValidAttempts() int { return s.NValid }

func regressionFromEval(metric string, values []any) (*RegressionStats, error) {
	var valid []float64
	for i, v := range values {
		if v == nil {
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("stats: %s: value %d is %T, want number", metric, i, v)
		}
		valid = append(valid, f)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w for metric %q", ErrInsufficientData, metric)
	}

	out := &RegressionStats{
		Metric: metric,
		NTotal: len(values),
		NValid: len(valid),
		Min:    valid[0],
		Max:    valid[0],
	}

	var sum float64
	for _, f := range valid {
		sum += f
		out.Min = math.Min(out.Min, f)
		out.Max = math.Max(out.Max, f)
	}
	out.Mean = sum / float64(len(valid))

	var sq float64
	for _, f := range valid {
		d := f - out.Mean
		sq += d * d
	}
	out.Std = math.Sqrt(sq / float64(len(valid)))

	return out, nil
}

// poolRegression pools per-group moments: the mean is weighted by each
// group's valid count and the variance follows the law of total
// variance, Σ nᵢ·(stdᵢ² + (meanᵢ−mean)²) / Σnᵢ.
func poolRegression(first *RegressionStats, list []Stats) (*RegressionStats, error) {
	out := &RegressionStats{
		Metric: first.Metric,
		Min:    first.Min,
		Max:    first.Max,
	}

	var weighted float64
	groups := make([]*RegressionStats, 0, len(list))
	for _, s := range list {
		r, ok := s.(*RegressionStats)
		if !ok {
			return nil, fmt.Errorf("stats: mixed stats types %T and %T", first, s)
		}
		groups = append(groups, r)
		out.NTotal += r.NTotal
		out.NValid += r.NValid
		out.Min = math.Min(out.Min, r.Min)
		out.Max = math.Max(out.Max, r.Max)
		weighted += r.Mean * float64(r.NValid)
	}
	if out.NValid == 0 {
		return nil, fmt.Errorf("%w for metric %q", ErrInsufficientData, first.Metric)
	}
	out.Mean = weighted / float64(out.NValid)

	var varSum float64
	for _, r := range groups {
		d := r.Mean - out.Mean
		varSum += float64(r.NValid) * (r.Std*r.Std + d*d)
	}
	out.Std = math.Sqrt(varSum / float64(out.NValid))

	return out, nil
}
