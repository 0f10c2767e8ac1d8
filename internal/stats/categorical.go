package stats

import (
	"fmt"
	"sort"
	"strconv"
)

// CategoricalStats summarizes a label-valued metric: counts and relative
// frequencies per label, plus the modal label.
type CategoricalStats struct {
	Metric      string             `json:"metric_name"`
	NTotal      int                `json:"n_attempts"`
	NValid      int                `json:"n_valid_attempts"`
	Counts      map[string]int     `json:"counts"`
	Frequencies map[string]float64 `json:"frequencies"`
	Mode        string             `json:"mode"`
}

func (s *CategoricalStats) MetricName() string { return s.Metric }
func (s *CategoricalStats) Attempts() int      { return s.NTotal }
func (s *CategoricalStats) ValidAttempts() int { return s.NValid }

func toLabel(v any) (string, bool) {
	switch l := v.(type) {
	case string:
		return l, true
	case bool:
		return strconv.FormatBool(l), true
	default:
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f, 'g', -1, 64), true
		}
		return "", false
	}
}

func categoricalFromEval(metric string, values []any) (*CategoricalStats, error) {
	counts := make(map[string]int)
	valid := 0
	for i, v := range values {
		if v == nil {
			continue
		}
		label, ok := toLabel(v)
		if !ok {
			return nil, fmt.Errorf("stats: %s: value %d is %T, want label", metric, i, v)
		}
		counts[label]++
		valid++
	}
	if valid == 0 {
		return nil, fmt.Errorf("%w for metric %q", ErrInsufficientData, metric)
	}

	return &CategoricalStats{
		Metric:      metric,
		NTotal:      len(values),
		NValid:      valid,
		Counts:      counts,
		Frequencies: frequencies(counts, valid),
		Mode:        mode(counts),
	}, nil
}

func poolCategorical(first *CategoricalStats, list []Stats) (*CategoricalStats, error) {
	out := &CategoricalStats{
		Metric: first.Metric,
		Counts: make(map[string]int),
	}
	for _, s := range list {
		c, ok := s.(*CategoricalStats)
		if !ok {
			return nil, fmt.Errorf("stats: mixed stats types %T and %T", first, s)
		}
		out.NTotal += c.NTotal
		out.NValid += c.NValid
		for label, n := range c.Counts {
			out.Counts[label] += n
		}
	}
	if out.NValid == 0 {
		return nil, fmt.Errorf("%w for metric %q", ErrInsufficientData, first.Metric)
	}
	out.Frequencies = frequencies(out.Counts, out.NValid)
	out.Mode = mode(out.Counts)
	return out, nil
}

func frequencies(counts map[string]int, valid int) map[string]float64 {
	out := make(map[string]float64, len(counts))
	for label, n := range counts {
		out[label] = float64(n) / float64(valid)
	}
	return out
}

// mode picks the most frequent label; ties go to the first label in
// sorted order.
func mode(counts map[string]int) string {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	best := ""
	bestN := -1
	for _, label := range labels {
		if counts[label] > bestN {
			best = label
			bestN = counts[label]
		}
	}
	return best
}
