package metric

import (
	"math"
	"strconv"
	"strings"

	"github.com/stellarlinkco/benchlab/internal/bench"
	"github.com/stellarlinkco/benchlab/internal/stats"
)

// NumericError is a regression metric: the absolute distance between
// the last number in the response and the numeric ground truth. Scores
// nil when the attempt has no response or either side yields no
// number.
type NumericError struct{}

// Name returns the metric identifier.
func (NumericError) Name() string { return "numeric_error" }

// Kind returns the output type tag.
func (NumericError) Kind() stats.Kind { return stats.Regression }

// Score computes |predicted - truth| for one attempt.
func (NumericError) Score(inst bench.Instance, att bench.Attempt) any {
	if att.Response == nil {
		return nil
	}

	truthRaw, ok := lastNumber(inst.GroundTruth())
	if !ok {
		return nil
	}
	truth, ok := parseFloat(truthRaw)
	if !ok {
		return nil
	}

	gotRaw, ok := lastNumber(*att.Response)
	if !ok {
		return nil
	}
	got, ok := parseFloat(gotRaw)
	if !ok {
		return nil
	}

	return math.Abs(got - truth)
}

// lastNumber extracts the rightmost number in s, tolerating thousands
// separators and a trailing period.
func lastNumber(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	start, end := -1, -1
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || c == ',' {
			end = i + 1
			start = i
			for start > 0 {
				pc := s[start-1]
				if (pc >= '0' && pc <= '9') || pc == '.' || pc == ',' || pc == '-' {
					start--
					continue
				}
				break
			}
			break
		}
	}
	if start < 0 || start >= end {
		return "", false
	}

	raw := strings.ReplaceAll(s[start:end], ",", "")
	raw = strings.Trim(raw, ".")
	if raw == "" || raw == "-" {
		return "", false
	}
	return raw, true
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}
