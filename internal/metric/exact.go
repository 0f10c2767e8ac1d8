package metric

import (
	"regexp"

	"github.com/stellarlinkco/benchlab/internal/bench"
	"github.com/stellarlinkco/benchlab/internal/stats"
)

// ExactMatch is a boolean metric: true when the instance's ground
// truth appears in the response as a case-insensitive whole word.
type ExactMatch struct{}

// Name returns the metric identifier.
func (ExactMatch) Name() string { return "exact_match" }

// Kind returns the output type tag.
func (ExactMatch) Kind() stats.Kind { return stats.Boolean }

// Score reports whether the ground truth occurs in the attempt's
// response; nil when the attempt has no response.
func (ExactMatch) Score(inst bench.Instance, att bench.Attempt) any {
	if att.Response == nil {
		return nil
	}
	truth := inst.GroundTruth()
	if truth == "" {
		return false
	}
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(truth) + `\b`)
	if err != nil {
		return nil
	}
	return re.MatchString(*att.Response)
}
