package metric

import (
	"github.com/stellarlinkco/benchlab/internal/artifact"
	"github.com/stellarlinkco/benchlab/internal/bench"
)

func init() {
	artifact.RegisterMetric("ExactMatchMetric", func() bench.Metric { return ExactMatch{} })
	artifact.RegisterMetric("NumericErrorMetric", func() bench.Metric { return NumericError{} })
	artifact.RegisterMetric("AnswerChoiceMetric", func() bench.Metric { return AnswerChoice{} })
}
