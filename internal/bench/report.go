package bench

import (
	"errors"
	"fmt"

	"github.com/stellarlinkco/benchlab/internal/stats"
)

// Report is the final stage: aggregator outputs over the fully scored
// instances.
type Report struct {
	stage
	reports []AggregateReport
}

// NewReport rebuilds a Report from parts, used when restoring from an
// artifact.
func NewReport(spec Spec, instances []Instance, metrics []Metric, aggregators []Aggregator, reports []AggregateReport) (*Report, error) {
	st, err := newStage(spec, instances, metrics, aggregators)
	if err != nil {
		return nil, err
	}
	return &Report{stage: st, reports: reports}, nil
}

// Reports returns the aggregator outputs, positionally matched to the
// aggregator list.
func (r *Report) Reports() []AggregateReport { return r.reports }

// MetricSummaries pools per-instance statistics into one summary per
// metric: FromEval over each instance's scores, then Pool across
// instances. Instances with zero attempts are skipped; a metric with
// no scored instance at all is an error.
func (r *Report) MetricSummaries() (map[string]stats.Stats, error) {
	if r == nil {
		return nil, errors.New("bench: nil report")
	}

	out := make(map[string]stats.Stats, len(r.metrics))
	for _, metric := range r.metrics {
		perInstance := make([]stats.Stats, 0, len(r.instances))
		for _, inst := range r.instances {
			if len(inst.Attempts()) == 0 {
				continue
			}
			values, ok := inst.Scores()[metric.Name()]
			if !ok {
				return nil, fmt.Errorf("%w: metric %q never evaluated on instance %s", ErrConsistency, metric.Name(), inst.ID())
			}
			s, err := stats.FromEval(metric.Kind(), metric.Name(), values)
			if errors.Is(err, stats.ErrInsufficientData) {
				// Every attempt of this instance went unscored; it
				// contributes nothing to the pooled summary.
				continue
			}
			if err != nil {
				return nil, err
			}
			perInstance = append(perInstance, s)
		}
		if len(perInstance) == 0 {
			return nil, fmt.Errorf("%w for metric %q", stats.ErrInsufficientData, metric.Name())
		}
		pooled, err := stats.Pool(perInstance)
		if err != nil {
			return nil, err
		}
		out[metric.Name()] = pooled
	}
	return out, nil
}
