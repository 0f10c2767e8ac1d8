package bench

import "errors"

// Evaluation is the stage after Evaluate: every instance carries
// per-metric score lists alongside its attempts.
type Evaluation struct {
	stage
}

// NewEvaluation rebuilds an Evaluation from parts, used when restoring
// from an artifact.
func NewEvaluation(spec Spec, instances []Instance, metrics []Metric, aggregators []Aggregator) (*Evaluation, error) {
	st, err := newStage(spec, instances, metrics, aggregators)
	if err != nil {
		return nil, err
	}
	return &Evaluation{stage: st}, nil
}

// Report derives the final stage: each aggregator reduces all
// instances to one AggregateReport, positionally matched to the
// aggregator list.
func (e *Evaluation) Report() (*Report, error) {
	if e == nil {
		return nil, errors.New("bench: nil evaluation")
	}

	instances := cloneInstances(e.instances)

	reports := make([]AggregateReport, 0, len(e.aggregators))
	for _, agg := range e.aggregators {
		rep, err := agg.Aggregate(instances)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}

	st, err := newStage(e.spec, instances, e.metrics, e.aggregators)
	if err != nil {
		return nil, err
	}
	return &Report{stage: st, reports: reports}, nil
}
