package artifact

import (
	"encoding/json"
	"fmt"

	"github.com/stellarlinkco/benchlab/internal/bench"
)

// Snapshot is what every lifecycle stage exposes for serialization.
type Snapshot interface {
	Spec() bench.Spec
	Instances() []bench.Instance
	Metrics() []bench.Metric
	Aggregators() []bench.Aggregator
}

func stageOf(s Snapshot) (Stage, error) {
	switch s.(type) {
	case *bench.Benchmark:
		return StageBenchmark, nil
	case *bench.Execution:
		return StageExecution, nil
	case *bench.Evaluation:
		return StageEvaluation, nil
	case *bench.Report:
		return StageReport, nil
	default:
		return "", fmt.Errorf("artifact: unknown stage type %T", s)
	}
}

// Encode serializes any lifecycle stage to its self-describing JSON
// artifact.
func Encode(s Snapshot) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("artifact: nil snapshot")
	}

	stage, err := stageOf(s)
	if err != nil {
		return nil, err
	}

	env := envelope{
		Metadata: Metadata{ClassName: string(stage), ClassModule: "benchlab/internal/bench"},
		Spec:     s.Spec(),
	}

	env.Instances = make([]json.RawMessage, 0, len(s.Instances()))
	for _, inst := range s.Instances() {
		raw, err := marshalTagged(inst)
		if err != nil {
			return nil, err
		}
		env.Instances = append(env.Instances, raw)
	}

	env.Metrics = make([]typeRef, 0, len(s.Metrics()))
	for _, m := range s.Metrics() {
		tag, module, err := tagOf(m)
		if err != nil {
			return nil, err
		}
		env.Metrics = append(env.Metrics, typeRef{ClassName: tag, ClassModule: module})
	}

	env.Aggregators = make([]json.RawMessage, 0, len(s.Aggregators()))
	for _, agg := range s.Aggregators() {
		raw, err := marshalTagged(agg)
		if err != nil {
			return nil, err
		}
		env.Aggregators = append(env.Aggregators, raw)
	}

	if rep, ok := s.(*bench.Report); ok {
		env.Reports = rep.Reports()
	}

	return json.MarshalIndent(env, "", "  ")
}

// marshalTagged marshals a registered value and injects its class
// identity keys.
func marshalTagged(v any) (json.RawMessage, error) {
	tag, module, err := tagOf(v)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("artifact: %s does not marshal to an object: %w", tag, err)
	}
	fields["class_name"] = tag
	fields["class_module"] = module

	return json.Marshal(fields)
}

// parsed is a fully resolved artifact, before stage-specific clearing.
type parsed struct {
	stage       Stage
	spec        bench.Spec
	instances   []bench.Instance
	metrics     []bench.Metric
	aggregators []bench.Aggregator
	reports     []bench.AggregateReport
}

func parse(data []byte) (*parsed, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if env.Metadata.ClassName == "" || env.Metadata.ClassModule == "" {
		return nil, fmt.Errorf("%w: metadata must carry class_name and class_module", ErrCorrupted)
	}

	out := &parsed{
		stage:   Stage(env.Metadata.ClassName),
		spec:    env.Spec,
		reports: env.Reports,
	}
	if out.stage.Rank() == 0 {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrCorrupted, env.Metadata.ClassName)
	}

	firstTag := ""
	for i, raw := range env.Instances {
		tag, err := peekTag(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: instance %d: %v", ErrCorrupted, i, err)
		}
		if firstTag == "" {
			firstTag = tag
		} else if tag != firstTag {
			return nil, fmt.Errorf("%w: instance %d is a %q, want %q: all instances must share one type", ErrCorrupted, i, tag, firstTag)
		}

		factory, ok := instanceFactory(tag)
		if !ok {
			return nil, fmt.Errorf("%w: instance %d references unregistered type %q", ErrCorrupted, i, tag)
		}
		inst := factory()
		if err := json.Unmarshal(raw, inst); err != nil {
			return nil, fmt.Errorf("%w: instance %d (%s): %v", ErrCorrupted, i, tag, err)
		}
		out.instances = append(out.instances, inst)
	}

	for i, ref := range env.Metrics {
		factory, ok := metricFactory(ref.ClassName)
		if !ok {
			return nil, fmt.Errorf("%w: metric %d references unregistered type %q", ErrCorrupted, i, ref.ClassName)
		}
		out.metrics = append(out.metrics, factory())
	}

	for i, raw := range env.Aggregators {
		tag, err := peekTag(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: aggregator %d: %v", ErrCorrupted, i, err)
		}
		factory, ok := aggregatorFactory(tag)
		if !ok {
			return nil, fmt.Errorf("%w: aggregator %d references unregistered type %q", ErrCorrupted, i, tag)
		}
		agg, err := factory(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: aggregator %d (%s): %v", ErrCorrupted, i, tag, err)
		}
		out.aggregators = append(out.aggregators, agg)
	}

	return out, nil
}

func peekTag(raw json.RawMessage) (string, error) {
	var head struct {
		ClassName string `json:"class_name"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", err
	}
	if head.ClassName == "" {
		return "", fmt.Errorf("record is missing class_name")
	}
	return head.ClassName, nil
}

// LoadBenchmark rebuilds the initial stage from any artifact of rank ≥
// Benchmark, clearing attempts and scores recorded by later stages.
func LoadBenchmark(data []byte) (*bench.Benchmark, error) {
	p, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := requireRank(p.stage, StageBenchmark); err != nil {
		return nil, err
	}
	for _, inst := range p.instances {
		inst.Reset(false)
	}
	return bench.NewBenchmark(p.spec, p.instances, p.metrics, p.aggregators)
}

// LoadExecution rebuilds the execution stage from any artifact of rank
// ≥ Execution, clearing evaluation scores but keeping attempts.
func LoadExecution(data []byte) (*bench.Execution, error) {
	p, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := requireRank(p.stage, StageExecution); err != nil {
		return nil, err
	}
	for _, inst := range p.instances {
		inst.Reset(true)
	}
	return bench.NewExecution(p.spec, p.instances, p.metrics, p.aggregators)
}

// LoadEvaluation rebuilds the evaluation stage from any artifact of
// rank ≥ Evaluation.
func LoadEvaluation(data []byte) (*bench.Evaluation, error) {
	p, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := requireRank(p.stage, StageEvaluation); err != nil {
		return nil, err
	}
	return bench.NewEvaluation(p.spec, p.instances, p.metrics, p.aggregators)
}

// LoadReport rebuilds the final stage from a report artifact.
func LoadReport(data []byte) (*bench.Report, error) {
	p, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := requireRank(p.stage, StageReport); err != nil {
		return nil, err
	}
	return bench.NewReport(p.spec, p.instances, p.metrics, p.aggregators, p.reports)
}

// LoadStage reports which stage an artifact was recorded at, without
// resolving its contents.
func LoadStage(data []byte) (Stage, error) {
	var env struct {
		Metadata Metadata `json:"metadata"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	s := Stage(env.Metadata.ClassName)
	if s.Rank() == 0 {
		return "", fmt.Errorf("%w: unknown stage %q", ErrCorrupted, env.Metadata.ClassName)
	}
	return s, nil
}
