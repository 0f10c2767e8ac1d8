package bench

import (
	"errors"
	"testing"
)

func ids(instances []Instance) []string {
	out := make([]string, len(instances))
	for i, inst := range instances {
		out[i] = inst.ID()
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew_SelectsAllByDefault(t *testing.T) {
	src := newTestSource(3)
	spec := Spec{Name: "b", NAttempts: 1}

	b, err := New(src, spec, []Metric{matchMetric{name: "m"}}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := ids(b.Instances()); !equalIDs(got, []string{"inst-0", "inst-1", "inst-2"}) {
		t.Fatalf("instances: got %v", got)
	}
}

func TestNew_SelectsByCount(t *testing.T) {
	src := newTestSource(5)
	spec := Spec{Name: "b", NAttempts: 1, NInstance: 2}

	b, err := New(src, spec, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := ids(b.Instances()); !equalIDs(got, []string{"inst-0", "inst-1"}) {
		t.Fatalf("instances: got %v", got)
	}
}

func TestNew_SelectsByIDsInOrder(t *testing.T) {
	src := newTestSource(4)
	spec := Spec{Name: "b", NAttempts: 1, InstanceIDs: []string{"inst-3", "inst-1"}}

	b, err := New(src, spec, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := ids(b.Instances()); !equalIDs(got, []string{"inst-3", "inst-1"}) {
		t.Fatalf("instances: got %v", got)
	}
}

func TestNew_BothConstraintsCombine(t *testing.T) {
	src := newTestSource(4)
	spec := Spec{
		Name:        "b",
		NAttempts:   1,
		NInstance:   2,
		InstanceIDs: []string{"inst-2", "inst-0", "inst-1"},
	}

	b, err := New(src, spec, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := ids(b.Instances()); !equalIDs(got, []string{"inst-2", "inst-0"}) {
		t.Fatalf("instances: got %v", got)
	}
}

func TestNew_UnknownID(t *testing.T) {
	src := newTestSource(2)
	spec := Spec{Name: "b", NAttempts: 1, InstanceIDs: []string{"missing"}}

	_, err := New(src, spec, nil, nil)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("New: got %v want ErrConfig", err)
	}
}

func TestNew_CountBeyondSource(t *testing.T) {
	src := newTestSource(2)
	spec := Spec{Name: "b", NAttempts: 1, NInstance: 10}

	b, err := New(src, spec, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(b.Instances()) != 2 {
		t.Fatalf("instances: got %d want 2", len(b.Instances()))
	}
}

func TestNewBenchmark_MixedInstanceTypes(t *testing.T) {
	type otherInstance struct{ testInstance }

	instances := []Instance{
		&testInstance{InstanceID: "a"},
		&otherInstance{testInstance{InstanceID: "b"}},
	}
	_, err := NewBenchmark(Spec{Name: "b", NAttempts: 1}, instances, nil, nil)
	if !errors.Is(err, ErrConsistency) {
		t.Fatalf("NewBenchmark: got %v want ErrConsistency", err)
	}
}

func TestNewBenchmark_DuplicateMetricNames(t *testing.T) {
	metrics := []Metric{matchMetric{name: "m"}, matchMetric{name: "m"}}
	_, err := NewBenchmark(Spec{Name: "b", NAttempts: 1}, nil, metrics, nil)
	if !errors.Is(err, ErrConsistency) {
		t.Fatalf("NewBenchmark: got %v want ErrConsistency", err)
	}
}
