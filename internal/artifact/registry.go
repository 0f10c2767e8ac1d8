package artifact

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/stellarlinkco/benchlab/internal/bench"
)

// The registries map artifact type tags to factories, so a loaded
// artifact can only ever materialize types registered at startup —
// never resolve an arbitrary symbol a crafted file names.

// InstanceFactory returns a fresh zero instance for JSON decoding.
type InstanceFactory func() bench.Instance

// MetricFactory returns a metric for its tag; metrics are stateless.
type MetricFactory func() bench.Metric

// AggregatorFactory decodes an aggregator, including any config fields
// the envelope entry carries.
type AggregatorFactory func(raw json.RawMessage) (bench.Aggregator, error)

type registration[F any] struct {
	factory F
	module  string
}

var (
	regMu       sync.RWMutex
	instances   = make(map[string]registration[InstanceFactory])
	metrics     = make(map[string]registration[MetricFactory])
	aggregators = make(map[string]registration[AggregatorFactory])
	tags        = make(map[reflect.Type]string)
)

// RegisterInstance makes an instance type loadable under tag. It
// panics on a duplicate tag, like database/sql driver registration.
func RegisterInstance(tag string, factory InstanceFactory) {
	register(instances, tag, factory, factory())
}

// RegisterMetric makes a metric loadable under tag.
func RegisterMetric(tag string, factory MetricFactory) {
	register(metrics, tag, factory, factory())
}

// RegisterAggregator makes an aggregator loadable under tag. The
// prototype fixes the tag used when encoding values of its type.
func RegisterAggregator(tag string, prototype bench.Aggregator, factory AggregatorFactory) {
	register(aggregators, tag, factory, prototype)
}

func register[F any](reg map[string]registration[F], tag string, factory F, prototype any) {
	regMu.Lock()
	defer regMu.Unlock()

	if tag == "" {
		panic("artifact: empty registration tag")
	}
	if _, dup := reg[tag]; dup {
		panic(fmt.Sprintf("artifact: tag %q registered twice", tag))
	}

	t := reflect.TypeOf(prototype)
	reg[tag] = registration[F]{factory: factory, module: modulePath(t)}
	tags[t] = tag
}

func modulePath(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath()
}

// tagOf finds the registered tag for a live value's concrete type.
func tagOf(v any) (tag, module string, err error) {
	regMu.RLock()
	defer regMu.RUnlock()

	t := reflect.TypeOf(v)
	tag, ok := tags[t]
	if !ok {
		return "", "", fmt.Errorf("%w: type %s is not registered", ErrCorrupted, t)
	}
	return tag, modulePath(t), nil
}

func instanceFactory(tag string) (InstanceFactory, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	r, ok := instances[tag]
	return r.factory, ok
}

func metricFactory(tag string) (MetricFactory, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	r, ok := metrics[tag]
	return r.factory, ok
}

func aggregatorFactory(tag string) (AggregatorFactory, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	r, ok := aggregators[tag]
	return r.factory, ok
}
