package bench

import "fmt"

// Instance is one labeled unit of benchmark work. Concrete types embed
// Record for the trial bookkeeping and add their own task fields.
//
// An Instance is exclusively owned by one stage snapshot; stage
// transitions deep-copy via Clone so earlier stages stay untouched.
type Instance interface {
	// ID uniquely identifies the instance within its source.
	ID() string
	// GroundTruth is the reference answer metrics score against.
	GroundTruth() string

	// Attempts returns the ordered trials recorded so far.
	Attempts() []Attempt
	// Scores maps metric name to ordered per-attempt scores; a nil
	// entry marks an attempt the metric could not score.
	Scores() map[string][]any
	// AddAttempt appends one trial to the record.
	AddAttempt(a Attempt) error
	// SetScores stores (or overwrites) a metric's per-attempt scores.
	SetScores(metric string, values []any)
	// Reset drops evaluation data, and the attempts too unless
	// keepAttempts is set.
	Reset(keepAttempts bool)

	// Clone returns a deep copy with the same concrete type.
	Clone() Instance
}

// Source is an indexable instance collection. The core is agnostic to
// how instances are fetched; anything exposing length and positional
// access works.
type Source interface {
	Len() int
	At(i int) Instance
}

// Record holds the append-only trial history of one instance: ordered
// attempts plus per-metric score lists. Concrete instance types embed
// it to satisfy most of the Instance interface.
type Record struct {
	Trials []Attempt        `json:"_attempts"`
	Evals  map[string][]any `json:"_evaluated_attempts,omitempty"`
}

// Attempts returns the ordered trials.
func (r *Record) Attempts() []Attempt { return r.Trials }

// Scores maps metric name to ordered per-attempt scores.
func (r *Record) Scores() map[string][]any { return r.Evals }

// AddAttempt appends one trial.
func (r *Record) AddAttempt(a Attempt) error {
	if a.Runtime != nil && *a.Runtime < 0 {
		return fmt.Errorf("%w: negative runtime %v", ErrConfig, *a.Runtime)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: unknown attempt status %q", ErrConfig, a.Status)
	}
	r.Trials = append(r.Trials, a)
	return nil
}

// SetScores stores a metric's per-attempt scores, replacing any
// previous evaluation under the same name.
func (r *Record) SetScores(metric string, values []any) {
	if r.Evals == nil {
		r.Evals = make(map[string][]any)
	}
	r.Evals[metric] = values
}

// Reset drops evaluation data, and the attempts too unless keepAttempts
// is set. Used when rebuilding an earlier stage from a later artifact.
func (r *Record) Reset(keepAttempts bool) {
	r.Evals = nil
	if !keepAttempts {
		r.Trials = nil
	}
}

// CloneRecord returns a deep copy of the record.
func (r *Record) CloneRecord() Record {
	out := Record{}
	if r.Trials != nil {
		out.Trials = make([]Attempt, len(r.Trials))
		for i, a := range r.Trials {
			out.Trials[i] = a.clone()
		}
	}
	if r.Evals != nil {
		out.Evals = make(map[string][]any, len(r.Evals))
		for name, vals := range r.Evals {
			copied := make([]any, len(vals))
			copy(copied, vals)
			out.Evals[name] = copied
		}
	}
	return out
}

// Statuses returns the per-attempt statuses in order.
func (r *Record) Statuses() []Status {
	out := make([]Status, len(r.Trials))
	for i, a := range r.Trials {
		out[i] = a.Status
	}
	return out
}

// Responses returns the per-attempt responses in order, nil entries
// included.
func (r *Record) Responses() []*string {
	out := make([]*string, len(r.Trials))
	for i, a := range r.Trials {
		out[i] = a.Response
	}
	return out
}
