package bench

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Spec carries the configuration and bookkeeping of one benchmark run.
// Values are immutable; every update returns a new Spec.
type Spec struct {
	// Name labels the run.
	Name string
	// InstanceIDs selects specific instances, in the given order.
	InstanceIDs []string
	// NInstance caps how many instances are selected; zero means all.
	NInstance int
	// NAttempts is the number of trials per instance.
	NAttempts int
	// Timeout bounds each attempt; zero means unbounded.
	Timeout time.Duration

	// ExecutionTime and EvaluationTime accumulate elapsed wall time of
	// the respective transitions.
	ExecutionTime  time.Duration
	EvaluationTime time.Duration
}

// NewSpec returns a minimal valid spec with a generated name and one
// attempt per instance.
func NewSpec() Spec {
	return Spec{Name: uuid.NewString(), NAttempts: 1}
}

// Validate checks the spec invariants.
func (s Spec) Validate() error {
	if s.NAttempts <= 0 {
		return fmt.Errorf("%w: n_attempts must be positive, got %d", ErrConfig, s.NAttempts)
	}
	if s.NInstance < 0 {
		return fmt.Errorf("%w: n_instance must be positive or zero, got %d", ErrConfig, s.NInstance)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be positive or zero, got %v", ErrConfig, s.Timeout)
	}
	return nil
}

// WithExecutionTime returns a copy with the execution time added.
func (s Spec) WithExecutionTime(d time.Duration) Spec {
	s.ExecutionTime += d
	return s
}

// WithEvaluationTime returns a copy with the evaluation time added.
func (s Spec) WithEvaluationTime(d time.Duration) Spec {
	s.EvaluationTime += d
	return s
}

// specJSON is the flat artifact form; durations are serialized as
// seconds so artifacts stay readable and tool-friendly.
type specJSON struct {
	Name           string   `json:"name"`
	InstanceIDs    []string `json:"instance_ids"`
	NInstance      int      `json:"n_instance"`
	NAttempts      int      `json:"n_attempts"`
	Timeout        float64  `json:"timeout"`
	ExecutionTime  float64  `json:"execution_time"`
	EvaluationTime float64  `json:"evaluation_time"`
}

// MarshalJSON implements json.Marshaler.
func (s Spec) MarshalJSON() ([]byte, error) {
	return json.Marshal(specJSON{
		Name:           s.Name,
		InstanceIDs:    s.InstanceIDs,
		NInstance:      s.NInstance,
		NAttempts:      s.NAttempts,
		Timeout:        s.Timeout.Seconds(),
		ExecutionTime:  s.ExecutionTime.Seconds(),
		EvaluationTime: s.EvaluationTime.Seconds(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Spec) UnmarshalJSON(data []byte) error {
	var raw specJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Spec{
		Name:           raw.Name,
		InstanceIDs:    raw.InstanceIDs,
		NInstance:      raw.NInstance,
		NAttempts:      raw.NAttempts,
		Timeout:        secondsToDuration(raw.Timeout),
		ExecutionTime:  secondsToDuration(raw.ExecutionTime),
		EvaluationTime: secondsToDuration(raw.EvaluationTime),
	}
	return nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
