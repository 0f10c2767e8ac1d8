package bench

import (
	"fmt"
	"time"
)

// Status is the terminal state of one attempt.
type Status string

const (
	// StatusSuccess means the callable returned a response.
	StatusSuccess Status = "success"
	// StatusFailure means the callable returned an error or panicked.
	StatusFailure Status = "failure"
	// StatusTimeout means the attempt hit the configured deadline.
	StatusTimeout Status = "timeout"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusSuccess, StatusFailure, StatusTimeout:
		return true
	}
	return false
}

// Attempt is one trial of the callable against one instance. It is
// created by the execution stage and never modified afterwards.
// Response and Runtime are nil when the trial produced none; Runtime is
// wall-clock seconds.
type Attempt struct {
	Response *string        `json:"_response"`
	Runtime  *float64       `json:"_runtime"`
	Status   Status         `json:"_status"`
	Usage    map[string]int `json:"_usage,omitempty"`
}

// NewAttempt builds an attempt from an execution outcome.
func NewAttempt(response *string, runtime time.Duration, status Status) (Attempt, error) {
	if runtime < 0 {
		return Attempt{}, fmt.Errorf("%w: negative runtime %v", ErrConfig, runtime)
	}
	if !status.Valid() {
		return Attempt{}, fmt.Errorf("%w: unknown attempt status %q", ErrConfig, status)
	}
	secs := runtime.Seconds()
	return Attempt{Response: response, Runtime: &secs, Status: status}, nil
}

// Succeeded reports whether the attempt completed with a response.
func (a Attempt) Succeeded() bool { return a.Status == StatusSuccess }

func (a Attempt) clone() Attempt {
	out := a
	if a.Response != nil {
		r := *a.Response
		out.Response = &r
	}
	if a.Runtime != nil {
		d := *a.Runtime
		out.Runtime = &d
	}
	if a.Usage != nil {
		out.Usage = make(map[string]int, len(a.Usage))
		for k, v := range a.Usage {
			out.Usage[k] = v
		}
	}
	return out
}
