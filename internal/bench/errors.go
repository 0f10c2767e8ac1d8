package bench

import "errors"

var (
	// ErrConfig marks invalid Spec values or selection arguments. It is
	// raised synchronously at construction, before any expensive work.
	ErrConfig = errors.New("bench: invalid configuration")

	// ErrConsistency marks structurally inconsistent inputs: mixed
	// instance types or a metric registered twice.
	ErrConsistency = errors.New("bench: inconsistent state")
)
