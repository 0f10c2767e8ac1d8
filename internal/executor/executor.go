// Package executor runs one unit of work under a deadline so a hanging
// or crashing callable can never stall the pipeline.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Outcome classifies a single execution.
type Outcome string

const (
	// Success means the callable returned normally.
	Success Outcome = "success"
	// Timeout means the deadline fired before the callable finished.
	Timeout Outcome = "timeout"
	// Error means the callable returned an error or panicked.
	Error Outcome = "error"
)

// Fn is one unit of work. It should honor ctx cancellation, but the
// executor does not depend on it: a result arriving after the deadline
// is discarded.
type Fn func(ctx context.Context) (string, error)

// Result reports a single execution. Output is nil unless the outcome
// is Success; Runtime is the elapsed wall time up to completion or
// cancellation.
type Result struct {
	Runtime time.Duration
	Output  *string
	Err     error
	Outcome Outcome
}

// Executor runs one callable under an optional deadline.
type Executor interface {
	// Execute runs fn, waiting at most timeout (unbounded when zero).
	Execute(ctx context.Context, fn Fn, timeout time.Duration) Result
}

// Isolated runs the callable in its own goroutine and crosses the
// result back over a single-message channel. A deadline abandons the
// worker and discards any in-flight result; panics are captured as
// Error outcomes. For callables that must be forcibly killed rather
// than abandoned, pair it with Command.
type Isolated struct{}

type message struct {
	output string
	err    error
}

// Execute implements Executor.
func (Isolated) Execute(ctx context.Context, fn Fn, timeout time.Duration) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	if fn == nil {
		return Result{Err: errors.New("executor: nil callable"), Outcome: Error}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	// Buffered so the worker never blocks on send after the caller
	// has given up; the abandoned message is garbage collected.
	ch := make(chan message, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- message{err: fmt.Errorf("executor: callable panicked: %v", r)}
			}
		}()
		out, err := fn(ctx)
		ch <- message{output: out, err: err}
	}()

	select {
	case m := <-ch:
		elapsed := time.Since(start)
		if m.err != nil {
			return Result{Runtime: elapsed, Err: m.err, Outcome: Error}
		}
		out := m.output
		return Result{Runtime: elapsed, Output: &out, Outcome: Success}
	case <-ctx.Done():
		elapsed := time.Since(start)
		if errors.Is(context.Cause(ctx), context.DeadlineExceeded) {
			return Result{Runtime: elapsed, Err: ctx.Err(), Outcome: Timeout}
		}
		return Result{Runtime: elapsed, Err: ctx.Err(), Outcome: Error}
	}
}
