package executor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIsolated_Success(t *testing.T) {
	var exec Isolated

	res := exec.Execute(context.Background(), func(ctx context.Context) (string, error) {
		return "42", nil
	}, time.Second)

	if res.Outcome != Success {
		t.Fatalf("outcome: got %q want %q (err=%v)", res.Outcome, Success, res.Err)
	}
	if res.Output == nil || *res.Output != "42" {
		t.Fatalf("output: got %v want %q", res.Output, "42")
	}
	if res.Err != nil {
		t.Fatalf("err: got %v want nil", res.Err)
	}
}

func TestIsolated_Timeout(t *testing.T) {
	var exec Isolated

	start := time.Now()
	res := exec.Execute(context.Background(), func(ctx context.Context) (string, error) {
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
		}
		return "late", nil
	}, 100*time.Millisecond)
	elapsed := time.Since(start)

	if res.Outcome != Timeout {
		t.Fatalf("outcome: got %q want %q", res.Outcome, Timeout)
	}
	if res.Output != nil {
		t.Fatalf("output: got %q want nil", *res.Output)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("execute took %v, deadline did not cut it short", elapsed)
	}
	if res.Runtime < 100*time.Millisecond {
		t.Fatalf("runtime %v shorter than the deadline", res.Runtime)
	}
}

func TestIsolated_Error(t *testing.T) {
	var exec Isolated
	wantErr := errors.New("boom")

	res := exec.Execute(context.Background(), func(ctx context.Context) (string, error) {
		return "", wantErr
	}, time.Second)

	if res.Outcome != Error {
		t.Fatalf("outcome: got %q want %q", res.Outcome, Error)
	}
	if !errors.Is(res.Err, wantErr) {
		t.Fatalf("err: got %v want %v", res.Err, wantErr)
	}
	if res.Output != nil {
		t.Fatalf("output: got %q want nil", *res.Output)
	}
}

func TestIsolated_Panic(t *testing.T) {
	var exec Isolated

	res := exec.Execute(context.Background(), func(ctx context.Context) (string, error) {
		panic("kaboom")
	}, time.Second)

	if res.Outcome != Error {
		t.Fatalf("outcome: got %q want %q", res.Outcome, Error)
	}
	if res.Err == nil {
		t.Fatalf("err: got nil want panic error")
	}
}

func TestIsolated_NoTimeout(t *testing.T) {
	var exec Isolated

	res := exec.Execute(context.Background(), func(ctx context.Context) (string, error) {
		if _, ok := ctx.Deadline(); ok {
			return "", errors.New("unexpected deadline")
		}
		return "ok", nil
	}, 0)

	if res.Outcome != Success {
		t.Fatalf("outcome: got %q want %q (err=%v)", res.Outcome, Success, res.Err)
	}
}

func TestIsolated_CanceledContext(t *testing.T) {
	var exec Isolated

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := exec.Execute(ctx, func(ctx context.Context) (string, error) {
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
		}
		return "", ctx.Err()
	}, 0)

	// cancellation is not a deadline; it must not be reported as one
	if res.Outcome == Timeout {
		t.Fatalf("outcome: got %q for plain cancellation", res.Outcome)
	}
}

func TestIsolated_NilCallable(t *testing.T) {
	var exec Isolated

	res := exec.Execute(context.Background(), nil, time.Second)
	if res.Outcome != Error {
		t.Fatalf("outcome: got %q want %q", res.Outcome, Error)
	}
}
