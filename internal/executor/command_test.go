package executor

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestCommand_Echo(t *testing.T) {
	requireShell(t)

	fn := Command("sh", "-c", "cat")
	out, err := fn(context.Background(), "hello\n")
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if out != "hello" {
		t.Fatalf("output: got %q want %q", out, "hello")
	}
}

func TestCommand_Failure(t *testing.T) {
	requireShell(t)

	fn := Command("sh", "-c", "exit 3")
	if _, err := fn(context.Background(), ""); err == nil {
		t.Fatalf("Command: expected error for nonzero exit")
	}
}

func TestCommand_ContextDeadline(t *testing.T) {
	requireShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	fn := Command("sh", "-c", "sleep 5")
	_, err := fn(ctx, "")
	if err == nil {
		t.Fatalf("Command: expected error after deadline")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err: got %v want deadline exceeded", err)
	}
}
