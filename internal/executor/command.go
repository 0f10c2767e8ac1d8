package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// killGrace bounds how long a process may outlive its deadline before
// receiving SIGKILL.
const killGrace = 2 * time.Second

// Command builds an Fn around a subprocess: input is written to stdin,
// trimmed stdout is the response. The process tree is killed when the
// deadline fires, which gives true process-level isolation for
// callables that cannot be trusted to honor cancellation.
func Command(name string, args ...string) func(ctx context.Context, input string) (string, error) {
	return func(ctx context.Context, input string) (string, error) {
		name := strings.TrimSpace(name)
		if name == "" {
			return "", fmt.Errorf("executor: empty command")
		}

		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Stdin = strings.NewReader(input)
		cmd.WaitDelay = killGrace

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			msg := strings.TrimSpace(stderr.String())
			if msg != "" {
				return "", fmt.Errorf("executor: %s: %w: %s", name, err, msg)
			}
			return "", fmt.Errorf("executor: %s: %w", name, err)
		}

		return strings.TrimSpace(stdout.String()), nil
	}
}
