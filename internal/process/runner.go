package process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Domain errors for the process package. Check with errors.Is().
var (
	// ErrBinaryNotFound is returned when the executable does not exist or is
	// not on PATH. This is an environment fault, present before the command
	// even ran.
	ErrBinaryNotFound = errors.New("process: binary not found")

	// ErrExitFailure is returned when the command ran and exited non-zero.
	ErrExitFailure = errors.New("process: command failed")
)

// outputTailSize bounds how much combined output is kept for error messages.
const outputTailSize = 512

// defaultRunTimeout bounds a single command invocation.
const defaultRunTimeout = 30 * time.Second

// Logger defines the logging interface used by the Runner.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Runner executes one-shot commands. Safe for concurrent use.
type Runner struct {
	timeout time.Duration
	logger  Logger
}

// NewRunner creates a runner. timeout <= 0 selects the default.
func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = defaultRunTimeout
	}
	return &Runner{timeout: timeout, logger: noopLogger{}}
}

// SetLogger sets the logger for the runner.
func (r *Runner) SetLogger(logger Logger) {
	r.logger = logger
}

// Run executes binary with args and waits for it to exit.
//
// Returns:
//   - nil when the command exits zero
//   - ErrBinaryNotFound when the executable cannot be located
//   - ErrExitFailure (with exit code and an output tail) on non-zero exit
func (r *Runner) Run(ctx context.Context, binary string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.logger.Debug("running command", "binary", binary, "args", args)

	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec // Binary path comes from validated config
	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrBinaryNotFound, binary)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		r.logger.Warn("command failed",
			"binary", binary,
			"exit_code", exitErr.ExitCode(),
		)
		if tail := outputTail(out); tail != "" {
			return fmt.Errorf("%w: %s exited %d: %s", ErrExitFailure, binary, exitErr.ExitCode(), tail)
		}
		return fmt.Errorf("%w: %s exited %d", ErrExitFailure, binary, exitErr.ExitCode())
	}

	// Context expiry, permission problems, and other start failures.
	return fmt.Errorf("process: running %s: %w", binary, err)
}

// outputTail returns the last chunk of combined output, flattened to one
// line.
func outputTail(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) > outputTailSize {
		s = s[len(s)-outputTailSize:]
	}
	return strings.Join(strings.Fields(s), " ")
}
