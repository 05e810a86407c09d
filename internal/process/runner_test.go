package process

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on sh")
	}
}

func TestRun_Success(t *testing.T) {
	skipWithoutShell(t)
	r := NewRunner(0)

	if err := r.Run(context.Background(), "sh", "-c", "exit 0"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	skipWithoutShell(t)
	r := NewRunner(0)

	err := r.Run(context.Background(), "sh", "-c", "echo profile rejected >&2; exit 3")
	if !errors.Is(err, ErrExitFailure) {
		t.Fatalf("Run() error = %v, want ErrExitFailure", err)
	}
	if errors.Is(err, ErrBinaryNotFound) {
		t.Error("non-zero exit must not look like a missing binary")
	}
}

func TestRun_BinaryNotFound(t *testing.T) {
	r := NewRunner(0)

	err := r.Run(context.Background(), "roomcore-test-no-such-binary")
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("Run() error = %v, want ErrBinaryNotFound", err)
	}
	if errors.Is(err, ErrExitFailure) {
		t.Error("missing binary must not look like an execution failure")
	}
}

func TestRun_Timeout(t *testing.T) {
	skipWithoutShell(t)
	r := NewRunner(50 * time.Millisecond)

	if err := r.Run(context.Background(), "sh", "-c", "sleep 5"); err == nil {
		t.Fatal("Run() expected error when command outlives timeout")
	}
}

func TestOutputTail(t *testing.T) {
	if got := outputTail([]byte("  two\n lines \n")); got != "two lines" {
		t.Errorf("outputTail() = %q, want %q", got, "two lines")
	}
	if got := outputTail(nil); got != "" {
		t.Errorf("outputTail(nil) = %q, want empty", got)
	}
}
