//go:build !windows

package voicemeeter

import "fmt"

// Engine is the non-Windows stub. Construction succeeds so wiring code
// stays platform-neutral; every operation reports ErrUnavailable.
type Engine struct{}

// NewEngine creates the stub engine. dllPath is ignored.
func NewEngine(string) *Engine { return &Engine{} }

// Login always returns ErrUnavailable.
func (*Engine) Login() error {
	return fmt.Errorf("%w: windows only", ErrUnavailable)
}

// Close is a no-op.
func (*Engine) Close() error { return nil }

// SetBusMute always returns ErrUnavailable.
func (*Engine) SetBusMute(int, bool) error {
	return fmt.Errorf("%w: windows only", ErrUnavailable)
}

// Restart always returns ErrUnavailable.
func (*Engine) Restart() error {
	return fmt.Errorf("%w: windows only", ErrUnavailable)
}
