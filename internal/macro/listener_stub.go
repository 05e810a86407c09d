//go:build !windows

package macro

import "context"

// KeyListener is the non-Windows stub. Construction succeeds so wiring code
// stays platform-neutral, but Start reports ErrUnsupported.
type KeyListener struct{}

// NewKeyListener creates the stub listener.
func NewKeyListener([]string) (*KeyListener, error) {
	return &KeyListener{}, nil
}

// Start always returns ErrUnsupported.
func (*KeyListener) Start(context.Context) (<-chan Event, error) {
	return nil, ErrUnsupported
}

// Stop is a no-op.
func (*KeyListener) Stop() error { return nil }
