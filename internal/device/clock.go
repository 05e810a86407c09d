package device

import (
	"context"
	"time"
)

// Clock abstracts time for controllers that sleep between transport
// operations. Tests substitute a fake so multi-second device sequences run
// instantly.
type Clock interface {
	// Sleep blocks for d or until ctx is cancelled, whichever comes first.
	Sleep(ctx context.Context, d time.Duration)
}

// SystemClock is the real Clock backed by time.Timer.
type SystemClock struct{}

// Sleep blocks for d or until ctx is cancelled.
func (SystemClock) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
