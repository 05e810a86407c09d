package device

import (
	"context"
	"fmt"
	"time"

	"github.com/sawa9885/roomcore/internal/signal"
)

// ─── Shared Test Fakes ───────────────────────────────────────────────────────

// fakeCloud records SetPower calls and can fail on demand.
type fakeCloud struct {
	calls []string // "<deviceID>:on" / "<deviceID>:off"
	err   error
}

func (f *fakeCloud) SetPower(_ context.Context, deviceID, _ string, on bool) error {
	state := "off"
	if on {
		state = "on"
	}
	f.calls = append(f.calls, deviceID+":"+state)
	return f.err
}

// fakeSignals serves descriptors from a map.
type fakeSignals struct {
	codes map[string][]byte
}

func (f *fakeSignals) Get(name string) (signal.Descriptor, error) {
	code, ok := f.codes[name]
	if !ok {
		return signal.Descriptor{}, fmt.Errorf("%w: %s", signal.ErrNotFound, name)
	}
	return signal.Descriptor{Name: name, Kind: signal.KindIR, Code: code}, nil
}

// fakeSender records transmitted codes. failAfter fails every Send once the
// call count exceeds it; -1 never fails.
type fakeSender struct {
	sent      [][]byte
	failAfter int
	err       error
}

func newFakeSender() *fakeSender {
	return &fakeSender{failAfter: -1}
}

func (f *fakeSender) Send(_ context.Context, code []byte) error {
	if f.failAfter >= 0 && len(f.sent) >= f.failAfter {
		return f.err
	}
	f.sent = append(f.sent, code)
	return nil
}

// fakeClock records requested sleeps without waiting.
type fakeClock struct {
	slept []time.Duration
}

func (f *fakeClock) Sleep(_ context.Context, d time.Duration) {
	f.slept = append(f.slept, d)
}

// fakeRunner records command invocations and can fail on demand.
type fakeRunner struct {
	calls [][]string
	err   error
}

func (f *fakeRunner) Run(_ context.Context, binary string, args ...string) error {
	f.calls = append(f.calls, append([]string{binary}, args...))
	return f.err
}

// fakeEngine records bus mutes and restarts.
type fakeEngine struct {
	mutes      []string // "<bus>=<mute>"
	restarts   int
	muteErr    error
	restartErr error
}

func (f *fakeEngine) SetBusMute(bus int, mute bool) error {
	if f.muteErr != nil {
		return f.muteErr
	}
	f.mutes = append(f.mutes, fmt.Sprintf("%d=%t", bus, mute))
	return nil
}

func (f *fakeEngine) Restart() error {
	if f.restartErr != nil {
		return f.restartErr
	}
	f.restarts++
	return nil
}
