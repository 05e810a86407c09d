package device

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sawa9885/roomcore/internal/room"
)

var (
	screenDownCode = []byte{0xb1, 0x01}
	screenStopCode = []byte{0xb1, 0x02}
	screenUpCode   = []byte{0xb1, 0x03}
)

func newTestScreen(sender *fakeSender, clock *fakeClock) *Screen {
	signals := &fakeSignals{codes: map[string][]byte{
		"screen_down": screenDownCode,
		"screen_stop": screenStopCode,
		"screen_up":   screenUpCode,
	}}
	return NewScreen(ScreenConfig{
		ID:         "screen",
		DownSignal: "screen_down",
		StopSignal: "screen_stop",
		UpSignal:   "screen_up",
	}, signals, sender, clock)
}

func TestScreen_LowerSendsDownHoldStop(t *testing.T) {
	sender := newFakeSender()
	clock := &fakeClock{}
	s := newTestScreen(sender, clock)

	out := s.Apply(context.Background(), room.ModeProjector)
	if !out.OK() {
		t.Fatalf("Apply() = %+v, want success", out)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d signals, want down+stop", len(sender.sent))
	}
	if !bytes.Equal(sender.sent[0], screenDownCode) || !bytes.Equal(sender.sent[1], screenStopCode) {
		t.Errorf("signal order = %x, want down then stop", sender.sent)
	}
	if len(clock.slept) != 1 || clock.slept[0] != 31*time.Second {
		t.Errorf("hold = %v, want [31s]", clock.slept)
	}
}

func TestScreen_LowerIgnoresCancelledContext(t *testing.T) {
	sender := newFakeSender()
	s := newTestScreen(sender, &fakeClock{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Even with ctx already cancelled the sequence must run to stop.
	out := s.Apply(ctx, room.ModeProjector)
	if !out.OK() {
		t.Fatalf("Apply() = %+v, want success", out)
	}
	if len(sender.sent) != 2 {
		t.Errorf("sent %d signals, want down+stop despite cancellation", len(sender.sent))
	}
}

func TestScreen_SecondLowerIsNoOp(t *testing.T) {
	sender := newFakeSender()
	s := newTestScreen(sender, &fakeClock{})

	s.Apply(context.Background(), room.ModeProjector)
	out := s.Apply(context.Background(), room.ModeProjector)

	if !out.OK() || !strings.Contains(out.Message, "already") {
		t.Fatalf("second Apply = %+v, want 'already down' success", out)
	}
	if len(sender.sent) != 2 {
		t.Errorf("sent %d signals, want no transmissions on second apply", len(sender.sent))
	}
}

func TestScreen_RaiseSendsSingleUp(t *testing.T) {
	sender := newFakeSender()
	s := newTestScreen(sender, &fakeClock{})

	s.Apply(context.Background(), room.ModeProjector)
	out := s.Apply(context.Background(), room.ModeDesk)
	if !out.OK() {
		t.Fatalf("Apply(desk) = %+v, want success", out)
	}

	last := sender.sent[len(sender.sent)-1]
	if !bytes.Equal(last, screenUpCode) {
		t.Errorf("last signal = %x, want up code", last)
	}
}

func TestScreen_BeliefUpdatedOnlyAfterStop(t *testing.T) {
	sender := newFakeSender()
	s := newTestScreen(sender, &fakeClock{})

	// Stop signal fails after down was transmitted.
	sender.failAfter = 1
	sender.err = errors.New("broadlink: not connected")
	if out := s.Apply(context.Background(), room.ModeProjector); out.OK() {
		t.Fatalf("Apply() = %+v, want error when stop fails", out)
	}

	// Unknown belief forces a full re-run rather than an already-down skip.
	sender.failAfter = -1
	out := s.Apply(context.Background(), room.ModeProjector)
	if !out.OK() {
		t.Fatalf("retry = %+v, want success", out)
	}
	if strings.Contains(out.Message, "already") {
		t.Errorf("retry message = %q, must not claim already down", out.Message)
	}
}
