package device

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sawa9885/roomcore/internal/room"
)

func newTestProjector(sender *fakeSender, clock *fakeClock) *Projector {
	signals := &fakeSignals{codes: map[string][]byte{
		"projector_power": {0x26, 0x00, 0x0a},
	}}
	return NewProjector(ProjectorConfig{ID: "projector", PowerSignal: "projector_power"}, signals, sender, clock)
}

func TestProjector_PowerOnSendsOnePulse(t *testing.T) {
	sender := newFakeSender()
	clock := &fakeClock{}
	p := newTestProjector(sender, clock)

	out := p.Apply(context.Background(), room.ModeProjector)
	if !out.OK() {
		t.Fatalf("Apply() = %+v, want success", out)
	}
	if len(sender.sent) != 1 {
		t.Errorf("sent %d pulses, want 1", len(sender.sent))
	}
	if len(clock.slept) != 0 {
		t.Errorf("slept %v, want no settle on power-on", clock.slept)
	}
}

func TestProjector_PowerOffSendsPulseSettlePulse(t *testing.T) {
	sender := newFakeSender()
	clock := &fakeClock{}
	p := newTestProjector(sender, clock)

	p.Apply(context.Background(), room.ModeProjector)
	out := p.Apply(context.Background(), room.ModeDesk)
	if !out.OK() {
		t.Fatalf("Apply(desk) = %+v, want success", out)
	}

	if len(sender.sent) != 3 { // 1 for on, 2 for off
		t.Fatalf("sent %d pulses, want 3", len(sender.sent))
	}
	if len(clock.slept) != 1 || clock.slept[0] != 250*time.Millisecond {
		t.Errorf("settle = %v, want [250ms]", clock.slept)
	}
}

func TestProjector_SecondApplyIsNoOp(t *testing.T) {
	sender := newFakeSender()
	p := newTestProjector(sender, &fakeClock{})

	p.Apply(context.Background(), room.ModeProjector)
	out := p.Apply(context.Background(), room.ModeProjector)

	if !out.OK() || !strings.Contains(out.Message, "already") {
		t.Fatalf("second Apply = %+v, want 'already on' success", out)
	}
	if len(sender.sent) != 1 {
		t.Errorf("sent %d pulses, want 1", len(sender.sent))
	}
}

func TestProjector_PartialOffSequenceDegradesToUnknown(t *testing.T) {
	sender := newFakeSender()
	p := newTestProjector(sender, &fakeClock{})

	p.Apply(context.Background(), room.ModeProjector)

	// Second pulse of the off sequence fails.
	sender.failAfter = 2
	sender.err = errors.New("broadlink: not connected")
	if out := p.Apply(context.Background(), room.ModeDesk); out.OK() {
		t.Fatalf("Apply() = %+v, want error", out)
	}

	// Belief is unknown, so retrying off transmits again rather than
	// reporting already-off.
	sender.failAfter = -1
	out := p.Apply(context.Background(), room.ModeDesk)
	if !out.OK() {
		t.Fatalf("retry = %+v, want success", out)
	}
	if strings.Contains(out.Message, "already") {
		t.Errorf("retry message = %q, must not claim already off", out.Message)
	}
}

func TestProjector_MissingSignalIsError(t *testing.T) {
	p := NewProjector(ProjectorConfig{ID: "projector", PowerSignal: "never_learned"},
		&fakeSignals{codes: map[string][]byte{}}, newFakeSender(), &fakeClock{})

	out := p.Apply(context.Background(), room.ModeProjector)
	if out.OK() {
		t.Fatalf("Apply() = %+v, want error for missing signal", out)
	}
	if !strings.Contains(out.Message, "never_learned") {
		t.Errorf("message = %q, want signal name", out.Message)
	}
}
