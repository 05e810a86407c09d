package device

import (
	"context"
	"time"

	"github.com/sawa9885/roomcore/internal/room"
	"github.com/sawa9885/roomcore/internal/signal"
)

// defaultPowerSettle is the gap between the two pulses of the power-off
// sequence. The projector ignores a second pulse that arrives while it is
// still reacting to the first.
const defaultPowerSettle = 250 * time.Millisecond

// Sender transmits a raw learned code. *broadlink.Device satisfies it.
type Sender interface {
	Send(ctx context.Context, code []byte) error
}

// SignalSource looks up learned codes by name. *signal.Store satisfies it.
type SignalSource interface {
	Get(name string) (signal.Descriptor, error)
}

// Projector drives a projector whose remote exposes only a power-toggle
// pulse, no discrete on/off. Reaching "on" from believed-off takes one
// pulse; reaching "off" takes a pulse, a settle delay, then a second pulse
// to get past the projector's shutdown confirmation prompt.
//
// The device has no feedback channel, so the cached state is a belief. A
// pulse that the transport accepts but the projector never receives leaves
// the belief wrong until the next mode change happens to correct it.
type Projector struct {
	id          string
	powerSignal string
	settle      time.Duration

	signals SignalSource
	sender  Sender
	clock   Clock

	believed powerState
}

// ProjectorConfig describes the projector controller.
type ProjectorConfig struct {
	// ID is the identifier reported in room outcomes.
	ID string

	// PowerSignal names the learned power-toggle code in the signal store.
	PowerSignal string

	// Settle overrides the delay between the two power-off pulses.
	// Zero selects the default.
	Settle time.Duration
}

// NewProjector creates a projector controller. The belief starts unknown,
// so the first Apply always transmits.
func NewProjector(cfg ProjectorConfig, signals SignalSource, sender Sender, clock Clock) *Projector {
	if cfg.Settle <= 0 {
		cfg.Settle = defaultPowerSettle
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Projector{
		id:          cfg.ID,
		powerSignal: cfg.PowerSignal,
		settle:      cfg.Settle,
		signals:     signals,
		sender:      sender,
		clock:       clock,
		believed:    powerUnknown,
	}
}

// ID returns the device identifier.
func (p *Projector) ID() string { return p.id }

// Apply drives the projector towards the power state the mode implies:
// on for projector mode, off otherwise. No signal is sent when the believed
// state already matches. A failure partway through the two-pulse off
// sequence resets the belief to unknown, because the projector may or may
// not have acted on the first pulse.
func (p *Projector) Apply(ctx context.Context, mode room.Mode) room.Outcome {
	desired := powerFor(mode == room.ModeProjector)
	if p.believed == desired {
		return room.Success("already %s", desired)
	}

	code, err := p.signals.Get(p.powerSignal)
	if err != nil {
		return room.Errorf("signal %q: %v", p.powerSignal, err)
	}

	if err := p.sender.Send(ctx, code.Code); err != nil {
		return room.Errorf("power pulse: %v", err)
	}

	if desired == powerOff {
		p.believed = powerUnknown
		p.clock.Sleep(ctx, p.settle)
		if err := p.sender.Send(ctx, code.Code); err != nil {
			return room.Errorf("power-off confirm pulse: %v", err)
		}
	}

	p.believed = desired
	return room.Success("powered %s", desired)
}
