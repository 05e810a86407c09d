package device

import (
	"context"
	"time"

	"github.com/sawa9885/roomcore/internal/room"
)

// defaultTravel is how long the screen motor needs for a full drop. The
// "stop" signal is sent after this so the screen halts at the bottom of its
// travel instead of the motor's own limit switch.
const defaultTravel = 31 * time.Second

// screenState is the cached position belief for the screen.
type screenState string

const (
	screenUnknown screenState = "unknown"
	screenUp      screenState = "up"
	screenDown    screenState = "down"
)

// Screen drives a motorized projection screen over directional RF signals.
// Lowering is a timed sequence: "down", wait for the full travel, "stop".
// Raising is a single "up" signal; the motor stops itself at the top.
//
// Like the projector, the screen offers no feedback, so the cached position
// is a belief updated only after a sequence completes.
type Screen struct {
	id         string
	downSignal string
	stopSignal string
	upSignal   string
	travel     time.Duration

	signals SignalSource
	sender  Sender
	clock   Clock

	believed screenState
}

// ScreenConfig describes the screen controller.
type ScreenConfig struct {
	// ID is the identifier reported in room outcomes.
	ID string

	// DownSignal, StopSignal and UpSignal name the learned codes in the
	// signal store.
	DownSignal string
	StopSignal string
	UpSignal   string

	// Travel overrides how long the lowering sequence holds before sending
	// stop. Zero selects the default.
	Travel time.Duration
}

// NewScreen creates a screen controller. The belief starts unknown, so the
// first Apply always transmits.
func NewScreen(cfg ScreenConfig, signals SignalSource, sender Sender, clock Clock) *Screen {
	if cfg.Travel <= 0 {
		cfg.Travel = defaultTravel
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Screen{
		id:         cfg.ID,
		downSignal: cfg.DownSignal,
		stopSignal: cfg.StopSignal,
		upSignal:   cfg.UpSignal,
		travel:     cfg.Travel,
		signals:    signals,
		sender:     sender,
		clock:      clock,
		believed:   screenUnknown,
	}
}

// ID returns the device identifier.
func (s *Screen) ID() string { return s.id }

// Apply lowers the screen for projector mode and raises it for every other
// mode. Skips when the believed position already matches.
//
// Once "down" has been transmitted the sequence must run through to "stop";
// abandoning it mid-travel would leave the screen hanging at an arbitrary
// height. The lowering sequence therefore ignores cancellation of ctx, and
// the belief becomes down only after the stop signal went out.
func (s *Screen) Apply(ctx context.Context, mode room.Mode) room.Outcome {
	if mode == room.ModeProjector {
		return s.lower(ctx)
	}
	return s.raise(ctx)
}

func (s *Screen) lower(ctx context.Context) room.Outcome {
	if s.believed == screenDown {
		return room.Success("already down")
	}

	down, err := s.signals.Get(s.downSignal)
	if err != nil {
		return room.Errorf("signal %q: %v", s.downSignal, err)
	}
	stop, err := s.signals.Get(s.stopSignal)
	if err != nil {
		return room.Errorf("signal %q: %v", s.stopSignal, err)
	}

	// The sequence is uninterruptible once the motor starts.
	seq := context.WithoutCancel(ctx)

	if err := s.sender.Send(seq, down.Code); err != nil {
		return room.Errorf("down signal: %v", err)
	}

	s.believed = screenUnknown
	s.clock.Sleep(seq, s.travel)

	if err := s.sender.Send(seq, stop.Code); err != nil {
		return room.Errorf("stop signal after %s travel: %v", s.travel, err)
	}

	s.believed = screenDown
	return room.Success("lowered over %s", s.travel)
}

func (s *Screen) raise(ctx context.Context) room.Outcome {
	if s.believed == screenUp {
		return room.Success("already up")
	}

	up, err := s.signals.Get(s.upSignal)
	if err != nil {
		return room.Errorf("signal %q: %v", s.upSignal, err)
	}

	if err := s.sender.Send(ctx, up.Code); err != nil {
		return room.Errorf("up signal: %v", err)
	}

	s.believed = screenUp
	return room.Success("raised")
}
