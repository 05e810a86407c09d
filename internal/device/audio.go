package device

import (
	"context"
	"sort"

	"github.com/sawa9885/roomcore/internal/room"
)

// AudioEngine is the native audio routing engine boundary. The voicemeeter
// package provides the real implementation on Windows and an unavailable
// stub elsewhere.
type AudioEngine interface {
	// SetBusMute mutes or unmutes one output bus.
	SetBusMute(bus int, mute bool) error

	// Restart commits pending routing changes so they take effect together.
	Restart() error
}

// AudioMatrix routes room audio by muting and unmuting engine buses
// according to a fixed per-mode table, then committing with one engine
// restart. Idempotent on the last mode that was fully committed.
type AudioMatrix struct {
	id     string
	table  map[room.Mode]map[int]bool
	engine AudioEngine

	applied room.Mode
}

// AudioConfig describes the audio matrix controller.
type AudioConfig struct {
	// ID is the identifier reported in room outcomes.
	ID string

	// Buses maps each mode to the mute state of every bus it touches.
	Buses map[room.Mode]map[int]bool
}

// NewAudioMatrix creates an audio matrix controller.
func NewAudioMatrix(cfg AudioConfig, engine AudioEngine) *AudioMatrix {
	return &AudioMatrix{id: cfg.ID, table: cfg.Buses, engine: engine}
}

// ID returns the device identifier.
func (a *AudioMatrix) ID() string { return a.id }

// Apply sets every bus in the mode's table, then restarts the engine so the
// combined routing lands at once. The cached mode is updated only after the
// restart succeeds; a failure anywhere leaves it stale so the next Apply
// replays the full table.
func (a *AudioMatrix) Apply(_ context.Context, mode room.Mode) room.Outcome {
	if a.applied == mode {
		return room.Success("audio already routed for %s", mode)
	}

	table, ok := a.table[mode]
	if !ok {
		return room.Errorf("no audio routing mapped for mode %s", mode)
	}

	// Stable bus order keeps engine calls and failure messages
	// deterministic.
	buses := make([]int, 0, len(table))
	for bus := range table {
		buses = append(buses, bus)
	}
	sort.Ints(buses)

	for _, bus := range buses {
		if err := a.engine.SetBusMute(bus, table[bus]); err != nil {
			return room.Errorf("bus %d mute=%t: %v", bus, table[bus], err)
		}
	}

	if err := a.engine.Restart(); err != nil {
		return room.Errorf("commit audio routing: %v", err)
	}

	a.applied = mode
	return room.Success("audio routed for %s", mode)
}
