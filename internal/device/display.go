package device

import (
	"context"
	"errors"

	"github.com/sawa9885/roomcore/internal/process"
	"github.com/sawa9885/roomcore/internal/room"
)

// CommandRunner executes the profile-switch binary. *process.Runner
// satisfies it.
type CommandRunner interface {
	Run(ctx context.Context, binary string, args ...string) error
}

// Display switches the multi-monitor layout by invoking an external
// profile-switcher tool with a per-mode profile name. Idempotent on the
// last profile that was confirmed applied.
type Display struct {
	id       string
	binary   string
	flag     string
	profiles map[room.Mode]string
	runner   CommandRunner

	applied string
}

// DisplayConfig describes the monitor profile switcher.
type DisplayConfig struct {
	// ID is the identifier reported in room outcomes.
	ID string

	// Binary is the profile-switcher executable.
	Binary string

	// Flag is the argument that precedes the profile name
	// (e.g. "-monitorloadprofile").
	Flag string

	// Profiles maps each mode to the profile name to load.
	Profiles map[room.Mode]string
}

// NewDisplay creates a display profile controller.
func NewDisplay(cfg DisplayConfig, runner CommandRunner) *Display {
	return &Display{
		id:       cfg.ID,
		binary:   cfg.Binary,
		flag:     cfg.Flag,
		profiles: cfg.Profiles,
		runner:   runner,
	}
}

// ID returns the device identifier.
func (d *Display) ID() string { return d.id }

// Apply loads the profile mapped to the mode. A missing executable and a
// failing execution are both error outcomes but with distinct messages, so
// an operator can tell a broken environment from a rejected profile.
func (d *Display) Apply(ctx context.Context, mode room.Mode) room.Outcome {
	profile, ok := d.profiles[mode]
	if !ok {
		return room.Errorf("no display profile mapped for mode %s", mode)
	}
	if d.applied == profile {
		return room.Success("profile %q already loaded", profile)
	}

	err := d.runner.Run(ctx, d.binary, d.flag, profile)
	switch {
	case err == nil:
	case errors.Is(err, process.ErrBinaryNotFound):
		return room.Errorf("profile switcher missing: %v", err)
	default:
		return room.Errorf("load profile %q: %v", profile, err)
	}

	d.applied = profile
	return room.Success("loaded profile %q", profile)
}
