package device

import (
	"context"

	"github.com/sawa9885/roomcore/internal/room"
)

// powerState is the cached on/off belief for a toggle actuator.
type powerState string

const (
	powerUnknown powerState = "unknown"
	powerOn      powerState = "on"
	powerOff     powerState = "off"
)

func powerFor(on bool) powerState {
	if on {
		return powerOn
	}
	return powerOff
}

// CloudClient sets the power state of a single cloud-addressable actuator.
// *govee.Client satisfies it.
type CloudClient interface {
	SetPower(ctx context.Context, deviceID, model string, on bool) error
}

// Toggle drives one cloud on/off actuator (a smart plug or light). The
// desired state is on for desk mode and off otherwise; Invert flips that
// mapping for devices that should behave the other way round.
type Toggle struct {
	id       string
	deviceID string
	model    string
	invert   bool
	client   CloudClient

	cached powerState
}

// ToggleConfig describes one cloud actuator.
type ToggleConfig struct {
	// ID is the identifier reported in room outcomes.
	ID string

	// DeviceID and Model address the actuator at the cloud API.
	DeviceID string
	Model    string

	// Invert flips the mode-to-power mapping: on for projector/bedtime,
	// off for desk.
	Invert bool
}

// NewToggle creates a cloud toggle controller. The cached state starts
// unknown so the first Apply always issues a command.
func NewToggle(cfg ToggleConfig, client CloudClient) *Toggle {
	return &Toggle{
		id:       cfg.ID,
		deviceID: cfg.DeviceID,
		model:    cfg.Model,
		invert:   cfg.Invert,
		client:   client,
		cached:   powerUnknown,
	}
}

// ID returns the device identifier.
func (t *Toggle) ID() string { return t.id }

// Apply drives the actuator to the power state the mode implies. Skips the
// network call when the cached state already matches. The cache is updated
// only after the cloud call succeeds, so a failed attempt stays stale and
// the next Apply retries.
func (t *Toggle) Apply(ctx context.Context, mode room.Mode) room.Outcome {
	desired := t.desiredFor(mode)
	if t.cached == desired {
		return room.Success("already %s", desired)
	}

	if err := t.client.SetPower(ctx, t.deviceID, t.model, desired == powerOn); err != nil {
		return room.Errorf("set power %s: %v", desired, err)
	}

	t.cached = desired
	return room.Success("switched %s", desired)
}

func (t *Toggle) desiredFor(mode room.Mode) powerState {
	on := mode == room.ModeDesk
	if t.invert {
		on = !on
	}
	return powerFor(on)
}

// ToggleGroup drives several cloud actuators that share one desired state
// (e.g. a pair of ceiling lights). Each member keeps its own cached state
// and reports its own outcome under "<group-id>/<member-id>", so one member
// failing does not mask the others.
type ToggleGroup struct {
	id      string
	members []*Toggle
}

// NewToggleGroup creates a group from the given member configs. Member
// outcomes are reported under the group ID with the member's own ID as a
// sub-identifier.
func NewToggleGroup(id string, members []ToggleConfig, client CloudClient) *ToggleGroup {
	g := &ToggleGroup{id: id}
	for _, m := range members {
		g.members = append(g.members, NewToggle(m, client))
	}
	return g
}

// ID returns the group identifier.
func (g *ToggleGroup) ID() string { return g.id }

// ApplyGroup applies the mode to every member independently, in
// registration order.
func (g *ToggleGroup) ApplyGroup(ctx context.Context, mode room.Mode) []room.DeviceOutcome {
	results := make([]room.DeviceOutcome, 0, len(g.members))
	for _, m := range g.members {
		results = append(results, room.DeviceOutcome{
			DeviceID: g.id + "/" + m.ID(),
			Outcome:  m.Apply(ctx, mode),
		})
	}
	return results
}
