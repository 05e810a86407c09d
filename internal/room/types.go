package room

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Mode is a room configuration. The set is closed: every controller knows how
// to translate each member into a desired device state, and anything outside
// the set is rejected at the boundary with ErrInvalidMode.
type Mode string

const (
	// ModeDesk is the working configuration: desk lights and plugs on,
	// projector and screen stowed, audio routed to the desk speakers.
	ModeDesk Mode = "desk"

	// ModeProjector is the cinema configuration: lights off, projector on,
	// screen lowered, audio routed to the projector speakers.
	ModeProjector Mode = "projector"

	// ModeBedtime powers everything down and mutes all audio buses.
	ModeBedtime Mode = "bedtime"
)

// Modes lists every valid mode in a stable order.
func Modes() []Mode {
	return []Mode{ModeDesk, ModeProjector, ModeBedtime}
}

// ParseMode validates a mode name. Matching is case-insensitive.
// Returns ErrInvalidMode for anything outside the closed set; an unknown
// mode is a dedicated error, never a silent no-op.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDesk:
		return ModeDesk, nil
	case ModeProjector:
		return ModeProjector, nil
	case ModeBedtime:
		return ModeBedtime, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Valid reports whether m is a member of the closed mode set.
func (m Mode) Valid() bool {
	_, err := ParseMode(string(m))
	return err == nil
}

// Status is the result classification shared by controller and orchestrator
// operations.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Outcome is the result of a single controller operation. Every operation
// returns one, never a bare boolean, so callers can report partial
// failures precisely.
type Outcome struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

// Success builds a success Outcome with a formatted message.
func Success(format string, args ...any) Outcome {
	return Outcome{Status: StatusSuccess, Message: fmt.Sprintf(format, args...)}
}

// Errorf builds an error Outcome with a formatted message.
func Errorf(format string, args ...any) Outcome {
	return Outcome{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// DeviceOutcome pairs an Outcome with the device that produced it. For
// grouped controllers the DeviceID carries a synthetic sub-identifier
// ("ceiling-lights/left").
type DeviceOutcome struct {
	DeviceID string `json:"device_id"`
	Outcome
}

// RoomOutcome is the aggregate result of one SetMode call. It is produced
// fresh on every call and never persisted by this package.
type RoomOutcome struct {
	// ActivationID uniquely identifies this fan-out for logs and telemetry.
	ActivationID string `json:"activation_id"`

	Mode Mode `json:"mode"`

	// Status is error iff at least one member failed (or validation failed
	// before fan-out, in which case Results is empty).
	Status Status `json:"status"`

	// Results holds one entry per device, in fan-out order. Empty when the
	// mode was rejected before any device was touched.
	Results []DeviceOutcome `json:"results"`

	// Error describes a top-level failure (mode validation). Empty when the
	// fan-out ran.
	Error string `json:"error,omitempty"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMS  int64     `json:"duration_ms"`
}

// Failed returns the results whose status is error.
func (r RoomOutcome) Failed() []DeviceOutcome {
	var failed []DeviceOutcome
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Controller is the capability every device variant implements: translate a
// mode into device commands and report what happened. Apply must be a
// success no-op when the device's cached state already matches the desired
// state, and must never mutate cached state unless the transport reported
// success.
type Controller interface {
	// ID returns the stable device identifier used in RoomOutcome results.
	ID() string

	// Apply drives the device towards the given mode. Errors are reported
	// inside the Outcome, not returned, so the orchestrator's fan-out policy
	// stays in one place.
	Apply(ctx context.Context, mode Mode) Outcome
}

// GroupController is the capability for controllers owning several
// sub-devices (e.g. a pair of ceiling lights). Each member reports its own
// outcome; the orchestrator flattens them into the room result.
type GroupController interface {
	// ID returns the group identifier; member outcomes are reported under
	// "<id>/<member>".
	ID() string

	// ApplyGroup drives every member towards the given mode independently.
	ApplyGroup(ctx context.Context, mode Mode) []DeviceOutcome
}
