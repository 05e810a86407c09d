package room

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Logger defines the logging interface used by this package.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// entry adapts both controller shapes to a single fan-out step.
type entry struct {
	id    string
	apply func(ctx context.Context, mode Mode) []DeviceOutcome
}

// Orchestrator fans a mode change out to every registered controller and
// aggregates the per-device outcomes into a RoomOutcome.
//
// Controllers run in registration order, sequentially. Devices are
// independent, so the fan-out is best-effort: losing audio connectivity must
// not prevent the lights from switching. The only condition that halts a
// SetMode call before fan-out is an invalid mode.
//
// The whole fan-out is guarded by one mutex. The end-user contract is "the
// room reaches one coherent mode", not per-device atomicity, so overlapping
// SetMode calls serialise rather than interleave.
type Orchestrator struct {
	mu         sync.Mutex // serialises the whole fan-out
	regMu      sync.Mutex // guards controllers during registration
	entries    []entry
	ids        map[string]struct{}
	logger     Logger
	inProgress atomic.Bool

	lastMu      sync.RWMutex
	lastOutcome *RoomOutcome

	hookMu    sync.RWMutex
	completed []func(RoomOutcome)
}

// NewOrchestrator creates an empty orchestrator. Controllers are added with
// Register/RegisterGroup in the order they should be applied.
func NewOrchestrator(logger Logger) *Orchestrator {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Orchestrator{
		ids:    make(map[string]struct{}),
		logger: logger,
	}
}

// Register appends a controller to the fan-out order.
// Returns ErrDuplicateController if the ID is already taken.
func (o *Orchestrator) Register(c Controller) error {
	return o.register(c.ID(), func(ctx context.Context, mode Mode) []DeviceOutcome {
		return []DeviceOutcome{{DeviceID: c.ID(), Outcome: c.Apply(ctx, mode)}}
	})
}

// RegisterGroup appends a grouped controller to the fan-out order. Member
// outcomes are flattened into the room result.
func (o *Orchestrator) RegisterGroup(g GroupController) error {
	return o.register(g.ID(), g.ApplyGroup)
}

func (o *Orchestrator) register(id string, apply func(context.Context, Mode) []DeviceOutcome) error {
	o.regMu.Lock()
	defer o.regMu.Unlock()

	if _, exists := o.ids[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateController, id)
	}
	o.ids[id] = struct{}{}
	o.entries = append(o.entries, entry{id: id, apply: apply})
	return nil
}

// ControllerCount returns the number of registered controllers.
func (o *Orchestrator) ControllerCount() int {
	o.regMu.Lock()
	defer o.regMu.Unlock()
	return len(o.entries)
}

// OnComplete registers a hook invoked after every finished SetMode call
// (including validation rejections). Hooks run on the calling goroutine and
// must not call back into SetMode.
func (o *Orchestrator) OnComplete(fn func(RoomOutcome)) {
	o.hookMu.Lock()
	defer o.hookMu.Unlock()
	o.completed = append(o.completed, fn)
}

// InProgress reports whether a SetMode fan-out is currently running. Callers
// that must not block (UIs, status endpoints) use this instead of attempting
// an overlapping call.
func (o *Orchestrator) InProgress() bool {
	return o.inProgress.Load()
}

// LastOutcome returns a copy of the most recent RoomOutcome, or false when no
// mode has been applied yet.
func (o *Orchestrator) LastOutcome() (RoomOutcome, bool) {
	o.lastMu.RLock()
	defer o.lastMu.RUnlock()
	if o.lastOutcome == nil {
		return RoomOutcome{}, false
	}
	cpy := *o.lastOutcome
	cpy.Results = append([]DeviceOutcome(nil), o.lastOutcome.Results...)
	return cpy, true
}

// SetMode applies the given mode to every registered controller and returns
// the aggregate outcome.
//
// The mode is validated first; on failure a RoomOutcome with a single
// top-level error and an empty device list is returned and no controller is
// invoked. Otherwise every controller runs, in order, regardless of earlier
// failures, and the overall status is error iff at least one member failed.
func (o *Orchestrator) SetMode(ctx context.Context, mode Mode) RoomOutcome {
	outcome := RoomOutcome{
		ActivationID: "act-" + uuid.NewString()[:16],
		Mode:         mode,
		StartedAt:    time.Now().UTC(),
	}

	if _, err := ParseMode(string(mode)); err != nil {
		outcome.Status = StatusError
		outcome.Error = err.Error()
		outcome.CompletedAt = time.Now().UTC()
		o.logger.Warn("mode rejected", "mode", string(mode), "activation_id", outcome.ActivationID)
		o.finish(outcome)
		return outcome
	}

	o.mu.Lock()
	o.inProgress.Store(true)
	defer func() {
		o.inProgress.Store(false)
		o.mu.Unlock()
	}()

	o.logger.Info("mode change started",
		"mode", string(mode),
		"activation_id", outcome.ActivationID,
		"controllers", len(o.entries),
	)

	failed := 0
	for _, e := range o.entries {
		for _, res := range o.safeApply(ctx, e, mode) {
			if !res.OK() {
				failed++
				o.logger.Warn("device failed",
					"device", res.DeviceID,
					"mode", string(mode),
					"message", res.Message,
				)
			} else {
				o.logger.Debug("device applied", "device", res.DeviceID, "message", res.Message)
			}
			outcome.Results = append(outcome.Results, res)
		}
	}

	outcome.Status = StatusSuccess
	if failed > 0 {
		outcome.Status = StatusError
	}
	outcome.CompletedAt = time.Now().UTC()
	outcome.DurationMS = outcome.CompletedAt.Sub(outcome.StartedAt).Milliseconds()

	o.logger.Info("mode change finished",
		"mode", string(mode),
		"activation_id", outcome.ActivationID,
		"status", string(outcome.Status),
		"devices", len(outcome.Results),
		"failed", failed,
		"duration_ms", outcome.DurationMS,
	)

	o.finish(outcome)
	return outcome
}

// safeApply invokes one controller, converting a panic into an error outcome
// naming the device. Orchestration must never abort mid fan-out because of
// one controller's internal fault.
func (o *Orchestrator) safeApply(ctx context.Context, e entry, mode Mode) (results []DeviceOutcome) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("controller panic", "device", e.id, "panic", fmt.Sprint(r))
			results = []DeviceOutcome{{
				DeviceID: e.id,
				Outcome:  Errorf("controller %s panicked: %v", e.id, r),
			}}
		}
	}()
	return e.apply(ctx, mode)
}

// finish records the outcome and runs completion hooks.
func (o *Orchestrator) finish(outcome RoomOutcome) {
	o.lastMu.Lock()
	cpy := outcome
	cpy.Results = append([]DeviceOutcome(nil), outcome.Results...)
	o.lastOutcome = &cpy
	o.lastMu.Unlock()

	o.hookMu.RLock()
	hooks := append([]func(RoomOutcome){}, o.completed...)
	o.hookMu.RUnlock()
	for _, fn := range hooks {
		fn(outcome)
	}
}
