package macro

import (
	"context"
	"fmt"
	"strings"
)

// Event is one key transition from the listener.
type Event struct {
	// Key is the normalized key name ("ctrl", "shift", "p", "1", ...).
	Key string

	// Down is true for a press, false for a release.
	Down bool
}

// Listener delivers global key transitions.
type Listener interface {
	// Start begins capture and returns the event stream. The stream is
	// closed when ctx is cancelled or Stop is called.
	Start(ctx context.Context) (<-chan Event, error)

	// Stop ends capture and releases listener resources.
	Stop() error
}

// Binding maps a key combination to a room mode name.
type Binding struct {
	// Keys is the combination; the action fires when every member is held.
	Keys []string

	// Mode is the mode name handed to the fire callback.
	Mode string
}

// Logger defines the logging interface used by the trigger.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Debug(string, ...any) {}

type binding struct {
	keys map[string]struct{}
	mode string
}

// Trigger is the held-keys state machine. One instance per process; the
// held set and the listener are owned by the instance, never shared.
type Trigger struct {
	listener Listener
	bindings []binding
	quit     map[string]struct{}
	fire     func(mode string)
	logger   Logger

	held map[string]struct{}
}

// NewTrigger creates a trigger that calls fire with the bound mode name
// whenever a binding's combination becomes fully held. quitKeys names the
// combination that stops the listener; it may be empty, in which case the
// trigger runs until its context is cancelled.
func NewTrigger(listener Listener, bindings []Binding, quitKeys []string, fire func(mode string)) (*Trigger, error) {
	if len(bindings) == 0 {
		return nil, ErrNoBindings
	}

	t := &Trigger{
		listener: listener,
		quit:     keySet(quitKeys),
		fire:     fire,
		logger:   noopLogger{},
		held:     make(map[string]struct{}),
	}
	for _, b := range bindings {
		if len(b.Keys) == 0 {
			return nil, fmt.Errorf("%w: binding for mode %q has no keys", ErrNoBindings, b.Mode)
		}
		t.bindings = append(t.bindings, binding{keys: keySet(b.Keys), mode: b.Mode})
	}
	return t, nil
}

// SetLogger sets the logger for the trigger.
func (t *Trigger) SetLogger(logger Logger) {
	t.logger = logger
}

// Run captures key events until the quit combination is pressed or ctx is
// cancelled. Binding actions fire from this goroutine; the callback should
// enqueue work rather than perform it inline, because a slow callback
// stalls key processing.
func (t *Trigger) Run(ctx context.Context) error {
	events, err := t.listener.Start(ctx)
	if err != nil {
		return fmt.Errorf("macro: starting listener: %w", err)
	}

	t.logger.Info("macro trigger running", "bindings", len(t.bindings))

	for {
		select {
		case <-ctx.Done():
			_ = t.listener.Stop()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if t.handle(ev) {
				t.logger.Info("quit combination pressed, stopping listener")
				return t.listener.Stop()
			}
		}
	}
}

// handle applies one transition to the held set and fires any bindings that
// became satisfied. Returns true when the quit combination is held.
func (t *Trigger) handle(ev Event) bool {
	key := normalizeKey(ev.Key)

	if !ev.Down {
		// A release for a key never seen pressed happens when the listener
		// started mid-press; dropping it keeps the held set consistent.
		delete(t.held, key)
		return false
	}

	if _, already := t.held[key]; already {
		// OS auto-repeat. Not a transition, so no re-check.
		return false
	}
	t.held[key] = struct{}{}

	for _, b := range t.bindings {
		if subset(b.keys, t.held) {
			t.logger.Debug("binding fired", "mode", b.mode)
			t.fire(b.mode)
		}
	}

	return len(t.quit) > 0 && subset(t.quit, t.held)
}

// subset reports whether every key in want is held.
func subset(want, held map[string]struct{}) bool {
	for k := range want {
		if _, ok := held[k]; !ok {
			return false
		}
	}
	return true
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[normalizeKey(k)] = struct{}{}
	}
	return set
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
