package macro

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeListener feeds scripted events to a trigger.
type fakeListener struct {
	events chan Event

	mu      sync.Mutex
	started bool
	stopped bool
}

func newFakeListener() *fakeListener {
	return &fakeListener{events: make(chan Event, 32)}
}

func (f *fakeListener) Start(context.Context) (<-chan Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	return f.events, nil
}

func (f *fakeListener) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func (f *fakeListener) wasStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

func press(key string) Event   { return Event{Key: key, Down: true} }
func release(key string) Event { return Event{Key: key, Down: false} }

// runTrigger drives the trigger with the scripted events and returns the
// modes fired. The script must end the run (quit combo or channel close).
func runTrigger(t *testing.T, bindings []Binding, quit []string, script []Event) []string {
	t.Helper()

	listener := newFakeListener()
	var mu sync.Mutex
	var fired []string
	trig, err := NewTrigger(listener, bindings, quit, func(mode string) {
		mu.Lock()
		fired = append(fired, mode)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("NewTrigger() error = %v", err)
	}

	for _, ev := range script {
		listener.events <- ev
	}
	close(listener.events)

	done := make(chan error, 1)
	go func() { done <- trig.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return")
	}

	mu.Lock()
	defer mu.Unlock()
	return fired
}

func TestTrigger_FiresWhenComboFullyHeld(t *testing.T) {
	fired := runTrigger(t,
		[]Binding{{Keys: []string{"ctrl", "shift", "p"}, Mode: "projector"}},
		nil,
		[]Event{press("ctrl"), press("shift"), press("p")},
	)

	if len(fired) != 1 || fired[0] != "projector" {
		t.Errorf("fired = %v, want [projector]", fired)
	}
}

func TestTrigger_PartialComboDoesNotFire(t *testing.T) {
	fired := runTrigger(t,
		[]Binding{{Keys: []string{"ctrl", "shift", "p"}, Mode: "projector"}},
		nil,
		[]Event{press("ctrl"), press("p")},
	)

	if len(fired) != 0 {
		t.Errorf("fired = %v, want none", fired)
	}
}

func TestTrigger_ReleaseAndRepressFiresAgain(t *testing.T) {
	// Holding the combo fires once; releasing and re-pressing one member
	// fires a second time. Exactly twice, not once per partial subset.
	fired := runTrigger(t,
		[]Binding{{Keys: []string{"a", "b", "c"}, Mode: "desk"}},
		nil,
		[]Event{
			press("a"), press("b"), press("c"),
			release("c"), press("c"),
		},
	)

	if len(fired) != 2 {
		t.Errorf("fired %d times (%v), want exactly 2", len(fired), fired)
	}
}

func TestTrigger_AutoRepeatDoesNotRefire(t *testing.T) {
	fired := runTrigger(t,
		[]Binding{{Keys: []string{"ctrl", "d"}, Mode: "desk"}},
		nil,
		[]Event{press("ctrl"), press("d"), press("d"), press("d")},
	)

	if len(fired) != 1 {
		t.Errorf("fired %d times (%v), want 1 despite auto-repeat", len(fired), fired)
	}
}

func TestTrigger_UnseenKeyUpIsNoOp(t *testing.T) {
	// Listener started mid-press: the first event is a release for a key
	// the trigger never saw go down.
	fired := runTrigger(t,
		[]Binding{{Keys: []string{"ctrl", "b"}, Mode: "bedtime"}},
		nil,
		[]Event{release("shift"), press("ctrl"), press("b")},
	)

	if len(fired) != 1 || fired[0] != "bedtime" {
		t.Errorf("fired = %v, want [bedtime]", fired)
	}
}

func TestTrigger_OverlappingBindingsBothFire(t *testing.T) {
	fired := runTrigger(t,
		[]Binding{
			{Keys: []string{"ctrl", "shift"}, Mode: "desk"},
			{Keys: []string{"ctrl", "shift", "p"}, Mode: "projector"},
		},
		nil,
		[]Event{press("ctrl"), press("shift"), press("p")},
	)

	want := []string{"desk", "projector"}
	if len(fired) != 2 || fired[0] != want[0] || fired[1] != want[1] {
		t.Errorf("fired = %v, want %v", fired, want)
	}
}

func TestTrigger_QuitComboStopsListener(t *testing.T) {
	listener := newFakeListener()
	trig, err := NewTrigger(listener,
		[]Binding{{Keys: []string{"ctrl", "d"}, Mode: "desk"}},
		[]string{"ctrl", "shift", "q"},
		func(string) {},
	)
	if err != nil {
		t.Fatalf("NewTrigger() error = %v", err)
	}

	for _, ev := range []Event{press("ctrl"), press("shift"), press("q")} {
		listener.events <- ev
	}

	done := make(chan error, 1)
	go func() { done <- trig.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return on quit combination")
	}

	if !listener.wasStopped() {
		t.Error("listener was not stopped")
	}
}

func TestTrigger_ContextCancelStopsListener(t *testing.T) {
	listener := newFakeListener()
	trig, err := NewTrigger(listener,
		[]Binding{{Keys: []string{"ctrl", "d"}, Mode: "desk"}},
		nil, func(string) {})
	if err != nil {
		t.Fatalf("NewTrigger() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- trig.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return on cancellation")
	}

	if !listener.wasStopped() {
		t.Error("listener was not stopped")
	}
}

func TestNewTrigger_Validation(t *testing.T) {
	if _, err := NewTrigger(newFakeListener(), nil, nil, func(string) {}); !errors.Is(err, ErrNoBindings) {
		t.Errorf("no bindings error = %v, want ErrNoBindings", err)
	}
	if _, err := NewTrigger(newFakeListener(), []Binding{{Mode: "desk"}}, nil, func(string) {}); !errors.Is(err, ErrNoBindings) {
		t.Errorf("empty keys error = %v, want ErrNoBindings", err)
	}
}
