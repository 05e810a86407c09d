//go:build windows

package macro

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/windows"
)

// pollInterval is how often key states are sampled. 20ms is well under the
// shortest human key press.
const pollInterval = 20 * time.Millisecond

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	getAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

// virtualKeys maps normalized key names to Windows virtual-key codes.
var virtualKeys = map[string]int{
	"ctrl":  0x11,
	"shift": 0x10,
	"alt":   0x12,
	"esc":   0x1b,
	"space": 0x20,
}

func init() {
	for c := '0'; c <= '9'; c++ {
		virtualKeys[string(c)] = 0x30 + int(c-'0')
	}
	for c := 'a'; c <= 'z'; c++ {
		virtualKeys[string(c)] = 0x41 + int(c-'a')
	}
	for i := 1; i <= 12; i++ {
		virtualKeys[fmt.Sprintf("f%d", i)] = 0x70 + i - 1
	}
}

// KeyListener samples the global keyboard state for a fixed set of keys and
// emits a transition event whenever one of them changes. Only the keys
// named at construction are watched; the rest of the keyboard is ignored.
type KeyListener struct {
	watch map[string]int

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewKeyListener creates a listener watching the given keys. Key names must
// exist in the virtual-key table.
func NewKeyListener(keys []string) (*KeyListener, error) {
	watch := make(map[string]int, len(keys))
	for _, k := range keys {
		name := normalizeKey(k)
		vk, ok := virtualKeys[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, k)
		}
		watch[name] = vk
	}
	return &KeyListener{watch: watch}, nil
}

// Start begins polling. The returned stream closes when ctx is cancelled or
// Stop is called.
func (l *KeyListener) Start(ctx context.Context) (<-chan Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return nil, fmt.Errorf("macro: listener already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.stopped = make(chan struct{})

	events := make(chan Event, 16)
	go l.poll(ctx, events)
	return events, nil
}

// Stop ends polling and closes the event stream.
func (l *KeyListener) Stop() error {
	l.mu.Lock()
	cancel, stopped := l.cancel, l.stopped
	l.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-stopped
	return nil
}

func (l *KeyListener) poll(ctx context.Context, events chan<- Event) {
	defer close(events)
	defer close(l.stopped)

	down := make(map[string]bool, len(l.watch))
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for name, vk := range l.watch {
				state, _, _ := getAsyncKeyState.Call(uintptr(vk))
				pressed := state&0x8000 != 0
				if pressed == down[name] {
					continue
				}
				down[name] = pressed
				select {
				case events <- Event{Key: name, Down: pressed}:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
