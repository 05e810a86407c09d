package signal

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// fakeSession returns ErrPending a configured number of times before
// producing its code.
type fakeSession struct {
	mu       sync.Mutex
	pendings int
	code     []byte
	err      error
}

func (f *fakeSession) Poll(_ context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.pendings > 0 {
		f.pendings--
		return nil, ErrPending
	}
	return f.code, nil
}

type fakeTransport struct {
	session   *fakeSession
	beginErr  error
	lastSweep float64
}

func (f *fakeTransport) BeginLearning(_ context.Context, frequencyKHz float64) (Session, error) {
	f.lastSweep = frequencyKHz
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.session, nil
}

func testLearner(t *testing.T, tr *fakeTransport) (*Learner, *Store) {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "signals.json"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	l := NewLearner(store, tr)
	l.PollInterval = time.Millisecond
	l.Timeout = 250 * time.Millisecond
	return l, store
}

func TestLearn_CapturesAndPersists(t *testing.T) {
	code := []byte{0x26, 0x00, 0xAA}
	tr := &fakeTransport{session: &fakeSession{pendings: 3, code: code}}
	l, store := testLearner(t, tr)

	got, err := l.Learn(context.Background(), "test_button", KindIR, nil)
	if err != nil {
		t.Fatalf("Learn() error = %v", err)
	}
	if !bytes.Equal(got.Code, code) {
		t.Errorf("Learn() code = %x, want %x", got.Code, code)
	}
	if tr.lastSweep != 0 {
		t.Errorf("IR learn used sweep frequency %v, want 0", tr.lastSweep)
	}

	stored, err := store.Get("test_button")
	if err != nil {
		t.Fatalf("Get() after Learn error = %v", err)
	}
	if !bytes.Equal(stored.Code, code) {
		t.Errorf("stored code = %x, want %x", stored.Code, code)
	}
}

func TestLearn_RFPassesFrequency(t *testing.T) {
	tr := &fakeTransport{session: &fakeSession{code: []byte{0x01}}}
	l, _ := testLearner(t, tr)

	if _, err := l.Learn(context.Background(), "screen_down", KindRF, freq(433.92)); err != nil {
		t.Fatalf("Learn() error = %v", err)
	}
	if tr.lastSweep != 433.92 {
		t.Errorf("sweep frequency = %v, want 433.92", tr.lastSweep)
	}
}

func TestLearn_RFRequiresFrequency(t *testing.T) {
	tr := &fakeTransport{session: &fakeSession{code: []byte{0x01}}}
	l, _ := testLearner(t, tr)

	_, err := l.Learn(context.Background(), "screen_down", KindRF, nil)
	if !errors.Is(err, ErrFrequencyRequired) {
		t.Errorf("Learn() error = %v, want ErrFrequencyRequired", err)
	}
}

func TestLearn_Timeout(t *testing.T) {
	// A session that never produces a code.
	tr := &fakeTransport{session: &fakeSession{pendings: 1 << 30}}
	l, store := testLearner(t, tr)
	l.Timeout = 20 * time.Millisecond

	_, err := l.Learn(context.Background(), "never", KindIR, nil)
	if !errors.Is(err, ErrLearnTimeout) {
		t.Fatalf("Learn() error = %v, want ErrLearnTimeout", err)
	}
	if store.Count() != 0 {
		t.Errorf("store Count() = %d after timeout, want 0", store.Count())
	}
}

func TestLearn_Cancelled(t *testing.T) {
	tr := &fakeTransport{session: &fakeSession{pendings: 1 << 30}}
	l, _ := testLearner(t, tr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Learn(ctx, "never", KindIR, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Learn() error = %v, want context.Canceled", err)
	}
}

func TestLearn_SessionError(t *testing.T) {
	tr := &fakeTransport{session: &fakeSession{err: errors.New("link down")}}
	l, _ := testLearner(t, tr)

	if _, err := l.Learn(context.Background(), "btn", KindIR, nil); err == nil {
		t.Fatal("Learn() expected error when session polling fails")
	}
}
