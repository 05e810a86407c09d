package signal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Session is one in-progress capture on the physical emitter. Poll returns
// the captured code once the operator has pressed the remote button, or
// ErrPending until then.
type Session interface {
	Poll(ctx context.Context) ([]byte, error)
}

// LearningTransport puts the physical emitter into capture mode.
// frequencyKHz selects an RF sweep; zero means infrared.
type LearningTransport interface {
	BeginLearning(ctx context.Context, frequencyKHz float64) (Session, error)
}

// Learner runs capture sessions against a transport and persists the result
// in the store. Learning is an operator workflow; it is not expected to run
// concurrently with playback, and the store's write lock covers the case
// where it does.
type Learner struct {
	store     *Store
	transport LearningTransport

	// PollInterval is how often the session is polled for a captured code.
	PollInterval time.Duration

	// Timeout bounds the whole capture; the operator has this long to press
	// the button after learning starts.
	Timeout time.Duration
}

// Learner defaults.
const (
	defaultPollInterval = 500 * time.Millisecond
	defaultLearnTimeout = 30 * time.Second
)

// NewLearner creates a learner writing into the given store.
func NewLearner(store *Store, transport LearningTransport) *Learner {
	return &Learner{
		store:        store,
		transport:    transport,
		PollInterval: defaultPollInterval,
		Timeout:      defaultLearnTimeout,
	}
}

// Learn captures one signal and persists it under the given button name,
// overwriting any previous descriptor for that name.
//
// For KindRF a sweep frequency is required; for KindIR it must be nil.
// The call blocks until a code is captured, the configured timeout expires
// (ErrLearnTimeout), or ctx is cancelled.
func (l *Learner) Learn(ctx context.Context, name string, kind Kind, frequencyKHz *float64) (Descriptor, error) {
	if name == "" {
		return Descriptor{}, ErrInvalidName
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return Descriptor{}, err
	}
	if kind == KindRF && frequencyKHz == nil {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrFrequencyRequired, name)
	}

	var sweep float64
	if kind == KindRF {
		sweep = *frequencyKHz
	}

	ctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	session, err := l.transport.BeginLearning(ctx, sweep)
	if err != nil {
		return Descriptor{}, fmt.Errorf("starting learning session: %w", err)
	}

	code, err := l.await(ctx, session)
	if err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{
		Name:         name,
		Kind:         kind,
		FrequencyKHz: frequencyKHz,
		Code:         code,
	}
	if err := l.store.Put(d); err != nil {
		return Descriptor{}, fmt.Errorf("persisting learned signal: %w", err)
	}
	return d, nil
}

// await polls the session until a code arrives or the context expires.
func (l *Learner) await(ctx context.Context, session Session) ([]byte, error) {
	interval := l.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrLearnTimeout
			}
			return nil, ctx.Err()
		case <-ticker.C:
			code, err := session.Poll(ctx)
			switch {
			case errors.Is(err, ErrPending):
				continue
			case err != nil:
				return nil, fmt.Errorf("polling learning session: %w", err)
			default:
				return code, nil
			}
		}
	}
}
