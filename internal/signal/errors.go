package signal

import "errors"

// Domain errors for the signal package. Check with errors.Is().
var (
	// ErrNotFound is returned when no descriptor exists for a button name.
	ErrNotFound = errors.New("signal: not found")

	// ErrInvalidName is returned when a button name is empty.
	ErrInvalidName = errors.New("signal: invalid name")

	// ErrInvalidKind is returned when a signal kind is neither ir nor rf.
	ErrInvalidKind = errors.New("signal: invalid kind")

	// ErrFrequencyRequired is returned when learning an RF signal without a
	// sweep frequency.
	ErrFrequencyRequired = errors.New("signal: rf learning requires a frequency")

	// ErrPending is returned by a learning session poll when no code has
	// been captured yet.
	ErrPending = errors.New("signal: no code captured yet")

	// ErrLearnTimeout is returned when a learning session expires before a
	// code arrives.
	ErrLearnTimeout = errors.New("signal: learning timed out")
)
