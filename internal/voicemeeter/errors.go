package voicemeeter

import "errors"

// Domain errors for the voicemeeter package. Check with errors.Is().
var (
	// ErrUnavailable is returned when the remote DLL cannot be loaded, on
	// platforms without it, or before Login succeeded.
	ErrUnavailable = errors.New("voicemeeter: remote engine unavailable")

	// ErrCallFailed is returned when a remote call returns a non-zero
	// status.
	ErrCallFailed = errors.New("voicemeeter: remote call failed")
)
