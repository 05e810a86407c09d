package broadlink

import "errors"

// Domain errors for the broadlink package. Check with errors.Is().
var (
	// ErrNotConnected is returned by operations on a device whose
	// connect/auth handshake failed. The link stays broken until a new Dial.
	ErrNotConnected = errors.New("broadlink: device not connected")

	// ErrAuthFailed is returned when the device rejects the authentication
	// handshake.
	ErrAuthFailed = errors.New("broadlink: authentication failed")

	// ErrUnreachable is returned when the device cannot be reached on the
	// network.
	ErrUnreachable = errors.New("broadlink: device unreachable")

	// ErrBadResponse is returned when a datagram fails checksum or length
	// validation.
	ErrBadResponse = errors.New("broadlink: malformed response")

	// ErrCommandRejected is returned when the device reports a non-zero
	// status for a command.
	ErrCommandRejected = errors.New("broadlink: command rejected")

	// ErrInvalidConfig is returned when the device configuration is invalid.
	ErrInvalidConfig = errors.New("broadlink: invalid config")
)

// errNoData is the internal mapping of the device's "learning buffer empty"
// status. The learning session translates it to signal.ErrPending.
var errNoData = errors.New("broadlink: no data")

