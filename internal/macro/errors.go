package macro

import "errors"

// Domain errors for the macro package. Check with errors.Is().
var (
	// ErrUnsupported is returned when no key listener exists for the
	// current platform.
	ErrUnsupported = errors.New("macro: key capture not supported on this platform")

	// ErrNoBindings is returned when a trigger is constructed without any
	// key bindings.
	ErrNoBindings = errors.New("macro: no bindings configured")

	// ErrUnknownKey is returned for a key name that cannot be mapped to a
	// platform key code.
	ErrUnknownKey = errors.New("macro: unknown key name")
)
