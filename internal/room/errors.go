package room

import "errors"

// Domain errors for the room package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, room.ErrInvalidMode) {
//	    // reject before touching any device
//	}
var (
	// ErrInvalidMode is returned when a mode name is not in the closed set.
	ErrInvalidMode = errors.New("room: invalid mode")

	// ErrDuplicateController is returned when registering a controller with
	// an ID that is already registered.
	ErrDuplicateController = errors.New("room: controller already registered")

	// ErrQueueClosed is returned when enqueueing on a stopped queue.
	ErrQueueClosed = errors.New("room: queue closed")
)
