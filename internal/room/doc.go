// Package room defines the core domain of roomcore: room modes, per-device
// outcomes, and the orchestrator that fans a mode change out to every
// registered device controller.
//
// # Modes
//
// A Mode is one of a closed set of room configurations (desk, projector,
// bedtime). Every device controller translates a mode into device-specific
// commands; the mode set is validated at the boundary and an unknown mode is
// rejected before any device is touched.
//
// # Orchestration
//
// The Orchestrator owns an ordered list of Controller instances and applies a
// mode to each of them in registration order. Registration order is part of
// the contract: the projector must power on before the screen starts
// lowering. Fan-out is best-effort: one controller failing (or panicking)
// never prevents the remaining controllers from running.
//
// A whole-room mode change can block for tens of seconds (the screen holds
// its "down" signal for the full travel time), so SetMode is serialised by a
// single mutex and triggers are expected to go through the Queue, which
// drains requests sequentially on a dedicated worker goroutine.
//
// Thread Safety: Orchestrator and Queue are safe for concurrent use.
package room
