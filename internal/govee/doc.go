// Package govee is a minimal client for the Govee developer REST API,
// covering the single control call the cloud-toggle controllers need:
// authenticated PUT of a device command (device id, model, command name and
// value).
//
// Any non-2xx response or transport failure is surfaced as an error; the
// caller decides what that means for its cached device state.
package govee
