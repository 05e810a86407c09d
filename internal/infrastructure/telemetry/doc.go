// Package telemetry records room activations in InfluxDB.
//
// Every completed mode change produces one activation point (mode, status,
// duration) and one point per device outcome, so dashboards can chart how
// long mode changes take and which devices fail most.
//
// Writes are non-blocking and batched; a failed write never affects the
// mode change that produced it. The whole package is optional: when
// disabled in config the service runs without it.
package telemetry
