// Package mqtt provides the broker connection for roomcore's remote control
// surface.
//
// Subscribers send mode names to roomcore/mode/set; roomcore publishes the
// resulting room outcome, retained, to roomcore/mode/state so late joiners
// see the current mode immediately. Service liveness is published to
// roomcore/system/status with a Last Will an unexpected disconnect flips to
// offline.
//
// The client wraps paho.mqtt.golang with automatic reconnection,
// re-subscription on reconnect, and panic recovery around message handlers.
// All methods are safe for concurrent use.
package mqtt
