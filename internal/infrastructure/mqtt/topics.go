package mqtt

// Topic constants for the roomcore MQTT surface.
//
// The hierarchy is flat: roomcore/{concern}/{operation}. There is exactly
// one room, so no room identifier appears in the topics.
const (
	// TopicModeSet receives mode-change commands. Payload is the bare mode
	// name ("desk", "projector", "bedtime").
	TopicModeSet = "roomcore/mode/set"

	// TopicModeState carries the last room outcome as JSON, retained, so
	// new subscribers learn the current mode without asking.
	TopicModeState = "roomcore/mode/state"

	// TopicSystemStatus carries service liveness, retained. The Last Will
	// publishes an offline payload here on unexpected disconnect.
	TopicSystemStatus = "roomcore/system/status"
)
