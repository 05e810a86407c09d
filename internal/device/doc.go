// Package device implements the concrete room controllers that the
// orchestrator fans out to: cloud-controlled power toggles, the IR-driven
// projector, the RF-driven projection screen, the monitor profile switcher,
// and the audio routing engine.
//
// Every controller satisfies room.Controller (or room.GroupController) and
// keeps its dependencies behind small interfaces so tests can swap in fakes.
// Controllers that drive one-way transports (IR, RF) track a belief state
// rather than the real device state: the transmitter cannot read the device
// back, so the controller assumes its last confirmed command took effect and
// degrades to unknown when a multi-step sequence fails partway.
package device
