// Package broadlink drives an RM4-class Broadlink IR/RF emitter over its
// LAN UDP protocol: the authentication handshake, raw code transmission, and
// the capture ("learning") flow the signal store uses to record new buttons.
//
// # Protocol
//
// Every exchange is one UDP datagram each way: a 0x38-byte header carrying
// the device type, a rolling counter, the device MAC and the session id,
// followed by an AES-128-CBC encrypted payload. Authentication swaps the
// well-known factory key for a session key returned by the device.
//
// # Failure model
//
// Connection or authentication failure is terminal for the Device: it stays
// constructed so controllers can be wired against it, but every subsequent
// Send fails fast with ErrNotConnected rather than retrying a broken link.
// The physical devices behind the emitter give no feedback, so a reported
// send success only means the emitter accepted the code, not that the
// appliance saw it.
package broadlink
