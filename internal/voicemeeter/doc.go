// Package voicemeeter adapts the native VoiceMeeter remote control DLL to
// the audio engine boundary the device package expects.
//
// The real adapter exists only on Windows, where the DLL lives. Other
// platforms get a stub whose operations return ErrUnavailable, which the
// audio controller surfaces as ordinary error outcomes rather than fatal
// failures.
package voicemeeter
