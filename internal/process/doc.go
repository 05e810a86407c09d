// Package process runs one-shot external commands with an exit-code based
// success contract.
//
// It exists for tools like the monitor-profile switcher: roomcore invokes
// them, waits, and distinguishes exactly three conditions: the binary ran and
// exited zero, the binary ran and exited non-zero (ErrExitFailure), or the
// binary could not be found at all (ErrBinaryNotFound). A failing profile
// switch is an execution problem while a missing executable is an environment
// problem, so the last two map to different sentinel errors.
package process
