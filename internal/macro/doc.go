// Package macro turns global keyboard combinations into room mode requests.
//
// A Trigger owns the set of currently held keys and checks, on every
// key-down transition, whether any configured binding's key set is now fully
// held. Checks happen only on transitions, so holding a combination fires
// its action once; releasing and re-pressing a member key fires it again.
// A dedicated quit combination stops the underlying listener and ends the
// trigger's run loop.
//
// The OS capture mechanism lives behind the Listener interface. The real
// implementation polls the Windows key state; every other platform gets a
// stub that reports ErrUnsupported so the rest of the system still runs.
package macro
