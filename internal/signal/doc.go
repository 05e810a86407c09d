// Package signal owns learned IR/RF codes: capturing them from a physical
// learning session, persisting them keyed by logical button name, and
// handing them to the stateless-toggle controllers for replay.
//
// # Persistence
//
// The store is a flat JSON file mapping button name to descriptor (kind,
// optional RF frequency, hex-encoded raw code). It is read fully at startup
// and rewritten fully, via a temp file and rename, on every learn.
// Re-learning an existing name overwrites it; last write wins, no
// versioning.
//
// # Concurrency
//
// Playback controllers only read; the learning workflow is the sole writer.
// The two are not expected to run concurrently, but mutation is still
// guarded by a write lock so a learn session can never interleave with a
// read returning a half-written descriptor.
package signal
