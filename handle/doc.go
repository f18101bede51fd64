// Package handle provides the named, lock-protected value cells that
// hardware components export and controllers claim.
//
// A Handle is the only state shared between the control thread and an
// asynchronous component's worker thread. Its identity (prefix and
// interface name) is fixed at construction; its value is a float64 cell
// guarded by a reader/writer lock so that many readers and at most one
// writer can access it concurrently.
//
// # Interface naming
//
// Handles are addressed by their full name, "prefix/interface":
//
//	joint1/position
//	sensor1/velocity
//	my_controller/input1
//
// # Backing storage
//
// By default a Handle owns its storage. A handle may instead be bound to
// memory owned elsewhere (a controller exporting a reference interface
// binds the handle to its own float64); the contract is identical. Detach
// severs an external binding when the owner removes the interface while a
// loan may still be outstanding: afterwards reads return NaN and writes
// report failure instead of touching freed memory.
//
// # Unset values
//
// A handle whose description declares no initial value reads as NaN until
// the first write. This lets callers distinguish "never written" from
// "written zero".
package handle
