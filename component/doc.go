// Package component wraps a hardware implementation with the machinery the
// resource manager drives: lifecycle transitions, synchronous or threaded
// read/write triggering, per-component rate decimation, and cycle
// statistics.
//
// The wrapper is uniform across actuators, sensors and systems; kind
// differences (sensors never write) are data, not types.
//
// # Cycle triggering
//
// Read and Write run the hardware cycle only while the component is
// Inactive or Active, and only when the component's own read/write rate
// says a cycle is due. For async components, Read hands the combined
// read-then-write cycle to the worker thread and reports the last
// published status; a trigger that finds the worker busy is logged and
// skipped, never failed.
//
// # Error recovery
//
// Recover drives the implementation's OnError callback. A successful
// callback demotes the component to Unconfigured with its exported values
// intact; anything else finalizes it.
package component
