// Package async runs a hardware component's read/write cycle on its own
// OS thread so slow hardware cannot stall the control loop.
//
// The control loop calls Trigger once per iteration. Trigger is wait-free:
// it hands the cycle to the worker and returns true, or returns false when
// the previous cycle is still in flight. A rejected trigger is not an
// error; callers report the last published cycle status instead.
//
// The worker performs read then write. A read that does not return OK
// short-circuits the write phase of that cycle. Each phase publishes its
// status and execution time through atomics, so readers never block the
// worker.
//
// # Thread scheduling
//
// The worker locks itself to an OS thread and, on Linux, requests
// SCHED_FIFO at the configured priority. Failure to acquire real-time
// priority is logged and otherwise ignored.
package async
