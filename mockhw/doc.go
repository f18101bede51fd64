// Package mockhw provides hardware test doubles. The actuator and system
// mirror commands into states so tests can observe a full control cycle
// without hardware: each read halves the joint's sentinel command into
// the velocity state and integrates it into the position state.
//
// Magic command values simulate failures. Writing ReadFailCommand to the
// sentinel command interface makes the next read fail, WriteFailCommand
// the next write, and the Deactivate variants request a graceful stop.
// The doubles recover from their first error and refuse the second.
package mockhw
