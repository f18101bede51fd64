// Package lifecycle defines the state machine every hardware component is
// driven through.
//
// # States
//
//	Unconfigured  initialized, no hardware communication, no interface
//	              is available
//	Inactive      hardware communication established and configured;
//	              interfaces are available
//	Active        hardware powered and commandable
//	Finalized     ready for destruction; terminal
//
// Transitions are triggered externally by the resource manager:
//
//	Unconfigured --configure--> Inactive --activate--> Active
//	Active --deactivate--> Inactive --cleanup--> Unconfigured
//	any --shutdown--> Finalized
//	any --error recovery--> Unconfigured
//
// No transition leaves Finalized.
package lifecycle
