// Package hal defines the contracts between hardware implementations and
// the resource manager: the Hardware interface, lifecycle callback results,
// cycle return codes, and the parsed hardware description types.
//
// A hardware implementation embeds Base and overrides Read, Write, and
// whichever lifecycle callbacks it needs:
//
//	type MyActuator struct {
//		hal.Base
//	}
//
//	func (a *MyActuator) Read(t time.Time, period time.Duration) hal.ReturnType {
//		a.SetState("joint1/position", readEncoder())
//		return hal.OK
//	}
//
// Base owns the exported interface handles and provides State, SetState,
// Command and SetCommand accessors that go through the handle locks, so
// an implementation never shares raw memory with controllers.
//
// # Lifecycle
//
// Components move through lifecycle states (see the lifecycle package)
// driven by the resource manager. Each transition invokes the matching
// callback; a callback returning CallbackFailure leaves the component in
// its previous state, CallbackError sends it through OnError.
//
// # Cycle results
//
// Read and Write return a ReturnType. OK continues the loop, Error demotes
// the component (and its failure group) through the error recovery ladder,
// and Deactivate, valid only from Write, requests a graceful stop.
package hal
