package hal

import "time"

// ReturnType is the result of a hardware read or write cycle.
type ReturnType uint8

const (
	// OK means the cycle completed normally.
	OK ReturnType = iota
	// Error means the cycle failed and the component needs recovery.
	Error
	// Deactivate asks for a graceful stop. Only meaningful from Write;
	// a Read returning Deactivate is treated as Error.
	Deactivate
)

func (r ReturnType) String() string {
	switch r {
	case OK:
		return "ok"
	case Error:
		return "error"
	case Deactivate:
		return "deactivate"
	}
	return "unknown"
}

// CallbackReturn is the result of a lifecycle callback.
type CallbackReturn uint8

const (
	// CallbackSuccess completes the transition.
	CallbackSuccess CallbackReturn = iota
	// CallbackFailure rejects the transition; the component keeps its
	// previous state.
	CallbackFailure
	// CallbackError aborts the transition and runs error recovery.
	CallbackError
)

func (c CallbackReturn) String() string {
	switch c {
	case CallbackSuccess:
		return "success"
	case CallbackFailure:
		return "failure"
	case CallbackError:
		return "error"
	}
	return "unknown"
}

// CycleStatus is the published outcome of one read or write phase.
type CycleStatus struct {
	Result ReturnType
	// Time is the control loop instant the cycle was triggered with.
	Time time.Time
	// Period is the elapsed time since the previous cycle.
	Period time.Duration
	// Execution is how long the hardware access took. Zero until the
	// first completed cycle.
	Execution time.Duration
}
