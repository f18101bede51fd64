package lifecycle

// StateID is the numeric identity of a lifecycle state. The values are
// stable and part of the introspection surface.
type StateID uint8

const (
	Unknown      StateID = 0
	Unconfigured StateID = 1
	Inactive     StateID = 2
	Active       StateID = 3
	Finalized    StateID = 4
)

var labels = map[StateID]string{
	Unknown:      "unknown",
	Unconfigured: "unconfigured",
	Inactive:     "inactive",
	Active:       "active",
	Finalized:    "finalized",
}

// String returns the state's label.
func (id StateID) String() string {
	if l, ok := labels[id]; ok {
		return l
	}
	return "unknown"
}

// State is a lifecycle state as reported to callers: stable id plus label.
type State struct {
	ID    StateID
	Label string
}

// NewState builds the State value for an id.
func NewState(id StateID) State {
	return State{ID: id, Label: id.String()}
}

// CanTransition reports whether a direct transition from one primary
// state to the target is defined. Error recovery (any state back to
// Unconfigured) and shutdown (any state to Finalized) are always allowed
// except out of Finalized, which is terminal.
func CanTransition(from, to StateID) bool {
	if from == Finalized {
		return false
	}
	switch to {
	case Finalized, Unconfigured:
		return true
	case Inactive:
		return from == Unconfigured || from == Active || from == Inactive
	case Active:
		return from == Inactive || from == Active
	default:
		return false
	}
}

// Path returns the transition steps needed to drive a component from one
// state to a target, or nil when the target is unreachable. A step names
// the lifecycle operation to invoke.
func Path(from, to StateID) []Transition {
	if from == to {
		return []Transition{}
	}
	if from == Finalized {
		return nil
	}
	switch {
	case to == Finalized:
		return []Transition{Shutdown}
	case from == Unconfigured && to == Inactive:
		return []Transition{Configure}
	case from == Unconfigured && to == Active:
		return []Transition{Configure, Activate}
	case from == Inactive && to == Active:
		return []Transition{Activate}
	case from == Inactive && to == Unconfigured:
		return []Transition{Cleanup}
	case from == Active && to == Inactive:
		return []Transition{Deactivate}
	case from == Active && to == Unconfigured:
		return []Transition{Deactivate, Cleanup}
	default:
		return nil
	}
}

// Transition is one externally triggered lifecycle operation.
type Transition uint8

const (
	Configure Transition = iota
	Cleanup
	Activate
	Deactivate
	Shutdown
)

// String returns the operation name.
func (t Transition) String() string {
	switch t {
	case Configure:
		return "configure"
	case Cleanup:
		return "cleanup"
	case Activate:
		return "activate"
	case Deactivate:
		return "deactivate"
	case Shutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}
