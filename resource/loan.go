package resource

import (
	"sync"

	"github.com/robotkit/hal/handle"
)

// StateLoan is read access to one state interface. Any number of loans may
// exist per interface.
type StateLoan struct {
	iface *handle.StateInterface
}

// Name returns the full interface name.
func (l *StateLoan) Name() string { return l.iface.Name() }

// Value reads the current state. NaN while unset or after the backing
// interface was detached.
func (l *StateLoan) Value() float64 { return l.iface.Value() }

// CommandLoan is exclusive write access to one command interface.
type CommandLoan struct {
	iface *handle.CommandInterface

	once    sync.Once
	release func()
}

// Name returns the full interface name.
func (l *CommandLoan) Name() string { return l.iface.Name() }

// Value reads the last commanded value. NaN while unset.
func (l *CommandLoan) Value() float64 { return l.iface.Value() }

// Set writes a command. Returns false when the backing interface was
// detached, which happens when a controller's reference interfaces are
// removed while the loan is outstanding.
func (l *CommandLoan) Set(v float64) bool { return l.iface.SetValue(v) }

// Release frees the claim so the interface can be claimed again.
// Idempotent.
func (l *CommandLoan) Release() { l.once.Do(l.release) }
