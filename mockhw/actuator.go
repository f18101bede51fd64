package mockhw

import (
	"math"
	"time"

	"github.com/robotkit/hal"
	"github.com/robotkit/hal/handle"
)

// Magic command values that make the doubles misbehave on purpose.
const (
	ReadFailCommand        = 28282828.0
	WriteFailCommand       = 23232323.0
	ReadDeactivateCommand  = 29292929.0
	WriteDeactivateCommand = 24242424.0
	ResetStateCommand      = 27272727.0
)

// Actuator is a one-joint test double. Its sentinel command interface is
// <joint>/position. It exports one state interface beyond the description,
// <joint>/some_unlisted_interface.
type Actuator struct {
	hal.Base

	joint      string
	errorCalls int
}

func (a *Actuator) OnInit(p hal.InitParams) hal.CallbackReturn {
	if ret := a.Base.OnInit(p); ret != hal.CallbackSuccess {
		return ret
	}
	a.joint = "joint1"
	if len(p.Info.Joints) > 0 {
		a.joint = p.Info.Joints[0].Name
	}
	a.AddStateInterfaces(handle.InterfaceDescription{
		Prefix: a.joint,
		Info:   handle.InterfaceInfo{Name: "some_unlisted_interface"},
	})
	return hal.CallbackSuccess
}

func (a *Actuator) Read(t time.Time, period time.Duration) hal.ReturnType {
	if a.Info().Async {
		// Pretend the bus is slow so trigger contention is observable.
		time.Sleep(period / 100)
	}
	switch a.Command(a.joint + "/position") {
	case ReadFailCommand:
		return hal.Error
	case ReadDeactivateCommand:
		return hal.Deactivate
	case ResetStateCommand:
		a.SetState(a.joint+"/position", 0)
		a.SetState(a.joint+"/velocity", 0)
		return hal.OK
	}
	mirror(&a.Base, a.joint, a.joint+"/position", period)
	return hal.OK
}

func (a *Actuator) Write(time.Time, time.Duration) hal.ReturnType {
	switch a.Command(a.joint + "/position") {
	case WriteFailCommand:
		return hal.Error
	case WriteDeactivateCommand:
		return hal.Deactivate
	}
	return hal.OK
}

// OnError recovers once and refuses after that.
func (a *Actuator) OnError() hal.CallbackReturn {
	a.errorCalls++
	if a.errorCalls > 1 {
		return hal.CallbackError
	}
	return hal.CallbackSuccess
}

// mirror halves the command into the velocity state and integrates the
// position state from it.
func mirror(b *hal.Base, joint, cmdName string, period time.Duration) {
	cmd := b.Command(cmdName)
	if math.IsNaN(cmd) {
		return
	}
	v := cmd / 2
	b.SetState(joint+"/velocity", v)
	pos := b.State(joint + "/position")
	if math.IsNaN(pos) {
		pos = 0
	}
	b.SetState(joint+"/position", pos+v*period.Seconds())
}
