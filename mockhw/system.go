package mockhw

import (
	"time"

	"github.com/robotkit/hal"
	"github.com/robotkit/hal/handle"
)

// ConfigInterface is the unlisted state and command interface the System
// double exports beyond its description.
const ConfigInterface = "configuration/max_tcp_jerk"

// System is a multi-joint test double. Its sentinel command interface is
// <first joint>/velocity. Each joint mirrors its velocity command the way
// Actuator does; the config command is copied to the config state on
// write.
type System struct {
	hal.Base

	joints     []string
	errorCalls int

	prepareCalls int
	performCalls int
}

func (s *System) OnInit(p hal.InitParams) hal.CallbackReturn {
	if ret := s.Base.OnInit(p); ret != hal.CallbackSuccess {
		return ret
	}
	s.joints = s.joints[:0]
	for _, j := range p.Info.Joints {
		s.joints = append(s.joints, j.Name)
	}
	desc := handle.InterfaceDescription{
		Prefix: "configuration",
		Info:   handle.InterfaceInfo{Name: "max_tcp_jerk"},
	}
	s.AddStateInterfaces(desc)
	s.AddCommandInterfaces(desc)
	return hal.CallbackSuccess
}

func (s *System) sentinel() float64 {
	if len(s.joints) == 0 {
		return 0
	}
	return s.Command(s.joints[0] + "/velocity")
}

func (s *System) Read(t time.Time, period time.Duration) hal.ReturnType {
	if s.Info().Async {
		time.Sleep(period / 100)
	}
	switch s.sentinel() {
	case ReadFailCommand:
		return hal.Error
	case ReadDeactivateCommand:
		return hal.Deactivate
	case ResetStateCommand:
		for _, j := range s.joints {
			s.SetState(j+"/position", 0)
			s.SetState(j+"/velocity", 0)
			s.SetState(j+"/acceleration", 0)
		}
		return hal.OK
	}
	for _, j := range s.joints {
		mirror(&s.Base, j, j+"/velocity", period)
	}
	return hal.OK
}

func (s *System) Write(time.Time, time.Duration) hal.ReturnType {
	switch s.sentinel() {
	case WriteFailCommand:
		return hal.Error
	case WriteDeactivateCommand:
		return hal.Deactivate
	}
	s.SetState(ConfigInterface, s.Command(ConfigInterface))
	return hal.OK
}

func (s *System) OnError() hal.CallbackReturn {
	s.errorCalls++
	if s.errorCalls > 1 {
		return hal.CallbackError
	}
	return hal.CallbackSuccess
}

// PrepareCommandModeSwitch rejects switches that would start the
// configuration interface, which is not a control mode, and counts calls
// for tests.
func (s *System) PrepareCommandModeSwitch(start, stop []string) hal.CallbackReturn {
	s.prepareCalls++
	for _, name := range start {
		if name == ConfigInterface {
			return hal.CallbackFailure
		}
	}
	return hal.CallbackSuccess
}

// PerformCommandModeSwitch counts calls for tests.
func (s *System) PerformCommandModeSwitch(start, stop []string) hal.CallbackReturn {
	s.performCalls++
	return hal.CallbackSuccess
}

// PrepareCalls reports how many mode switch preparations ran.
func (s *System) PrepareCalls() int { return s.prepareCalls }

// PerformCalls reports how many mode switches ran.
func (s *System) PerformCalls() int { return s.performCalls }
