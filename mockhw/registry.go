package mockhw

import (
	"time"

	"github.com/robotkit/hal"
)

// Plugin names the doubles register under.
const (
	ActuatorPlugin        = "mockhw/actuator"
	SensorPlugin          = "mockhw/sensor"
	SystemPlugin          = "mockhw/system"
	UninitializablePlugin = "mockhw/uninitializable"
)

// Uninitializable fails OnInit, for load failure tests.
type Uninitializable struct {
	hal.Base
}

func (u *Uninitializable) OnInit(hal.InitParams) hal.CallbackReturn {
	return hal.CallbackError
}

func (u *Uninitializable) Read(time.Time, time.Duration) hal.ReturnType {
	return hal.Error
}

// Registry returns factories for every double.
func Registry() hal.Registry {
	return hal.Registry{
		ActuatorPlugin:        func() hal.Hardware { return &Actuator{} },
		SensorPlugin:          func() hal.Hardware { return &Sensor{} },
		SystemPlugin:          func() hal.Hardware { return &System{} },
		UninitializablePlugin: func() hal.Hardware { return &Uninitializable{} },
	}
}
