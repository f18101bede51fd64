package mockhw

import (
	"time"

	"github.com/robotkit/hal"
)

// Sensor is a read-only test double. Its state values stay unset until a
// test feeds it through Feed, which mimics hardware that has not produced
// a measurement yet.
type Sensor struct {
	hal.Base

	reading    float64
	hasReading bool
	errorCalls int
}

// Feed queues a measurement for the next read.
func (s *Sensor) Feed(v float64) {
	s.reading = v
	s.hasReading = true
}

func (s *Sensor) Read(time.Time, time.Duration) hal.ReturnType {
	if !s.hasReading {
		return hal.OK
	}
	for _, si := range s.Info().Sensors {
		for _, iface := range si.StateInterfaces {
			s.SetState(si.Name+"/"+iface.Name, s.reading)
		}
	}
	return hal.OK
}

func (s *Sensor) OnError() hal.CallbackReturn {
	s.errorCalls++
	if s.errorCalls > 1 {
		return hal.CallbackError
	}
	return hal.CallbackSuccess
}
