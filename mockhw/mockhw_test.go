package mockhw

import (
	"math"
	"testing"
	"time"

	"github.com/robotkit/hal"
	"github.com/robotkit/hal/handle"
)

func actuatorInfo() hal.HardwareInfo {
	return hal.HardwareInfo{
		Name:   "act",
		Type:   hal.ActuatorType,
		Plugin: ActuatorPlugin,
		Joints: []hal.JointInfo{{
			Name:              "joint1",
			CommandInterfaces: []handle.InterfaceInfo{{Name: "position"}, {Name: "max_velocity"}},
			StateInterfaces:   []handle.InterfaceInfo{{Name: "position"}, {Name: "velocity"}},
		}},
	}
}

func initActuator(t *testing.T) *Actuator {
	t.Helper()
	a := &Actuator{}
	if ret := a.OnInit(hal.InitParams{Info: actuatorInfo()}); ret != hal.CallbackSuccess {
		t.Fatalf("OnInit = %v", ret)
	}
	a.ExportStateInterfaces()
	a.ExportCommandInterfaces()
	return a
}

func TestActuatorExportsUnlistedState(t *testing.T) {
	a := initActuator(t)
	found := false
	for _, s := range a.ExportStateInterfaces() {
		if s.Name() == "joint1/some_unlisted_interface" {
			found = true
		}
	}
	if !found {
		t.Error("unlisted state interface not exported")
	}
}

func TestActuatorMirror(t *testing.T) {
	a := initActuator(t)
	a.SetCommand("joint1/position", 0.2)

	if ret := a.Read(time.Unix(0, 0), 10*time.Millisecond); ret != hal.OK {
		t.Fatalf("Read = %v", ret)
	}
	if got := a.State("joint1/velocity"); got != 0.1 {
		t.Errorf("velocity = %v, want 0.1", got)
	}
	// Position starts unset here (no initial value in the info), so the
	// mirror integrates from zero.
	if got := a.State("joint1/position"); got != 0.1*0.01 {
		t.Errorf("position = %v, want %v", got, 0.1*0.01)
	}
}

func TestActuatorSentinels(t *testing.T) {
	a := initActuator(t)
	t0 := time.Unix(0, 0)

	a.SetCommand("joint1/position", ReadFailCommand)
	if ret := a.Read(t0, time.Millisecond); ret != hal.Error {
		t.Errorf("read fail sentinel = %v", ret)
	}
	a.SetCommand("joint1/position", WriteDeactivateCommand)
	if ret := a.Write(t0, time.Millisecond); ret != hal.Deactivate {
		t.Errorf("write deactivate sentinel = %v", ret)
	}

	a.SetCommand("joint1/position", 1.0)
	a.Read(t0, time.Millisecond)
	a.SetCommand("joint1/position", ResetStateCommand)
	a.Read(t0, time.Millisecond)
	if a.State("joint1/position") != 0 || a.State("joint1/velocity") != 0 {
		t.Error("reset sentinel did not zero the states")
	}
}

func TestErrorLadderRefusesSecondRecovery(t *testing.T) {
	a := initActuator(t)
	if a.OnError() != hal.CallbackSuccess {
		t.Error("first recovery refused")
	}
	if a.OnError() == hal.CallbackSuccess {
		t.Error("second recovery accepted")
	}
}

func TestSensorFeed(t *testing.T) {
	s := &Sensor{}
	info := hal.HardwareInfo{
		Name: "sen", Type: hal.SensorType, Plugin: SensorPlugin,
		Sensors: []hal.SensorInfo{{
			Name:            "sensor1",
			StateInterfaces: []handle.InterfaceInfo{{Name: "velocity"}},
		}},
	}
	s.OnInit(hal.InitParams{Info: info})
	s.ExportStateInterfaces()
	s.ExportCommandInterfaces()

	s.Read(time.Unix(0, 0), time.Millisecond)
	if !math.IsNaN(s.State("sensor1/velocity")) {
		t.Error("state set before any measurement")
	}

	s.Feed(2.5)
	if ret := s.Read(time.Unix(0, 0), time.Millisecond); ret != hal.OK {
		t.Errorf("Read = %v", ret)
	}
	if got := s.State("sensor1/velocity"); got != 2.5 {
		t.Errorf("velocity = %v, want 2.5", got)
	}
}
