package description

import (
	stderrors "errors"
	"testing"

	"github.com/robotkit/hal"
	halerrors "github.com/robotkit/hal/errors"
)

const valid = `
format_version: "1.0"
components:
  - name: TestActuator
    type: actuator
    plugin: mockhw/actuator
    group: drive
    async: true
    thread_priority: 30
    rw_rate: 50
    joints:
      - name: joint1
        command_interfaces:
          - {name: position, min: "-1", max: "1"}
          - {name: max_velocity}
        state_interfaces:
          - {name: position, initial_value: "1.57"}
          - {name: velocity}
        limits: {max_velocity: 0.2, min_position: -3.14, max_position: 3.14}
    params:
      serial_port: /dev/ttyUSB0
  - name: TestSensor
    type: sensor
    plugin: mockhw/sensor
    sensors:
      - name: sensor1
        state_interfaces:
          - {name: velocity}
`

func TestParseValid(t *testing.T) {
	infos, err := Parse([]byte(valid))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("components = %d, want 2", len(infos))
	}

	act := infos[0]
	if act.Name != "TestActuator" || act.Type != hal.ActuatorType || act.Plugin != "mockhw/actuator" {
		t.Errorf("actuator header = %+v", act)
	}
	if !act.Async || act.ThreadPriority != 30 || act.RWRate != 50 || act.Group != "drive" {
		t.Errorf("execution settings = %+v", act)
	}
	if act.Params["serial_port"] != "/dev/ttyUSB0" {
		t.Errorf("params = %v", act.Params)
	}
	if len(act.Joints) != 1 {
		t.Fatalf("joints = %d, want 1", len(act.Joints))
	}
	j := act.Joints[0]
	if j.CommandInterfaces[0].Min != "-1" || j.CommandInterfaces[0].Max != "1" {
		t.Errorf("command bounds = %+v", j.CommandInterfaces[0])
	}
	if j.StateInterfaces[0].InitialValue != "1.57" {
		t.Errorf("initial value = %q", j.StateInterfaces[0].InitialValue)
	}
	if j.Limits == nil || !j.Limits.HasVelocityLimits || j.Limits.MaxVelocity != 0.2 {
		t.Errorf("limits = %+v", j.Limits)
	}
	if !j.Limits.HasPositionLimits || j.Limits.MinPosition != -3.14 {
		t.Errorf("position limits = %+v", j.Limits)
	}

	if descs := act.StateInterfaceDescriptions(); len(descs) != 2 || descs[0].Name() != "joint1/position" {
		t.Errorf("state descriptions = %v", descs)
	}
	if descs := infos[1].StateInterfaceDescriptions(); len(descs) != 1 || descs[0].Name() != "sensor1/velocity" {
		t.Errorf("sensor state descriptions = %v", descs)
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		kind halerrors.Kind
	}{
		{
			name: "missing format version",
			yaml: "components: [{name: a, type: actuator, plugin: p}]",
			kind: halerrors.KindValidation,
		},
		{
			name: "unsupported major version",
			yaml: "format_version: \"2.0\"\ncomponents: [{name: a, type: actuator, plugin: p}]",
			kind: halerrors.KindValidation,
		},
		{
			name: "no components",
			yaml: "format_version: \"1.0\"",
			kind: halerrors.KindValidation,
		},
		{
			name: "unknown type",
			yaml: "format_version: \"1.0\"\ncomponents: [{name: a, type: motor, plugin: p}]",
			kind: halerrors.KindValidation,
		},
		{
			name: "missing plugin",
			yaml: "format_version: \"1.0\"\ncomponents: [{name: a, type: actuator}]",
			kind: halerrors.KindValidation,
		},
		{
			name: "duplicate component names",
			yaml: "format_version: \"1.0\"\ncomponents: [{name: a, type: actuator, plugin: p}, {name: a, type: sensor, plugin: p}]",
			kind: halerrors.KindDuplicate,
		},
		{
			name: "sensor with joints",
			yaml: "format_version: \"1.0\"\ncomponents: [{name: a, type: sensor, plugin: p, joints: [{name: j}]}]",
			kind: halerrors.KindValidation,
		},
		{
			name: "nameless joint",
			yaml: "format_version: \"1.0\"\ncomponents: [{name: a, type: actuator, plugin: p, joints: [{}]}]",
			kind: halerrors.KindValidation,
		},
		{
			name: "duplicate interface",
			yaml: `
format_version: "1.0"
components:
  - name: a
    type: actuator
    plugin: p
    joints:
      - name: j
        state_interfaces: [{name: position}, {name: position}]
`,
			kind: halerrors.KindDuplicate,
		},
		{
			name: "unparsable initial value",
			yaml: `
format_version: "1.0"
components:
  - name: a
    type: actuator
    plugin: p
    joints:
      - name: j
        state_interfaces: [{name: position, initial_value: "fast"}]
`,
			kind: halerrors.KindValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, &halerrors.Error{Phase: halerrors.PhaseParse, Kind: tc.kind}) {
				t.Errorf("error = %v, want kind %v", err, tc.kind)
			}
		})
	}
}
