package mockhw

// MinimalRobot is a complete description exercising every double: one
// actuator, one sensor, one system. Loading it exports 11 state interfaces
// and 6 command interfaces (the unlisted actuator state and the system's
// configuration interfaces are added by the doubles themselves).
const MinimalRobot = `
format_version: "1.0"
components:
  - name: TestActuator
    type: actuator
    plugin: mockhw/actuator
    joints:
      - name: joint1
        command_interfaces:
          - {name: position}
          - {name: max_velocity}
        state_interfaces:
          - {name: position, initial_value: "1.57"}
          - {name: velocity}
        limits: {max_velocity: 0.2, min_position: -3.14, max_position: 3.14}
  - name: TestSensor
    type: sensor
    plugin: mockhw/sensor
    sensors:
      - name: sensor1
        state_interfaces:
          - {name: velocity}
  - name: TestSystem
    type: system
    plugin: mockhw/system
    joints:
      - name: joint2
        command_interfaces:
          - {name: velocity}
          - {name: max_acceleration}
        state_interfaces:
          - {name: position}
          - {name: velocity}
          - {name: acceleration}
        limits: {max_velocity: 0.2, min_position: -3.14, max_position: 3.14}
      - name: joint3
        command_interfaces:
          - {name: velocity}
        state_interfaces:
          - {name: position}
          - {name: velocity}
          - {name: acceleration}
        limits: {max_velocity: 0.2, min_position: -3.14, max_position: 3.14}
`

// MinimalRobotStateInterfaces are the state keys MinimalRobot exports.
var MinimalRobotStateInterfaces = []string{
	"joint1/position",
	"joint1/velocity",
	"joint1/some_unlisted_interface",
	"sensor1/velocity",
	"joint2/position",
	"joint2/velocity",
	"joint2/acceleration",
	"joint3/position",
	"joint3/velocity",
	"joint3/acceleration",
	ConfigInterface,
}

// MinimalRobotCommandInterfaces are the command keys MinimalRobot exports.
var MinimalRobotCommandInterfaces = []string{
	"joint1/position",
	"joint1/max_velocity",
	"joint2/velocity",
	"joint2/max_acceleration",
	"joint3/velocity",
	ConfigInterface,
}
