// Package description parses YAML hardware descriptions into the info
// structures the resource manager loads components from.
//
// A description lists components, each with a plugin name, execution
// settings, and the joints, sensors and GPIOs it exposes:
//
//	format_version: "1.0"
//	components:
//	  - name: TestActuator
//	    type: actuator
//	    plugin: mockhw/actuator
//	    joints:
//	      - name: joint1
//	        command_interfaces:
//	          - {name: position, min: "-1", max: "1"}
//	        state_interfaces:
//	          - {name: position, initial_value: "1.57"}
//	          - {name: velocity}
//	        limits: {max_velocity: 0.2, min_position: -3.14, max_position: 3.14}
//
// Parsing is total: any validation failure rejects the whole document.
package description
