package hal

import "github.com/robotkit/hal/handle"

// HardwareType distinguishes the three component kinds.
type HardwareType string

const (
	ActuatorType HardwareType = "actuator"
	SensorType   HardwareType = "sensor"
	SystemType   HardwareType = "system"
)

// HardwareInfo is the parsed description of one hardware component. It is
// handed to the implementation at init and drives the default interface
// export.
type HardwareInfo struct {
	Name   string
	Type   HardwareType
	Plugin string
	// Group is the failure group label. Components sharing a non-empty
	// group are demoted together when any of them fails a cycle.
	Group string

	// Async selects threaded execution; ThreadPriority is the requested
	// real-time priority of the worker thread.
	Async          bool
	ThreadPriority int

	// RWRate is the component's own read/write rate in Hz. Zero means
	// the manager's loop rate.
	RWRate uint

	Joints  []JointInfo
	Sensors []SensorInfo
	GPIOs   []GPIOInfo

	// Params are opaque implementation parameters from the description.
	Params map[string]string
}

// JointInfo describes one joint and its declared interfaces.
type JointInfo struct {
	Name              string
	CommandInterfaces []handle.InterfaceInfo
	StateInterfaces   []handle.InterfaceInfo
	Limits            *JointLimits
	Params            map[string]string
}

// SensorInfo describes one sensor. Sensors export state interfaces only.
type SensorInfo struct {
	Name            string
	StateInterfaces []handle.InterfaceInfo
	Params          map[string]string
}

// GPIOInfo describes one general-purpose IO port.
type GPIOInfo struct {
	Name              string
	CommandInterfaces []handle.InterfaceInfo
	StateInterfaces   []handle.InterfaceInfo
	Params            map[string]string
}

// JointLimits are the enforceable command bounds of a joint.
type JointLimits struct {
	MinPosition float64
	MaxPosition float64
	MaxVelocity float64

	HasPositionLimits bool
	HasVelocityLimits bool
}

// StateInterfaceDescriptions flattens every declared state interface of the
// component, joints first, then sensors, then GPIOs.
func (h HardwareInfo) StateInterfaceDescriptions() []handle.InterfaceDescription {
	var out []handle.InterfaceDescription
	for _, j := range h.Joints {
		for _, info := range j.StateInterfaces {
			out = append(out, handle.InterfaceDescription{Prefix: j.Name, Info: info})
		}
	}
	for _, s := range h.Sensors {
		for _, info := range s.StateInterfaces {
			out = append(out, handle.InterfaceDescription{Prefix: s.Name, Info: info})
		}
	}
	for _, g := range h.GPIOs {
		for _, info := range g.StateInterfaces {
			out = append(out, handle.InterfaceDescription{Prefix: g.Name, Info: info})
		}
	}
	return out
}

// CommandInterfaceDescriptions flattens every declared command interface of
// the component, joints first, then GPIOs.
func (h HardwareInfo) CommandInterfaceDescriptions() []handle.InterfaceDescription {
	var out []handle.InterfaceDescription
	for _, j := range h.Joints {
		for _, info := range j.CommandInterfaces {
			out = append(out, handle.InterfaceDescription{Prefix: j.Name, Info: info})
		}
	}
	for _, g := range h.GPIOs {
		for _, info := range g.CommandInterfaces {
			out = append(out, handle.InterfaceDescription{Prefix: g.Name, Info: info})
		}
	}
	return out
}
