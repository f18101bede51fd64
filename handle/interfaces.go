package handle

// StateInterface is a handle exported for reading hardware state. The
// owning component writes it during its read cycle; controllers read it.
type StateInterface struct {
	*Handle
}

// NewStateInterface creates a state interface owning its storage.
func NewStateInterface(desc InterfaceDescription) *StateInterface {
	return &StateInterface{Handle: New(desc)}
}

// CommandInterface is a handle exported for writing hardware commands.
// Exactly one controller may hold a claim on it at a time; the owning
// component reads it during its write cycle.
type CommandInterface struct {
	*Handle
	info InterfaceInfo
}

// NewCommandInterface creates a command interface owning its storage.
func NewCommandInterface(desc InterfaceDescription) *CommandInterface {
	return &CommandInterface{Handle: New(desc), info: desc.Info}
}

// NewBoundCommandInterface creates a command interface over externally
// owned memory. Controllers use this to export reference interfaces whose
// storage lives inside the controller.
func NewBoundCommandInterface(prefix, name string, storage *float64) *CommandInterface {
	return &CommandInterface{
		Handle: NewBound(prefix, name, storage),
		info:   InterfaceInfo{Name: name},
	}
}

// Info returns the declared metadata of the command interface.
func (c *CommandInterface) Info() InterfaceInfo { return c.info }
