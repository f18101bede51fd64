package handle

// InterfaceInfo is the static metadata of one state or command interface,
// parsed from the hardware description. Immutable after parse.
type InterfaceInfo struct {
	// Name of the interface, e.g. "position".
	Name string
	// DataType of the value. Only "double" is supported today; the field
	// is carried so descriptions remain forward compatible.
	DataType string
	// InitialValue is the declared initial value, empty when unset.
	InitialValue string
	// Min and Max are declared bounds, empty when unbounded.
	Min string
	Max string
}

// InterfaceDescription pairs an interface with the prefix (joint, sensor
// or gpio name) it is exported under. It is used once, to construct a
// Handle.
type InterfaceDescription struct {
	Prefix string
	Info   InterfaceInfo
}

// Name returns the full interface name, "prefix/interface".
func (d InterfaceDescription) Name() string {
	return d.Prefix + "/" + d.Info.Name
}
