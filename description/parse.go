package description

import (
	"strconv"
	"strings"

	"github.com/coreos/go-semver/semver"
	"gopkg.in/yaml.v3"

	"github.com/robotkit/hal"
	"github.com/robotkit/hal/errors"
	"github.com/robotkit/hal/handle"
)

// SupportedMajor is the description format major version this parser
// understands.
const SupportedMajor = 1

type document struct {
	FormatVersion string      `yaml:"format_version"`
	Components    []component `yaml:"components"`
}

type component struct {
	Name           string            `yaml:"name"`
	Type           string            `yaml:"type"`
	Plugin         string            `yaml:"plugin"`
	Group          string            `yaml:"group"`
	Async          bool              `yaml:"async"`
	ThreadPriority int               `yaml:"thread_priority"`
	RWRate         uint              `yaml:"rw_rate"`
	Joints         []joint           `yaml:"joints"`
	Sensors        []sensor          `yaml:"sensors"`
	GPIOs          []gpio            `yaml:"gpios"`
	Params         map[string]string `yaml:"params"`
}

type joint struct {
	Name              string            `yaml:"name"`
	CommandInterfaces []iface           `yaml:"command_interfaces"`
	StateInterfaces   []iface           `yaml:"state_interfaces"`
	Limits            *jointLimits      `yaml:"limits"`
	Params            map[string]string `yaml:"params"`
}

type sensor struct {
	Name            string            `yaml:"name"`
	StateInterfaces []iface           `yaml:"state_interfaces"`
	Params          map[string]string `yaml:"params"`
}

type gpio struct {
	Name              string            `yaml:"name"`
	CommandInterfaces []iface           `yaml:"command_interfaces"`
	StateInterfaces   []iface           `yaml:"state_interfaces"`
	Params            map[string]string `yaml:"params"`
}

type iface struct {
	Name         string `yaml:"name"`
	DataType     string `yaml:"data_type"`
	InitialValue string `yaml:"initial_value"`
	Min          string `yaml:"min"`
	Max          string `yaml:"max"`
}

type jointLimits struct {
	MaxVelocity *float64 `yaml:"max_velocity"`
	MinPosition *float64 `yaml:"min_position"`
	MaxPosition *float64 `yaml:"max_position"`
}

// Parse decodes and validates a hardware description.
func Parse(data []byte) ([]hal.HardwareInfo, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New(errors.PhaseParse, errors.KindValidation).
			Detail("malformed description").Cause(err).Build()
	}
	if err := checkFormatVersion(doc.FormatVersion); err != nil {
		return nil, err
	}
	if len(doc.Components) == 0 {
		return nil, errors.Validation(errors.PhaseParse, "description declares no components")
	}

	infos := make([]hal.HardwareInfo, 0, len(doc.Components))
	seen := make(map[string]struct{}, len(doc.Components))
	for i, c := range doc.Components {
		info, err := buildComponent(i, c)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[info.Name]; dup {
			return nil, errors.New(errors.PhaseParse, errors.KindDuplicate).
				Component(info.Name).Detail("component name repeated").Build()
		}
		seen[info.Name] = struct{}{}
		infos = append(infos, info)
	}
	return infos, nil
}

func checkFormatVersion(v string) error {
	if v == "" {
		return errors.Validation(errors.PhaseParse, "format_version is required")
	}
	normalized := v
	for strings.Count(normalized, ".") < 2 {
		normalized += ".0"
	}
	ver, err := semver.NewVersion(normalized)
	if err != nil {
		return errors.New(errors.PhaseParse, errors.KindValidation).
			Detail("format_version %q is not a version", v).Cause(err).Build()
	}
	if ver.Major != SupportedMajor {
		return errors.Validation(errors.PhaseParse,
			"format_version %q: major version %d is unsupported, want %d", v, ver.Major, SupportedMajor)
	}
	return nil
}

func buildComponent(index int, c component) (hal.HardwareInfo, error) {
	var info hal.HardwareInfo
	if c.Name == "" {
		return info, errors.Validation(errors.PhaseParse, "component %d has no name", index)
	}
	fail := func(format string, args ...any) error {
		return errors.New(errors.PhaseParse, errors.KindValidation).
			Component(c.Name).Detail(format, args...).Build()
	}

	switch hal.HardwareType(c.Type) {
	case hal.ActuatorType, hal.SensorType, hal.SystemType:
	default:
		return info, fail("unknown component type %q", c.Type)
	}
	if c.Plugin == "" {
		return info, fail("plugin is required")
	}
	if hal.HardwareType(c.Type) == hal.SensorType {
		if len(c.Joints) > 0 || len(c.GPIOs) > 0 {
			return info, fail("sensor components declare sensors only")
		}
	}

	info = hal.HardwareInfo{
		Name:           c.Name,
		Type:           hal.HardwareType(c.Type),
		Plugin:         c.Plugin,
		Group:          c.Group,
		Async:          c.Async,
		ThreadPriority: c.ThreadPriority,
		RWRate:         c.RWRate,
		Params:         c.Params,
	}

	for _, j := range c.Joints {
		if j.Name == "" {
			return info, fail("joint without a name")
		}
		info.Joints = append(info.Joints, hal.JointInfo{
			Name:              j.Name,
			CommandInterfaces: convertIfaces(j.CommandInterfaces),
			StateInterfaces:   convertIfaces(j.StateInterfaces),
			Limits:            convertLimits(j.Limits),
			Params:            j.Params,
		})
	}
	for _, s := range c.Sensors {
		if s.Name == "" {
			return info, fail("sensor without a name")
		}
		info.Sensors = append(info.Sensors, hal.SensorInfo{
			Name:            s.Name,
			StateInterfaces: convertIfaces(s.StateInterfaces),
			Params:          s.Params,
		})
	}
	for _, g := range c.GPIOs {
		if g.Name == "" {
			return info, fail("gpio without a name")
		}
		info.GPIOs = append(info.GPIOs, hal.GPIOInfo{
			Name:              g.Name,
			CommandInterfaces: convertIfaces(g.CommandInterfaces),
			StateInterfaces:   convertIfaces(g.StateInterfaces),
			Params:            g.Params,
		})
	}

	if err := checkDuplicateInterfaces(c.Name, info); err != nil {
		return info, err
	}
	return info, nil
}

func convertIfaces(in []iface) []handle.InterfaceInfo {
	if len(in) == 0 {
		return nil
	}
	out := make([]handle.InterfaceInfo, len(in))
	for i, f := range in {
		out[i] = handle.InterfaceInfo{
			Name:         f.Name,
			DataType:     f.DataType,
			InitialValue: f.InitialValue,
			Min:          f.Min,
			Max:          f.Max,
		}
	}
	return out
}

func convertLimits(in *jointLimits) *hal.JointLimits {
	if in == nil {
		return nil
	}
	out := &hal.JointLimits{}
	if in.MaxVelocity != nil {
		out.MaxVelocity = *in.MaxVelocity
		out.HasVelocityLimits = true
	}
	if in.MinPosition != nil && in.MaxPosition != nil {
		out.MinPosition = *in.MinPosition
		out.MaxPosition = *in.MaxPosition
		out.HasPositionLimits = true
	}
	return out
}

func checkDuplicateInterfaces(component string, info hal.HardwareInfo) error {
	check := func(descs []handle.InterfaceDescription, kind string) error {
		seen := make(map[string]struct{}, len(descs))
		for _, d := range descs {
			if d.Info.Name == "" {
				return errors.New(errors.PhaseParse, errors.KindValidation).
					Component(component).
					Detail("%s interface on %q has no name", kind, d.Prefix).Build()
			}
			name := d.Name()
			if _, dup := seen[name]; dup {
				return errors.New(errors.PhaseParse, errors.KindDuplicate).
					Component(component).Interface(name).
					Detail("%s interface declared twice", kind).Build()
			}
			seen[name] = struct{}{}
			if iv := d.Info.InitialValue; iv != "" {
				if _, err := strconv.ParseFloat(iv, 64); err != nil {
					return errors.New(errors.PhaseParse, errors.KindValidation).
						Component(component).Interface(name).
						Detail("initial_value %q is not a number", iv).Build()
				}
			}
		}
		return nil
	}
	if err := check(info.StateInterfaceDescriptions(), "state"); err != nil {
		return err
	}
	return check(info.CommandInterfaceDescriptions(), "command")
}
