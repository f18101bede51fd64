package hal

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/robotkit/hal/handle"
)

// Base is the default Hardware implementation to embed. It stores the init
// parameters, exports handles for every interface the description declares,
// and accepts every lifecycle transition. Implementations override Read
// (mandatory), Write (actuators and systems), and whichever callbacks they
// need.
//
// Interfaces beyond the description are declared from OnInit:
//
//	func (a *MyActuator) OnInit(p hal.InitParams) hal.CallbackReturn {
//		if ret := a.Base.OnInit(p); ret != hal.CallbackSuccess {
//			return ret
//		}
//		a.AddStateInterfaces(handle.InterfaceDescription{
//			Prefix: "joint1",
//			Info:   handle.InterfaceInfo{Name: "temperature"},
//		})
//		return hal.CallbackSuccess
//	}
type Base struct {
	info   HardwareInfo
	logger *zap.Logger
	clock  Clock

	extraStates   []handle.InterfaceDescription
	extraCommands []handle.InterfaceDescription

	states   map[string]*handle.StateInterface
	commands map[string]*handle.CommandInterface
}

// OnInit stores the init parameters. Overrides must call this first.
func (b *Base) OnInit(params InitParams) CallbackReturn {
	b.info = params.Info
	b.logger = params.Logger
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	b.clock = params.Clock
	if b.clock == nil {
		b.clock = SystemClock{}
	}
	return CallbackSuccess
}

// Info returns the parsed description.
func (b *Base) Info() HardwareInfo { return b.info }

// Logger returns the component's logger. Valid after OnInit.
func (b *Base) Logger() *zap.Logger { return b.logger }

// Clock returns the injected clock. Valid after OnInit.
func (b *Base) Clock() Clock { return b.clock }

// AddStateInterfaces declares state interfaces beyond the description.
// Call from OnInit, before export.
func (b *Base) AddStateInterfaces(descs ...handle.InterfaceDescription) {
	b.extraStates = append(b.extraStates, descs...)
}

// AddCommandInterfaces declares command interfaces beyond the description.
// Call from OnInit, before export.
func (b *Base) AddCommandInterfaces(descs ...handle.InterfaceDescription) {
	b.extraCommands = append(b.extraCommands, descs...)
}

// ExportStateInterfaces builds one state handle per declared interface,
// description order, extras last.
func (b *Base) ExportStateInterfaces() []*handle.StateInterface {
	descs := append(b.info.StateInterfaceDescriptions(), b.extraStates...)
	b.states = make(map[string]*handle.StateInterface, len(descs))
	out := make([]*handle.StateInterface, 0, len(descs))
	for _, d := range descs {
		s := handle.NewStateInterface(d)
		b.states[s.Name()] = s
		out = append(out, s)
	}
	return out
}

// ExportCommandInterfaces builds one command handle per declared interface,
// description order, extras last.
func (b *Base) ExportCommandInterfaces() []*handle.CommandInterface {
	descs := append(b.info.CommandInterfaceDescriptions(), b.extraCommands...)
	b.commands = make(map[string]*handle.CommandInterface, len(descs))
	out := make([]*handle.CommandInterface, 0, len(descs))
	for _, d := range descs {
		c := handle.NewCommandInterface(d)
		b.commands[c.Name()] = c
		out = append(out, c)
	}
	return out
}

// State reads an exported state value by full name. NaN if unknown.
func (b *Base) State(name string) float64 {
	s, ok := b.states[name]
	if !ok {
		return math.NaN()
	}
	return s.Value()
}

// SetState writes an exported state value by full name. Unknown names are
// ignored.
func (b *Base) SetState(name string, value float64) {
	if s, ok := b.states[name]; ok {
		s.SetValue(value)
	}
}

// Command reads an exported command value by full name. NaN if unknown.
func (b *Base) Command(name string) float64 {
	c, ok := b.commands[name]
	if !ok {
		return math.NaN()
	}
	return c.Value()
}

// SetCommand writes an exported command value by full name. Unknown names
// are ignored.
func (b *Base) SetCommand(name string, value float64) {
	if c, ok := b.commands[name]; ok {
		c.SetValue(value)
	}
}

// Lifecycle defaults accept every transition.

func (b *Base) OnConfigure() CallbackReturn  { return CallbackSuccess }
func (b *Base) OnCleanup() CallbackReturn    { return CallbackSuccess }
func (b *Base) OnActivate() CallbackReturn   { return CallbackSuccess }
func (b *Base) OnDeactivate() CallbackReturn { return CallbackSuccess }
func (b *Base) OnShutdown() CallbackReturn   { return CallbackSuccess }
func (b *Base) OnError() CallbackReturn      { return CallbackSuccess }

// Write is a no-op for hardware without command interfaces. Actuators and
// systems override it.
func (b *Base) Write(time.Time, time.Duration) ReturnType { return OK }
