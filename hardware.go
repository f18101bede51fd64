package hal

import (
	"time"

	"go.uber.org/zap"

	"github.com/robotkit/hal/handle"
)

// InitParams is everything a hardware implementation receives at init.
type InitParams struct {
	Info   HardwareInfo
	Logger *zap.Logger
	Clock  Clock
}

// Hardware is the contract every hardware implementation fulfils. Embed
// Base to inherit defaults for everything except Read.
type Hardware interface {
	// OnInit receives the parsed description. Returning anything but
	// CallbackSuccess aborts loading.
	OnInit(params InitParams) CallbackReturn

	// ExportStateInterfaces builds the state handles the component
	// publishes. Called once after a successful OnInit.
	ExportStateInterfaces() []*handle.StateInterface

	// ExportCommandInterfaces builds the command handles the component
	// accepts. Called once after a successful OnInit.
	ExportCommandInterfaces() []*handle.CommandInterface

	// Lifecycle callbacks, invoked by the component wrapper on
	// transitions.
	OnConfigure() CallbackReturn
	OnCleanup() CallbackReturn
	OnActivate() CallbackReturn
	OnDeactivate() CallbackReturn
	OnShutdown() CallbackReturn

	// OnError runs after a failed transition or cycle. CallbackSuccess
	// means the component is recoverable and returns to Unconfigured;
	// anything else finalizes it.
	OnError() CallbackReturn

	// Read fetches hardware state into the exported state handles.
	Read(t time.Time, period time.Duration) ReturnType

	// Write pushes the exported command handles to the hardware. Never
	// called on sensors.
	Write(t time.Time, period time.Duration) ReturnType
}

// CommandModeSwitcher is implemented by hardware that needs to prepare for
// or react to controllers switching command interface sets. startIfaces and
// stopIfaces carry full interface names. Hardware without this capability
// accepts every switch.
type CommandModeSwitcher interface {
	// PrepareCommandModeSwitch verifies the switch is possible. Runs
	// outside the control loop.
	PrepareCommandModeSwitch(startIfaces, stopIfaces []string) CallbackReturn

	// PerformCommandModeSwitch applies the switch. Runs between cycles.
	PerformCommandModeSwitch(startIfaces, stopIfaces []string) CallbackReturn
}
