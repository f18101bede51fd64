package component

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/robotkit/hal"
	"github.com/robotkit/hal/async"
	"github.com/robotkit/hal/errors"
	"github.com/robotkit/hal/handle"
	"github.com/robotkit/hal/lifecycle"
	"github.com/robotkit/hal/stats"
)

// Options configure a wrapped component.
type Options struct {
	Logger *zap.Logger
	Clock  hal.Clock

	// LoopRate is the manager's control loop rate in Hz. Components with
	// a lower rw_rate run their cycles decimated against it.
	LoopRate uint
}

// Component owns one hardware implementation and everything the resource
// manager needs to drive it.
type Component struct {
	impl   hal.Hardware
	info   hal.HardwareInfo
	logger *zap.Logger
	clock  hal.Clock

	state lifecycle.State

	stateIfaces []*handle.StateInterface
	cmdIfaces   []*handle.CommandInterface
	stateByName map[string]*handle.StateInterface
	cmdByName   map[string]*handle.CommandInterface

	rwPeriod   time.Duration
	loopPeriod time.Duration

	runner *async.Runner

	readStats  stats.CycleCollector
	writeStats stats.CycleCollector

	lastRead  atomic.Pointer[hal.CycleStatus]
	lastWrite atomic.Pointer[hal.CycleStatus]

	// Touched only by the thread executing cycles.
	prevReadTime  time.Time
	prevWriteTime time.Time

	// Touched only by the control loop thread.
	lastReadTrigger  time.Time
	lastWriteTrigger time.Time
}

// New initializes the implementation and exports its interfaces. The
// returned component is Unconfigured. A failed OnInit or export leaves no
// usable component.
func New(impl hal.Hardware, info hal.HardwareInfo, opts Options) (*Component, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named(string(info.Type)).Named(info.Name)
	clock := opts.Clock
	if clock == nil {
		clock = hal.SystemClock{}
	}

	c := &Component{
		impl:   impl,
		info:   info,
		logger: logger,
		clock:  clock,
		state:  lifecycle.NewState(lifecycle.Unconfigured),
	}
	if opts.LoopRate > 0 {
		c.loopPeriod = time.Second / time.Duration(opts.LoopRate)
	}
	if info.RWRate > 0 && (opts.LoopRate == 0 || info.RWRate < opts.LoopRate) {
		c.rwPeriod = time.Second / time.Duration(info.RWRate)
	}

	if ret := impl.OnInit(hal.InitParams{Info: info, Logger: logger, Clock: clock}); ret != hal.CallbackSuccess {
		return nil, errors.New(errors.PhaseLoad, errors.KindInit).
			Component(info.Name).Detail("OnInit returned %s", ret).Build()
	}

	c.stateIfaces = impl.ExportStateInterfaces()
	c.cmdIfaces = impl.ExportCommandInterfaces()
	c.stateByName = make(map[string]*handle.StateInterface, len(c.stateIfaces))
	for _, s := range c.stateIfaces {
		if _, dup := c.stateByName[s.Name()]; dup {
			return nil, errors.New(errors.PhaseLoad, errors.KindDuplicate).
				Component(info.Name).Interface(s.Name()).
				Detail("state interface exported twice").Build()
		}
		c.stateByName[s.Name()] = s
	}
	c.cmdByName = make(map[string]*handle.CommandInterface, len(c.cmdIfaces))
	for _, cmd := range c.cmdIfaces {
		if _, dup := c.cmdByName[cmd.Name()]; dup {
			return nil, errors.New(errors.PhaseLoad, errors.KindDuplicate).
				Component(info.Name).Interface(cmd.Name()).
				Detail("command interface exported twice").Build()
		}
		c.cmdByName[cmd.Name()] = cmd
	}

	logger.Info("component initialized",
		zap.String("plugin", info.Plugin),
		zap.Int("state_interfaces", len(c.stateIfaces)),
		zap.Int("command_interfaces", len(c.cmdIfaces)),
		zap.Bool("async", info.Async))
	return c, nil
}

// Name returns the component name from the description.
func (c *Component) Name() string { return c.info.Name }

// Info returns the parsed description.
func (c *Component) Info() hal.HardwareInfo { return c.info }

// State returns the current lifecycle state.
func (c *Component) State() lifecycle.State { return c.state }

// StateInterfaces returns the exported state handles, export order.
func (c *Component) StateInterfaces() []*handle.StateInterface { return c.stateIfaces }

// CommandInterfaces returns the exported command handles, export order.
func (c *Component) CommandInterfaces() []*handle.CommandInterface { return c.cmdIfaces }

// StateInterface looks up an exported state handle by full name.
func (c *Component) StateInterface(name string) (*handle.StateInterface, bool) {
	s, ok := c.stateByName[name]
	return s, ok
}

// CommandInterface looks up an exported command handle by full name.
func (c *Component) CommandInterface(name string) (*handle.CommandInterface, bool) {
	cmd, ok := c.cmdByName[name]
	return cmd, ok
}

// ReadStatistics snapshots the read cycle statistics.
func (c *Component) ReadStatistics() (execution, periodicity stats.Statistics) {
	return c.readStats.ExecutionTime.Snapshot(), c.readStats.Periodicity.Snapshot()
}

// WriteStatistics snapshots the write cycle statistics.
func (c *Component) WriteStatistics() (execution, periodicity stats.Statistics) {
	return c.writeStats.ExecutionTime.Snapshot(), c.writeStats.Periodicity.Snapshot()
}

// LastReadCycle returns the outcome of the most recent read cycle. Before
// the first cycle it reports a zero status with result OK.
func (c *Component) LastReadCycle() hal.CycleStatus {
	if p := c.lastRead.Load(); p != nil {
		return *p
	}
	return hal.CycleStatus{Result: hal.OK}
}

// LastWriteCycle returns the outcome of the most recent write cycle.
func (c *Component) LastWriteCycle() hal.CycleStatus {
	if p := c.lastWrite.Load(); p != nil {
		return *p
	}
	return hal.CycleStatus{Result: hal.OK}
}

// TargetState drives the component through the minimal transition path to
// target. Unreachable targets and rejected callbacks return an error; a
// callback returning CallbackError additionally runs error recovery.
func (c *Component) TargetState(target lifecycle.StateID) error {
	if c.state.ID == target {
		return nil
	}
	path := lifecycle.Path(c.state.ID, target)
	if path == nil {
		return errors.New(errors.PhaseLifecycle, errors.KindTransition).
			Component(c.info.Name).
			Detail("no path from %s to %s", c.state.Label, lifecycle.NewState(target).Label).Build()
	}
	for _, tr := range path {
		if err := c.step(tr); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown finalizes the component and joins its worker thread. Safe on
// every state; Finalized components are left alone.
func (c *Component) Shutdown() error {
	if c.state.ID == lifecycle.Finalized {
		return nil
	}
	return c.step(lifecycle.Shutdown)
}

func (c *Component) step(tr lifecycle.Transition) error {
	var ret hal.CallbackReturn
	var dest lifecycle.StateID

	switch tr {
	case lifecycle.Configure:
		ret = c.impl.OnConfigure()
		dest = lifecycle.Inactive
	case lifecycle.Cleanup:
		c.stopRunner()
		ret = c.impl.OnCleanup()
		dest = lifecycle.Unconfigured
	case lifecycle.Activate:
		ret = c.impl.OnActivate()
		dest = lifecycle.Active
	case lifecycle.Deactivate:
		ret = c.impl.OnDeactivate()
		dest = lifecycle.Inactive
	case lifecycle.Shutdown:
		c.stopRunner()
		ret = c.impl.OnShutdown()
		dest = lifecycle.Finalized
	default:
		return errors.New(errors.PhaseLifecycle, errors.KindTransition).
			Component(c.info.Name).Detail("unknown transition %s", tr).Build()
	}

	switch ret {
	case hal.CallbackSuccess:
		c.enter(dest)
		return nil
	case hal.CallbackFailure:
		c.logger.Warn("transition rejected", zap.Stringer("transition", tr))
		return errors.New(errors.PhaseLifecycle, errors.KindTransition).
			Component(c.info.Name).Detail("%s rejected by hardware", tr).Build()
	default:
		c.logger.Error("transition failed", zap.Stringer("transition", tr))
		c.Recover()
		return errors.New(errors.PhaseLifecycle, errors.KindTransition).
			Component(c.info.Name).Detail("%s failed, error recovery ran", tr).Build()
	}
}

func (c *Component) enter(dest lifecycle.StateID) {
	from := c.state
	c.state = lifecycle.NewState(dest)
	if dest == lifecycle.Inactive && from.ID == lifecycle.Unconfigured {
		c.startRunner()
	}
	c.logger.Info("lifecycle transition",
		zap.String("from", from.Label),
		zap.String("to", c.state.Label))
}

// Recover runs the implementation's error callback. Success demotes the
// component to Unconfigured with exported values intact; anything else
// finalizes it. The worker thread is joined first. Finalized components
// are left alone.
func (c *Component) Recover() {
	if !lifecycle.CanTransition(c.state.ID, lifecycle.Unconfigured) {
		return
	}
	c.stopRunner()
	if c.impl.OnError() == hal.CallbackSuccess {
		c.state = lifecycle.NewState(lifecycle.Unconfigured)
		c.logger.Warn("recovered to unconfigured")
		return
	}
	c.state = lifecycle.NewState(lifecycle.Finalized)
	c.logger.Error("unrecoverable, finalized")
}

func (c *Component) startRunner() {
	if !c.info.Async {
		return
	}
	var write async.CycleFunc
	if c.info.Type != hal.SensorType {
		write = c.writeCycle
	}
	c.runner = async.NewRunner(async.Options{
		Name:           c.info.Name,
		Logger:         c.logger,
		ThreadPriority: c.info.ThreadPriority,
		Read:           c.readCycle,
		Write:          write,
	})
	c.runner.Start()
}

func (c *Component) stopRunner() {
	if c.runner == nil {
		return
	}
	c.runner.Stop()
	c.runner = nil
}

func (c *Component) cycling() bool {
	return c.state.ID == lifecycle.Inactive || c.state.ID == lifecycle.Active
}

// due reports whether a decimated component's next cycle has come around.
// Half a loop period of jitter is tolerated so a rate divisor that lands
// a hair early still fires.
func (c *Component) due(t, last time.Time) bool {
	if c.rwPeriod == 0 || last.IsZero() {
		return true
	}
	return t.Sub(last) >= c.rwPeriod-c.loopPeriod/2
}

// Read runs (or triggers) the read phase. OK is returned for components
// that are not cycling or not yet due.
func (c *Component) Read(t time.Time, period time.Duration) hal.ReturnType {
	if !c.cycling() {
		return hal.OK
	}
	if !c.due(t, c.lastReadTrigger) {
		return hal.OK
	}
	c.lastReadTrigger = t

	if c.runner != nil {
		if !c.runner.Trigger(t, period) {
			c.logger.Warn("async cycle still in flight, trigger skipped",
				zap.Time("loop_time", t))
		}
		status, _ := c.runner.LastRead()
		return status
	}
	return c.readCycle(t, period)
}

// Write runs the write phase, or reports the worker's last write status for
// async components. Sensors always report OK.
func (c *Component) Write(t time.Time, period time.Duration) hal.ReturnType {
	if c.info.Type == hal.SensorType || !c.cycling() {
		return hal.OK
	}
	if c.runner != nil {
		status, _ := c.runner.LastWrite()
		return status
	}
	if !c.due(t, c.lastWriteTrigger) {
		return hal.OK
	}
	c.lastWriteTrigger = t
	return c.writeCycle(t, period)
}

func (c *Component) readCycle(t time.Time, period time.Duration) hal.ReturnType {
	if !c.prevReadTime.IsZero() {
		period = t.Sub(c.prevReadTime)
	}
	start := c.clock.Now()
	status := c.impl.Read(t, period)
	exec := c.clock.Now().Sub(start)

	c.readStats.ExecutionTime.Add(exec.Seconds())
	if !c.prevReadTime.IsZero() && period > 0 {
		c.readStats.Periodicity.Add(1 / period.Seconds())
	}
	c.prevReadTime = t
	c.lastRead.Store(&hal.CycleStatus{Result: status, Time: t, Period: period, Execution: exec})
	return status
}

func (c *Component) writeCycle(t time.Time, period time.Duration) hal.ReturnType {
	if !c.prevWriteTime.IsZero() {
		period = t.Sub(c.prevWriteTime)
	}
	start := c.clock.Now()
	status := c.impl.Write(t, period)
	exec := c.clock.Now().Sub(start)

	c.writeStats.ExecutionTime.Add(exec.Seconds())
	if !c.prevWriteTime.IsZero() && period > 0 {
		c.writeStats.Periodicity.Add(1 / period.Seconds())
	}
	c.prevWriteTime = t
	c.lastWrite.Store(&hal.CycleStatus{Result: status, Time: t, Period: period, Execution: exec})
	return status
}

// PrepareCommandModeSwitch forwards to hardware implementing the switching
// capability. Hardware without it accepts every switch.
func (c *Component) PrepareCommandModeSwitch(start, stop []string) hal.CallbackReturn {
	if sw, ok := c.impl.(hal.CommandModeSwitcher); ok {
		return sw.PrepareCommandModeSwitch(start, stop)
	}
	return hal.CallbackSuccess
}

// PerformCommandModeSwitch forwards to hardware implementing the switching
// capability.
func (c *Component) PerformCommandModeSwitch(start, stop []string) hal.CallbackReturn {
	if sw, ok := c.impl.(hal.CommandModeSwitcher); ok {
		return sw.PerformCommandModeSwitch(start, stop)
	}
	return hal.CallbackSuccess
}
