package resource

import (
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/robotkit/hal"
	"github.com/robotkit/hal/component"
	"github.com/robotkit/hal/description"
	"github.com/robotkit/hal/errors"
	"github.com/robotkit/hal/handle"
	"github.com/robotkit/hal/lifecycle"
	"github.com/robotkit/hal/limits"
	"github.com/robotkit/hal/stats"
)

// Options configure a Manager.
type Options struct {
	// Registry resolves plugin names from descriptions to factories.
	Registry hal.Registry
	Logger   *zap.Logger
	Clock    hal.Clock

	// UpdateRate is the control loop rate in Hz. Components without an
	// rw_rate of their own inherit it.
	UpdateRate uint
}

type stateEntry struct {
	iface *handle.StateInterface
	owner *component.Component
}

type commandEntry struct {
	iface *handle.CommandInterface

	// Exactly one of owner and controller is set.
	owner      *component.Component
	controller string

	// available applies to controller references only; hardware-owned
	// interfaces derive availability from the owner's lifecycle state.
	available bool

	claimed bool

	limiter *limits.Limiter
	// actual is the joint's position state, read when rate-limiting
	// position commands.
	actual *handle.StateInterface
}

func (e *commandEntry) isAvailable() bool {
	if e.owner == nil {
		return e.available
	}
	id := e.owner.State().ID
	return id == lifecycle.Inactive || id == lifecycle.Active
}

// Manager owns the loaded components and arbitrates interface access.
type Manager struct {
	mu sync.Mutex

	registry hal.Registry
	logger   *zap.Logger
	clock    hal.Clock
	rate     uint

	components map[string]*component.Component
	order      []string

	states   map[string]*stateEntry
	commands map[string]*commandEntry

	// refs maps a controller to its reference interface names, import
	// order. cache maps a hardware component to the controllers that
	// command it, insertion order.
	refs  map[string][]string
	cache map[string][]string
}

// New builds an empty manager.
func New(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = hal.SystemClock{}
	}
	return &Manager{
		registry:   opts.Registry,
		logger:     logger.Named("resource"),
		clock:      clock,
		rate:       opts.UpdateRate,
		components: make(map[string]*component.Component),
		states:     make(map[string]*stateEntry),
		commands:   make(map[string]*commandEntry),
		refs:       make(map[string][]string),
		cache:      make(map[string][]string),
	}
}

// LoadComponents parses a description and loads every component in it.
// All-or-nothing: any parse, plugin resolution, init, or export failure
// leaves the manager exactly as it was.
func (m *Manager) LoadComponents(data []byte) error {
	infos, err := description.Parse(data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	staged := make([]*component.Component, 0, len(infos))
	for _, info := range infos {
		factory, ok := m.registry[info.Plugin]
		if !ok {
			return errors.New(errors.PhaseLoad, errors.KindPlugin).
				Component(info.Name).
				Detail("plugin %q is not registered", info.Plugin).Build()
		}
		c, err := m.build(factory(), info)
		if err != nil {
			return err
		}
		staged = append(staged, c)
	}
	return m.register(staged)
}

// ImportComponent loads one already constructed implementation, bypassing
// the plugin registry. Used by tests and embedders that wire hardware by
// hand.
func (m *Manager) ImportComponent(impl hal.Hardware, info hal.HardwareInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.build(impl, info)
	if err != nil {
		return err
	}
	return m.register([]*component.Component{c})
}

func (m *Manager) build(impl hal.Hardware, info hal.HardwareInfo) (*component.Component, error) {
	if info.RWRate == 0 {
		info.RWRate = m.rate
	}
	return component.New(impl, info, component.Options{
		Logger:   m.logger,
		Clock:    m.clock,
		LoopRate: m.rate,
	})
}

// register validates the staged components against the manager and each
// other, then commits them. No mutation happens before validation passes.
func (m *Manager) register(staged []*component.Component) error {
	newStates := make(map[string]struct{})
	newCommands := make(map[string]struct{})
	for _, c := range staged {
		if _, exists := m.components[c.Name()]; exists {
			return errors.New(errors.PhaseLoad, errors.KindDuplicate).
				Component(c.Name()).Detail("component already loaded").Build()
		}
		for _, s := range c.StateInterfaces() {
			if _, taken := m.states[s.Name()]; taken {
				return dupIface(c.Name(), s.Name())
			}
			if _, taken := newStates[s.Name()]; taken {
				return dupIface(c.Name(), s.Name())
			}
			newStates[s.Name()] = struct{}{}
		}
		for _, cmd := range c.CommandInterfaces() {
			if _, taken := m.commands[cmd.Name()]; taken {
				return dupIface(c.Name(), cmd.Name())
			}
			if _, taken := newCommands[cmd.Name()]; taken {
				return dupIface(c.Name(), cmd.Name())
			}
			newCommands[cmd.Name()] = struct{}{}
		}
		if err := declaredExported(c); err != nil {
			return err
		}
	}

	for _, c := range staged {
		m.components[c.Name()] = c
		m.order = append(m.order, c.Name())
		for _, s := range c.StateInterfaces() {
			m.states[s.Name()] = &stateEntry{iface: s, owner: c}
		}
		for _, cmd := range c.CommandInterfaces() {
			e := &commandEntry{iface: cmd, owner: c}
			m.attachLimiter(c, e)
			m.commands[cmd.Name()] = e
		}
		m.logger.Info("component loaded",
			zap.String("component", c.Name()),
			zap.String("type", string(c.Info().Type)))
	}
	return nil
}

func dupIface(component, iface string) error {
	return errors.New(errors.PhaseLoad, errors.KindDuplicate).
		Component(component).Interface(iface).
		Detail("interface name already exported").Build()
}

// declaredExported checks that every interface the description declares
// came back from the export. Implementations may export more.
func declaredExported(c *component.Component) error {
	for _, d := range c.Info().StateInterfaceDescriptions() {
		if _, ok := c.StateInterface(d.Name()); !ok {
			return errors.New(errors.PhaseLoad, errors.KindValidation).
				Component(c.Name()).Interface(d.Name()).
				Detail("declared state interface not exported").Build()
		}
	}
	for _, d := range c.Info().CommandInterfaceDescriptions() {
		if _, ok := c.CommandInterface(d.Name()); !ok {
			return errors.New(errors.PhaseLoad, errors.KindValidation).
				Component(c.Name()).Interface(d.Name()).
				Detail("declared command interface not exported").Build()
		}
	}
	return nil
}

func (m *Manager) attachLimiter(c *component.Component, e *commandEntry) {
	prefix, name := e.iface.Prefix(), e.iface.InterfaceName()
	var kind limits.Kind
	switch name {
	case "position":
		kind = limits.Position
	case "velocity":
		kind = limits.Velocity
	default:
		return
	}
	for _, j := range c.Info().Joints {
		if j.Name != prefix {
			continue
		}
		if l := limits.New(kind, j.Limits); l != nil {
			e.limiter = l
			e.actual, _ = c.StateInterface(prefix + "/position")
		}
		return
	}
}

// ComponentNames returns the loaded component names, load order.
func (m *Manager) ComponentNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// StateInterfaceNames returns every state interface key, component load
// order then export order.
func (m *Manager) StateInterfaceNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, name := range m.order {
		for _, s := range m.components[name].StateInterfaces() {
			out = append(out, s.Name())
		}
	}
	return out
}

// CommandInterfaceNames returns every command interface key including
// controller references, component load order then controller import
// order.
func (m *Manager) CommandInterfaceNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, name := range m.order {
		for _, cmd := range m.components[name].CommandInterfaces() {
			out = append(out, cmd.Name())
		}
	}
	for _, names := range m.refsInOrder() {
		out = append(out, names...)
	}
	return out
}

// StateInterfaceExists reports whether a state interface key is known.
func (m *Manager) StateInterfaceExists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.states[name]
	return ok
}

// CommandInterfaceExists reports whether a command interface key is known.
func (m *Manager) CommandInterfaceExists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.commands[name]
	return ok
}

// StateInterfaceAvailable reports whether a state interface can be claimed
// right now.
func (m *Manager) StateInterfaceAvailable(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.states[name]
	if !ok {
		return false
	}
	id := e.owner.State().ID
	return id == lifecycle.Inactive || id == lifecycle.Active
}

// CommandInterfaceAvailable reports whether a command interface can be
// claimed right now. Claims do not affect availability.
func (m *Manager) CommandInterfaceAvailable(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.commands[name]
	return ok && e.isAvailable()
}

// CommandInterfaceClaimed reports whether a command interface is on loan.
func (m *Manager) CommandInterfaceClaimed(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.commands[name]
	return ok && e.claimed
}

// ClaimStateInterface loans read access to a state interface. Any number
// of loans can coexist.
func (m *Manager) ClaimStateInterface(name string) (*StateLoan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.states[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseClaim, "state interface", name)
	}
	id := e.owner.State().ID
	if id != lifecycle.Inactive && id != lifecycle.Active {
		return nil, errors.Unavailable(name)
	}
	return &StateLoan{iface: e.iface}, nil
}

// ClaimCommandInterface loans exclusive write access to a command
// interface.
func (m *Manager) ClaimCommandInterface(name string) (*CommandLoan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.commands[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseClaim, "command interface", name)
	}
	if !e.isAvailable() {
		return nil, errors.Unavailable(name)
	}
	if e.claimed {
		return nil, errors.AlreadyClaimed(name)
	}
	e.claimed = true
	return &CommandLoan{
		iface: e.iface,
		release: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			e.claimed = false
		},
	}, nil
}

// ImportControllerReferenceInterfaces adds a controller's reference
// interfaces to the command namespace. They start unavailable. Interface
// names must be prefixed with the controller name.
func (m *Manager) ImportControllerReferenceInterfaces(controller string, ifaces []*handle.CommandInterface) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.refs[controller]; exists {
		return errors.New(errors.PhaseReference, errors.KindDuplicate).
			Detail("controller %q already has reference interfaces", controller).Build()
	}
	names := make([]string, 0, len(ifaces))
	seen := make(map[string]struct{}, len(ifaces))
	for _, f := range ifaces {
		if f.Prefix() != controller {
			return errors.Validation(errors.PhaseReference,
				"reference interface %q is not prefixed with controller %q", f.Name(), controller)
		}
		if _, taken := m.commands[f.Name()]; taken {
			return errors.New(errors.PhaseReference, errors.KindDuplicate).
				Interface(f.Name()).Detail("command interface name already exported").Build()
		}
		if _, dup := seen[f.Name()]; dup {
			return errors.New(errors.PhaseReference, errors.KindDuplicate).
				Interface(f.Name()).Detail("reference interface repeated in one import").Build()
		}
		seen[f.Name()] = struct{}{}
		names = append(names, f.Name())
	}
	for i, f := range ifaces {
		m.commands[names[i]] = &commandEntry{iface: f, controller: controller}
	}
	m.refs[controller] = names
	return nil
}

// MakeControllerReferenceInterfacesAvailable opens a controller's
// reference interfaces for claiming.
func (m *Manager) MakeControllerReferenceInterfacesAvailable(controller string) error {
	return m.setReferenceAvailability(controller, true)
}

// MakeControllerReferenceInterfacesUnavailable blocks new claims on a
// controller's reference interfaces. Outstanding loans are untouched.
func (m *Manager) MakeControllerReferenceInterfacesUnavailable(controller string) error {
	return m.setReferenceAvailability(controller, false)
}

func (m *Manager) setReferenceAvailability(controller string, v bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	names, ok := m.refs[controller]
	if !ok {
		return errors.NotFound(errors.PhaseReference, "controller", controller)
	}
	for _, n := range names {
		m.commands[n].available = v
	}
	return nil
}

// RemoveControllerReferenceInterfaces detaches and forgets a controller's
// reference interfaces. Outstanding loans keep their handle but every
// write on it fails from here on.
func (m *Manager) RemoveControllerReferenceInterfaces(controller string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	names, ok := m.refs[controller]
	if !ok {
		return errors.NotFound(errors.PhaseReference, "controller", controller)
	}
	for _, n := range names {
		m.commands[n].iface.Detach()
		delete(m.commands, n)
	}
	delete(m.refs, controller)
	return nil
}

// ControllerReferenceInterfaceNames lists a controller's reference
// interface names, import order.
func (m *Manager) ControllerReferenceInterfaceNames(controller string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names, ok := m.refs[controller]
	if !ok {
		return nil, errors.NotFound(errors.PhaseReference, "controller", controller)
	}
	return append([]string(nil), names...), nil
}

// CacheControllerToHardware remembers that a controller commands the
// hardware owning the named interfaces. Insertion ordered, duplicate safe;
// names not owned by hardware are skipped.
func (m *Manager) CacheControllerToHardware(controller string, ifaceNames []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range ifaceNames {
		var owner *component.Component
		if e, ok := m.commands[n]; ok && e.owner != nil {
			owner = e.owner
		} else if e, ok := m.states[n]; ok {
			owner = e.owner
		}
		if owner == nil {
			continue
		}
		list := m.cache[owner.Name()]
		seen := false
		for _, c := range list {
			if c == controller {
				seen = true
				break
			}
		}
		if !seen {
			m.cache[owner.Name()] = append(list, controller)
		}
	}
}

// CachedControllersToHardware returns the controllers recorded against one
// hardware component, insertion order.
func (m *Manager) CachedControllersToHardware(hardware string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.cache[hardware]...)
}

// SetComponentState drives a component through the minimal transition path
// to the target state.
func (m *Manager) SetComponentState(name string, target lifecycle.StateID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.components[name]
	if !ok {
		return errors.NotFound(errors.PhaseLifecycle, "component", name)
	}
	switch target {
	case lifecycle.Unconfigured, lifecycle.Inactive, lifecycle.Active, lifecycle.Finalized:
	default:
		return errors.New(errors.PhaseLifecycle, errors.KindTransition).
			Component(name).Detail("unknown target state %d", target).Build()
	}
	return c.TargetState(target)
}

// Read runs the read phase on every component, load order. Components that
// fail are demoted together with their failure group; everything else
// keeps running. Returns the aggregate status and the names of every
// demoted component.
func (m *Manager) Read(t time.Time, period time.Duration) (hal.ReturnType, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var failed []string
	for _, name := range m.order {
		// A deactivate request from read is a failure; graceful stops
		// come from write only.
		if m.components[name].Read(t, period) != hal.OK {
			failed = append(failed, name)
		}
	}
	if len(failed) == 0 {
		return hal.OK, nil
	}
	return hal.Error, m.demote(failed)
}

// Write runs the write phase on every component, load order. Failures
// demote like Read; a Deactivate return stops its component gracefully.
// Returns the aggregate status and the names of every stopped component.
func (m *Manager) Write(t time.Time, period time.Duration) (hal.ReturnType, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var failed, deactivating []string
	for _, name := range m.order {
		switch m.components[name].Write(t, period) {
		case hal.Error:
			failed = append(failed, name)
		case hal.Deactivate:
			deactivating = append(deactivating, name)
		}
	}

	ret := hal.OK
	var stopped []string
	for _, name := range deactivating {
		ret = hal.Deactivate
		m.logger.Warn("hardware requested deactivation", zap.String("component", name))
		if err := m.components[name].TargetState(lifecycle.Inactive); err != nil {
			m.logger.Error("graceful deactivation failed", zap.String("component", name), zap.Error(err))
		}
		stopped = append(stopped, name)
	}
	if len(failed) > 0 {
		ret = hal.Error
		stopped = append(stopped, m.demote(failed)...)
	}
	return ret, stopped
}

// demote runs error recovery on the directly failed components and every
// cycling member of their failure groups. Returns the demoted names, load
// order.
func (m *Manager) demote(direct []string) []string {
	hit := make(map[string]struct{}, len(direct))
	groups := make(map[string]struct{})
	for _, n := range direct {
		hit[n] = struct{}{}
		if g := m.components[n].Info().Group; g != "" {
			groups[g] = struct{}{}
		}
	}

	var out []string
	for _, name := range m.order {
		c := m.components[name]
		_, failedDirect := hit[name]
		_, inGroup := groups[c.Info().Group]
		sibling := !failedDirect && c.Info().Group != "" && inGroup
		if sibling {
			id := c.State().ID
			if id != lifecycle.Inactive && id != lifecycle.Active {
				continue
			}
		}
		if !failedDirect && !sibling {
			continue
		}
		m.logger.Error("cycle failure, demoting component",
			zap.String("component", name),
			zap.Bool("group_sibling", sibling))
		c.Recover()
		out = append(out, name)
	}
	return out
}

// PrepareCommandModeSwitch asks every component owning one of the named
// command interfaces to verify the switch. Unknown interface names and a
// rejecting component fail the whole switch.
func (m *Manager) PrepareCommandModeSwitch(start, stop []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	targets, err := m.switchTargets(start, stop)
	if err != nil {
		return err
	}
	for _, t := range targets {
		if ret := t.c.PrepareCommandModeSwitch(t.start, t.stop); ret != hal.CallbackSuccess {
			return errors.New(errors.PhaseLifecycle, errors.KindTransition).
				Component(t.c.Name()).Detail("command mode switch rejected").Build()
		}
	}
	return nil
}

// PerformCommandModeSwitch applies a prepared switch on every component
// owning one of the named command interfaces.
func (m *Manager) PerformCommandModeSwitch(start, stop []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	targets, err := m.switchTargets(start, stop)
	if err != nil {
		return err
	}
	for _, t := range targets {
		if ret := t.c.PerformCommandModeSwitch(t.start, t.stop); ret != hal.CallbackSuccess {
			return errors.New(errors.PhaseLifecycle, errors.KindTransition).
				Component(t.c.Name()).Detail("command mode switch failed").Build()
		}
	}
	return nil
}

type switchTarget struct {
	c     *component.Component
	start []string
	stop  []string
}

// switchTargets groups the named interfaces by owning component so each
// one only sees its own slice of the switch. Controller references take
// no part in mode switching.
func (m *Manager) switchTargets(start, stop []string) ([]*switchTarget, error) {
	var targets []*switchTarget
	byName := make(map[string]*switchTarget)
	resolve := func(n string) (*switchTarget, error) {
		e, ok := m.commands[n]
		if !ok {
			return nil, errors.NotFound(errors.PhaseClaim, "command interface", n)
		}
		if e.owner == nil {
			return nil, nil
		}
		t, ok := byName[e.owner.Name()]
		if !ok {
			t = &switchTarget{c: e.owner}
			byName[e.owner.Name()] = t
			targets = append(targets, t)
		}
		return t, nil
	}
	for _, n := range start {
		t, err := resolve(n)
		if err != nil {
			return nil, err
		}
		if t != nil {
			t.start = append(t.start, n)
		}
	}
	for _, n := range stop {
		t, err := resolve(n)
		if err != nil {
			return nil, err
		}
		if t != nil {
			t.stop = append(t.stop, n)
		}
	}
	return targets, nil
}

// EnforceCommandLimits bounds every claimed joint command interface with
// registered limits. Returns whether any command was altered. Run between
// the read and write phases.
func (m *Manager) EnforceCommandLimits(period time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	any := false
	for _, e := range m.commands {
		if !e.claimed || e.limiter == nil {
			continue
		}
		actual := math.NaN()
		if e.actual != nil {
			actual = e.actual.Value()
		}
		if out, limited := e.limiter.Enforce(e.iface.Value(), actual, period); limited {
			e.iface.SetValue(out)
			any = true
		}
	}
	return any
}

// ComponentStatus describes one loaded component for introspection.
type ComponentStatus struct {
	Name   string
	Type   hal.HardwareType
	Plugin string
	Group  string
	State  lifecycle.State
	RWRate uint
	Async  bool

	StateInterfaces   []string
	CommandInterfaces []string

	ReadExecution    stats.Statistics
	ReadPeriodicity  stats.Statistics
	WriteExecution   stats.Statistics
	WritePeriodicity stats.Statistics
}

// ComponentStatus snapshots every loaded component.
func (m *Manager) ComponentStatus() map[string]ComponentStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]ComponentStatus, len(m.components))
	for _, name := range m.order {
		c := m.components[name]
		info := c.Info()
		st := ComponentStatus{
			Name:   name,
			Type:   info.Type,
			Plugin: info.Plugin,
			Group:  info.Group,
			State:  c.State(),
			RWRate: info.RWRate,
			Async:  info.Async,
		}
		for _, s := range c.StateInterfaces() {
			st.StateInterfaces = append(st.StateInterfaces, s.Name())
		}
		for _, cmd := range c.CommandInterfaces() {
			st.CommandInterfaces = append(st.CommandInterfaces, cmd.Name())
		}
		st.ReadExecution, st.ReadPeriodicity = c.ReadStatistics()
		st.WriteExecution, st.WritePeriodicity = c.WriteStatistics()
		out[name] = st
	}
	return out
}

// Counts is the per-kind component census.
type Counts struct {
	Actuators int
	Sensors   int
	Systems   int
}

// ComponentCounts tallies loaded components by kind.
func (m *Manager) ComponentCounts() Counts {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c Counts
	for _, name := range m.order {
		switch m.components[name].Info().Type {
		case hal.ActuatorType:
			c.Actuators++
		case hal.SensorType:
			c.Sensors++
		case hal.SystemType:
			c.Systems++
		}
	}
	return c
}

// ComponentsInitialized reports whether any components are loaded. Loading
// is all-or-nothing, so a non-empty manager is a fully initialized one.
func (m *Manager) ComponentsInitialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.components) > 0
}

// Shutdown finalizes every component and joins their worker threads.
// Transition errors are aggregated; shutdown continues past them.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var err error
	for _, name := range m.order {
		err = multierr.Append(err, m.components[name].Shutdown())
	}
	return err
}

// refsInOrder lists controller reference names sorted by controller, for
// deterministic listings.
func (m *Manager) refsInOrder() [][]string {
	controllers := make([]string, 0, len(m.refs))
	for c := range m.refs {
		controllers = append(controllers, c)
	}
	sort.Strings(controllers)
	out := make([][]string, 0, len(controllers))
	for _, c := range controllers {
		out = append(out, m.refs[c])
	}
	return out
}
