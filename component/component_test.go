package component

import (
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robotkit/hal"
	"github.com/robotkit/hal/handle"
	"github.com/robotkit/hal/lifecycle"
)

// counting is a scriptable hardware double that tallies calls.
type counting struct {
	hal.Base

	reads  atomic.Int32
	writes atomic.Int32

	onConfigure hal.CallbackReturn
	onActivate  hal.CallbackReturn
	onError     hal.CallbackReturn

	onRead func()
	gate   chan struct{}
}

func (c *counting) OnConfigure() hal.CallbackReturn { return c.onConfigure }
func (c *counting) OnActivate() hal.CallbackReturn  { return c.onActivate }
func (c *counting) OnError() hal.CallbackReturn     { return c.onError }

func (c *counting) Read(time.Time, time.Duration) hal.ReturnType {
	c.reads.Add(1)
	if c.onRead != nil {
		c.onRead()
	}
	if c.gate != nil {
		<-c.gate
	}
	return hal.OK
}

func (c *counting) Write(time.Time, time.Duration) hal.ReturnType {
	c.writes.Add(1)
	return hal.OK
}

func testInfo(name string, typ hal.HardwareType) hal.HardwareInfo {
	info := hal.HardwareInfo{Name: name, Type: typ, Plugin: "test/counting"}
	if typ == hal.SensorType {
		info.Sensors = []hal.SensorInfo{{
			Name:            "s1",
			StateInterfaces: []handle.InterfaceInfo{{Name: "velocity"}},
		}}
		return info
	}
	info.Joints = []hal.JointInfo{{
		Name:              "j1",
		CommandInterfaces: []handle.InterfaceInfo{{Name: "position"}},
		StateInterfaces:   []handle.InterfaceInfo{{Name: "position"}},
	}}
	return info
}

func newCounting(t *testing.T, info hal.HardwareInfo, impl *counting) *Component {
	t.Helper()
	c, err := New(impl, info, Options{LoopRate: 100})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewExportsInterfaces(t *testing.T) {
	c := newCounting(t, testInfo("act", hal.ActuatorType), &counting{})

	if c.State().ID != lifecycle.Unconfigured {
		t.Errorf("initial state = %v", c.State())
	}
	if _, ok := c.StateInterface("j1/position"); !ok {
		t.Error("declared state interface missing")
	}
	if _, ok := c.CommandInterface("j1/position"); !ok {
		t.Error("declared command interface missing")
	}
}

func TestTargetStateDrivesPath(t *testing.T) {
	c := newCounting(t, testInfo("act", hal.ActuatorType), &counting{})

	if err := c.TargetState(lifecycle.Active); err != nil {
		t.Fatalf("to active: %v", err)
	}
	if c.State().ID != lifecycle.Active {
		t.Fatalf("state = %v", c.State())
	}
	if err := c.TargetState(lifecycle.Unconfigured); err != nil {
		t.Fatalf("to unconfigured: %v", err)
	}

	if err := c.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := c.TargetState(lifecycle.Active); err == nil {
		t.Error("transition out of finalized accepted")
	}
}

func TestRejectedTransitionKeepsState(t *testing.T) {
	impl := &counting{onConfigure: hal.CallbackFailure}
	c := newCounting(t, testInfo("act", hal.ActuatorType), impl)

	if err := c.TargetState(lifecycle.Inactive); err == nil {
		t.Fatal("rejected transition reported success")
	}
	if c.State().ID != lifecycle.Unconfigured {
		t.Errorf("state = %v, want unchanged", c.State())
	}
}

func TestFailedTransitionRunsRecovery(t *testing.T) {
	impl := &counting{onActivate: hal.CallbackError, onError: hal.CallbackSuccess}
	c := newCounting(t, testInfo("act", hal.ActuatorType), impl)

	if err := c.TargetState(lifecycle.Active); err == nil {
		t.Fatal("failed transition reported success")
	}
	if c.State().ID != lifecycle.Unconfigured {
		t.Errorf("state = %v, want recovered to unconfigured", c.State())
	}

	// An unrecoverable implementation finalizes instead.
	impl2 := &counting{onActivate: hal.CallbackError, onError: hal.CallbackError}
	c2 := newCounting(t, testInfo("act2", hal.ActuatorType), impl2)
	c2.TargetState(lifecycle.Active)
	if c2.State().ID != lifecycle.Finalized {
		t.Errorf("state = %v, want finalized", c2.State())
	}
}

func TestRecoverLeavesFinalizedAlone(t *testing.T) {
	impl := &counting{}
	c := newCounting(t, testInfo("act", hal.ActuatorType), impl)

	if err := c.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	c.Recover()
	if c.State().ID != lifecycle.Finalized {
		t.Errorf("state = %v, recovery resurrected a finalized component", c.State())
	}
}

func TestCyclesOnlyWhileCycling(t *testing.T) {
	impl := &counting{}
	c := newCounting(t, testInfo("act", hal.ActuatorType), impl)

	t0 := time.Unix(100, 0)
	if got := c.Read(t0, 10*time.Millisecond); got != hal.OK {
		t.Errorf("Read unconfigured = %v", got)
	}
	if impl.reads.Load() != 0 {
		t.Error("hardware read while unconfigured")
	}

	c.TargetState(lifecycle.Inactive)
	c.Read(t0, 10*time.Millisecond)
	c.Write(t0, 10*time.Millisecond)
	if impl.reads.Load() != 1 || impl.writes.Load() != 1 {
		t.Errorf("cycles while inactive = %d/%d, want 1/1",
			impl.reads.Load(), impl.writes.Load())
	}

	last := c.LastReadCycle()
	if last.Result != hal.OK || !last.Time.Equal(t0) {
		t.Errorf("LastReadCycle = %+v, want OK at %v", last, t0)
	}
	if got := c.LastWriteCycle(); got.Result != hal.OK || !got.Time.Equal(t0) {
		t.Errorf("LastWriteCycle = %+v, want OK at %v", got, t0)
	}
}

func TestExecutionTimeMeasuredOnClock(t *testing.T) {
	clk := hal.NewManualClock(time.Unix(50, 0))
	impl := &counting{onRead: func() { clk.Advance(3 * time.Millisecond) }}
	c, err := New(impl, testInfo("act", hal.ActuatorType), Options{LoopRate: 100, Clock: clk})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.TargetState(lifecycle.Active)

	c.Read(time.Unix(100, 0), 10*time.Millisecond)
	exec, _ := c.ReadStatistics()
	if exec.Count != 1 || math.Abs(exec.Average-0.003) > 1e-12 {
		t.Errorf("read execution stats = %+v, want one 3ms sample", exec)
	}
	if got := c.LastReadCycle().Execution; got != 3*time.Millisecond {
		t.Errorf("LastReadCycle execution = %v, want 3ms", got)
	}
}

func TestSensorsNeverWrite(t *testing.T) {
	impl := &counting{}
	c := newCounting(t, testInfo("sen", hal.SensorType), impl)
	c.TargetState(lifecycle.Active)

	t0 := time.Unix(100, 0)
	if got := c.Write(t0, 10*time.Millisecond); got != hal.OK {
		t.Errorf("sensor Write = %v", got)
	}
	if impl.writes.Load() != 0 {
		t.Error("write cycle ran on a sensor")
	}
}

func TestRateDecimation(t *testing.T) {
	impl := &counting{}
	info := testInfo("act", hal.ActuatorType)
	info.RWRate = 10 // against a 100 Hz loop
	c := newCounting(t, info, impl)
	c.TargetState(lifecycle.Active)

	period := 10 * time.Millisecond
	t0 := time.Unix(100, 0)
	for i := 0; i <= 10; i++ {
		c.Read(t0.Add(time.Duration(i)*period), period)
	}

	// First loop iteration plus the one at the 100 ms mark.
	if got := impl.reads.Load(); got != 2 {
		t.Errorf("reads = %d, want 2", got)
	}
	exec, _ := c.ReadStatistics()
	if exec.Count != 2 {
		t.Errorf("execution samples = %d, want only executed cycles", exec.Count)
	}
}

func TestAsyncTriggerSkippedWhileBusy(t *testing.T) {
	impl := &counting{gate: make(chan struct{})}
	info := testInfo("act", hal.ActuatorType)
	info.Async = true
	c := newCounting(t, info, impl)
	c.TargetState(lifecycle.Active)

	period := 10 * time.Millisecond
	t0 := time.Unix(100, 0)

	if got := c.Read(t0, period); got != hal.OK {
		t.Errorf("first async read = %v", got)
	}
	waitFor(t, func() bool { return impl.reads.Load() == 1 })

	// Worker is parked on the gate; the next trigger is dropped and the
	// last published status returned.
	if got := c.Read(t0.Add(period), period); got != hal.OK {
		t.Errorf("busy async read = %v", got)
	}
	if impl.reads.Load() != 1 {
		t.Errorf("reads = %d, dropped trigger ran anyway", impl.reads.Load())
	}

	close(impl.gate)
	if err := c.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	// The in-flight cycle finished its write before the join.
	if impl.writes.Load() != 1 {
		t.Errorf("writes = %d, want 1", impl.writes.Load())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached")
}
