package handle

import (
	"math"
	"testing"
)

func TestNameComposition(t *testing.T) {
	d := InterfaceDescription{Prefix: "joint1", Info: InterfaceInfo{Name: "position"}}
	if got := d.Name(); got != "joint1/position" {
		t.Errorf("Name() = %q", got)
	}

	h := New(d)
	if h.Prefix() != "joint1" || h.InterfaceName() != "position" || h.Name() != "joint1/position" {
		t.Errorf("identity = %q %q %q", h.Prefix(), h.InterfaceName(), h.Name())
	}
}

func TestValueUnsetUntilFirstWrite(t *testing.T) {
	h := New(InterfaceDescription{Prefix: "j", Info: InterfaceInfo{Name: "velocity"}})
	if !math.IsNaN(h.Value()) {
		t.Errorf("unset value = %v, want NaN", h.Value())
	}
	if !h.SetValue(0.5) {
		t.Fatal("SetValue failed")
	}
	if h.Value() != 0.5 {
		t.Errorf("value = %v", h.Value())
	}
}

func TestInitialValue(t *testing.T) {
	h := New(InterfaceDescription{
		Prefix: "j",
		Info:   InterfaceInfo{Name: "position", InitialValue: "1.57"},
	})
	if h.Value() != 1.57 {
		t.Errorf("initial value = %v, want 1.57", h.Value())
	}

	// Garbage initial values leave the handle unset.
	g := New(InterfaceDescription{
		Prefix: "j",
		Info:   InterfaceInfo{Name: "position", InitialValue: "not-a-number"},
	})
	if !math.IsNaN(g.Value()) {
		t.Errorf("value = %v, want NaN", g.Value())
	}
}

func TestBoundHandleSharesMemory(t *testing.T) {
	cell := 3.0
	h := NewBound("ctrl", "setpoint", &cell)
	if h.Value() != 3.0 {
		t.Errorf("bound value = %v", h.Value())
	}
	h.SetValue(4.0)
	if cell != 4.0 {
		t.Errorf("backing cell = %v, want 4.0", cell)
	}
}

func TestDetach(t *testing.T) {
	h := New(InterfaceDescription{Prefix: "c", Info: InterfaceInfo{Name: "ref"}})
	h.SetValue(1)
	h.Detach()

	if h.SetValue(2) {
		t.Error("write succeeded after detach")
	}
	if !math.IsNaN(h.Value()) {
		t.Errorf("detached value = %v, want NaN", h.Value())
	}
	if h.Name() != "c/ref" {
		t.Error("identity lost on detach")
	}
}

func TestCommandInterfaceKeepsBounds(t *testing.T) {
	ci := NewCommandInterface(InterfaceDescription{
		Prefix: "j",
		Info:   InterfaceInfo{Name: "position", Min: "-1", Max: "1"},
	})
	if ci.Info().Min != "-1" || ci.Info().Max != "1" {
		t.Errorf("bounds = %+v", ci.Info())
	}
}
