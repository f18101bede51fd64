package limits

import (
	"math"
	"testing"
	"time"

	"github.com/robotkit/hal"
)

var jointLimits = &hal.JointLimits{
	MinPosition:       -3.14,
	MaxPosition:       3.14,
	MaxVelocity:       0.2,
	HasPositionLimits: true,
	HasVelocityLimits: true,
}

func TestPositionRateLimit(t *testing.T) {
	l := New(Position, jointLimits)
	period := 10 * time.Millisecond

	// A far-away target only advances by max velocity per cycle.
	actual := 1.05
	for i := 0; i < 5; i++ {
		got, limited := l.Enforce(2.0, actual, period)
		want := actual + 0.2*period.Seconds()
		if !limited || math.Abs(got-want) > 1e-12 {
			t.Fatalf("cycle %d: Enforce = %v (limited=%v), want %v", i, got, limited, want)
		}
		actual = got
	}

	// Close targets pass through.
	got, limited := l.Enforce(actual+0.001, actual, period)
	if limited || got != actual+0.001 {
		t.Errorf("near target limited: %v %v", got, limited)
	}
}

func TestPositionRangeClamp(t *testing.T) {
	l := New(Position, &hal.JointLimits{
		MinPosition: -1, MaxPosition: 1, HasPositionLimits: true,
	})
	if got, _ := l.Enforce(5, math.NaN(), time.Millisecond); got != 1 {
		t.Errorf("clamp high = %v, want 1", got)
	}
	if got, _ := l.Enforce(-5, math.NaN(), time.Millisecond); got != -1 {
		t.Errorf("clamp low = %v, want -1", got)
	}
}

func TestVelocityClamp(t *testing.T) {
	l := New(Velocity, jointLimits)
	if got, limited := l.Enforce(-20, 0, time.Millisecond); !limited || got != -0.2 {
		t.Errorf("Enforce(-20) = %v, want -0.2", got)
	}
	if got, limited := l.Enforce(0.1, 0, time.Millisecond); limited || got != 0.1 {
		t.Errorf("Enforce(0.1) = %v limited=%v, want pass-through", got, limited)
	}
}

func TestNaNCommandPassesThrough(t *testing.T) {
	l := New(Position, jointLimits)
	got, limited := l.Enforce(math.NaN(), 0, time.Millisecond)
	if limited || !math.IsNaN(got) {
		t.Errorf("NaN command altered: %v %v", got, limited)
	}
}

func TestNewNilWhenNothingEnforceable(t *testing.T) {
	if New(Velocity, &hal.JointLimits{HasPositionLimits: true}) != nil {
		t.Error("velocity limiter built without velocity limits")
	}
	if New(Position, nil) != nil {
		t.Error("limiter built from nil limits")
	}
}
