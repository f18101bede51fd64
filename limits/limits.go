// Package limits enforces joint command bounds between the read and write
// phases of the control loop. Position commands are rate-limited around
// the actual position by the joint's velocity limit, then clamped to the
// position range; velocity commands clamp to the velocity limit.
package limits

import (
	"math"
	"time"

	"github.com/robotkit/hal"
)

// Kind selects which command interface a limiter applies to.
type Kind uint8

const (
	// Position limits a <joint>/position command.
	Position Kind = iota
	// Velocity limits a <joint>/velocity command.
	Velocity
)

// Limiter enforces one joint's limits on one command interface.
type Limiter struct {
	kind   Kind
	limits hal.JointLimits
}

// New builds a limiter, or nil when the limits carry nothing enforceable
// for the kind.
func New(kind Kind, l *hal.JointLimits) *Limiter {
	if l == nil {
		return nil
	}
	switch kind {
	case Position:
		if !l.HasPositionLimits && !l.HasVelocityLimits {
			return nil
		}
	case Velocity:
		if !l.HasVelocityLimits {
			return nil
		}
	}
	return &Limiter{kind: kind, limits: *l}
}

// Enforce bounds cmd. actual is the joint's current position state, used
// to rate-limit position commands; NaN skips rate limiting. Returns the
// bounded command and whether it differs from the input. NaN commands
// pass through untouched.
func (l *Limiter) Enforce(cmd, actual float64, period time.Duration) (float64, bool) {
	if math.IsNaN(cmd) {
		return cmd, false
	}
	out := cmd
	switch l.kind {
	case Position:
		if l.limits.HasVelocityLimits && !math.IsNaN(actual) {
			step := l.limits.MaxVelocity * period.Seconds()
			out = clamp(out, actual-step, actual+step)
		}
		if l.limits.HasPositionLimits {
			out = clamp(out, l.limits.MinPosition, l.limits.MaxPosition)
		}
	case Velocity:
		out = clamp(out, -l.limits.MaxVelocity, l.limits.MaxVelocity)
	}
	return out, out != cmd
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
