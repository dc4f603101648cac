// Package tween animates vectors over a fixed duration.
package tween

import (
	m "github.com/Faultbox/partview/pkg/math"
)

// Ease maps a normalized time in [0, 1] to an eased fraction.
type Ease func(float32) float32

// Power2Out decelerates to the end value.
func Power2Out(x float32) float32 { return m.EaseOutQuad(x) }

// Linear does not ease.
func Linear(x float32) float32 { return x }

// Vec3 moves a value from From to To over Duration seconds.
type Vec3 struct {
	From     m.Vec3
	To       m.Vec3
	Duration float64
	Ease     Ease

	// Apply receives every intermediate value, including the final one.
	Apply func(m.Vec3)

	elapsed float64
}

// NewVec3 builds a tween with power2.out easing.
func NewVec3(from, to m.Vec3, seconds float64, apply func(m.Vec3)) *Vec3 {
	return &Vec3{From: from, To: to, Duration: seconds, Ease: Power2Out, Apply: apply}
}

// Step advances the tween by dt seconds and reports whether it is still running.
// A non-positive duration jumps straight to the end.
func (t *Vec3) Step(dt float64) bool {
	t.elapsed += dt
	frac := t.fraction()
	ease := t.Ease
	if ease == nil {
		ease = Linear
	}
	if t.Apply != nil {
		t.Apply(t.From.Lerp(t.To, ease(float32(frac))))
	}
	return frac < 1
}

// fraction is the normalized elapsed time. Accumulated steps that land
// within rounding of the duration count as finished.
func (t *Vec3) fraction() float64 {
	if t.Duration <= 0 {
		return 1
	}
	f := m.Clamp(t.elapsed/t.Duration, 0, 1)
	if f >= 1-doneEpsilon {
		return 1
	}
	return f
}

const doneEpsilon = 1e-9

// Done reports whether the tween has reached its end value.
func (t *Vec3) Done() bool {
	return t.fraction() >= 1
}
