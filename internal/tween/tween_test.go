package tween

import (
	"testing"

	"github.com/stretchr/testify/assert"

	m "github.com/Faultbox/partview/pkg/math"
)

func TestVec3ReachesTarget(t *testing.T) {
	var got m.Vec3
	tw := NewVec3(m.V3(0, 0, 0), m.V3(10, 0, 0), 0.8, func(v m.Vec3) { got = v })

	steps := 0
	for tw.Step(0.1) {
		steps++
		assert.Less(t, steps, 20, "tween never finished")
	}
	assert.True(t, tw.Done())
	assert.Equal(t, m.V3(10, 0, 0), got)
}

func TestVec3EaseOut(t *testing.T) {
	var got m.Vec3
	tw := NewVec3(m.Vec3{}, m.V3(4, 0, 0), 1, func(v m.Vec3) { got = v })

	tw.Step(0.5)
	// power2.out is ahead of linear at the midpoint
	assert.InDelta(t, 3, got.X, 1e-5)
}

func TestVec3ZeroDuration(t *testing.T) {
	var got m.Vec3
	tw := NewVec3(m.Vec3{}, m.V3(1, 2, 3), 0, func(v m.Vec3) { got = v })

	assert.False(t, tw.Step(0))
	assert.Equal(t, m.V3(1, 2, 3), got)
}

func TestVec3Monotonic(t *testing.T) {
	last := float32(-1)
	tw := &Vec3{From: m.Vec3{}, To: m.V3(1, 0, 0), Duration: 0.6, Ease: Power2Out, Apply: func(v m.Vec3) {
		assert.GreaterOrEqual(t, v.X, last)
		last = v.X
	}}
	for tw.Step(1.0 / 60) {
	}
	assert.Equal(t, float32(1), last)
}

func TestVec3StepAgreesWithDone(t *testing.T) {
	tests := []struct {
		duration float64
		dt       float64
		steps    int
	}{
		{0.8, 0.1, 8},
		{0.3, 0.1, 3},
		{0.6, 0.2, 3},
		{1, 1.0 / 60, 60},
	}
	for _, tt := range tests {
		tw := NewVec3(m.Vec3{}, m.V3(1, 1, 1), tt.duration, nil)
		n := 0
		for tw.Step(tt.dt) {
			n++
			assert.False(t, tw.Done(), "running tween reported done")
			if n > tt.steps*2 {
				break
			}
		}
		assert.True(t, tw.Done(), "duration %v", tt.duration)
		assert.Equal(t, tt.steps, n+1, "duration %v dt %v", tt.duration, tt.dt)
	}
}
