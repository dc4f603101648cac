package camera

import (
	m "github.com/Faultbox/partview/pkg/math"
)

// Zoom button defaults.
const (
	ZoomStep        = 0.8
	ZoomMinDistance = 0.8
	ZoomMaxDistance = 12
	ZoomSeconds     = 0.6
)

// ZoomLimits bounds button zooming.
type ZoomLimits struct {
	Step float32 `yaml:"step"`
	Min  float32 `yaml:"min"`
	Max  float32 `yaml:"max"`
}

// DefaultZoomLimits returns the stock zoom button settings.
func DefaultZoomLimits() ZoomLimits {
	return ZoomLimits{Step: ZoomStep, Min: ZoomMinDistance, Max: ZoomMaxDistance}
}

// ZoomTarget returns where one zoom step moves the camera along its line of
// sight. in=true moves towards target. It reports false when the camera is
// already at the limit in that direction or the step would cross Min.
func ZoomTarget(pos, target m.Vec3, in bool, lim ZoomLimits) (m.Vec3, bool) {
	dist := pos.Distance(target)
	if (in && dist <= lim.Min) || (!in && dist >= lim.Max) {
		return pos, false
	}

	step := lim.Step
	if !in {
		step = -step
	}
	dir := target.Sub(pos).Normalize()
	next := pos.Add(dir.Scale(step))
	if next.Distance(target) < lim.Min {
		return pos, false
	}
	return next, true
}
