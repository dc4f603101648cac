package camera

import (
	"github.com/chewxy/math32"

	m "github.com/Faultbox/partview/pkg/math"
)

const (
	// DefaultDistanceMul pads the fitted distance when a preset sets none.
	DefaultDistanceMul = 1.35
	// FocusMargin pads the fitted distance when isolating one part.
	FocusMargin = 1.6
)

var (
	// DefaultDir is the viewing direction used when a preset sets none.
	DefaultDir = m.V3(5, 0.1, 7).Normalize()
	// FocusDir is the fixed direction focus mode views a part from.
	FocusDir = m.V3(2.5, 1.5, 2.5).Normalize()
)

// Preset tunes how a model is framed after loading.
type Preset struct {
	Dir          m.Vec3  `yaml:"dir"`
	DistanceMul  float32 `yaml:"distance_mul"`
	Offset       m.Vec3  `yaml:"offset"`
	TargetOffset m.Vec3  `yaml:"target_offset"`
}

// EnginePreset frames the engine model three-quarters from the left.
func EnginePreset() Preset {
	return Preset{
		Dir:          m.V3(-9.6, 3.25, 7.8).Normalize(),
		DistanceMul:  1.45,
		Offset:       m.V3(0, 0.05, 0),
		TargetOffset: m.V3(0, 0.10, 0),
	}
}

// Pose is a camera position and the point it looks at.
type Pose struct {
	Position m.Vec3
	Target   m.Vec3
}

// FitDistance returns how far a camera with the given vertical field of view
// (degrees) must be for an object of size maxDim to span the view.
func FitDistance(maxDim, fovDeg float32) float32 {
	return (maxDim / 2) / math32.Tan(m.Radians(fovDeg)/2)
}

// ScreenMultiplier pulls the camera back on wide screens.
func ScreenMultiplier(width int) float32 {
	switch {
	case width >= 2560:
		return 1.7
	case width >= 1920:
		return 1.4
	case width >= 1366:
		return 1.15
	}
	return 1
}

// FitPose frames bounds for a screen of the given pixel width.
func FitPose(bounds m.Box3, fovDeg float32, preset Preset, screenWidth int) Pose {
	center := bounds.Center()

	mul := preset.DistanceMul
	if mul == 0 {
		mul = DefaultDistanceMul
	}
	dist := FitDistance(bounds.MaxDim(), fovDeg) * mul * ScreenMultiplier(screenWidth)

	dir := preset.Dir
	if dir == (m.Vec3{}) {
		dir = DefaultDir
	}
	return Pose{
		Position: center.Add(dir.Scale(dist)).Add(preset.Offset),
		Target:   center.Add(preset.TargetOffset),
	}
}

// FocusPose frames a single part's bounds from FocusDir with margin applied.
func FocusPose(bounds m.Box3, fovDeg, margin float32) Pose {
	center := bounds.Center()
	dist := FitDistance(bounds.MaxDim(), fovDeg) * margin
	return Pose{
		Position: center.Add(FocusDir.Scale(dist)),
		Target:   center,
	}
}
