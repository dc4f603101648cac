// Package lighting provides the directional light used to shade parts.
package lighting

import (
	"github.com/chewxy/math32"

	m "github.com/Faultbox/partview/pkg/math"
)

// Sun is a directional light given by compass angles in degrees.
// Azimuth rotates around +Y starting from +Z; Elevation is the height above
// the horizon.
type Sun struct {
	Azimuth   float32
	Elevation float32
	// Ambient is the light level of faces turned away from the sun.
	Ambient float32
}

// DefaultSun lights the model from the upper front left.
func DefaultSun() Sun {
	return Sun{Azimuth: -35, Elevation: 55, Ambient: 0.35}
}

// Towards returns the unit vector pointing at the sun.
func (s Sun) Towards() m.Vec3 {
	az, el := m.Radians(s.Azimuth), m.Radians(s.Elevation)
	return m.V3(
		math32.Cos(el)*math32.Sin(az),
		math32.Sin(el),
		math32.Cos(el)*math32.Cos(az),
	)
}

// Direction returns the direction the light travels, away from the sun.
func (s Sun) Direction() m.Vec3 {
	return s.Towards().Scale(-1)
}
