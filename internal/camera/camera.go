// Package camera provides the viewer's perspective camera, orbit controls and
// framing helpers.
package camera

import (
	m "github.com/Faultbox/partview/pkg/math"
)

// Perspective is a look-at perspective camera.
type Perspective struct {
	Position m.Vec3
	Up       m.Vec3

	// FOV is the vertical field of view in degrees.
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32

	target m.Vec3
}

// NewPerspective creates a camera at position looking at the origin.
func NewPerspective(fov, near, far float32, position m.Vec3) *Perspective {
	return &Perspective{
		Position: position,
		Up:       m.V3(0, 1, 0),
		FOV:      fov,
		Aspect:   1,
		Near:     near,
		Far:      far,
	}
}

// LookAt points the camera at target.
func (c *Perspective) LookAt(target m.Vec3) {
	c.target = target
}

// Target returns the point the camera looks at.
func (c *Perspective) Target() m.Vec3 {
	return c.target
}

// Resize updates the aspect ratio. Zero dimensions are treated as 1.
func (c *Perspective) Resize(width, height int) {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	c.Aspect = float32(width) / float32(height)
}

// FOVRadians returns the vertical field of view in radians.
func (c *Perspective) FOVRadians() float32 {
	return m.Radians(c.FOV)
}

// View returns the world-to-camera matrix.
func (c *Perspective) View() m.Mat4 {
	return m.LookAt(c.Position, c.target, c.Up)
}

// Projection returns the camera-to-clip matrix.
func (c *Perspective) Projection() m.Mat4 {
	return m.Perspective(c.FOVRadians(), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Perspective) ViewProjection() m.Mat4 {
	return c.Projection().Mul(c.View())
}

// Project maps a world point to normalized device coordinates.
func (c *Perspective) Project(world m.Vec3) m.Vec3 {
	return c.ViewProjection().TransformPoint(world)
}

// Unproject maps normalized device coordinates back to world space.
func (c *Perspective) Unproject(ndc m.Vec3) m.Vec3 {
	return c.ViewProjection().Inverse().TransformPoint(ndc)
}
