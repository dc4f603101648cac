package camera

import (
	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"

	m "github.com/Faultbox/partview/pkg/math"
)

// Orbit rotates and dollies a camera around a target point. Input
// accumulates goals; Update eases the camera towards them.
type Orbit struct {
	Camera *Perspective
	Target m.Vec3

	EnableDamping bool
	DampingFactor float32

	MinDistance float32
	MaxDistance float32
	MinPolar    float32
	MaxPolar    float32

	// spherical state relative to Target: radius, azimuth, polar angle
	radius, theta, phi             float64
	goalRadius, goalTheta, goalPhi float64
	velRadius, velTheta, velPhi    float64

	written       m.Vec3
	writtenTarget m.Vec3
	synced        bool
}

// NewOrbit attaches controls to cam with the given target.
func NewOrbit(cam *Perspective, target m.Vec3) *Orbit {
	o := &Orbit{
		Camera:        cam,
		Target:        target,
		EnableDamping: true,
		DampingFactor: 0.08,
		MinDistance:   0,
		MaxDistance:   math32.Inf(1),
		MinPolar:      0.01,
		MaxPolar:      math32.Pi - 0.01,
	}
	o.sync()
	o.apply()
	return o
}

// Rotate adds azimuth and polar deltas in radians.
func (o *Orbit) Rotate(dTheta, dPhi float32) {
	o.resyncIfMoved()
	o.goalTheta += float64(dTheta)
	o.goalPhi += float64(dPhi)
}

// Dolly multiplies the goal distance by scale (<1 moves closer).
func (o *Orbit) Dolly(scale float32) {
	if scale <= 0 {
		return
	}
	o.resyncIfMoved()
	o.goalRadius *= float64(scale)
}

// Distance returns the current camera-to-target distance.
func (o *Orbit) Distance() float32 {
	return o.Camera.Position.Distance(o.Target)
}

// Update moves the camera one frame towards its goals and re-aims it.
// External changes to the camera position or target since the previous
// Update become the new resting pose.
func (o *Orbit) Update(dt float64) {
	o.resyncIfMoved()

	if o.EnableDamping && dt > 0 {
		// Critically damped; settles in about the same time as exponential
		// damping by DampingFactor per frame at 60 fps.
		freq := float64(o.DampingFactor) * 60 * 1.5
		spring := harmonica.NewSpring(dt, freq, 1)
		o.radius, o.velRadius = spring.Update(o.radius, o.velRadius, o.goalRadius)
		o.theta, o.velTheta = spring.Update(o.theta, o.velTheta, o.goalTheta)
		o.phi, o.velPhi = spring.Update(o.phi, o.velPhi, o.goalPhi)
	} else {
		o.radius, o.theta, o.phi = o.goalRadius, o.goalTheta, o.goalPhi
		o.velRadius, o.velTheta, o.velPhi = 0, 0, 0
	}
	o.clamp()
	o.apply()
}

func (o *Orbit) clamp() {
	o.phi = m.Clamp(o.phi, float64(o.MinPolar), float64(o.MaxPolar))
	o.goalPhi = m.Clamp(o.goalPhi, float64(o.MinPolar), float64(o.MaxPolar))
	lo, hi := float64(o.MinDistance), float64(o.MaxDistance)
	o.radius = m.Clamp(o.radius, lo, hi)
	o.goalRadius = m.Clamp(o.goalRadius, lo, hi)
}

func (o *Orbit) apply() {
	r, th, ph := float32(o.radius), float32(o.theta), float32(o.phi)
	offset := m.V3(
		r*math32.Sin(ph)*math32.Sin(th),
		r*math32.Cos(ph),
		r*math32.Sin(ph)*math32.Cos(th),
	)
	o.Camera.Position = o.Target.Add(offset)
	o.Camera.LookAt(o.Target)
	o.written = o.Camera.Position
	o.writtenTarget = o.Target
	o.synced = true
}

func (o *Orbit) resyncIfMoved() {
	if !o.synced || o.Camera.Position != o.written || o.Target != o.writtenTarget {
		o.sync()
	}
}

// sync derives the spherical state from the current camera position.
func (o *Orbit) sync() {
	off := o.Camera.Position.Sub(o.Target)
	r := off.Length()
	o.radius = float64(r)
	if r > 0 {
		o.theta = float64(math32.Atan2(off.X, off.Z))
		o.phi = float64(math32.Acos(m.Clamp(off.Y/r, -1, 1)))
	}
	o.goalRadius, o.goalTheta, o.goalPhi = o.radius, o.theta, o.phi
	o.velRadius, o.velTheta, o.velPhi = 0, 0, 0
	o.written = o.Camera.Position
	o.writtenTarget = o.Target
	o.synced = true
}
