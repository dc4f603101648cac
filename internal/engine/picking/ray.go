// Package picking casts rays from screen positions into the scene and finds
// the part under the cursor.
package picking

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/partview/internal/scene"
	"github.com/Faultbox/partview/pkg/math"
)

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts pixel coordinates to a world-space ray starting on
// the near plane. invViewProj is the inverse view-projection matrix.
// Zero viewport dimensions are treated as 1.
// The far plane can be too distant to unproject in float32, so the
// direction is sampled at a mid depth instead.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	if viewportW <= 0 {
		viewportW = 1
	}
	if viewportH <= 0 {
		viewportH = 1
	}
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	near := invViewProj.TransformPoint(math.V3(ndcX, ndcY, -1))
	mid := invViewProj.TransformPoint(math.V3(ndcX, ndcY, rayDepth))
	return Ray{Origin: near, Direction: mid.Sub(near).Normalize()}
}

const rayDepth = 0.9

// IntersectBox tests the ray against an axis-aligned box with the slab
// method. It returns the entry distance, or the exit distance when the ray
// starts inside.
func (r Ray) IntersectBox(box math.Box3) (t float32, hit bool) {
	if box.IsEmpty() {
		return 0, false
	}
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	o, d := r.Origin.Array(), r.Direction.Array()
	lo, hi := box.Min.Array(), box.Max.Array()
	for axis := 0; axis < 3; axis++ {
		if d[axis] == 0 {
			if o[axis] < lo[axis] || o[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - o[axis]) / d[axis]
		t2 := (hi[axis] - o[axis]) / d[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

const triangleEpsilon = 1e-7

// IntersectTriangle runs Möller-Trumbore against triangle abc. Both faces
// count as hits.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < triangleEpsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Hit is a ray intersection with a part.
type Hit struct {
	Part     *scene.Part
	Distance float32
}

// IntersectPart tests the ray against the part's world bounds and, when the
// part has geometry, against its triangles.
func (r Ray) IntersectPart(p *scene.Part) (float32, bool) {
	t, ok := r.IntersectBox(p.WorldBounds())
	if !ok || p.Geometry == nil || p.Geometry.TriangleCount() == 0 {
		return t, ok
	}

	// In the part's frame the unnormalized direction keeps t in world units.
	inv := p.WorldMatrix().Inverse()
	local := Ray{Origin: inv.TransformPoint(r.Origin), Direction: inv.TransformDirection(r.Direction)}

	best, found := float32(0), false
	for i := 0; i < p.Geometry.TriangleCount(); i++ {
		a, b, c := p.Geometry.Triangle(i)
		if t, ok := local.IntersectTriangle(a, b, c); ok && (!found || t < best) {
			best, found = t, true
		}
	}
	return best, found
}

// Pick returns every visible part the ray hits, nearest first.
func Pick(r Ray, parts []*scene.Part) []Hit {
	var hits []Hit
	for _, p := range parts {
		if !p.Visible {
			continue
		}
		if t, ok := r.IntersectPart(p); ok {
			hits = append(hits, Hit{Part: p, Distance: t})
		}
	}
	// insertion sort; hit lists are short
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].Distance < hits[j-1].Distance; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	return hits
}

// Nearest returns the closest hit, if any.
func Nearest(r Ray, parts []*scene.Part) (Hit, bool) {
	hits := Pick(r, parts)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}
