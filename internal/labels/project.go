package labels

import (
	m "github.com/Faultbox/partview/pkg/math"
)

// Projected is a label candidate for the current frame.
type Projected struct {
	Item   *Item
	X, Y   float32
	Width  float32
	Height float32
	// Dist is the camera-to-anchor distance in world units.
	Dist float32
}

// Project computes screen positions for every label. When active is false
// (not exploded, or in focus mode) every label is made transparent and
// nothing is returned. Labels on hidden parts or outside the clip depth range
// are made transparent and skipped.
func Project(items []*Item, viewProj m.Mat4, eye m.Vec3, width, height int, active bool) []Projected {
	if !active {
		for _, it := range items {
			it.Element.Opacity = 0
		}
		return nil
	}
	w, h := float32(width), float32(height)
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}

	out := make([]Projected, 0, len(items))
	for _, it := range items {
		if !it.Part.Visible {
			it.Element.Opacity = 0
			continue
		}

		world := it.Part.LocalToWorld(it.Anchor)
		ndc := viewProj.TransformPoint(world)
		if ndc.Z > 1 || ndc.Z < -1 {
			it.Element.Opacity = 0
			continue
		}

		lw, lh := it.Element.Size()
		out = append(out, Projected{
			Item:   it,
			X:      (ndc.X*0.5 + 0.5) * w,
			Y:      (-ndc.Y*0.5 + 0.5) * h,
			Width:  lw,
			Height: lh,
			Dist:   eye.Distance(world),
		})
	}
	return out
}
