// Package debug provides debug visualization utilities.
package debug

import (
	m "github.com/Faultbox/partview/pkg/math"
)

// BoxWireframeVertexCount is the number of vertices in a box wireframe
// (12 edges × 2).
const BoxWireframeVertexCount = 24

// DefaultBoxPadding expands selection boxes slightly so the lines do not
// z-fight with the part surface.
const DefaultBoxPadding = 0.01

// BoxWireframe returns line vertices for an axis-aligned box, [x, y, z] per
// vertex, grown by padding on every side. An empty box yields nil.
func BoxWireframe(box m.Box3, padding float32) []float32 {
	if box.IsEmpty() {
		return nil
	}
	lo := box.Min.Sub(m.V3(padding, padding, padding))
	hi := box.Max.Add(m.V3(padding, padding, padding))
	return wireframe(lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
}

// PartWireframe outlines the world-space bounds of every box, concatenated.
func PartWireframe(boxes []m.Box3, padding float32) []float32 {
	var out []float32
	for _, b := range boxes {
		out = append(out, BoxWireframe(b, padding)...)
	}
	return out
}

func wireframe(minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return []float32{
		// bottom
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// top
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// verticals
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}
