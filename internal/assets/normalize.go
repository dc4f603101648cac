package assets

import (
	"github.com/Faultbox/partview/internal/scene"
	m "github.com/Faultbox/partview/pkg/math"
)

// Normalize scales the model to a unit largest dimension, centres it on x
// and z and rests it on y = 0. It returns the applied scale. A model with no
// extent is left unchanged and reports scale 1.
func Normalize(md *scene.Model) float32 {
	if md == nil {
		return 1
	}
	box := md.Bounds()
	maxDim := box.MaxDim()
	if box.IsEmpty() || maxDim == 0 {
		return 1
	}

	s := 1 / maxDim
	c := box.Center()
	offset := m.V3(-c.X*s, -box.Min.Y*s, -c.Z*s)

	// A uniform scale commutes with the root's rotation, so prepending
	// T(offset) * S(s) only rescales the existing translation and scale.
	tr := md.Root.Local()
	tr.Position = offset.Add(tr.Position.Scale(s))
	tr.Scale = tr.Scale.Scale(s)
	return s
}
