// Package explode computes per-part explosion paths and animates parts along
// them.
package explode

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/partview/internal/scene"
	m "github.com/Faultbox/partview/pkg/math"
)

const (
	// LiftFactor scales the model's largest dimension into the vertical rise.
	LiftFactor = 0.15
	// SpreadFactor scales the model's largest dimension into the horizontal push.
	SpreadFactor = 0.35
	// FloorY is the lowest local height a trajectory point may have.
	FloorY = 0.05
)

// Trajectory is the three-point path of one part, in its parent's frame.
type Trajectory struct {
	Start m.Vec3
	Mid   m.Vec3
	Final m.Vec3
}

// At returns the eased position for overall progress p in [0, 1].
func (tr Trajectory) At(p float64) m.Vec3 {
	if p <= 0.5 {
		k := float32(m.Smoothstep(p * 2))
		return tr.Start.Lerp(tr.Mid, k)
	}
	k := float32(m.Smoothstep((p - 0.5) * 2))
	return tr.Mid.Lerp(tr.Final, k)
}

// Track pairs a part with its trajectory.
type Track struct {
	Part *scene.Part
	Trajectory
}

// Prepare computes a trajectory for every part of md from the current pose.
// Each part rises by LiftFactor of the model's largest dimension, then moves
// SpreadFactor of it along whichever horizontal axis points away from the
// model center most strongly.
func Prepare(md *scene.Model) []Track {
	if md == nil {
		return nil
	}
	parts := md.Parts()
	if len(parts) == 0 {
		return nil
	}

	bounds := md.Bounds()
	center := bounds.Center()
	maxDim := bounds.MaxDim()
	lift := LiftFactor * maxDim
	spread := SpreadFactor * maxDim

	tracks := make([]Track, 0, len(parts))
	for _, p := range parts {
		partCenter := p.WorldBounds().Center()
		v := partCenter.Sub(center)

		useZ := math32.Abs(v.Z) > math32.Abs(v.X)
		component := v.X
		if useZ {
			component = v.Z
		}
		sign := m.Sign(component)
		if sign == 0 {
			sign = 1
		}

		midWorld := partCenter.Add(m.V3(0, lift, 0))
		finalWorld := midWorld
		if useZ {
			finalWorld.Z += sign * spread
		} else {
			finalWorld.X += sign * spread
		}

		tracks = append(tracks, Track{
			Part: p,
			Trajectory: Trajectory{
				Start: p.Position(),
				Mid:   floorClamp(p.ParentWorldToLocal(midWorld)),
				Final: floorClamp(p.ParentWorldToLocal(finalWorld)),
			},
		})
	}
	return tracks
}

func floorClamp(v m.Vec3) m.Vec3 {
	if v.Y < FloorY {
		v.Y = FloorY
	}
	return v
}
