package viewer

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/partview/internal/camera"
	"github.com/Faultbox/partview/internal/engine/picking"
	"github.com/Faultbox/partview/internal/labels"
	"github.com/Faultbox/partview/internal/scene"
	"github.com/Faultbox/partview/internal/tween"
	m "github.com/Faultbox/partview/pkg/math"
)

// HighlightColor is the emissive glow of a part whose label was clicked.
const HighlightColor = 0xff5500

// wheelScale is the dolly factor per wheel notch.
const wheelScale = 0.95

// PickingEnabled reports whether clicks on the scene select parts: a model
// must be set up, fully exploded and not in focus mode.
func (s *Session) PickingEnabled() bool {
	return s.picking && s.model != nil && s.anim.IsExploded() && !s.focus.InFocus()
}

// Click picks the part under pixel (x, y) and focuses it under its label
// text. It reports whether a part was focused.
func (s *Session) Click(x, y float32) bool {
	if !s.PickingEnabled() {
		return false
	}
	ray := picking.ScreenToRay(x, y, float32(s.width), float32(s.height), s.camera.ViewProjection().Inverse())
	hit, ok := picking.Nearest(ray, s.model.Parts())
	if !ok {
		return false
	}
	it := s.labelFor(hit.Part)
	if it == nil {
		s.log.Debug("picked part without label")
		return false
	}
	s.focus.FocusOn(it.Part, it.Element.Text)
	return true
}

// labelFor finds the label of p, or of the nearest ancestor group that
// contains a labelled part.
func (s *Session) labelFor(p *scene.Part) *labels.Item {
	if it := labels.Find(s.items, p); it != nil {
		return it
	}
	for g := p.Parent(); g != nil; g = g.Parent() {
		for _, c := range scene.PartsUnder(g) {
			if it := labels.Find(s.items, c); it != nil {
				return it
			}
		}
	}
	return nil
}

// ClickLabel handles a click on the label with the given part ID: the part
// glows briefly and is focused. Hidden labels ignore clicks.
func (s *Session) ClickLabel(id string) bool {
	var it *labels.Item
	for _, c := range s.items {
		if c.ID() == id {
			it = c
			break
		}
	}
	if it == nil || !it.Element.Display || s.focus.InFocus() {
		return false
	}
	s.highlight(it)
	s.focus.FocusOn(it.Part, it.Element.Text)
	return true
}

func (s *Session) highlight(it *labels.Item) {
	part := it.Part
	if h, ok := s.highlights[part]; ok {
		s.loop.Cancel(h)
	}
	base := it.BaseMaterial
	if base == nil {
		base = part.Material
	}
	glow := base.Clone()
	glow.Emissive = scene.HexColor(HighlightColor)
	glow.EmissiveIntensity = 1
	part.Material = glow

	s.highlights[part] = s.loop.After(s.cfg.Viewer.Highlight, func() {
		part.Material = base
		delete(s.highlights, part)
	})
}

// Highlighted reports whether p is glowing from a label click.
func (s *Session) Highlighted(p *scene.Part) bool {
	_, ok := s.highlights[p]
	return ok
}

// SetLabelSize records a label's measured size in pixels.
func (s *Session) SetLabelSize(id string, width, height float32) {
	for _, it := range s.items {
		if it.ID() == id {
			it.Element.Width, it.Element.Height = width, height
			return
		}
	}
}

// Zoom moves the camera one step towards (sign > 0) or away from the
// target. It reports false when the camera is already at a limit.
func (s *Session) Zoom(sign int) bool {
	if sign == 0 {
		return false
	}
	next, ok := camera.ZoomTarget(s.camera.Position, s.controls.Target, sign > 0, s.cfg.Viewer.Zoom)
	if !ok {
		return false
	}

	s.cancelZoom()
	tw := tween.NewVec3(s.camera.Position, next, s.cfg.Viewer.ZoomSeconds, func(v m.Vec3) {
		s.camera.Position = v
	})
	s.zoomTween = s.loop.Add("zoom", tw.Step)
	return true
}

func (s *Session) cancelZoom() {
	if s.zoomTween != 0 {
		s.loop.Cancel(s.zoomTween)
		s.zoomTween = 0
	}
}

// Orbit rotates the camera by a pointer drag of (dx, dy) pixels. A drag
// across the full viewport height turns a full circle.
func (s *Session) Orbit(dx, dy float32) {
	h := float32(s.height)
	if h <= 0 {
		h = 1
	}
	s.controls.Rotate(-2*math32.Pi*dx/h, -2*math32.Pi*dy/h)
}

// Wheel dollies the camera: positive deltas move away, negative closer.
func (s *Session) Wheel(delta float32) {
	switch {
	case delta > 0:
		s.controls.Dolly(1 / wheelScale)
	case delta < 0:
		s.controls.Dolly(wheelScale)
	}
}
