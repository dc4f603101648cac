package overlay

import (
	m "github.com/Faultbox/partview/pkg/math"
)

// DragThreshold is how far, in pixels, the pointer may travel between press
// and release and still count as a click.
const DragThreshold = 3

// Pointer tells clicks from drags for the primary mouse button.
type Pointer struct {
	down     bool
	dragging bool
	start    m.Vec2
	// Pos is the last known pointer position.
	Pos m.Vec2
}

// Press records the button going down.
func (p *Pointer) Press(x, y float32) {
	p.down = true
	p.dragging = false
	p.start = m.Vec2{X: x, Y: y}
	p.Pos = p.start
}

// Move records pointer motion. It returns the motion to apply as a drag, or
// zeros while the button is up or the pointer has not left the click zone.
func (p *Pointer) Move(x, y float32) (dx, dy float32) {
	prev := p.Pos
	p.Pos = m.Vec2{X: x, Y: y}
	if !p.down {
		return 0, 0
	}
	if !p.dragging {
		if p.Pos.Sub(p.start).Length() <= DragThreshold {
			return 0, 0
		}
		p.dragging = true
		prev = p.start
	}
	d := p.Pos.Sub(prev)
	return d.X, d.Y
}

// Release records the button going up and reports whether the press was a
// click.
func (p *Pointer) Release(x, y float32) bool {
	p.Pos = m.Vec2{X: x, Y: y}
	click := p.down && !p.dragging
	p.down = false
	p.dragging = false
	return click
}

// Dragging reports whether the current press has become a drag.
func (p *Pointer) Dragging() bool {
	return p.dragging
}
