package labels

import "sort"

// Rect is a screen-space rectangle in pixels.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// Overlaps reports whether the rectangles intersect. Touching edges do not
// count.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left < o.Right && r.Right > o.Left && r.Top < o.Bottom && r.Bottom > o.Top
}

// Resolve shows the nearest labels first and hides any label whose padded
// rectangle overlaps one already shown. Visible labels get their position
// set and opacity 1. The result depends only on the input, so a static
// scene yields the same visibility every frame; nothing carries over between
// frames. It returns the occupied rectangles in placement order.
func Resolve(labels []Projected, padding float32) []Rect {
	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Dist < labels[j].Dist
	})

	placed := make([]Rect, 0, len(labels))
	for _, l := range labels {
		halfW, halfH := l.Width/2, l.Height/2
		r := Rect{
			Left:   l.X - halfW - padding,
			Right:  l.X + halfW + padding,
			Top:    l.Y - halfH - padding,
			Bottom: l.Y + halfH + padding,
		}

		overlaps := false
		for _, p := range placed {
			if r.Overlaps(p) {
				overlaps = true
				break
			}
		}

		el := l.Item.Element
		if overlaps {
			el.Opacity = 0
			continue
		}
		placed = append(placed, r)
		el.Left = l.X
		el.Top = l.Y
		el.Opacity = 1
	}
	return placed
}
