// Package labels places part labels on screen: it projects each label's
// anchor through the camera and hides labels that would overlap a nearer one.
package labels

import (
	"github.com/Faultbox/partview/internal/scene"
	m "github.com/Faultbox/partview/pkg/math"
)

// Defaults used when a host has not measured a label or configured padding.
const (
	DefaultWidth   = 80
	DefaultHeight  = 24
	DefaultPadding = 4
	// MinPartSize skips labels for parts smaller than this in world units.
	MinPartSize = 0.10
)

// Element is the on-screen state of one label. Hosts render it and may
// report its measured size back through Width and Height.
type Element struct {
	Text    string  `json:"text"`
	Left    float32 `json:"x"`
	Top     float32 `json:"y"`
	Opacity float32 `json:"opacity"`
	Display bool    `json:"display"`

	Width  float32 `json:"-"`
	Height float32 `json:"-"`
}

// Size returns the measured size, or the default size when unmeasured.
func (e *Element) Size() (w, h float32) {
	w, h = e.Width, e.Height
	if w == 0 {
		w = DefaultWidth
	}
	if h == 0 {
		h = DefaultHeight
	}
	return w, h
}

// Item links a part to its label.
type Item struct {
	Part    *scene.Part
	Element *Element

	// Anchor is the label point in the part's own frame.
	Anchor m.Vec3
	// BaseMaterial is the part's material when the label was created.
	BaseMaterial *scene.Material
}

// ID returns the labelled part's identifier.
func (it *Item) ID() string {
	return it.Part.ID
}

// Build creates a hidden label for every part at least minSize across, anchored
// at the part's bounding-box center. Parts for which name returns "" get no
// label.
func Build(md *scene.Model, name func(*scene.Part) string, minSize float32) []*Item {
	if md == nil {
		return nil
	}
	var items []*Item
	for _, p := range md.Parts() {
		box := p.WorldBounds()
		if box.MaxDim() < minSize {
			continue
		}
		text := name(p)
		if text == "" {
			continue
		}
		items = append(items, &Item{
			Part:         p,
			Element:      &Element{Text: text, Display: true},
			Anchor:       p.WorldToLocal(box.Center()),
			BaseMaterial: p.Material,
		})
	}
	return items
}

// Find returns the item for part, or nil.
func Find(items []*Item, part *scene.Part) *Item {
	for _, it := range items {
		if it.Part == part {
			return it
		}
	}
	return nil
}

// SetDisplay shows or hides every label regardless of layout.
func SetDisplay(items []*Item, display bool) {
	for _, it := range items {
		it.Element.Display = display
	}
}
