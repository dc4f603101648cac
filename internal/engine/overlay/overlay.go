// Package overlay builds the 2D layer drawn over the 3D view of a viewer
// session: part labels, the explode and zoom buttons, and the focus info
// panel. It is renderer agnostic; a Drawer does the actual drawing.
package overlay

import (
	"github.com/Faultbox/partview/internal/labels"
	"github.com/Faultbox/partview/internal/viewer"
)

// Layout constants in pixels.
const (
	Margin        = 12
	ButtonHeight  = 30
	ZoomButton    = 30
	PanelWidth    = 280
	LabelPadding  = 4
	TextScale     = 1
	TitleScale    = 2
	lineSpacing   = 2
	buttonPadding = 10
)

// Action is what activating a widget does.
type Action int

const (
	ActionNone Action = iota
	ActionToggle
	ActionZoomIn
	ActionZoomOut
	ActionBack
	ActionLabel
)

// Rect is a screen rectangle.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether the point is inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Widget is one drawable, possibly clickable, element.
type Widget struct {
	Rect   Rect
	Lines  []string
	Scale  float32
	Action Action
	// ID is the part ID for ActionLabel.
	ID string

	Background Color
	Border     Color
	Text       Color
}

// Drawer draws primitives in screen pixels with the origin at the top left.
type Drawer interface {
	DrawRect(x, y, w, h float32, c Color)
	DrawRectOutline(x, y, w, h, thickness float32, c Color)
	DrawText(x, y float32, text string, scale float32, c Color)
}

// Overlay holds the widgets of the current frame.
type Overlay struct {
	atlas   *Atlas
	widgets []Widget
	mouseX  float32
	mouseY  float32
}

// New creates an overlay that lays text out with atlas.
func New(atlas *Atlas) *Overlay {
	return &Overlay{atlas: atlas}
}

// Atlas returns the glyph atlas.
func (o *Overlay) Atlas() *Atlas { return o.atlas }

// Widgets returns the widgets built by the last Update, in draw order.
func (o *Overlay) Widgets() []Widget { return o.widgets }

// Hover records the pointer position for hover highlighting.
func (o *Overlay) Hover(x, y float32) {
	o.mouseX, o.mouseY = x, y
}

// Update measures new labels and rebuilds the widget list for s.
func (o *Overlay) Update(s *viewer.Session) {
	o.measureLabels(s)

	width, _ := s.Size()
	o.widgets = o.widgets[:0]

	if !s.Ready() {
		o.add(Widget{
			Rect:  Rect{Margin, Margin, 320, ButtonHeight},
			Lines: []string{"No model loaded. Press O to open one."},
			Scale: TextScale,
			Text:  ColorTextDim,
		})
		return
	}

	for _, it := range s.Labels() {
		el := it.Element
		if !el.Display || el.Opacity <= 0 {
			continue
		}
		w, h := el.Size()
		alpha := el.Opacity
		o.add(Widget{
			Rect:       Rect{el.Left - w/2, el.Top - h/2, w, h},
			Lines:      o.atlas.Wrap(el.Text, w-2*LabelPadding, TextScale),
			Scale:      TextScale,
			Action:     ActionLabel,
			ID:         it.ID(),
			Background: ColorPanelBg.Fade(alpha),
			Border:     ColorAccent.Fade(alpha),
			Text:       ColorText.Fade(alpha),
		})
	}

	o.addButton(Margin, Margin, s.ExplodeLabel(), ActionToggle)
	o.addButton(Margin, Margin+ButtonHeight+6, "+", ActionZoomIn)
	o.addButton(Margin+ZoomButton+6, Margin+ButtonHeight+6, "-", ActionZoomOut)

	if panel := s.Focus().Panel(); panel.Visible {
		o.addPanel(float32(width)-PanelWidth-Margin, Margin, panel.Title, panel.Text)
	}
}

func (o *Overlay) add(w Widget) {
	if w.Action != ActionNone && w.Rect.Contains(o.mouseX, o.mouseY) {
		w.Background = w.Background.Lighten(0.15)
	}
	o.widgets = append(o.widgets, w)
}

func (o *Overlay) addButton(x, y float32, text string, action Action) {
	tw, _ := o.atlas.Measure(text, TextScale)
	w := tw + 2*buttonPadding
	if w < ZoomButton {
		w = ZoomButton
	}
	o.add(Widget{
		Rect:       Rect{x, y, w, ButtonHeight},
		Lines:      []string{text},
		Scale:      TextScale,
		Action:     action,
		Background: ColorButtonNormal,
		Border:     ColorPanelBorder,
		Text:       ColorText,
	})
}

func (o *Overlay) addPanel(x, y float32, title, text string) {
	_, gh := o.atlas.GlyphSize()
	inner := float32(PanelWidth - 2*buttonPadding)
	body := o.atlas.Wrap(text, inner, TextScale)

	titleH := float32(gh)*TitleScale + lineSpacing
	bodyH := float32(len(body)) * (float32(gh)*TextScale + lineSpacing)
	h := 3*buttonPadding + titleH + bodyH + ButtonHeight

	o.add(Widget{
		Rect:       Rect{x, y, PanelWidth, h},
		Background: ColorPanelBg,
		Border:     ColorPanelBorder,
	})
	o.add(Widget{
		Rect:  Rect{x + buttonPadding, y + buttonPadding, inner, titleH},
		Lines: []string{title},
		Scale: TitleScale,
		Text:  ColorText,
	})
	o.add(Widget{
		Rect:  Rect{x + buttonPadding, y + buttonPadding + titleH, inner, bodyH},
		Lines: body,
		Scale: TextScale,
		Text:  ColorTextDim,
	})
	o.addButton(x+buttonPadding, y+h-buttonPadding-ButtonHeight, "Back", ActionBack)
}

// measureLabels sizes every unmeasured label from its wrapped text.
func (o *Overlay) measureLabels(s *viewer.Session) {
	_, gh := o.atlas.GlyphSize()
	for _, it := range s.Labels() {
		if it.Element.Width != 0 {
			continue
		}
		lines := o.atlas.Wrap(it.Element.Text, labels.DefaultWidth-2*LabelPadding, TextScale)
		h := float32(len(lines))*(float32(gh)*TextScale+lineSpacing) + 2*LabelPadding
		if h < labels.DefaultHeight {
			h = labels.DefaultHeight
		}
		s.SetLabelSize(it.ID(), labels.DefaultWidth, h)
	}
}

// Hit returns the topmost clickable widget under the point, or nil.
func (o *Overlay) Hit(x, y float32) *Widget {
	for i := len(o.widgets) - 1; i >= 0; i-- {
		w := &o.widgets[i]
		if w.Action != ActionNone && w.Rect.Contains(x, y) {
			return w
		}
	}
	return nil
}

// Blocks reports whether the point is over any overlay element, clickable or
// not, so the click should not reach the 3D view.
func (o *Overlay) Blocks(x, y float32) bool {
	for _, w := range o.widgets {
		if w.Background.A > 0 && w.Rect.Contains(x, y) {
			return true
		}
	}
	return false
}

// Click activates the widget under the point. It reports whether the overlay
// consumed the click.
func (o *Overlay) Click(s *viewer.Session, x, y float32) bool {
	w := o.Hit(x, y)
	if w == nil {
		return o.Blocks(x, y)
	}
	switch w.Action {
	case ActionToggle:
		s.Toggle()
	case ActionZoomIn:
		s.Zoom(1)
	case ActionZoomOut:
		s.Zoom(-1)
	case ActionBack:
		s.ExitFocus()
	case ActionLabel:
		s.ClickLabel(w.ID)
	}
	return true
}

// Draw renders the widgets through d.
func (o *Overlay) Draw(d Drawer) {
	_, gh := o.atlas.GlyphSize()
	for _, w := range o.widgets {
		if w.Background.A > 0 {
			d.DrawRect(w.Rect.X, w.Rect.Y, w.Rect.W, w.Rect.H, w.Background)
		}
		if w.Border.A > 0 {
			d.DrawRectOutline(w.Rect.X, w.Rect.Y, w.Rect.W, w.Rect.H, 1, w.Border)
		}
		if len(w.Lines) == 0 {
			continue
		}
		lineH := float32(gh)*w.Scale + lineSpacing
		y := w.Rect.Y + (w.Rect.H-lineH*float32(len(w.Lines)))/2
		if w.Action == ActionNone {
			y = w.Rect.Y
		}
		for _, line := range w.Lines {
			tw, _ := o.atlas.Measure(line, w.Scale)
			x := w.Rect.X + (w.Rect.W-tw)/2
			if w.Action == ActionNone {
				x = w.Rect.X
			}
			d.DrawText(x, y, line, w.Scale, w.Text)
			y += lineH
		}
	}
}
