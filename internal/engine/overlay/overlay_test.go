package overlay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/partview/internal/assets"
	"github.com/Faultbox/partview/internal/catalog"
	"github.com/Faultbox/partview/internal/config"
	"github.com/Faultbox/partview/internal/scene"
	"github.com/Faultbox/partview/internal/viewer"
	m "github.com/Faultbox/partview/pkg/math"
)

func TestAtlasLayout(t *testing.T) {
	a := NewAtlas()
	gw, gh := a.GlyphSize()
	require.Equal(t, 7, gw)
	require.Equal(t, 13, gh)

	b := a.Image.Bounds()
	assert.Equal(t, atlasCols*gw, b.Dx())
	assert.Equal(t, 6*gh, b.Dy())

	u0, v0, _, _ := a.GlyphUV(' ')
	assert.Zero(t, u0)
	assert.Zero(t, v0)

	// runes outside the sheet reuse '?'
	q0, q1, q2, q3 := a.GlyphUV('?')
	e0, e1, e2, e3 := a.GlyphUV('é')
	assert.Equal(t, []float32{q0, q1, q2, q3}, []float32{e0, e1, e2, e3})
}

func TestAtlasHasInk(t *testing.T) {
	a := NewAtlas()
	col, row := a.cell('A')
	gw, gh := a.GlyphSize()
	ink := 0
	for y := row * gh; y < (row+1)*gh; y++ {
		for x := col * gw; x < (col+1)*gw; x++ {
			if a.Image.AlphaAt(x, y).A > 0 {
				ink++
			}
		}
	}
	assert.Positive(t, ink)
}

func TestMeasure(t *testing.T) {
	a := NewAtlas()

	w, h := a.Measure("abc", 1)
	assert.Equal(t, float32(21), w)
	assert.Equal(t, float32(13), h)

	w, h = a.Measure("ab\ncde", 2)
	assert.Equal(t, float32(42), w)
	assert.Equal(t, float32(52), h)

	w, h = a.Measure("", 1)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestWrap(t *testing.T) {
	a := NewAtlas()

	assert.Equal(t, []string{"Crankcase", "Housing"}, a.Wrap("Crankcase Housing", 72, 1))
	assert.Equal(t, []string{"Oil Filter"}, a.Wrap("Oil Filter", 72, 1))
	assert.Equal(t, []string{"Turbocharger", "unit"}, a.Wrap("Turbocharger unit", 72, 1))
	assert.Equal(t, []string{"a", "b"}, a.Wrap("a\nb", 72, 1))
}

func TestPointerClick(t *testing.T) {
	var p Pointer
	p.Press(100, 100)
	dx, dy := p.Move(101, 101)
	assert.Zero(t, dx)
	assert.Zero(t, dy)
	assert.True(t, p.Release(101, 101))
}

func TestPointerDrag(t *testing.T) {
	var p Pointer
	p.Press(100, 100)
	dx, dy := p.Move(110, 100)
	assert.Equal(t, float32(10), dx)
	assert.Zero(t, dy)
	assert.True(t, p.Dragging())

	dx, dy = p.Move(110, 95)
	assert.Zero(t, dx)
	assert.Equal(t, float32(-5), dy)
	assert.False(t, p.Release(110, 95))

	// moving with the button up does nothing
	dx, _ = p.Move(200, 200)
	assert.Zero(t, dx)
}

func testModel() *scene.Model {
	root := scene.NewGroup("root")
	unit := m.BoxFromPoints(m.V3(-0.5, -0.5, -0.5), m.V3(0.5, 0.5, 0.5))
	for i, id := range []string{"Object_2", "Object_3", "Object_4"} {
		p := scene.NewPart(id, id, unit, nil)
		p.SetPosition(m.V3(float32(i-1)*3, 0.5, 0))
		root.Add(p)
	}
	return scene.NewModel("raw", root)
}

func loadedSession(t *testing.T) *viewer.Session {
	t.Helper()
	cfg := config.Default()
	cfg.Window.Width, cfg.Window.Height = 800, 600
	s := viewer.New(cfg, catalog.Engine())
	require.NoError(t, s.LoadModel(context.Background(), assets.Resolved(testModel())))
	return s
}

// run steps s in 16ms frames from now for d and returns the new time.
func run(s *viewer.Session, now, d time.Duration) time.Duration {
	for end := now + d; now < end; {
		now += 16 * time.Millisecond
		s.Frame(now)
	}
	return now
}

func find(o *Overlay, action Action) *Widget {
	for i := range o.widgets {
		if o.widgets[i].Action == action {
			return &o.widgets[i]
		}
	}
	return nil
}

func center(w *Widget) (float32, float32) {
	return w.Rect.X + w.Rect.W/2, w.Rect.Y + w.Rect.H/2
}

func TestUpdateWithoutModel(t *testing.T) {
	s := viewer.New(config.Default(), catalog.Engine())
	o := New(NewAtlas())
	o.Update(s)

	require.Len(t, o.Widgets(), 1)
	assert.Nil(t, o.Hit(20, 20))
	assert.False(t, o.Click(s, 20, 20))
}

func TestUpdateAssembled(t *testing.T) {
	s := loadedSession(t)
	o := New(NewAtlas())
	run(s, 0, 100*time.Millisecond)
	o.Update(s)

	btn := find(o, ActionToggle)
	require.NotNil(t, btn)
	assert.Equal(t, []string{"Explode Engine"}, btn.Lines)
	assert.NotNil(t, find(o, ActionZoomIn))
	assert.NotNil(t, find(o, ActionZoomOut))
	assert.Nil(t, find(o, ActionLabel), "labels stay hidden while assembled")

	for _, it := range s.Labels() {
		assert.Equal(t, float32(80), it.Element.Width, it.ID())
		assert.GreaterOrEqual(t, it.Element.Height, float32(24), it.ID())
	}
}

func TestToggleButton(t *testing.T) {
	s := loadedSession(t)
	o := New(NewAtlas())
	o.Update(s)

	x, y := center(find(o, ActionToggle))
	require.True(t, o.Click(s, x, y))
	assert.True(t, s.Animator().Playing())

	run(s, 0, 3*time.Second)
	o.Update(s)
	assert.Equal(t, []string{"Assemble Engine"}, find(o, ActionToggle).Lines)
	assert.NotNil(t, find(o, ActionLabel), "labels show once exploded")
}

func TestLabelClickFocusesAndBackExits(t *testing.T) {
	s := loadedSession(t)
	o := New(NewAtlas())
	s.Explode()
	now := run(s, 0, 3*time.Second)
	o.Update(s)

	label := find(o, ActionLabel)
	require.NotNil(t, label)
	x, y := center(label)
	require.True(t, o.Click(s, x, y))
	require.True(t, s.Focus().InFocus())
	assert.Equal(t, label.ID, s.Focus().Focused().ID)

	run(s, now, time.Second)
	o.Update(s)
	assert.Nil(t, find(o, ActionLabel), "labels hide in focus")
	back := find(o, ActionBack)
	require.NotNil(t, back)

	x, y = center(back)
	require.True(t, o.Click(s, x, y))
	assert.False(t, s.Focus().InFocus())
}

func TestClickOutsideWidgets(t *testing.T) {
	s := loadedSession(t)
	o := New(NewAtlas())
	o.Update(s)
	assert.False(t, o.Click(s, 700, 500))
}

type recorder struct {
	rects, outlines int
	texts           []string
}

func (r *recorder) DrawRect(_, _, _, _ float32, _ Color) {
	r.rects++
}

func (r *recorder) DrawRectOutline(_, _, _, _, _ float32, _ Color) {
	r.outlines++
}

func (r *recorder) DrawText(_, _ float32, text string, _ float32, _ Color) {
	r.texts = append(r.texts, text)
}

func TestDraw(t *testing.T) {
	s := loadedSession(t)
	o := New(NewAtlas())
	o.Update(s)

	var r recorder
	o.Draw(&r)
	assert.Equal(t, 3, r.rects)
	assert.Equal(t, 3, r.outlines)
	assert.Equal(t, []string{"Explode Engine", "+", "-"}, r.texts)
}

func TestHoverLightensButton(t *testing.T) {
	s := loadedSession(t)
	o := New(NewAtlas())
	o.Update(s)
	normal := find(o, ActionToggle).Background

	x, y := center(find(o, ActionToggle))
	o.Hover(x, y)
	o.Update(s)
	assert.Greater(t, find(o, ActionToggle).Background.R, normal.R)
}
