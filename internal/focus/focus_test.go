package focus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/partview/internal/camera"
	"github.com/Faultbox/partview/internal/frame"
	"github.com/Faultbox/partview/internal/labels"
	"github.com/Faultbox/partview/internal/scene"
	m "github.com/Faultbox/partview/pkg/math"
)

type infoMap map[string]string

func (i infoMap) Description(name string) string {
	if d, ok := i[name]; ok {
		return d
	}
	return i["default"]
}

type fixture struct {
	model    *scene.Model
	parts    []*scene.Part
	cam      *camera.Perspective
	controls *camera.Orbit
	items    []*labels.Item
}

func newFixture() *fixture {
	root := scene.NewGroup("root")
	var parts []*scene.Part
	for i, x := range []float32{-2, 0, 2} {
		p := scene.NewPart(string(rune('a'+i)), "Object", m.BoxFromPoints(m.V3(0, 0, 0), m.V3(1, 1, 1)), nil)
		p.SetPosition(m.V3(x, 0, 0))
		parts = append(parts, p)
		root.Add(p)
	}
	// hidden before focus; must stay hidden after exit
	parts[2].Visible = false

	md := scene.NewModel("test", root)
	cam := camera.NewPerspective(55, 0.01, 1000, m.V3(2.8, 2.2, 3.8))
	controls := camera.NewOrbit(cam, m.V3(0, 1, 0))
	items := labels.Build(md, func(p *scene.Part) string { return "Label " + p.ID }, labels.MinPartSize)
	return &fixture{model: md, parts: parts, cam: cam, controls: controls, items: items}
}

func (f *fixture) controller(loop *frame.Loop) *Controller {
	c := NewController(infoMap{"Label a": "first part", "default": "generic"}, loop)
	c.Attach(f.model, f.cam, f.controls, f.items)
	return c
}

func TestFocusIsolatesPart(t *testing.T) {
	f := newFixture()
	c := f.controller(nil)

	c.FocusOn(f.parts[0], "Label a")

	require.True(t, c.InFocus())
	assert.Same(t, f.parts[0], c.Focused())
	assert.True(t, f.parts[0].Visible)
	assert.False(t, f.parts[1].Visible)
	assert.False(t, f.parts[2].Visible)
	for _, it := range f.items {
		assert.False(t, it.Element.Display, it.ID())
	}
	assert.Equal(t, Panel{Visible: true, Title: "Label a", Text: "first part"}, c.Panel())

	pose := camera.FocusPose(f.parts[0].WorldBounds(), f.cam.FOV, camera.FocusMargin)
	assert.True(t, f.cam.Position.ApproxEqual(pose.Position, 1e-3), "camera %v want %v", f.cam.Position, pose.Position)
	assert.True(t, f.controls.Target.ApproxEqual(pose.Target, 1e-5))
	assert.Equal(t, pose.Target, f.cam.Target())
}

func TestFocusDescriptionFallback(t *testing.T) {
	f := newFixture()
	c := f.controller(nil)

	c.FocusOn(f.parts[1], "Label b")
	assert.Equal(t, "generic", c.Panel().Text)
}

func TestExitRestoresScene(t *testing.T) {
	f := newFixture()
	c := f.controller(nil)
	startPos, startTarget := f.cam.Position, f.controls.Target

	c.FocusOn(f.parts[0], "Label a")
	c.Exit()

	assert.False(t, c.InFocus())
	assert.Nil(t, c.Focused())
	assert.False(t, c.Panel().Visible)
	assert.True(t, f.parts[0].Visible)
	assert.True(t, f.parts[1].Visible)
	assert.False(t, f.parts[2].Visible)
	for _, it := range f.items {
		assert.True(t, it.Element.Display, it.ID())
	}
	assert.True(t, f.cam.Position.ApproxEqual(startPos, 1e-3), "camera %v want %v", f.cam.Position, startPos)
	assert.True(t, f.controls.Target.ApproxEqual(startTarget, 1e-5))
}

func TestRefocusKeepsFirstSnapshot(t *testing.T) {
	f := newFixture()
	c := f.controller(nil)
	startPos := f.cam.Position

	c.FocusOn(f.parts[0], "Label a")
	c.FocusOn(f.parts[1], "Label b")

	assert.False(t, f.parts[0].Visible)
	assert.True(t, f.parts[1].Visible)
	assert.Equal(t, "Label b", c.Panel().Title)

	c.Exit()
	assert.True(t, f.parts[0].Visible)
	assert.True(t, f.parts[1].Visible)
	assert.False(t, f.parts[2].Visible)
	assert.True(t, f.cam.Position.ApproxEqual(startPos, 1e-3))
}

func TestFocusSamePartIsNoop(t *testing.T) {
	f := newFixture()
	loop := frame.NewLoop()
	c := f.controller(loop)

	c.FocusOn(f.parts[0], "Label a")
	h := c.tweenHandle
	c.FocusOn(f.parts[0], "other")

	assert.Equal(t, h, c.tweenHandle)
	assert.Equal(t, "Label a", c.Panel().Title)
}

func TestDetachedController(t *testing.T) {
	f := newFixture()
	c := NewController(infoMap{}, nil)
	c.panel.Visible = true

	c.FocusOn(f.parts[0], "Label a")
	assert.False(t, c.InFocus())
	assert.True(t, f.parts[1].Visible)

	c.Exit()
	assert.False(t, c.Panel().Visible)
}

func TestExitWithoutFocusOnlyHidesPanel(t *testing.T) {
	f := newFixture()
	c := f.controller(nil)
	c.panel = Panel{Visible: true, Title: "x"}
	startPos := f.cam.Position

	c.Exit()

	assert.False(t, c.Panel().Visible)
	assert.Equal(t, startPos, f.cam.Position)
}

func TestFocusTweensOnLoop(t *testing.T) {
	f := newFixture()
	loop := frame.NewLoop()
	c := f.controller(loop)
	startPos := f.cam.Position
	pose := camera.FocusPose(f.parts[0].WorldBounds(), f.cam.FOV, camera.FocusMargin)

	c.FocusOn(f.parts[0], "Label a")
	assert.Equal(t, startPos, f.cam.Position, "flight starts on the next frame")
	assert.True(t, c.Tweening())

	frameDur := 16 * time.Millisecond
	now := time.Duration(0)
	loop.Advance(now)
	for i := 0; i < 25; i++ {
		now += frameDur
		loop.Advance(now)
	}
	mid := f.cam.Position
	assert.False(t, mid.ApproxEqual(startPos, 1e-3))
	assert.False(t, mid.ApproxEqual(pose.Position, 1e-3))

	for i := 0; i < 60; i++ {
		now += frameDur
		loop.Advance(now)
	}
	assert.False(t, c.Tweening())
	assert.True(t, f.cam.Position.ApproxEqual(pose.Position, 1e-4))
	assert.True(t, f.controls.Target.ApproxEqual(pose.Target, 1e-4))
}

func TestExitReplacesRunningFlight(t *testing.T) {
	f := newFixture()
	loop := frame.NewLoop()
	c := f.controller(loop)
	startPos := f.cam.Position

	c.FocusOn(f.parts[0], "Label a")
	loop.Advance(0)
	loop.Advance(200 * time.Millisecond)
	c.Exit()
	assert.Equal(t, 1, loop.Len())

	loop.Advance(time.Second)
	loop.Advance(2 * time.Second)
	assert.False(t, c.Tweening())
	assert.True(t, f.cam.Position.ApproxEqual(startPos, 1e-4))
}

func TestResetDropsState(t *testing.T) {
	f := newFixture()
	loop := frame.NewLoop()
	c := f.controller(loop)

	c.FocusOn(f.parts[0], "Label a")
	c.Reset()

	assert.False(t, c.InFocus())
	assert.Equal(t, Panel{}, c.Panel())
	assert.Equal(t, 0, loop.Len())
}
