// Package focus isolates a single part: it hides every other part and its
// label, flies the camera to the part and shows an info panel. Exit restores
// the scene exactly as it was before the first FocusOn.
package focus

import (
	"github.com/Faultbox/partview/internal/camera"
	"github.com/Faultbox/partview/internal/frame"
	"github.com/Faultbox/partview/internal/labels"
	"github.com/Faultbox/partview/internal/scene"
	"github.com/Faultbox/partview/internal/tween"
	m "github.com/Faultbox/partview/pkg/math"
)

// DefaultTweenSeconds is how long the camera takes to fly in or out.
const DefaultTweenSeconds = 0.8

// Describer returns the info text for a part name.
type Describer interface {
	Description(name string) string
}

// Panel is the info panel shown while a part is focused.
type Panel struct {
	Visible bool   `json:"visible"`
	Title   string `json:"title"`
	Text    string `json:"text"`
}

// Snapshot is the state captured on entering focus.
type Snapshot struct {
	Visibility map[*scene.Part]bool
	CameraPos  m.Vec3
	Target     m.Vec3
}

// Controller runs focus mode for one viewer.
type Controller struct {
	// TweenSeconds is the camera flight duration.
	TweenSeconds float64
	// Margin pads the fitted distance around the focused part.
	Margin float32

	model    *scene.Model
	cam      *camera.Perspective
	controls *camera.Orbit
	items    []*labels.Item
	info     Describer
	loop     *frame.Loop

	focused *scene.Part
	snap    *Snapshot
	panel   Panel

	tweenHandle frame.Handle
}

// NewController creates a detached controller. Camera moves are tweened on
// loop when it is non-nil and applied immediately otherwise.
func NewController(info Describer, loop *frame.Loop) *Controller {
	return &Controller{
		TweenSeconds: DefaultTweenSeconds,
		Margin:       camera.FocusMargin,
		info:         info,
		loop:         loop,
	}
}

// Attach binds the controller to a scene. Passing a nil model detaches it.
func (c *Controller) Attach(md *scene.Model, cam *camera.Perspective, controls *camera.Orbit, items []*labels.Item) {
	c.model = md
	c.cam = cam
	c.controls = controls
	c.items = items
}

// SetLabels replaces the label items hidden and shown by focus mode.
func (c *Controller) SetLabels(items []*labels.Item) {
	c.items = items
}

func (c *Controller) attached() bool {
	return c.model != nil && c.cam != nil && c.controls != nil
}

// InFocus reports whether a part is focused.
func (c *Controller) InFocus() bool { return c.focused != nil }

// Focused returns the focused part, or nil.
func (c *Controller) Focused() *scene.Part { return c.focused }

// Panel returns the info panel state.
func (c *Controller) Panel() Panel { return c.panel }

// FocusOn isolates part and shows label in the info panel. Switching from
// one focused part to another keeps the original snapshot.
func (c *Controller) FocusOn(part *scene.Part, label string) {
	if !c.attached() || part == nil || part == c.focused {
		return
	}

	if c.snap == nil {
		c.snap = &Snapshot{
			Visibility: c.model.Visibility(),
			CameraPos:  c.cam.Position,
			Target:     c.controls.Target,
		}
	}

	labels.SetDisplay(c.items, false)
	for _, p := range c.model.Parts() {
		p.Visible = p == part
	}
	c.focused = part

	pose := camera.FocusPose(part.WorldBounds(), c.cam.FOV, c.Margin)
	c.moveCamera(pose)

	text := ""
	if c.info != nil {
		text = c.info.Description(label)
	}
	c.panel = Panel{Visible: true, Title: label, Text: text}
}

// Exit leaves focus mode. Without a focused part it only hides the panel.
func (c *Controller) Exit() {
	if !c.attached() || c.focused == nil {
		c.panel.Visible = false
		return
	}

	if c.snap != nil {
		for p, vis := range c.snap.Visibility {
			p.Visible = vis
		}
	}
	c.focused = nil
	c.panel.Visible = false
	labels.SetDisplay(c.items, true)

	if c.snap != nil {
		c.moveCamera(camera.Pose{Position: c.snap.CameraPos, Target: c.snap.Target})
	}
	c.snap = nil
}

// Reset drops focus state without touching the scene. Used when the scene
// it refers to is being discarded.
func (c *Controller) Reset() {
	c.stopTween()
	c.focused = nil
	c.snap = nil
	c.panel = Panel{}
}

// Tweening reports whether a camera flight is running.
func (c *Controller) Tweening() bool {
	return c.loop != nil && c.tweenHandle != 0 && c.loop.Has(c.tweenHandle)
}

func (c *Controller) moveCamera(pose camera.Pose) {
	if c.loop == nil {
		c.setCamera(pose.Position, pose.Target)
		c.controls.Update(0)
		return
	}

	// a new flight replaces one in progress, starting from where it got to
	c.stopTween()
	pos := tween.NewVec3(c.cam.Position, pose.Position, c.TweenSeconds, func(v m.Vec3) {
		c.cam.Position = v
	})
	target := tween.NewVec3(c.controls.Target, pose.Target, c.TweenSeconds, func(v m.Vec3) {
		c.controls.Target = v
		c.cam.LookAt(v)
	})
	c.tweenHandle = c.loop.Add("focus-camera", func(dt float64) bool {
		a := pos.Step(dt)
		b := target.Step(dt)
		return a || b
	})
}

func (c *Controller) setCamera(pos, target m.Vec3) {
	c.cam.Position = pos
	c.controls.Target = target
	c.cam.LookAt(target)
}

func (c *Controller) stopTween() {
	if c.loop != nil && c.tweenHandle != 0 {
		c.loop.Cancel(c.tweenHandle)
	}
	c.tweenHandle = 0
}
