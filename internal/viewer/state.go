package viewer

import (
	"github.com/Faultbox/partview/internal/focus"
	"github.com/Faultbox/partview/internal/scene"
	m "github.com/Faultbox/partview/pkg/math"
)

// FrameState is a snapshot of everything a remote renderer needs to draw
// the current frame.
type FrameState struct {
	Session string `json:"session"`
	Ready   bool   `json:"ready"`
	Model   string `json:"model,omitempty"`

	Camera CameraState  `json:"camera"`
	Root   RootState    `json:"root"`
	Parts  []PartState  `json:"parts"`
	Labels []LabelState `json:"labels"`
	Panel  focus.Panel  `json:"panel"`

	Exploded     bool    `json:"exploded"`
	Progress     float64 `json:"progress"`
	Animation    string  `json:"animation"`
	ExplodeLabel string  `json:"explode_label"`
	Focus        string  `json:"focus,omitempty"`
}

// CameraState is the camera pose.
type CameraState struct {
	Position [3]float32 `json:"position"`
	Target   [3]float32 `json:"target"`
	FOV      float32    `json:"fov"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
}

// RootState is the normalisation applied to the model root.
type RootState struct {
	Position [3]float32 `json:"position"`
	Scale    [3]float32 `json:"scale"`
}

// PartState is one part's animated properties. Position is local to the
// part's parent; Offset is the displacement from its assembled position.
type PartState struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Position    [3]float32 `json:"position"`
	Offset      [3]float32 `json:"offset"`
	Visible     bool       `json:"visible"`
	Highlighted bool       `json:"highlighted"`
}

// LabelState is one label element.
type LabelState struct {
	ID      string  `json:"id"`
	Text    string  `json:"text"`
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Opacity float32 `json:"opacity"`
	Display bool    `json:"display"`
}

// State captures the session for serialisation.
func (s *Session) State() FrameState {
	st := FrameState{
		Session: s.ID,
		Ready:   s.ready,
		Camera: CameraState{
			Position: s.camera.Position.Array(),
			Target:   s.controls.Target.Array(),
			FOV:      s.camera.FOV,
			Width:    s.width,
			Height:   s.height,
		},
		Panel:        s.focus.Panel(),
		Exploded:     s.anim.IsExploded(),
		Progress:     s.anim.Progress(),
		Animation:    s.anim.State().String(),
		ExplodeLabel: s.ExplodeLabel(),
	}
	if f := s.focus.Focused(); f != nil {
		st.Focus = f.ID
	}
	if s.model == nil {
		return st
	}

	st.Model = s.model.Name
	root := s.model.Root.Local()
	st.Root = RootState{Position: root.Position.Array(), Scale: root.Scale.Array()}

	rest := make(map[*scene.Part]m.Vec3)
	for _, tr := range s.anim.Tracks() {
		rest[tr.Part] = tr.Start
	}
	for _, p := range s.model.Parts() {
		offset := m.Vec3{}
		if start, ok := rest[p]; ok {
			offset = p.Position().Sub(start)
		}
		st.Parts = append(st.Parts, PartState{
			ID:          p.ID,
			Name:        p.Name(),
			Position:    p.Position().Array(),
			Offset:      offset.Array(),
			Visible:     p.Visible,
			Highlighted: s.Highlighted(p),
		})
	}
	for _, it := range s.items {
		el := it.Element
		st.Labels = append(st.Labels, LabelState{
			ID:      it.ID(),
			Text:    el.Text,
			X:       el.Left,
			Y:       el.Top,
			Opacity: el.Opacity,
			Display: el.Display,
		})
	}
	return st
}
