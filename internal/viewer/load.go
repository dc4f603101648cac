package viewer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/partview/internal/assets"
	"github.com/Faultbox/partview/internal/camera"
	"github.com/Faultbox/partview/internal/explode"
	"github.com/Faultbox/partview/internal/labels"
	"github.com/Faultbox/partview/internal/scene"
)

// ErrDisposed is reported by a cleanup step that finds its resource already
// released.
var ErrDisposed = errors.New("viewer: already disposed")

// Open starts loading path and installs the result. An empty path only logs
// a warning and returns assets.ErrNoURL; the current model stays.
func (s *Session) Open(ctx context.Context, path string, opts assets.Options) error {
	if path == "" {
		s.log.Warn("no model path given")
		return assets.ErrNoURL
	}
	return s.LoadModel(ctx, assets.Load(ctx, path, opts))
}

// LoadModel replaces the current model with the task's result. On failure
// the session is left empty; either way it is marked ready afterwards.
func (s *Session) LoadModel(ctx context.Context, task *assets.Task) error {
	if s.dispose != nil {
		if err := s.dispose(); err != nil {
			for _, e := range multierr.Errors(err) {
				s.log.Warn("disposing previous model", zap.Error(e))
			}
		}
		s.dispose = nil
	}
	s.model = nil
	s.items = nil
	s.ready = false
	s.anim.SetTracks(nil)
	s.anim.Reset()

	md, err := task.Await(ctx)
	if err != nil {
		s.log.Warn("model load failed", zap.String("path", task.Path), zap.Error(err))
		s.markReady(err)
		return fmt.Errorf("loading %q: %w", task.Path, err)
	}

	if s.cfg.Model.Name != "" {
		md.Name = s.cfg.Model.Name
	}
	scale := assets.Normalize(md)
	s.anim.SetTracks(explode.Prepare(md))
	s.model = md
	s.dispose = s.SetupEngineUI(md)
	s.anim.Reset()

	parts := md.Parts()
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.Name()
	}
	s.log.Info("model loaded",
		zap.String("model", md.Name),
		zap.Int("parts", len(parts)),
		zap.Int("labels", len(s.items)),
		zap.Float32("scale", scale),
		zap.Strings("names", names),
	)

	s.FitCamera()
	s.markReady(nil)
	return nil
}

// FitCamera frames the current model with the configured preset.
func (s *Session) FitCamera() {
	if s.model == nil {
		return
	}
	pose := camera.FitPose(s.model.Bounds(), s.camera.FOV, s.cfg.Model.Preset, s.width)
	s.camera.Position = pose.Position
	s.controls.Target = pose.Target
	s.camera.LookAt(pose.Target)
	s.controls.Update(0)
}

func (s *Session) markReady(err error) {
	s.ready = true
	if s.onReady != nil {
		s.onReady(err)
	}
}

// SetupEngineUI creates labels for md, starts the per-frame label layout and
// enables picking. The returned func undoes all of it; calling it again is a
// no-op.
func (s *Session) SetupEngineUI(md *scene.Model) (dispose func() error) {
	vc := s.cfg.Viewer
	items := labels.Build(md, func(p *scene.Part) string { return s.cat.NiceName(p) }, vc.LabelMinSize)
	for _, it := range items {
		if vc.LabelWidth != labels.DefaultWidth {
			it.Element.Width = vc.LabelWidth
		}
		if vc.LabelHeight != labels.DefaultHeight {
			it.Element.Height = vc.LabelHeight
		}
	}
	s.items = items
	s.focus.Attach(md, s.camera, s.controls, items)

	handle := s.loop.Add("labels", s.layoutLabels)
	s.labelTicker = handle
	s.picking = true

	done := false
	return func() error {
		if done {
			return nil
		}
		done = true

		var err error
		if s.loop.Has(handle) {
			s.loop.Cancel(handle)
		} else {
			err = multierr.Append(err, fmt.Errorf("label loop: %w", ErrDisposed))
		}
		s.labelTicker = 0

		for _, it := range items {
			err = multierr.Append(err, s.removeLabel(it))
		}
		s.picking = false
		s.focus.Reset()
		s.focus.Attach(nil, nil, nil, nil)
		s.cancelZoom()
		s.items = nil
		return err
	}
}

// removeLabel drops a label and puts its part's material back.
func (s *Session) removeLabel(it *labels.Item) error {
	if it.Part == nil {
		return fmt.Errorf("label %q has no part", it.Element.Text)
	}
	if h, ok := s.highlights[it.Part]; ok {
		s.loop.Cancel(h)
		delete(s.highlights, it.Part)
	}
	if it.BaseMaterial != nil {
		it.Part.Material = it.BaseMaterial
	}
	it.Element.Opacity = 0
	it.Element.Display = false
	return nil
}

// layoutLabels is the label loop body: project, sort and hide overlaps.
func (s *Session) layoutLabels(float64) bool {
	active := s.anim.IsExploded() && !s.focus.InFocus()
	projected := labels.Project(s.items, s.camera.ViewProjection(), s.camera.Position, s.width, s.height, active)
	if len(projected) > 0 {
		labels.Resolve(projected, s.cfg.Viewer.LabelPadding)
	}
	return true
}
