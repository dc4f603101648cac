// Package viewer ties the core together for one viewer: camera and orbit
// controls, the frame loop, the explode animator, labels, picking and focus
// mode. A Session is driven by a single goroutine; hosts feed it input and
// call Frame once per rendered frame.
package viewer

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/partview/internal/camera"
	"github.com/Faultbox/partview/internal/catalog"
	"github.com/Faultbox/partview/internal/config"
	"github.com/Faultbox/partview/internal/explode"
	"github.com/Faultbox/partview/internal/focus"
	"github.com/Faultbox/partview/internal/frame"
	"github.com/Faultbox/partview/internal/labels"
	"github.com/Faultbox/partview/internal/logger"
	"github.com/Faultbox/partview/internal/scene"
)

// Session is the state of one viewer.
type Session struct {
	ID string

	cfg *config.Config
	log *zap.Logger
	cat *catalog.Catalog

	camera   *camera.Perspective
	controls *camera.Orbit
	clock    frame.Clock
	loop     *frame.Loop
	anim     *explode.Animator
	focus    *focus.Controller

	model  *scene.Model
	items  []*labels.Item
	width  int
	height int

	picking     bool
	ready       bool
	onReady     func(error)
	labelTicker frame.Handle
	zoomTween   frame.Handle
	highlights  map[*scene.Part]frame.Handle
	dispose     func() error
}

// Option customizes a new session.
type Option func(*Session)

// WithLogger replaces the session logger. The session ID is still attached.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithSize sets the initial viewport.
func WithSize(width, height int) Option {
	return func(s *Session) { s.width, s.height = width, height }
}

// WithReady registers a callback run after every model load, successful or
// not.
func WithReady(fn func(err error)) Option {
	return func(s *Session) { s.onReady = fn }
}

// New creates an empty session. A nil config uses the defaults; a nil
// catalog panics.
func New(cfg *config.Config, cat *catalog.Catalog, opts ...Option) *Session {
	if cat == nil {
		panic("viewer: nil catalog")
	}
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Session{
		ID:         uuid.NewString(),
		cfg:        cfg,
		cat:        cat,
		loop:       frame.NewLoop(),
		width:      cfg.Window.Width,
		height:     cfg.Window.Height,
		highlights: make(map[*scene.Part]frame.Handle),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("viewer")
	}
	s.log = s.log.With(zap.String("session", s.ID))

	cc := cfg.Camera
	s.camera = camera.NewPerspective(cc.FOV, cc.Near, cc.Far, cc.Position)
	s.camera.Resize(s.width, s.height)
	s.controls = camera.NewOrbit(s.camera, cc.Target)
	s.controls.DampingFactor = cc.Damping
	s.controls.EnableDamping = cc.Damping > 0

	s.anim = explode.NewAnimator(cfg.Viewer.ExplodeDuration, s.loop)
	s.focus = focus.NewController(cat, s.loop)
	s.focus.TweenSeconds = cfg.Viewer.TweenSeconds
	s.focus.Margin = cfg.Viewer.FocusMargin
	return s
}

// Frame advances the session to host time now: controls first, then every
// loop ticker (animator, labels, camera tweens) and due timers.
func (s *Session) Frame(now time.Duration) {
	dt := s.clock.Advance(now)
	s.controls.Update(dt)
	s.loop.Advance(now)
}

// Resize sets the viewport in pixels. Zero dimensions are treated as 1.
func (s *Session) Resize(width, height int) {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	s.width, s.height = width, height
	s.camera.Resize(width, height)
}

// Size returns the viewport in pixels.
func (s *Session) Size() (width, height int) { return s.width, s.height }

// Explode starts the explode animation.
func (s *Session) Explode() { s.anim.Explode() }

// Implode starts the reverse animation.
func (s *Session) Implode() { s.anim.Implode() }

// Toggle explodes or implodes depending on the current state and reports
// whether the model is now heading apart.
func (s *Session) Toggle() bool { return s.anim.Toggle() }

// IsExploded reports whether the last animation finished fully apart.
func (s *Session) IsExploded() bool { return s.anim.IsExploded() }

// ResetExplode stops any animation and clears the explode state without
// moving parts.
func (s *Session) ResetExplode() { s.anim.Reset() }

// ExitFocus leaves focus mode.
func (s *Session) ExitFocus() { s.focus.Exit() }

// ExplodeLabel is the caption for the explode button in the current state.
func (s *Session) ExplodeLabel() string {
	if s.anim.IsExploded() {
		return "Assemble Engine"
	}
	return "Explode Engine"
}

func (s *Session) Camera() *camera.Perspective { return s.camera }
func (s *Session) Controls() *camera.Orbit     { return s.controls }
func (s *Session) Loop() *frame.Loop           { return s.loop }
func (s *Session) Animator() *explode.Animator { return s.anim }
func (s *Session) Focus() *focus.Controller    { return s.focus }
func (s *Session) Model() *scene.Model         { return s.model }
func (s *Session) Labels() []*labels.Item      { return s.items }
func (s *Session) Catalog() *catalog.Catalog   { return s.cat }
func (s *Session) Logger() *zap.Logger         { return s.log }

// Ready reports whether a load has finished since the last LoadModel began.
func (s *Session) Ready() bool { return s.ready }

// Dispose tears the session down. The session must not be used afterwards.
func (s *Session) Dispose() error {
	var err error
	if s.dispose != nil {
		err = s.dispose()
		s.dispose = nil
	}
	s.anim.Stop()
	s.loop.Clear()
	s.model = nil
	s.ready = false
	s.log.Debug("session disposed")
	return err
}
