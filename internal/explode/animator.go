package explode

import (
	"github.com/Faultbox/partview/internal/frame"
	m "github.com/Faultbox/partview/pkg/math"
)

// DefaultDuration is the full explode time in seconds.
const DefaultDuration = 2.2

// State is the animator's coarse state.
type State int

const (
	Idle State = iota
	Animating
	Settled
)

func (s State) String() string {
	switch s {
	case Animating:
		return "animating"
	case Settled:
		return "settled"
	default:
		return "idle"
	}
}

// Phase is the half of the trajectory the parts are on.
type Phase int

const (
	PhaseLift Phase = iota
	PhaseSpread
)

// Animator drives every track between its start and final positions.
// Progress 0 is fully assembled, 1 fully exploded.
type Animator struct {
	tracks   []Track
	progress float64
	dir      float64
	playing  bool
	exploded bool
	duration float64

	loop   *frame.Loop
	handle frame.Handle
}

// NewAnimator creates an idle animator. A non-positive duration falls back to
// DefaultDuration. When loop is non-nil, Explode and Implode schedule the
// animator on it; otherwise the caller must invoke Tick itself.
func NewAnimator(duration float64, loop *frame.Loop) *Animator {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Animator{duration: duration, dir: 1, loop: loop}
}

// SetTracks replaces the animated parts. Progress is left untouched; call
// Reset for a freshly loaded model.
func (a *Animator) SetTracks(tracks []Track) {
	a.tracks = tracks
}

// Tracks returns the current tracks.
func (a *Animator) Tracks() []Track {
	return a.tracks
}

// Duration returns the explode time in seconds.
func (a *Animator) Duration() float64 {
	return a.duration
}

// Explode starts moving parts outward and returns true.
func (a *Animator) Explode() bool {
	a.play(1)
	return true
}

// Implode starts moving parts back and returns false.
func (a *Animator) Implode() bool {
	a.play(-1)
	return false
}

// Toggle implodes a settled exploded model and explodes anything else.
// It returns the direction it chose: true for exploding.
func (a *Animator) Toggle() bool {
	if a.exploded {
		return a.Implode()
	}
	return a.Explode()
}

func (a *Animator) play(dir float64) {
	a.dir = dir
	a.playing = true
	if a.loop != nil && !a.loop.Has(a.handle) {
		a.handle = a.loop.Add("explode", a.frameTick)
	}
}

func (a *Animator) frameTick(dt float64) bool {
	a.Tick(dt)
	return a.playing && len(a.tracks) > 0
}

// Tick advances the animation by dt seconds. It does nothing while stopped,
// when there are no tracks, or for a non-positive dt.
func (a *Animator) Tick(dt float64) {
	if !a.playing || len(a.tracks) == 0 || dt <= 0 {
		return
	}

	a.progress = m.Clamp(a.progress+dt/a.duration*a.dir, 0, 1)
	for _, tr := range a.tracks {
		tr.Part.SetPosition(tr.At(a.progress))
	}

	if a.progress == 0 || a.progress == 1 {
		a.playing = false
		a.exploded = a.progress == 1
	}
}

// Stop halts the animation where it is and cancels the pending frame callback.
func (a *Animator) Stop() {
	if a.loop != nil {
		a.loop.Cancel(a.handle)
	}
	a.playing = false
}

// Reset stops the animation and marks the model assembled. Part positions are
// not touched.
func (a *Animator) Reset() {
	a.Stop()
	a.progress = 0
	a.exploded = false
}

// IsExploded reports whether the last completed animation ended exploded.
func (a *Animator) IsExploded() bool {
	return a.exploded
}

// Playing reports whether an animation is in flight.
func (a *Animator) Playing() bool {
	return a.playing
}

// Progress returns the current progress in [0, 1].
func (a *Animator) Progress() float64 {
	return a.progress
}

// Direction returns +1 while exploding and -1 while imploding.
func (a *Animator) Direction() float64 {
	return a.dir
}

// State reports Animating while playing, Settled when fully exploded and
// Idle otherwise.
func (a *Animator) State() State {
	switch {
	case a.playing:
		return Animating
	case a.exploded:
		return Settled
	default:
		return Idle
	}
}

// Phase reports which half of the trajectory progress is in.
func (a *Animator) Phase() Phase {
	if a.progress <= 0.5 {
		return PhaseLift
	}
	return PhaseSpread
}
