// Package frame provides the cooperative per-frame scheduler the viewer core
// runs on. A host calls Loop.Advance once per rendered frame; registered
// tickers receive the elapsed seconds and decide whether to keep running.
package frame

import "time"

// Clock converts host timestamps into frame deltas.
type Clock struct {
	last    time.Duration
	started bool
}

// Advance returns the seconds elapsed since the previous call.
// The first call returns 0. A timestamp that goes backwards yields 0.
func (c *Clock) Advance(now time.Duration) float64 {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	dt := now - c.last
	c.last = now
	if dt < 0 {
		return 0
	}
	return dt.Seconds()
}

// Reset forgets the previous timestamp.
func (c *Clock) Reset() {
	c.started = false
	c.last = 0
}

// Ticker is called once per frame with the frame delta in seconds.
// Returning false unregisters it.
type Ticker func(dt float64) bool

// Handle identifies a registered ticker or timer.
type Handle uint64

type entry struct {
	handle Handle
	name   string
	tick   Ticker

	// timers only
	due   time.Duration
	fire  func()
	timer bool
}

// Loop runs tickers and one-shot timers. It is not safe for concurrent use;
// it belongs to the goroutine that drives frames.
type Loop struct {
	clock   Clock
	now     time.Duration
	next    Handle
	entries []*entry
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Add registers a ticker that starts on the next Advance.
func (l *Loop) Add(name string, t Ticker) Handle {
	l.next++
	l.entries = append(l.entries, &entry{handle: l.next, name: name, tick: t})
	return l.next
}

// After schedules fn to run once, d after the loop's current frame time.
func (l *Loop) After(d time.Duration, fn func()) Handle {
	l.next++
	l.entries = append(l.entries, &entry{
		handle: l.next,
		name:   "timer",
		due:    l.now + d,
		fire:   fn,
		timer:  true,
	})
	return l.next
}

// Cancel unregisters a ticker or timer. Cancelling an unknown or finished
// handle is a no-op. After Cancel returns the callback is never invoked again,
// even when Cancel is called from inside another callback of the same frame.
func (l *Loop) Cancel(h Handle) {
	for i, e := range l.entries {
		if e.handle == h {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

// Has reports whether h is still registered.
func (l *Loop) Has(h Handle) bool {
	for _, e := range l.entries {
		if e.handle == h {
			return true
		}
	}
	return false
}

// Len returns the number of live tickers and timers.
func (l *Loop) Len() int {
	return len(l.entries)
}

// Now returns the frame time of the last Advance.
func (l *Loop) Now() time.Duration {
	return l.now
}

// Advance runs one frame at host time now and returns the frame delta.
// Tickers run in registration order, then due timers fire.
func (l *Loop) Advance(now time.Duration) float64 {
	dt := l.clock.Advance(now)
	l.now = now

	// Snapshot so callbacks may add or cancel entries mid-frame.
	current := make([]*entry, len(l.entries))
	copy(current, l.entries)

	for _, e := range current {
		if e.timer || !l.Has(e.handle) {
			continue
		}
		if !e.tick(dt) {
			l.Cancel(e.handle)
		}
	}
	for _, e := range current {
		if !e.timer || !l.Has(e.handle) || e.due > now {
			continue
		}
		l.Cancel(e.handle)
		e.fire()
	}
	return dt
}

// Clear drops every ticker and timer.
func (l *Loop) Clear() {
	l.entries = nil
}
