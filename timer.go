package praxis

import "time"

// Timer produces the time value the shading effect animates with. It runs
// on the wall clock, supports pausing, and scales elapsed time by a
// configurable factor.
//
// Timer is not safe for concurrent use; drive it from the frame loop.
type Timer struct {
	now func() time.Time

	start   time.Time
	resumed time.Time
	acc     time.Duration
	last    time.Duration
	running bool
	scale   float32
}

// NewTimer returns a started timer with time scale 1.
func NewTimer() *Timer {
	t := &Timer{now: time.Now, scale: 1}
	t.Start()
	return t
}

// newTimerWithClock is like NewTimer with an injected clock, for tests.
func newTimerWithClock(now func() time.Time) *Timer {
	t := &Timer{now: now, scale: 1}
	t.Start()
	return t
}

// Start resets the timer to zero and starts it running.
func (t *Timer) Start() {
	t.start = t.now()
	t.resumed = t.start
	t.acc = 0
	t.last = 0
	t.running = true
}

// Pause stops time accumulation. Pausing a paused timer is a no-op.
func (t *Timer) Pause() {
	if !t.running {
		return
	}
	t.acc += t.now().Sub(t.resumed)
	t.running = false
}

// Resume continues time accumulation after Pause. Resuming a running timer
// is a no-op.
func (t *Timer) Resume() {
	if t.running {
		return
	}
	t.resumed = t.now()
	t.running = true
}

// Running reports whether the timer is accumulating time.
func (t *Timer) Running() bool {
	return t.running
}

// SetTimeScale sets the factor applied to elapsed time. Scale 0 freezes
// the effect without pausing the timer.
func (t *Timer) SetTimeScale(scale float32) {
	t.scale = scale
}

// Elapsed returns the scaled elapsed time in seconds.
func (t *Timer) Elapsed() float32 {
	return t.scale * float32(t.elapsed().Seconds())
}

// Tick returns the scaled elapsed time and the delta since the previous
// Tick, both in seconds. The first Tick after Start reports the delta
// from Start.
func (t *Timer) Tick() (elapsed, dt float32) {
	e := t.elapsed()
	d := e - t.last
	t.last = e
	return t.scale * float32(e.Seconds()), t.scale * float32(d.Seconds())
}

func (t *Timer) elapsed() time.Duration {
	if !t.running {
		return t.acc
	}
	return t.acc + t.now().Sub(t.resumed)
}
