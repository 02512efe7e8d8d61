// Package frame schedules per-frame callbacks. A view never calls a
// platform frame primitive directly; it asks a Scheduler for the next tick.
package frame

// Scheduler runs cb once on the next frame. The returned func cancels the
// request if it has not run yet.
type Scheduler interface {
	RequestTick(cb func()) (cancel func())
}

// Loop re-requests a tick after every step until stopped.
type Loop struct {
	sched   Scheduler
	step    func()
	cancel  func()
	running bool
	frames  uint64
}

// NewLoop creates a stopped loop that calls step once per frame.
func NewLoop(s Scheduler, step func()) *Loop {
	return &Loop{sched: s, step: step}
}

// Start begins requesting ticks. Starting a running loop is a no-op.
func (l *Loop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.cancel = l.sched.RequestTick(l.tick)
}

// Stop cancels the pending tick. A step in progress finishes but does not
// schedule another.
func (l *Loop) Stop() {
	l.running = false
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Running reports whether the loop is started.
func (l *Loop) Running() bool {
	return l.running
}

// Frames returns how many steps have run.
func (l *Loop) Frames() uint64 {
	return l.frames
}

func (l *Loop) tick() {
	l.cancel = nil
	if !l.running {
		return
	}
	l.frames++
	l.step()
	if l.running {
		l.cancel = l.sched.RequestTick(l.tick)
	}
}

// Manual is a Scheduler driven by explicit Step calls. Shells call Step
// once per vsync or timer tick; tests call it directly.
type Manual struct {
	pending []*request
	batch   []*request
	frame   uint64
}

type request struct {
	cb        func()
	cancelled bool
}

// RequestTick queues cb for the next Step.
func (m *Manual) RequestTick(cb func()) func() {
	r := &request{cb: cb}
	m.pending = append(m.pending, r)
	return func() { r.cancelled = true }
}

// Step runs the callbacks queued before the call. Callbacks requested
// while stepping wait for the next Step. It returns how many ran.
func (m *Manual) Step() int {
	m.frame++
	m.batch, m.pending = m.pending, m.batch[:0]
	ran := 0
	for i, r := range m.batch {
		m.batch[i] = nil
		if r.cancelled {
			continue
		}
		r.cancelled = true
		r.cb()
		ran++
	}
	return ran
}

// Run steps n frames.
func (m *Manual) Run(n int) {
	for i := 0; i < n; i++ {
		m.Step()
	}
}

// Pending returns the number of queued, uncancelled callbacks.
func (m *Manual) Pending() int {
	n := 0
	for _, r := range m.pending {
		if !r.cancelled {
			n++
		}
	}
	return n
}

// Frame returns the number of Steps taken.
func (m *Manual) Frame() uint64 {
	return m.frame
}
