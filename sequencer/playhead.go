package sequencer

import "go-stepgrid/debug"

// NoStep is the visual step while stopped
const NoStep = -1

// FrameID identifies a requested frame callback
type FrameID uint64

// FrameScheduler runs callbacks once on the next display frame
type FrameScheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// FrameLoop is a FrameScheduler driven by explicit Tick calls
type FrameLoop struct {
	next    FrameID
	pending []frameRequest
}

type frameRequest struct {
	id FrameID
	fn func()
}

// NewFrameLoop creates an idle frame loop
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{}
}

// RequestFrame queues fn for the next Tick
func (l *FrameLoop) RequestFrame(fn func()) FrameID {
	l.next++
	l.pending = append(l.pending, frameRequest{id: l.next, fn: fn})
	return l.next
}

// CancelFrame drops a queued callback
func (l *FrameLoop) CancelFrame(id FrameID) {
	for i, r := range l.pending {
		if r.id == id {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the number of queued callbacks
func (l *FrameLoop) Pending() int { return len(l.pending) }

// Tick runs the callbacks queued before this call. Callbacks requested while
// ticking run on the next Tick.
func (l *FrameLoop) Tick() int {
	batch := l.pending
	l.pending = nil
	for _, r := range batch {
		r.fn()
	}
	return len(batch)
}

// Timing supplies the current step rate and loop length
type Timing func() (stepsPerSecond float64, totalSteps int)

// PlayheadSync polls the backend clock once per frame and reports the
// current grid step whenever it changes
type PlayheadSync struct {
	frames FrameScheduler
	ctrl   *Controller
	timing Timing
	emit   func(step int)

	active  bool
	pending FrameID
	last    int
}

// NewPlayheadSync wires a playhead to a frame source and controller
func NewPlayheadSync(frames FrameScheduler, ctrl *Controller, timing Timing, emit func(int)) *PlayheadSync {
	return &PlayheadSync{frames: frames, ctrl: ctrl, timing: timing, emit: emit, last: NoStep}
}

// Active reports whether the frame loop is polling
func (p *PlayheadSync) Active() bool { return p.active }

// Step returns the last emitted step
func (p *PlayheadSync) Step() int { return p.last }

// Start begins polling on the next frame
func (p *PlayheadSync) Start() {
	if p.active || p.frames == nil {
		return
	}
	p.active = true
	debug.Log("frame", "playhead loop started")
	p.pending = p.frames.RequestFrame(p.frame)
}

// Stop cancels the pending frame and emits NoStep
func (p *PlayheadSync) Stop() {
	if !p.active {
		return
	}
	p.active = false
	if p.pending != 0 {
		p.frames.CancelFrame(p.pending)
		p.pending = 0
	}
	p.last = NoStep
	debug.Log("frame", "playhead loop stopped")
	if p.emit != nil {
		p.emit(NoStep)
	}
}

func (p *PlayheadSync) frame() {
	p.pending = 0
	if !p.active {
		return
	}
	if !p.ctrl.Playing() {
		p.Stop()
		return
	}
	clk := p.ctrl.Clock()
	anchor, _ := p.ctrl.Anchor()
	if clk != nil && clk.Running() {
		elapsed := clk.Now() - anchor
		if elapsed < 0 {
			elapsed = 0
		}
		sps, total := p.timing()
		idx := CurrentStepIndex(elapsed, sps, total)
		debug.LogEvery(600, "frame", "elapsed=%.3f step=%d", elapsed, idx)
		if idx != p.last {
			p.last = idx
			if p.emit != nil {
				p.emit(idx)
			}
		}
	}
	p.pending = p.frames.RequestFrame(p.frame)
}
