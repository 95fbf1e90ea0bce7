// Package engine is an in-process playback backend. It keeps a monotonic
// clock, walks the current pattern in small arcs on its own goroutine and
// hands every note to the configured outputs.
package engine

import (
	"context"
	"sync"
	"time"

	"go-stepgrid/debug"
	"go-stepgrid/pattern"
)

// Note is one scheduled sample trigger
type Note struct {
	Sample   string
	Cycle    float64       // onset in cycles since Start
	At       time.Duration // onset on the engine clock
	Delay    time.Duration // time from dispatch until onset
	Duration time.Duration
	CPS      float64
	Layer    int
}

// Output receives notes as they become due
type Output interface {
	Send(n Note) error
}

// Closer is implemented by outputs holding resources
type Closer interface {
	Close() error
}

// DefaultInterval is how often the scheduler wakes up
const DefaultInterval = 5 * time.Millisecond

// Option configures an Engine
type Option func(*Engine)

// WithInterval sets the scheduler wake-up period
func WithInterval(d time.Duration) Option {
	return func(e *Engine) { e.interval = d }
}

// WithNow replaces the time source
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLookahead schedules notes this far ahead of the clock
func WithLookahead(d time.Duration) Option {
	return func(e *Engine) { e.lookahead = d }
}

// WithOutput adds an output
func WithOutput(o Output) Option {
	return func(e *Engine) { e.outputs = append(e.outputs, o) }
}

// Engine plays patterns. All methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	now       func() time.Time
	origin    time.Time
	interval  time.Duration
	lookahead time.Duration
	outputs   []Output

	pat     pattern.Pattern
	cps     float64
	running bool // clock resumed
	playing bool

	cycle    float64 // cycle position at lastTime
	lastTime float64
	sent     float64 // notes before this cycle have been dispatched

	stopChan chan struct{}
	done     chan struct{}
}

// New creates a suspended engine
func New(opts ...Option) *Engine {
	e := &Engine{
		now:      time.Now,
		interval: DefaultInterval,
		cps:      0.5,
		pat:      pattern.Silence(),
	}
	for _, o := range opts {
		o(e)
	}
	e.origin = e.now()
	return e
}

// AddOutput registers another output
func (e *Engine) AddOutput(o Output) {
	e.mu.Lock()
	e.outputs = append(e.outputs, o)
	e.mu.Unlock()
}

// Now returns seconds since the engine was created
func (e *Engine) Now() float64 {
	return e.now().Sub(e.origin).Seconds()
}

// Running reports whether the clock has been resumed
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Resume wakes the clock
func (e *Engine) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()
	return nil
}

// Playing reports whether the scheduler is running
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Pattern returns the current pattern
func (e *Engine) Pattern() pattern.Pattern {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pat
}

// Rate returns the current cycles per second
func (e *Engine) Rate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cps
}

// SetPattern replaces the pattern from the next scheduling pass on
func (e *Engine) SetPattern(p pattern.Pattern) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.pat = p
	e.mu.Unlock()
	return nil
}

// SetRate changes cycles per second without a jump in cycle position
func (e *Engine) SetRate(cps float64) {
	if cps <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playing {
		now := e.Now()
		e.cycle += (now - e.lastTime) * e.cps
		e.lastTime = now
	}
	e.cps = cps
}

// Start begins playback from cycle 0
func (e *Engine) Start() {
	e.mu.Lock()
	if e.playing {
		e.mu.Unlock()
		return
	}
	e.playing = true
	e.running = true
	e.cycle = 0
	e.sent = 0
	e.lastTime = e.Now()
	e.stopChan = make(chan struct{})
	e.done = make(chan struct{})
	stop, done := e.stopChan, e.done
	e.mu.Unlock()

	debug.Log("engine", "start cps=%.4f", e.Rate())
	go e.loop(stop, done)
}

// Stop halts playback and waits for the scheduler goroutine to exit
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.playing {
		e.mu.Unlock()
		return
	}
	e.playing = false
	close(e.stopChan)
	done := e.done
	e.mu.Unlock()

	<-done
	debug.Log("engine", "stop")
}

// Close stops playback and closes every output that holds resources
func (e *Engine) Close() error {
	e.Stop()
	e.mu.Lock()
	outputs := e.outputs
	e.outputs = nil
	e.mu.Unlock()

	var first error
	for _, o := range outputs {
		if c, ok := o.(Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

func (e *Engine) loop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.process()
		}
	}
}

// process dispatches every note due between the last pass and now plus
// the lookahead
func (e *Engine) process() int {
	e.mu.Lock()
	if !e.playing {
		e.mu.Unlock()
		return 0
	}
	now := e.Now()
	e.cycle += (now - e.lastTime) * e.cps
	e.lastTime = now
	cps, cycle := e.cps, e.cycle
	from := e.sent
	to := cycle + e.lookahead.Seconds()*cps
	if to <= from {
		e.mu.Unlock()
		return 0
	}
	events := e.pat.Query(from, to)
	e.sent = to
	outputs := e.outputs
	e.mu.Unlock()

	for _, ev := range events {
		ahead := (ev.Onset - cycle) / cps
		if ahead < 0 {
			ahead = 0
		}
		n := Note{
			Sample:   ev.Sample,
			Cycle:    ev.Onset,
			At:       seconds(now + (ev.Onset-cycle)/cps),
			Delay:    seconds(ahead),
			Duration: seconds(ev.Duration / cps),
			CPS:      cps,
			Layer:    ev.Layer,
		}
		for _, o := range outputs {
			if err := o.Send(n); err != nil {
				debug.Log("engine", "output %T: %v", o, err)
			}
		}
	}
	return len(events)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
