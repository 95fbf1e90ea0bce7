package sequencer

import (
	"context"

	"go-stepgrid/debug"
	"go-stepgrid/pattern"

	"github.com/pkg/errors"
)

// Transport is the command side of a playback backend
type Transport interface {
	SetPattern(p pattern.Pattern) error
	SetRate(cps float64)
	Start()
	Stop()
}

// Clock is the time side of a playback backend
type Clock interface {
	Now() float64 // seconds, monotonic
	Running() bool
}

// Resumer is implemented by clocks that must be woken before playback
type Resumer interface {
	Resume(ctx context.Context) error
}

// PlayState is the controller's playback state
type PlayState int

const (
	Stopped PlayState = iota
	Playing
)

func (s PlayState) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// Controller drives a backend and tracks the playback anchor. Without a
// bound transport every command is a no-op.
type Controller struct {
	transport Transport
	clock     Clock

	state  PlayState
	anchor float64 // clock time of cycle 0, valid while Playing
	cps    float64 // last rate pushed to the transport

	onStop func()
}

// NewController creates an unbound controller
func NewController() *Controller {
	return &Controller{}
}

// Bind attaches a backend. Either argument may be nil.
func (c *Controller) Bind(t Transport, clk Clock) {
	c.transport = t
	c.clock = clk
}

// OnStop registers a hook run after every transition to Stopped
func (c *Controller) OnStop(fn func()) {
	c.onStop = fn
}

// State returns the playback state
func (c *Controller) State() PlayState { return c.state }

// Playing reports whether playback is running
func (c *Controller) Playing() bool { return c.state == Playing }

// Clock returns the bound clock
func (c *Controller) Clock() Clock { return c.clock }

// Anchor returns the playback anchor while Playing
func (c *Controller) Anchor() (float64, bool) {
	if c.state != Playing {
		return 0, false
	}
	return c.anchor, true
}

// Start compiles the grid, pushes it to the backend and starts playback.
// On error the controller stays Stopped.
func (c *Controller) Start(ctx context.Context, g Grid, bars int, cps float64) error {
	if c.transport == nil || c.clock == nil {
		return nil
	}
	if c.state == Playing {
		return nil
	}
	if r, ok := c.clock.(Resumer); ok && !c.clock.Running() {
		if err := r.Resume(ctx); err != nil {
			return errors.Wrap(err, "resume clock")
		}
	}
	p, err := Compile(g, bars, cps)
	if err != nil {
		debug.Log("ctrl", "start: %v", err)
		return err
	}
	if err := c.transport.SetPattern(p); err != nil {
		debug.Log("ctrl", "start: backend rejected pattern: %v", err)
		return errors.Wrap(err, "set pattern")
	}
	c.transport.SetRate(cps)
	c.transport.Start()
	c.cps = cps
	c.anchor = c.clock.Now()
	c.state = Playing
	debug.Log("ctrl", "playing at cps=%.4f anchor=%.4f", cps, c.anchor)
	return nil
}

// Stop halts the backend and clears the anchor
func (c *Controller) Stop() {
	if c.transport == nil {
		return
	}
	c.transport.Stop()
	wasPlaying := c.state == Playing
	c.state = Stopped
	c.anchor = 0
	if wasPlaying {
		debug.Log("ctrl", "stopped")
		if c.onStop != nil {
			c.onStop()
		}
	}
}

// SetTempo pushes a new rate. While playing the anchor is rebased so the
// playhead keeps its place within the loop.
func (c *Controller) SetTempo(cps float64) {
	if c.transport == nil {
		return
	}
	old := c.cps
	c.transport.SetRate(cps)
	c.cps = cps
	if c.state == Playing && c.clock != nil && old > 0 && cps > 0 {
		now := c.clock.Now()
		c.anchor = RebaseAnchor(now, c.anchor, old, cps)
		debug.Log("ctrl", "rebase cps %.4f->%.4f anchor=%.4f", old, cps, c.anchor)
	}
}

// Recompile pushes a freshly compiled grid without touching the anchor
func (c *Controller) Recompile(g Grid, bars int, cps float64) error {
	if c.transport == nil {
		return nil
	}
	p, err := Compile(g, bars, cps)
	if err != nil {
		debug.Log("ctrl", "recompile: %v", err)
		return err
	}
	if err := c.transport.SetPattern(p); err != nil {
		debug.Log("ctrl", "recompile: backend rejected pattern: %v", err)
		return errors.Wrap(err, "set pattern")
	}
	return nil
}
