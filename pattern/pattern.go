package pattern

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Rest is the mini-notation token for a silent step.
const Rest = "~"

// DefaultLegato is the note length, as a fraction of the step, used when a
// pattern does not set one.
const DefaultLegato = 0.8

// ErrInvalid is returned by Validate for patterns a backend cannot play.
var ErrInvalid = errors.New("invalid pattern")

// Layer is one sequence of steps spread evenly over Slow cycles.
type Layer struct {
	Steps  []string // sample names, Rest for silence
	Slow   float64  // number of cycles the sequence spans
	Legato float64  // note length as a fraction of one step
}

// Pattern is a stack of layers played simultaneously, tagged with the rate
// it was built for. Patterns are values: every method returns a new one and
// never touches the receiver's layers.
type Pattern struct {
	layers []Layer
	cps    float64
}

// Event is a single note produced by Query.
type Event struct {
	Sample   string
	Onset    float64 // in cycles
	Duration float64 // in cycles
	Layer    int
}

// Sequence builds a single-layer pattern that plays steps once per cycle.
func Sequence(steps ...string) Pattern {
	s := make([]string, len(steps))
	copy(s, steps)
	return Pattern{layers: []Layer{{Steps: s, Slow: 1, Legato: DefaultLegato}}}
}

// Silence returns a pattern with no layers.
func Silence() Pattern {
	return Pattern{}
}

// Stack layers all patterns on top of each other. The rate tag of the first
// tagged pattern is kept.
func Stack(patterns ...Pattern) Pattern {
	var out Pattern
	for _, p := range patterns {
		out.layers = append(out.layers, p.copyLayers()...)
		if out.cps == 0 {
			out.cps = p.cps
		}
	}
	return out
}

// Stack layers other on top of p.
func (p Pattern) Stack(other Pattern) Pattern {
	return Stack(p, other)
}

// Slow stretches every layer by factor.
func (p Pattern) Slow(factor float64) Pattern {
	out := p.clone()
	for i := range out.layers {
		out.layers[i].Slow *= factor
	}
	return out
}

// Legato sets the note length of every layer.
func (p Pattern) Legato(l float64) Pattern {
	out := p.clone()
	for i := range out.layers {
		out.layers[i].Legato = l
	}
	return out
}

// CPS tags the pattern with the rate it is meant to be played at.
func (p Pattern) CPS(cps float64) Pattern {
	out := p.clone()
	out.cps = cps
	return out
}

// Rate returns the cycles-per-second tag (0 if untagged).
func (p Pattern) Rate() float64 {
	return p.cps
}

// Layers returns a copy of the pattern's layers.
func (p Pattern) Layers() []Layer {
	return p.copyLayers()
}

// IsSilent reports whether the pattern produces no events at all.
func (p Pattern) IsSilent() bool {
	for _, l := range p.layers {
		for _, s := range l.Steps {
			if s != Rest {
				return false
			}
		}
	}
	return true
}

// Validate checks that the pattern can be scheduled.
func (p Pattern) Validate() error {
	if !finitePositive(p.cps) && p.cps != 0 {
		return errors.Wrapf(ErrInvalid, "rate %v", p.cps)
	}
	for i, l := range p.layers {
		if len(l.Steps) == 0 {
			return errors.Wrapf(ErrInvalid, "layer %d has no steps", i)
		}
		if !finitePositive(l.Slow) {
			return errors.Wrapf(ErrInvalid, "layer %d: slow factor %v", i, l.Slow)
		}
		if !finitePositive(l.Legato) {
			return errors.Wrapf(ErrInvalid, "layer %d: legato %v", i, l.Legato)
		}
		for j, s := range l.Steps {
			if !validToken(s) {
				return errors.Wrapf(ErrInvalid, "layer %d step %d: bad sample %q", i, j, s)
			}
		}
	}
	return nil
}

// Query returns the events whose onset falls in [from, to), in cycles,
// ordered by onset and then by layer.
func (p Pattern) Query(from, to float64) []Event {
	if to <= from {
		return nil
	}
	var events []Event
	for li, l := range p.layers {
		n := len(l.Steps)
		if n == 0 || !finitePositive(l.Slow) {
			continue
		}
		stepLen := l.Slow / float64(n)
		// Onsets are always computed as i*stepLen so adjacent queries agree
		// on which side of a boundary an event falls.
		for i := int64(math.Floor(from/stepLen)) - 1; ; i++ {
			onset := float64(i) * stepLen
			if onset < from {
				continue
			}
			if onset >= to {
				break
			}
			idx := int(((i % int64(n)) + int64(n)) % int64(n))
			sample := l.Steps[idx]
			if sample == Rest {
				continue
			}
			events = append(events, Event{
				Sample:   sample,
				Onset:    onset,
				Duration: stepLen * l.Legato,
				Layer:    li,
			})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Onset != events[j].Onset {
			return events[i].Onset < events[j].Onset
		}
		return events[i].Layer < events[j].Layer
	})
	return events
}

// String renders the pattern in strudel-like notation.
func (p Pattern) String() string {
	if len(p.layers) == 0 {
		return fmt.Sprintf("s(%q).cps(%s)", Rest, formatFloat(p.cps))
	}
	parts := make([]string, len(p.layers))
	for i, l := range p.layers {
		parts[i] = fmt.Sprintf("s(%q).slow(%s).legato(%s)",
			"["+strings.Join(l.Steps, " ")+"]", formatFloat(l.Slow), formatFloat(l.Legato))
	}
	if len(parts) == 1 {
		return parts[0] + ".cps(" + formatFloat(p.cps) + ")"
	}
	return "stack(" + strings.Join(parts, ", ") + ").cps(" + formatFloat(p.cps) + ")"
}

func (p Pattern) clone() Pattern {
	return Pattern{layers: p.copyLayers(), cps: p.cps}
}

func (p Pattern) copyLayers() []Layer {
	if p.layers == nil {
		return nil
	}
	out := make([]Layer, len(p.layers))
	for i, l := range p.layers {
		steps := make([]string, len(l.Steps))
		copy(steps, l.Steps)
		out[i] = Layer{Steps: steps, Slow: l.Slow, Legato: l.Legato}
	}
	return out
}

func finitePositive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
