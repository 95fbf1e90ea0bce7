package sequencer

import (
	"strings"

	"go-stepgrid/pattern"

	"github.com/pkg/errors"
)

// RowNotation renders a row as a mini-notation group, e.g. "[bd ~ hh ~]"
func RowNotation(r Row) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range r {
		if i > 0 {
			b.WriteByte(' ')
		}
		if c == Empty {
			b.WriteString(pattern.Rest)
		} else {
			b.WriteString(string(c))
		}
	}
	b.WriteByte(']')
	return b.String()
}

// Compile turns the grid into one layered pattern. Each row spans barCount
// cycles and notes last a full step. A grid with no playable rows compiles
// to silence.
func Compile(g Grid, barCount int, cps float64) (pattern.Pattern, error) {
	var layers []pattern.Pattern
	for i, r := range g {
		if len(r) == 0 {
			continue
		}
		p, err := pattern.Mini(RowNotation(r))
		if err != nil {
			return pattern.Pattern{}, errors.Wrapf(err, "track %d", i+1)
		}
		layers = append(layers, p.Slow(float64(barCount)).Legato(1).CPS(cps))
	}

	var out pattern.Pattern
	if len(layers) == 0 {
		out = pattern.Silence().CPS(cps)
	} else {
		out = pattern.Stack(layers...).CPS(cps)
	}
	if err := out.Validate(); err != nil {
		return pattern.Pattern{}, errors.Wrap(err, "compile")
	}
	return out, nil
}
