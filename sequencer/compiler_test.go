package sequencer

import (
	"testing"

	"go-stepgrid/pattern"

	"github.com/pkg/errors"
)

func TestRowNotation(t *testing.T) {
	if got, want := RowNotation(row("bd", Empty, "hh", Empty)), "[bd ~ hh ~]"; got != want {
		t.Errorf("RowNotation = %q, want %q", got, want)
	}
}

func TestCompileEmptyGridIsSilent(t *testing.T) {
	g := Grid{NewEmptyRow(32), NewEmptyRow(32)}
	p, err := Compile(g, 2, 0.5)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !p.IsSilent() {
		t.Error("expected a silent pattern")
	}
	if p.Rate() != 0.5 {
		t.Errorf("Rate = %v, want 0.5", p.Rate())
	}
}

func TestCompileNoRows(t *testing.T) {
	p, err := Compile(Grid{nil, {}}, 2, 0.5)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(p.Layers()) != 0 || p.Rate() != 0.5 {
		t.Errorf("got %s, want silence at 0.5", p)
	}
}

func TestCompileLayers(t *testing.T) {
	g := Grid{
		row("bd", Empty, Empty, Empty, "bd", Empty, Empty, Empty),
		nil,
		row(Empty, Empty, "hh", Empty, Empty, Empty, "hh", Empty),
	}
	p, err := Compile(g, 2, 0.5)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	layers := p.Layers()
	if len(layers) != 2 {
		t.Fatalf("got %d layers, want 2", len(layers))
	}
	for i, l := range layers {
		if l.Slow != 2 || l.Legato != 1 {
			t.Errorf("layer %d: slow %v legato %v", i, l.Slow, l.Legato)
		}
	}
	// each step lasts 2/8 cycles; the second kick lands on cycle 1
	events := p.Query(0, 2)
	var onsets []float64
	for _, e := range events {
		if e.Sample == "bd" {
			onsets = append(onsets, e.Onset)
		}
	}
	if len(onsets) != 2 || onsets[0] != 0 || onsets[1] != 1 {
		t.Errorf("kick onsets = %v, want [0 1]", onsets)
	}
}

func TestCompileSurfacesParseErrors(t *testing.T) {
	g := Grid{row("bd", "[oops", Empty, Empty)}
	_, err := Compile(g, 1, 0.5)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, pattern.ErrSyntax) {
		t.Errorf("error %v does not wrap ErrSyntax", err)
	}
}

func TestCompileRejectsBadBars(t *testing.T) {
	_, err := Compile(Grid{row("bd")}, 0, 0.5)
	if !errors.Is(err, pattern.ErrInvalid) {
		t.Errorf("Compile with 0 bars: %v", err)
	}
}
