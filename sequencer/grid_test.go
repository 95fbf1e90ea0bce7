package sequencer

import (
	"reflect"
	"testing"
)

func row(cells ...Cell) Row { return Row(cells) }

func TestDefaultGrid(t *testing.T) {
	g := DefaultGrid(2, 4)
	if len(g) != 4 {
		t.Fatalf("got %d tracks, want 4", len(g))
	}
	for i, r := range g {
		if len(r) != 32 {
			t.Errorf("track %d has %d steps, want 32", i, len(r))
		}
	}
	if g[0][0] != "bd" || g[0][4] != "bd" || g[0][1] != Empty {
		t.Errorf("kick row = %v", g[0][:8])
	}
	if g[1][4] != "cp" || g[1][12] != "cp" || g[1][20] != "cp" || g[1][8] != Empty {
		t.Errorf("clap row = %v", g[1][:16])
	}
	if g[2][2] != "808oh" || g[3][6] != "bass" {
		t.Errorf("off-beat rows = %v / %v", g[2][:8], g[3][:8])
	}
}

func TestToggleCell(t *testing.T) {
	g := Grid{NewEmptyRow(4)}
	g1 := g.ToggleCell(0, 1, "bd")
	if g1[0][1] != "bd" {
		t.Fatalf("toggle did not paint: %v", g1[0])
	}
	if g[0][1] != Empty {
		t.Fatalf("original grid was mutated: %v", g[0])
	}
	g2 := g1.ToggleCell(0, 1, "bd")
	if !reflect.DeepEqual(g2, g) {
		t.Errorf("toggling twice = %v, want %v", g2, g)
	}
}

func TestToggleCellReplacesAndClears(t *testing.T) {
	g := Grid{row("bd", Empty)}
	if got := g.ToggleCell(0, 0, "sd"); got[0][0] != "sd" {
		t.Errorf("different tool should replace, got %v", got[0])
	}
	if got := g.ToggleCell(0, 0, NoTool); got[0][0] != Empty {
		t.Errorf("no tool should clear, got %v", got[0])
	}
	if got := g.ToggleCell(0, 1, NoTool); got[0][1] != Empty {
		t.Errorf("no tool on empty cell should stay empty, got %v", got[0])
	}
}

func TestToggleCellOutOfRange(t *testing.T) {
	g := Grid{NewEmptyRow(4)}
	for _, c := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 4}} {
		got := g.ToggleCell(c[0], c[1], "bd")
		if !reflect.DeepEqual(got, g) {
			t.Errorf("ToggleCell(%d, %d) changed grid: %v", c[0], c[1], got)
		}
	}
}

func TestToggleCellSharesUntouchedRows(t *testing.T) {
	g := Grid{NewEmptyRow(4), NewEmptyRow(4)}
	next := g.ToggleCell(0, 0, "bd")
	if &next[1][0] != &g[1][0] {
		t.Error("untouched row was copied")
	}
	if &next[0][0] == &g[0][0] {
		t.Error("touched row was not copied")
	}
}

func TestTrackBounds(t *testing.T) {
	g := Grid{NewEmptyRow(4)}
	if got := g.RemoveTrack(0, 1); len(got) != 1 {
		t.Errorf("removed last track: %d tracks", len(got))
	}
	for i := 0; i < 20; i++ {
		g = g.AddTrack(4, 8)
	}
	if len(g) != 8 {
		t.Fatalf("got %d tracks, want 8", len(g))
	}
	if !g[7].IsEmpty() || len(g[7]) != 4 {
		t.Errorf("new track = %v", g[7])
	}
	g = g.RemoveTrack(3, 1)
	if len(g) != 7 {
		t.Errorf("got %d tracks after remove, want 7", len(g))
	}
	if got := g.RemoveTrack(9, 1); len(got) != 7 {
		t.Errorf("out-of-range remove changed track count to %d", len(got))
	}
}

func TestResizeByBarsRoundTrip(t *testing.T) {
	// 4 bars of 2 beats = 8 steps per bar
	g := Grid{make(Row, 32)}
	for i := range g[0] {
		g[0][i] = "hh"
	}
	shrunk := g.ResizeByBars(4, 2, 8)
	if len(shrunk[0]) != 16 {
		t.Fatalf("shrunk row has %d steps, want 16", len(shrunk[0]))
	}
	grown := shrunk.ResizeByBars(2, 4, 8)
	if len(grown[0]) != 32 {
		t.Fatalf("grown row has %d steps, want 32", len(grown[0]))
	}
	if !reflect.DeepEqual(grown[0][:16], g[0][:16]) {
		t.Errorf("head changed: %v", grown[0][:16])
	}
	if !grown[0][16:].IsEmpty() {
		t.Errorf("tail should be empty, got %v", grown[0][16:])
	}
}

func TestDiscardsOnShrink(t *testing.T) {
	g := Grid{row("bd", Empty, Empty, Empty)}
	if g.DiscardsOnShrink(2) {
		t.Error("empty tail reported as lossy")
	}
	g = Grid{row("bd", Empty, Empty, "sd")}
	if !g.DiscardsOnShrink(2) {
		t.Error("non-empty tail not reported")
	}
}

func TestResizeByBeatsPerBar(t *testing.T) {
	// 2 bars of 3 beats; mark the first step of each bar and the last step of bar 1
	r := NewEmptyRow(24)
	r[0] = "bd"
	r[11] = "hh"
	r[12] = "sd"
	g := Grid{r}

	grown := g.ResizeByBeats(3, 4, 2)
	if len(grown[0]) != 32 {
		t.Fatalf("grown row has %d steps, want 32", len(grown[0]))
	}
	if grown[0][0] != "bd" || grown[0][16] != "sd" || grown[0][11] != "hh" {
		t.Errorf("bar starts not preserved: %v", grown[0])
	}
	if !grown[0][12:16].IsEmpty() {
		t.Errorf("padding in bar 1 not empty: %v", grown[0][12:16])
	}

	shrunk := g.ResizeByBeats(3, 2, 2)
	if len(shrunk[0]) != 16 {
		t.Fatalf("shrunk row has %d steps, want 16", len(shrunk[0]))
	}
	if shrunk[0][0] != "bd" || shrunk[0][8] != "sd" {
		t.Errorf("bar starts not preserved: %v", shrunk[0])
	}
	if shrunk.Filled() != 2 {
		t.Errorf("expected the last step of bar 1 to be dropped, %d cells filled", shrunk.Filled())
	}
}
