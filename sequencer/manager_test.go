package sequencer

import (
	"context"
	"testing"
)

func newTestManager() (*Manager, *fakeTransport, *fakeClock) {
	m := NewManager(DefaultOptions())
	tr := &fakeTransport{}
	clk := &fakeClock{running: true}
	m.Bind(tr, clk)
	return m, tr, clk
}

func TestManagerWithoutBackend(t *testing.T) {
	m := NewManager(DefaultOptions())
	if err := m.TogglePlayback(context.Background()); err != nil {
		t.Fatalf("TogglePlayback: %v", err)
	}
	if m.Playing() {
		t.Error("playing without a backend")
	}
	m.SetTool("bd")
	if err := m.ToggleCell(0, 1); err != nil {
		t.Errorf("ToggleCell: %v", err)
	}
	if m.Grid()[0][1] != "bd" {
		t.Error("edit not applied without a backend")
	}
	if err := m.AdjustBPM(5); err != nil || m.Tempo().BPM != 125 {
		t.Errorf("AdjustBPM: %v, bpm %d", err, m.Tempo().BPM)
	}
}

func TestManagerRecompilesOnEdit(t *testing.T) {
	m, tr, _ := newTestManager()
	m.SetTool("sd")
	if err := m.ToggleCell(0, 1); err != nil {
		t.Fatal(err)
	}
	if err := m.AddTrack(); err != nil {
		t.Fatal(err)
	}
	if err := m.RemoveTrack(4); err != nil {
		t.Fatal(err)
	}
	if err := m.AdjustBars(1, nil); err != nil {
		t.Fatal(err)
	}
	if len(tr.patterns) != 4 {
		t.Errorf("pushed %d patterns, want 4", len(tr.patterns))
	}
	if m.Playing() {
		t.Error("editing started playback")
	}
	// out-of-range edits change nothing and push nothing
	if err := m.ToggleCell(99, 0); err != nil {
		t.Fatal(err)
	}
	if len(tr.patterns) != 4 {
		t.Errorf("no-op edit pushed a pattern")
	}
}

func TestManagerBeatsChangeRate(t *testing.T) {
	m, tr, _ := newTestManager()
	if err := m.AdjustBeats(-1); err != nil {
		t.Fatal(err)
	}
	if got, want := tr.lastRate(), CyclesPerSecond(120, 3); got != want {
		t.Errorf("rate = %v, want %v", got, want)
	}
	if m.TotalSteps() != 24 {
		t.Errorf("TotalSteps = %d, want 24", m.TotalSteps())
	}
	if err := m.UndoBeats(); err != nil {
		t.Fatal(err)
	}
	if m.Tempo().BeatsPerBar != 4 || m.TotalSteps() != 32 {
		t.Errorf("after undo: beats %d steps %d", m.Tempo().BeatsPerBar, m.TotalSteps())
	}
	if got := tr.lastRate(); got != 0.5 {
		t.Errorf("rate after undo = %v, want 0.5", got)
	}
}

func TestManagerStopClearsStep(t *testing.T) {
	m, tr, clk := newTestManager()
	var seen []int
	m.OnStep = func(s int) { seen = append(seen, s) }

	if err := m.TogglePlayback(context.Background()); err != nil {
		t.Fatal(err)
	}
	clk.now = 0.5
	m.Tick()
	if m.Step() != 4 {
		t.Fatalf("step = %d, want 4", m.Step())
	}
	if err := m.TogglePlayback(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Step() != NoStep || tr.stops != 1 {
		t.Errorf("after stop: step %d stops %d", m.Step(), tr.stops)
	}
	if len(seen) != 2 || seen[1] != NoStep {
		t.Errorf("OnStep saw %v", seen)
	}
	if m.Frames().(*FrameLoop).Pending() != 0 {
		t.Error("frame loop still scheduled")
	}
}

func TestManagerResetStops(t *testing.T) {
	m, tr, _ := newTestManager()
	if err := m.Play(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := m.Reset(ConfirmFunc(func(string) bool { return false })); err != nil {
		t.Fatal(err)
	}
	if !m.Playing() {
		t.Fatal("declined reset stopped playback")
	}
	if err := m.Reset(Always); err != nil {
		t.Fatal(err)
	}
	if m.Playing() || len(m.Grid()) != 1 {
		t.Errorf("after reset: playing %v tracks %d", m.Playing(), len(m.Grid()))
	}
	last := tr.patterns[len(tr.patterns)-1]
	if !last.IsSilent() {
		t.Errorf("last pattern %s is not silent", last)
	}
}

func TestManagerResetStopsBeforeClearing(t *testing.T) {
	m, _, _ := newTestManager()
	if err := m.Play(context.Background()); err != nil {
		t.Fatal(err)
	}
	tracks := -1
	m.OnStep = func(step int) {
		if step == NoStep {
			tracks = len(m.Grid())
		}
	}
	if err := m.Reset(Always); err != nil {
		t.Fatal(err)
	}
	if tracks != 4 {
		t.Errorf("playback stopped with %d tracks in the grid, want 4", tracks)
	}
	if len(m.Grid()) != 1 {
		t.Errorf("tracks after reset = %d", len(m.Grid()))
	}
}

func TestManagerUndoKeepsEditsAfterRestore(t *testing.T) {
	m, _, _ := newTestManager()
	if err := m.AdjustBeats(-1); err != nil {
		t.Fatal(err)
	}
	if err := m.UndoBeats(); err != nil {
		t.Fatal(err)
	}
	m.SetTool("sd")
	if err := m.ToggleCell(0, 1); err != nil {
		t.Fatal(err)
	}
	if err := m.UndoBeats(); err != nil {
		t.Fatal(err)
	}
	if got := m.Grid()[0][1]; got != "sd" {
		t.Errorf("second undo discarded the edit, cell = %q", got)
	}
	if m.Tempo().BeatsPerBar != 4 {
		t.Errorf("beats = %d, want 4", m.Tempo().BeatsPerBar)
	}
}
