package sequencer

import "go-stepgrid/debug"

// Limits bounds every user-adjustable dimension
type Limits struct {
	MinBPM, MaxBPM       int
	MinBars, MaxBars     int
	MinBeats, MaxBeats   int
	MinTracks, MaxTracks int
}

// DefaultLimits returns the stock bounds
func DefaultLimits() Limits {
	return Limits{
		MinBPM: 40, MaxBPM: 300,
		MinBars: 1, MaxBars: 16,
		MinBeats: 2, MaxBeats: 7,
		MinTracks: 1, MaxTracks: 8,
	}
}

// Confirmer answers yes/no questions before destructive edits
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a plain function to Confirmer
type ConfirmFunc func(prompt string) bool

// Confirm calls f
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Always confirms every prompt
var Always = ConfirmFunc(func(string) bool { return true })

// Prompts shown through the Confirmer
const (
	PromptReset      = "Clear all tracks?"
	PromptShrinkBars = "Shrinking bars will discard notes. Continue?"
)

// Store owns the editable sequencer state. Every setter reports whether the
// state actually changed.
type Store struct {
	limits  Limits
	grid    Grid
	bars    int
	tempo   Tempo
	tool    Cell
	history *BeatHistory
}

// NewStore creates a store holding the default grid
func NewStore(limits Limits, bars, beatsPerBar, bpm, historySize int) *Store {
	s := &Store{
		limits:  limits,
		bars:    clamp(bars, limits.MinBars, limits.MaxBars),
		tempo:   Tempo{BPM: clamp(bpm, limits.MinBPM, limits.MaxBPM), BeatsPerBar: clamp(beatsPerBar, limits.MinBeats, limits.MaxBeats)},
		history: NewBeatHistory(historySize),
	}
	s.grid = s.fitTracks(DefaultGrid(s.bars, s.tempo.BeatsPerBar))
	return s
}

// fitTracks trims or pads g with empty tracks to the track limits
func (s *Store) fitTracks(g Grid) Grid {
	if len(g) > s.limits.MaxTracks {
		g = g[:s.limits.MaxTracks]
	}
	for len(g) < s.limits.MinTracks {
		g = append(g, NewEmptyRow(s.TotalSteps()))
	}
	return g
}

// Grid returns the live grid. Callers must treat it as read-only.
func (s *Store) Grid() Grid { return s.grid }

// Bars returns the bar count
func (s *Store) Bars() int { return s.bars }

// Tempo returns bpm and beats per bar
func (s *Store) Tempo() Tempo { return s.tempo }

// Limits returns the configured bounds
func (s *Store) Limits() Limits { return s.limits }

// Tool returns the active sample, or NoTool
func (s *Store) Tool() Cell { return s.tool }

// History returns the beat history ring
func (s *Store) History() *BeatHistory { return s.history }

// TotalSteps returns the length of every row
func (s *Store) TotalSteps() int {
	return s.bars * s.tempo.StepsPerBar()
}

// SetTool selects a sample; selecting the active sample again deselects it
func (s *Store) SetTool(c Cell) {
	if c == s.tool || c == Empty {
		s.tool = NoTool
		return
	}
	s.tool = c
}

// ClearTool deselects the active sample
func (s *Store) ClearTool() {
	s.tool = NoTool
}

// ToggleCell paints or clears a cell with the active tool
func (s *Store) ToggleCell(row, step int) bool {
	next := s.grid.ToggleCell(row, step, s.tool)
	if sameGrid(next, s.grid) {
		return false
	}
	s.grid = next
	return true
}

// AddTrack appends an empty track
func (s *Store) AddTrack() bool {
	next := s.grid.AddTrack(s.TotalSteps(), s.limits.MaxTracks)
	if len(next) == len(s.grid) {
		return false
	}
	s.grid = next
	return true
}

// RemoveTrack deletes a track
func (s *Store) RemoveTrack(row int) bool {
	next := s.grid.RemoveTrack(row, s.limits.MinTracks)
	if len(next) == len(s.grid) {
		return false
	}
	s.grid = next
	return true
}

// SetBars changes the bar count. A shrink that would drop notes asks
// confirm first; a nil confirm declines it.
func (s *Store) SetBars(n int, confirm Confirmer) bool {
	n = clamp(n, s.limits.MinBars, s.limits.MaxBars)
	if n == s.bars {
		return false
	}
	stepsPerBar := s.tempo.StepsPerBar()
	if n < s.bars && s.grid.DiscardsOnShrink(n*stepsPerBar) {
		if confirm == nil || !confirm.Confirm(PromptShrinkBars) {
			debug.Log("store", "bar shrink %d->%d declined", s.bars, n)
			return false
		}
	}
	s.grid = s.grid.ResizeByBars(s.bars, n, stepsPerBar)
	s.bars = n
	return true
}

// SetBeats changes beats per bar, saving the current grid to history first
func (s *Store) SetBeats(n int) bool {
	n = clamp(n, s.limits.MinBeats, s.limits.MaxBeats)
	old := s.tempo.BeatsPerBar
	if n == old {
		return false
	}
	s.history.Push(old, s.grid)
	s.grid = s.grid.ResizeByBeats(old, n, s.bars)
	s.tempo.BeatsPerBar = n
	return true
}

// SetBPM changes the tempo
func (s *Store) SetBPM(bpm int) bool {
	bpm = clamp(bpm, s.limits.MinBPM, s.limits.MaxBPM)
	if bpm == s.tempo.BPM {
		return false
	}
	s.tempo.BPM = bpm
	return true
}

// RestoreBeats replaces the grid with the most recent snapshot taken at
// exactly target beats per bar. Rows are fitted to the current bar count in
// case bars changed since the snapshot. Restoring the current beat count is
// a no-op so edits made since the last restore are kept.
func (s *Store) RestoreBeats(target int) bool {
	if target == s.tempo.BeatsPerBar {
		return false
	}
	g, ok := s.history.Lookup(target)
	if !ok {
		return false
	}
	total := s.bars * target * StepsPerBeat
	for i, r := range g {
		if len(r) != total {
			g[i] = r.fit(total)
		}
	}
	s.grid = g
	s.tempo.BeatsPerBar = target
	return true
}

// Reset clears everything down to one empty track (or the track minimum)
// after confirmation
func (s *Store) Reset(confirm Confirmer) bool {
	if confirm == nil || !confirm.Confirm(PromptReset) {
		return false
	}
	s.grid = s.fitTracks(Grid{NewEmptyRow(s.TotalSteps())})
	s.history.Clear()
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sameGrid reports whether two grids share identical row backing arrays
func sameGrid(a, b Grid) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		if len(a[i]) > 0 && &a[i][0] != &b[i][0] {
			return false
		}
	}
	return true
}
