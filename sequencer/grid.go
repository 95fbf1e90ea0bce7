package sequencer

// Cell holds a sample identifier, or Empty
type Cell string

// Empty marks a step with no sample
const Empty Cell = "-"

// NoTool means no sample is selected for painting
const NoTool Cell = ""

// Row is one track: a sample or Empty per step
type Row []Cell

// Grid is the full track x step matrix. Grids and rows are treated as
// immutable values: transitions return new grids and copy only the rows
// they touch.
type Grid []Row

// NewEmptyRow returns a row of n empty steps
func NewEmptyRow(n int) Row {
	r := make(Row, n)
	for i := range r {
		r[i] = Empty
	}
	return r
}

// DefaultGrid returns the starter pattern: kick on every beat, clap on the
// backbeat, open hat and bass on the off-beats
func DefaultGrid(bars, beatsPerBar int) Grid {
	total := bars * beatsPerBar * StepsPerBeat
	kick := NewEmptyRow(total)
	clap := NewEmptyRow(total)
	hat := NewEmptyRow(total)
	bass := NewEmptyRow(total)
	for i := 0; i < total; i++ {
		if i%4 == 0 {
			kick[i] = "bd"
		}
		if i%16 == 4 || i%16 == 12 {
			clap[i] = "cp"
		}
		if i%4 == 2 {
			hat[i] = "808oh"
			bass[i] = "bass"
		}
	}
	return Grid{kick, clap, hat, bass}
}

// IsEmpty reports whether the row has no samples
func (r Row) IsEmpty() bool {
	for _, c := range r {
		if c != Empty {
			return false
		}
	}
	return true
}

// Copy returns a copy of the row
func (r Row) Copy() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// fit pads with Empty or truncates to n steps, always returning a new row
func (r Row) fit(n int) Row {
	out := make(Row, n)
	for i := range out {
		if i < len(r) {
			out[i] = r[i]
		} else {
			out[i] = Empty
		}
	}
	return out
}

// Copy returns a deep copy of the grid
func (g Grid) Copy() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, r := range g {
		out[i] = r.Copy()
	}
	return out
}

// Cell returns the cell at row, step or Empty when out of range
func (g Grid) Cell(row, step int) Cell {
	if row < 0 || row >= len(g) || step < 0 || step >= len(g[row]) {
		return Empty
	}
	return g[row][step]
}

// Filled counts non-empty cells
func (g Grid) Filled() int {
	n := 0
	for _, r := range g {
		for _, c := range r {
			if c != Empty {
				n++
			}
		}
	}
	return n
}

// ToggleCell clears the cell if it already holds tool or no tool is active,
// otherwise paints it with tool. Out-of-range coordinates return g unchanged.
func (g Grid) ToggleCell(row, step int, tool Cell) Grid {
	if row < 0 || row >= len(g) || step < 0 || step >= len(g[row]) {
		return g
	}
	next := Empty
	if tool != NoTool && g[row][step] != tool {
		next = tool
	}
	out := make(Grid, len(g))
	copy(out, g)
	out[row] = g[row].Copy()
	out[row][step] = next
	return out
}

// AddTrack appends an empty track unless the grid already has maxTracks
func (g Grid) AddTrack(totalSteps, maxTracks int) Grid {
	if len(g) >= maxTracks {
		return g
	}
	out := make(Grid, len(g), len(g)+1)
	copy(out, g)
	return append(out, NewEmptyRow(totalSteps))
}

// RemoveTrack deletes a track unless that would leave fewer than minTracks
func (g Grid) RemoveTrack(row, minTracks int) Grid {
	if len(g) <= minTracks || row < 0 || row >= len(g) {
		return g
	}
	out := make(Grid, 0, len(g)-1)
	out = append(out, g[:row]...)
	return append(out, g[row+1:]...)
}

// ResizeByBars grows every row with empty steps or truncates it. Shrinking
// discards the tail.
func (g Grid) ResizeByBars(oldBars, newBars, stepsPerBar int) Grid {
	if oldBars == newBars {
		return g
	}
	total := newBars * stepsPerBar
	out := make(Grid, len(g))
	for i, r := range g {
		out[i] = r.fit(total)
	}
	return out
}

// DiscardsOnShrink reports whether truncating rows to total steps would drop
// a non-empty cell
func (g Grid) DiscardsOnShrink(total int) bool {
	for _, r := range g {
		if len(r) > total && !r[total:].IsEmpty() {
			return true
		}
	}
	return false
}

// ResizeByBeats resizes each bar of every row independently, so beat 1 of
// bar 2 stays on beat 1 of bar 2. Shrinking drops the tail of each bar.
func (g Grid) ResizeByBeats(oldBeats, newBeats, bars int) Grid {
	oldWidth := oldBeats * StepsPerBeat
	newWidth := newBeats * StepsPerBeat
	out := make(Grid, len(g))
	for i, r := range g {
		row := make(Row, 0, bars*newWidth)
		for b := 0; b < bars; b++ {
			start := b * oldWidth
			end := start + oldWidth
			if start > len(r) {
				start = len(r)
			}
			if end > len(r) {
				end = len(r)
			}
			row = append(row, r[start:end].fit(newWidth)...)
		}
		out[i] = row
	}
	return out
}
