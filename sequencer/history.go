package sequencer

// DefaultHistorySize is the beat history capacity used when none is configured
const DefaultHistorySize = 20

// HistoryEntry is a grid snapshot taken before a beats-per-bar change
type HistoryEntry struct {
	BeatsPerBar int
	Grid        Grid
}

// BeatHistory is a fixed-capacity ring of HistoryEntry. Pushing onto a full
// ring overwrites the oldest entry.
type BeatHistory struct {
	entries []HistoryEntry
	start   int // index of the oldest entry
	size    int
}

// NewBeatHistory creates a ring holding up to capacity entries
func NewBeatHistory(capacity int) *BeatHistory {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &BeatHistory{entries: make([]HistoryEntry, capacity)}
}

// Push stores a deep copy of the grid under beatsPerBar
func (h *BeatHistory) Push(beatsPerBar int, g Grid) {
	entry := HistoryEntry{BeatsPerBar: beatsPerBar, Grid: g.Copy()}
	if h.size < len(h.entries) {
		h.entries[(h.start+h.size)%len(h.entries)] = entry
		h.size++
		return
	}
	h.entries[h.start] = entry
	h.start = (h.start + 1) % len(h.entries)
}

// Lookup returns a deep copy of the most recent grid saved under exactly
// beatsPerBar
func (h *BeatHistory) Lookup(beatsPerBar int) (Grid, bool) {
	for i := h.size - 1; i >= 0; i-- {
		e := h.at(i)
		if e.BeatsPerBar == beatsPerBar {
			return e.Grid.Copy(), true
		}
	}
	return nil, false
}

// Last returns the most recent entry
func (h *BeatHistory) Last() (HistoryEntry, bool) {
	if h.size == 0 {
		return HistoryEntry{}, false
	}
	return h.at(h.size - 1), true
}

// Len returns the number of stored entries
func (h *BeatHistory) Len() int { return h.size }

// Cap returns the ring capacity
func (h *BeatHistory) Cap() int { return len(h.entries) }

// Clear drops every entry
func (h *BeatHistory) Clear() {
	for i := range h.entries {
		h.entries[i] = HistoryEntry{}
	}
	h.start, h.size = 0, 0
}

// at returns the i-th entry counting from the oldest
func (h *BeatHistory) at(i int) HistoryEntry {
	return h.entries[(h.start+i)%len(h.entries)]
}
