package tui

import (
	"go-stepgrid/debug"
	"go-stepgrid/midi"
	"go-stepgrid/sequencer"
	"go-stepgrid/theme"
	"go-stepgrid/widgets"
)

// padView mirrors an 8-step page of the grid onto a Launchpad
type padView struct {
	theme *theme.Theme
	ctrl  midi.Controller
	prev  map[[2]int][3]uint8
}

func newPadView(th *theme.Theme) *padView {
	return &padView{theme: th}
}

func (p *padView) active() bool { return p.ctrl != nil }

func (p *padView) attached(id string) bool {
	return p.ctrl != nil && p.ctrl.ID() == id
}

// attach uses c if no controller is attached yet
func (p *padView) attach(c midi.Controller) bool {
	if p.ctrl != nil || c == nil {
		return false
	}
	p.ctrl = c
	p.prev = nil
	debug.Log("led", "attached %s", c.ID())
	return true
}

func (p *padView) detach(id string) {
	if !p.attached(id) {
		return
	}
	debug.Log("led", "detached %s", id)
	p.ctrl = nil
	p.prev = nil
}

// clear turns every lit pad off
func (p *padView) clear() {
	if p.ctrl == nil {
		return
	}
	var off widgets.PadGrid
	if err := p.flush(off); err != nil {
		debug.Error("led", err)
	}
}

// flush sends only changed LEDs to the controller
func (p *padView) flush(colors widgets.PadGrid) error {
	if p.ctrl == nil {
		return nil
	}
	next := make(map[[2]int][3]uint8, midi.GridRows*midi.GridCols)
	var updates []midi.LEDUpdate
	for row := 0; row < midi.GridRows; row++ {
		for col := 0; col < midi.GridCols; col++ {
			key := [2]int{row, col}
			c := colors[row][col]
			next[key] = c
			if prev, ok := p.prev[key]; !ok || prev != c {
				updates = append(updates, midi.LEDUpdate{Row: row, Col: col, Color: c})
			}
		}
	}
	if len(updates) == 0 {
		return nil
	}
	debug.Log("led", "flush: batch=%d", len(updates))
	p.prev = next
	return p.ctrl.SetLEDBatch(updates)
}

// padColors renders tracks top-down from pad row 7, steps from first
func padColors(th *theme.Theme, g sequencer.Grid, first, playhead int) widgets.PadGrid {
	var out widgets.PadGrid
	for track := 0; track < midi.GridRows && track < len(g); track++ {
		row := midi.GridRows - 1 - track
		for col := 0; col < midi.GridCols; col++ {
			step := first + col
			if step >= len(g[track]) {
				continue
			}
			cell := g[track][step]
			switch {
			case cell != sequencer.Empty && step == playhead:
				out[row][col] = th.RGB(theme.RoleSuccess)
			case cell != sequencer.Empty:
				out[row][col] = th.SampleRGB(string(cell))
			case step == playhead:
				out[row][col] = th.RGB(theme.RoleSurface)
			}
		}
	}
	return out
}
