package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-stepgrid/debug"
	"go-stepgrid/midi"
	"go-stepgrid/sequencer"
	"go-stepgrid/theme"
	"go-stepgrid/widgets"
)

// pageSize is how many steps the grid shows at once
const pageSize = 16

// Options configures the TUI host
type Options struct {
	FPS       int
	BPMStep   int
	Backend   string              // shown in the header
	Devices   *midi.DeviceManager // nil disables grid controllers
	Launchpad bool                // show the pad preview
}

type pendingConfirm struct {
	prompt string
	run    func(sequencer.Confirmer) error
}

type Model struct {
	ctx     context.Context
	mgr     *sequencer.Manager
	theme   *theme.Theme
	opts    Options
	keys    keyMap
	help    help.Model
	samples []sequencer.Sample

	row, col int
	sample   int
	follow   bool
	confirm  *pendingConfirm
	status   string
	pads     *padView
	quitting bool
}

type frameMsg time.Time

type DeviceEventMsg midi.DeviceEvent

type PadMsg struct {
	ID  string
	Pad midi.PadEvent
}

func NewModel(ctx context.Context, mgr *sequencer.Manager, th *theme.Theme, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.BPMStep <= 0 {
		opts.BPMStep = 5
	}
	return Model{
		ctx:     ctx,
		mgr:     mgr,
		theme:   th,
		opts:    opts,
		keys:    defaultKeyMap(),
		help:    help.New(),
		samples: sequencer.AllSamples(),
		follow:  true,
		pads:    newPadView(th),
	}
}

func frameTick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	if deviceMgr == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func ListenForPads(c midi.Controller) tea.Cmd {
	return func() tea.Msg {
		pad, ok := <-c.PadEvents()
		if !ok {
			return nil
		}
		return PadMsg{ID: c.ID(), Pad: pad}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameTick(m.opts.FPS), ListenForDevices(m.opts.Devices))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if m.confirm != nil {
			m.answer(msg)
			return m, nil
		}
		return m.handleKey(msg)

	case frameMsg:
		m.mgr.Tick()
		m.flushPads()
		return m, frameTick(m.opts.FPS)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		var cmd tea.Cmd
		switch event.Type {
		case midi.DeviceConnected:
			if m.pads.attach(event.Controller) {
				cmd = ListenForPads(event.Controller)
				m.flushPads()
			}
		case midi.DeviceDisconnected:
			m.pads.detach(event.ID)
		}
		return m, tea.Batch(cmd, ListenForDevices(m.opts.Devices))

	case PadMsg:
		if !m.pads.attached(msg.ID) {
			return m, nil
		}
		m.handlePad(msg.Pad)
		return m, ListenForPads(m.pads.ctrl)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		m.mgr.Close()
		m.pads.clear()
		return m, tea.Quit

	case key.Matches(msg, k.Left):
		m.moveCol(-1)
	case key.Matches(msg, k.Right):
		m.moveCol(1)
	case key.Matches(msg, k.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, k.Down):
		if m.row < len(m.mgr.Grid())-1 {
			m.row++
		}

	case key.Matches(msg, k.Toggle):
		m.setErr(m.mgr.ToggleCell(m.row, m.col))
	case key.Matches(msg, k.Play):
		m.follow = true
		m.setErr(m.mgr.TogglePlayback(m.ctx))

	case key.Matches(msg, k.PrevSample):
		m.sample = (m.sample + len(m.samples) - 1) % len(m.samples)
	case key.Matches(msg, k.NextSample):
		m.sample = (m.sample + 1) % len(m.samples)
	case key.Matches(msg, k.Select):
		m.mgr.SetTool(m.samples[m.sample].ID)
	case key.Matches(msg, k.ClearTool):
		m.mgr.ClearTool()

	case key.Matches(msg, k.BPMUp):
		m.setErr(m.mgr.AdjustBPM(m.opts.BPMStep))
	case key.Matches(msg, k.BPMDown):
		m.setErr(m.mgr.AdjustBPM(-m.opts.BPMStep))
	case key.Matches(msg, k.BarsUp):
		m.setErr(m.mgr.AdjustBars(1, nil))
	case key.Matches(msg, k.BarsDown):
		m.guarded(func(c sequencer.Confirmer) error { return m.mgr.AdjustBars(-1, c) })
	case key.Matches(msg, k.BeatsUp):
		m.setErr(m.mgr.AdjustBeats(1))
	case key.Matches(msg, k.BeatsDown):
		m.setErr(m.mgr.AdjustBeats(-1))
	case key.Matches(msg, k.Undo):
		m.setErr(m.mgr.UndoBeats())

	case key.Matches(msg, k.AddTrack):
		m.setErr(m.mgr.AddTrack())
	case key.Matches(msg, k.DelTrack):
		m.setErr(m.mgr.RemoveTrack(m.row))
	case key.Matches(msg, k.Reset):
		m.guarded(m.mgr.Reset)

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	m.clampCursor()
	m.flushPads()
	return m, nil
}

// guarded runs an edit that may ask for confirmation. The first run declines
// and records the prompt; the dialog replays the edit with the user's answer.
func (m *Model) guarded(run func(sequencer.Confirmer) error) {
	var asked string
	err := run(sequencer.ConfirmFunc(func(prompt string) bool {
		asked = prompt
		return false
	}))
	if asked != "" {
		m.confirm = &pendingConfirm{prompt: asked, run: run}
		return
	}
	m.setErr(err)
}

func (m *Model) answer(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		pending := m.confirm
		m.confirm = nil
		m.setErr(pending.run(sequencer.Always))
		m.clampCursor()
		m.flushPads()
	case key.Matches(msg, m.keys.No):
		m.confirm = nil
	}
}

func (m *Model) handlePad(pad midi.PadEvent) {
	if pad.Velocity == 0 {
		return
	}
	switch {
	case pad.Row < midi.GridRows && pad.Col < midi.GridCols:
		row := midi.GridRows - 1 - pad.Row
		step := m.padPage()*midi.GridCols + pad.Col
		m.row, m.col = row, step
		m.setErr(m.mgr.ToggleCell(row, step))
	case pad.Row == midi.GridRows && pad.Col == 0:
		m.follow = true
		m.setErr(m.mgr.TogglePlayback(m.ctx))
	case pad.Row == midi.GridRows && pad.Col == 2:
		m.moveCol(-midi.GridCols)
	case pad.Row == midi.GridRows && pad.Col == 3:
		m.moveCol(midi.GridCols)
	case pad.Col == midi.GridCols:
		// scene buttons pick a sample for the track on that row
		row := midi.GridRows - 1 - pad.Row
		if id := firstSample(m.mgr.Grid(), row); id != sequencer.Empty {
			m.mgr.SetTool(id)
		}
	}
	m.clampCursor()
	m.flushPads()
}

func (m *Model) moveCol(delta int) {
	m.col += delta
	m.follow = false
	m.clampCursor()
}

func (m *Model) clampCursor() {
	rows, total := len(m.mgr.Grid()), m.mgr.TotalSteps()
	m.row = clampInt(m.row, 0, rows-1)
	m.col = clampInt(m.col, 0, total-1)
}

func (m *Model) setErr(err error) {
	if err == nil {
		m.status = ""
		return
	}
	debug.Error("tui", err)
	m.status = err.Error()
}

// page returns which n-step window is shown. While playing
// with follow on, the window tracks the playhead; otherwise the cursor.
func (m Model) page(n int) int {
	if step := m.mgr.Step(); m.follow && m.mgr.Playing() && step != sequencer.NoStep {
		return step / n
	}
	return m.col / n
}

func (m Model) padPage() int { return m.page(midi.GridCols) }

func (m *Model) flushPads() {
	if !m.pads.active() {
		return
	}
	colors := padColors(m.theme, m.mgr.Grid(), m.padPage()*midi.GridCols, m.mgr.Step())
	if err := m.pads.flush(colors); err != nil {
		debug.Error("launchpad", err)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.theme.Warning())

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(m.header()))
	out.WriteString("\n")
	out.WriteString(dimStyle.Render(m.toolLine()))
	out.WriteString("\n\n")

	grid := m.renderGrid()
	if m.opts.Launchpad {
		preview := widgets.RenderPadGrid(padColors(m.theme, m.mgr.Grid(), m.padPage()*midi.GridCols, m.mgr.Step()), nil)
		grid = lipgloss.JoinHorizontal(lipgloss.Top, grid, "    ", preview)
	}
	out.WriteString(grid)
	out.WriteString("\n\n")
	out.WriteString(m.renderSamples())
	out.WriteString("\n\n")

	if m.confirm != nil {
		dialog := lipgloss.NewStyle().
			Foreground(m.theme.FG()).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.theme.Warning()).
			Padding(0, 1).
			Render(m.confirm.prompt + "  " + m.help.View(confirmKeys{m.keys.Yes, m.keys.No}))
		out.WriteString(dialog)
		out.WriteString("\n")
	} else if m.status != "" {
		out.WriteString(warnStyle.Render("! " + m.status))
		out.WriteString("\n")
	}

	out.WriteString(m.help.View(m.keys))
	return out.String()
}

func (m Model) header() string {
	tempo := m.mgr.Tempo()
	state := "STOP"
	if m.mgr.Playing() {
		state = "PLAY"
	}
	step := "--"
	if s := m.mgr.Step(); s != sequencer.NoStep {
		step = fmt.Sprintf("%02d", s+1)
	}
	s := fmt.Sprintf("go-stepgrid  %s  %3dbpm  %d/4  %d bars  step %s/%02d",
		state, tempo.BPM, tempo.BeatsPerBar, m.mgr.Bars(), step, m.mgr.TotalSteps())
	if m.opts.Backend != "" {
		s += "  → " + m.opts.Backend
	}
	if m.pads.active() {
		s += "  LP"
	}
	return s
}

func (m Model) toolLine() string {
	tool := m.mgr.Tool()
	if tool == sequencer.NoTool {
		return "tool: none (enter clears cells)"
	}
	return fmt.Sprintf("tool: %s (%s)", tool, sequencer.SampleName(tool))
}

func (m Model) renderGrid() string {
	g := m.mgr.Grid()
	total := m.mgr.TotalSteps()
	perBar := m.mgr.Tempo().StepsPerBar()
	playhead := m.mgr.Step()
	sym := m.theme.Symbols

	first := m.page(pageSize) * pageSize
	last := first + pageSize
	if last > total {
		last = total
	}

	muted := lipgloss.NewStyle().Foreground(m.theme.Muted())
	cursorBG := lipgloss.NewStyle().Background(m.theme.Surface())

	var lines []string
	for r := range g {
		var line strings.Builder
		label := fmt.Sprintf("%d %-6s", r+1, firstSample(g, r))
		if r == m.row {
			line.WriteString(lipgloss.NewStyle().Foreground(m.theme.Cursor()).Render(label))
		} else {
			line.WriteString(muted.Render(label))
		}
		line.WriteString(" ")

		for i := first; i < last; i++ {
			if i > first {
				switch {
				case i%perBar == 0:
					line.WriteString(muted.Render("│"))
				case i%sequencer.StepsPerBeat == 0:
					line.WriteString(" ")
				}
			}

			cell := g.Cell(r, i)
			filled := cell != sequencer.Empty
			onCursor := r == m.row && i == m.col
			var ch rune
			style := muted
			switch {
			case onCursor && filled:
				ch = sym.CursorActive
			case onCursor:
				ch = sym.CursorEmpty
			case filled:
				ch = sym.StepActive
			case i == playhead:
				ch = sym.StepPlayhead
			default:
				ch = sym.StepEmpty
			}
			if filled {
				style = lipgloss.NewStyle().Foreground(m.theme.SampleColor(string(cell)))
			}
			if i == playhead {
				style = style.Foreground(m.theme.Success())
				if filled {
					style = style.Reverse(true)
				}
			}
			if onCursor {
				style = style.Inherit(cursorBG)
			}
			line.WriteString(style.Render(string(ch)))
		}
		lines = append(lines, line.String())
	}

	pages := (total + pageSize - 1) / pageSize
	lines = append(lines, muted.Render(fmt.Sprintf("page %d/%d", first/pageSize+1, pages)))
	return strings.Join(lines, "\n")
}

func (m Model) renderSamples() string {
	tool := m.mgr.Tool()
	items := make([]string, len(m.samples))
	for i, s := range m.samples {
		name := string(s.ID)
		switch {
		case i == m.sample && s.ID == tool:
			name = "[" + name + "]*"
		case i == m.sample:
			name = "[" + name + "]"
		case s.ID == tool:
			name += "*"
		}
		items[i] = widgets.RenderLegendItem(m.theme.SampleRGB(string(s.ID)), name, "")
	}
	return widgets.RenderLegend(items, 5)
}

// firstSample returns the first sample placed on a track, used as its label
func firstSample(g sequencer.Grid, row int) sequencer.Cell {
	if row < 0 || row >= len(g) {
		return sequencer.Empty
	}
	for _, c := range g[row] {
		if c != sequencer.Empty {
			return c
		}
	}
	return sequencer.Empty
}

func clampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
