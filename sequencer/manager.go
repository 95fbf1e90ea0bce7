package sequencer

import (
	"context"

	"go-stepgrid/debug"
)

// Options configures a Manager
type Options struct {
	Limits      Limits
	Bars        int
	BeatsPerBar int
	BPM         int
	HistorySize int
	Frames      FrameScheduler // nil uses a new FrameLoop
}

// DefaultOptions returns the stock configuration
func DefaultOptions() Options {
	return Options{
		Limits:      DefaultLimits(),
		Bars:        2,
		BeatsPerBar: 4,
		BPM:         120,
		HistorySize: DefaultHistorySize,
	}
}

// Manager sequences store edits, pattern recompiles, playback and the
// visual playhead. It is not safe for concurrent use; the host calls it
// from a single event loop.
type Manager struct {
	store    *Store
	ctrl     *Controller
	playhead *PlayheadSync
	frames   FrameScheduler

	step int

	// OnStep is called whenever the visual step changes, including NoStep
	OnStep func(step int)
}

// NewManager creates a manager holding the default grid and no backend
func NewManager(opts Options) *Manager {
	frames := opts.Frames
	if frames == nil {
		frames = NewFrameLoop()
	}
	m := &Manager{
		store:  NewStore(opts.Limits, opts.Bars, opts.BeatsPerBar, opts.BPM, opts.HistorySize),
		ctrl:   NewController(),
		frames: frames,
		step:   NoStep,
	}
	m.playhead = NewPlayheadSync(frames, m.ctrl, m.timing, m.setStep)
	m.ctrl.OnStop(m.playhead.Stop)
	return m
}

// Bind attaches a playback backend
func (m *Manager) Bind(t Transport, clk Clock) {
	m.ctrl.Bind(t, clk)
}

// Frames returns the frame scheduler the playhead runs on
func (m *Manager) Frames() FrameScheduler { return m.frames }

// Store returns the underlying store
func (m *Manager) Store() *Store { return m.store }

// Grid returns the live grid
func (m *Manager) Grid() Grid { return m.store.Grid() }

// Bars returns the bar count
func (m *Manager) Bars() int { return m.store.Bars() }

// Tempo returns bpm and beats per bar
func (m *Manager) Tempo() Tempo { return m.store.Tempo() }

// TotalSteps returns the loop length in steps
func (m *Manager) TotalSteps() int { return m.store.TotalSteps() }

// Tool returns the active sample
func (m *Manager) Tool() Cell { return m.store.Tool() }

// Step returns the visual step, or NoStep
func (m *Manager) Step() int { return m.step }

// Playing reports whether playback is running
func (m *Manager) Playing() bool { return m.ctrl.Playing() }

// State returns the playback state
func (m *Manager) State() PlayState { return m.ctrl.State() }

// Play starts playback
func (m *Manager) Play(ctx context.Context) error {
	if m.ctrl.Playing() {
		return nil
	}
	if err := m.ctrl.Start(ctx, m.store.Grid(), m.store.Bars(), m.cps()); err != nil {
		return err
	}
	if m.ctrl.Playing() {
		m.playhead.Start()
	}
	return nil
}

// Stop stops playback and clears the visual step
func (m *Manager) Stop() {
	m.ctrl.Stop()
	m.playhead.Stop()
}

// TogglePlayback switches between playing and stopped
func (m *Manager) TogglePlayback(ctx context.Context) error {
	if m.ctrl.Playing() {
		m.Stop()
		return nil
	}
	return m.Play(ctx)
}

// SetTool selects a sample, or deselects it if already active
func (m *Manager) SetTool(c Cell) { m.store.SetTool(c) }

// ClearTool deselects the active sample
func (m *Manager) ClearTool() { m.store.ClearTool() }

// ToggleCell paints or clears one cell
func (m *Manager) ToggleCell(row, step int) error {
	if !m.store.ToggleCell(row, step) {
		return nil
	}
	return m.recompile()
}

// AddTrack appends an empty track
func (m *Manager) AddTrack() error {
	if !m.store.AddTrack() {
		return nil
	}
	return m.recompile()
}

// RemoveTrack deletes a track
func (m *Manager) RemoveTrack(row int) error {
	if !m.store.RemoveTrack(row) {
		return nil
	}
	return m.recompile()
}

// AdjustBars changes the bar count by delta
func (m *Manager) AdjustBars(delta int, confirm Confirmer) error {
	if !m.store.SetBars(m.store.Bars()+delta, confirm) {
		return nil
	}
	return m.recompile()
}

// AdjustBeats changes beats per bar by delta
func (m *Manager) AdjustBeats(delta int) error {
	return m.SetBeats(m.store.Tempo().BeatsPerBar + delta)
}

// SetBeats changes beats per bar; the previous grid goes to history
func (m *Manager) SetBeats(n int) error {
	if !m.store.SetBeats(n) {
		return nil
	}
	return m.tempoChanged()
}

// AdjustBPM changes the tempo by delta
func (m *Manager) AdjustBPM(delta int) error {
	return m.SetBPM(m.store.Tempo().BPM + delta)
}

// SetBPM changes the tempo
func (m *Manager) SetBPM(bpm int) error {
	if !m.store.SetBPM(bpm) {
		return nil
	}
	return m.tempoChanged()
}

// RestoreBeats brings back the grid last used at target beats per bar
func (m *Manager) RestoreBeats(target int) error {
	if !m.store.RestoreBeats(target) {
		return nil
	}
	return m.tempoChanged()
}

// UndoBeats restores the snapshot taken before the most recent beat change
func (m *Manager) UndoBeats() error {
	last, ok := m.store.History().Last()
	if !ok {
		return nil
	}
	return m.RestoreBeats(last.BeatsPerBar)
}

// Reset asks for confirmation, then stops playback and clears the grid
func (m *Manager) Reset(confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(PromptReset) {
		return nil
	}
	m.Stop()
	m.store.Reset(Always)
	return m.recompile()
}

// Tick advances the frame loop when the manager owns it
func (m *Manager) Tick() {
	if l, ok := m.frames.(*FrameLoop); ok {
		l.Tick()
	}
}

// Close stops playback and the frame loop
func (m *Manager) Close() {
	m.Stop()
}

func (m *Manager) tempoChanged() error {
	m.ctrl.SetTempo(m.cps())
	return m.recompile()
}

func (m *Manager) recompile() error {
	err := m.ctrl.Recompile(m.store.Grid(), m.store.Bars(), m.cps())
	if err != nil {
		debug.Log("seq", "recompile failed: %v", err)
	}
	return err
}

func (m *Manager) cps() float64 {
	return m.store.Tempo().CyclesPerSecond()
}

func (m *Manager) timing() (float64, int) {
	return m.store.Tempo().StepsPerSecond(), m.store.TotalSteps()
}

func (m *Manager) setStep(step int) {
	m.step = step
	if m.OnStep != nil {
		m.OnStep(step)
	}
}
