package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left, Right, Up, Down key.Binding
	Toggle                key.Binding
	Play                  key.Binding
	PrevSample            key.Binding
	NextSample            key.Binding
	Select                key.Binding
	ClearTool             key.Binding
	BPMUp, BPMDown        key.Binding
	BarsUp, BarsDown      key.Binding
	BeatsUp, BeatsDown    key.Binding
	Undo                  key.Binding
	AddTrack, DelTrack    key.Binding
	Reset                 key.Binding
	Help                  key.Binding
	Quit                  key.Binding

	Yes, No key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "step")),
		Right:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "step")),
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "track")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "track")),
		Toggle:     key.NewBinding(key.WithKeys("enter", "x"), key.WithHelp("enter", "toggle cell")),
		Play:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/stop")),
		PrevSample: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev sample")),
		NextSample: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next sample")),
		Select:     key.NewBinding(key.WithKeys("t", "tab"), key.WithHelp("t", "pick sample")),
		ClearTool:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "drop sample")),
		BPMUp:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "bpm")),
		BPMDown:    key.NewBinding(key.WithKeys("-", "_")),
		BarsUp:     key.NewBinding(key.WithKeys("B"), key.WithHelp("B/b", "bars")),
		BarsDown:   key.NewBinding(key.WithKeys("b")),
		BeatsUp:    key.NewBinding(key.WithKeys("M"), key.WithHelp("M/m", "beats")),
		BeatsDown:  key.NewBinding(key.WithKeys("m")),
		Undo:       key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo beats")),
		AddTrack:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add track")),
		DelTrack:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "del track")),
		Reset:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Yes: key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y", "yes")),
		No:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Toggle, k.Select, k.BPMUp, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Toggle, k.PrevSample, k.NextSample, k.Select, k.ClearTool},
		{k.Play, k.BPMUp, k.BarsUp, k.BeatsUp, k.Undo},
		{k.AddTrack, k.DelTrack, k.Reset, k.Help, k.Quit},
	}
}

type confirmKeys struct{ yes, no key.Binding }

func (k confirmKeys) ShortHelp() []key.Binding  { return []key.Binding{k.yes, k.no} }
func (k confirmKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
