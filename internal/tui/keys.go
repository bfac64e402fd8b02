package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Step  key.Binding
	Run   key.Binding
	Play  key.Binding
	Reset key.Binding
	Pane  key.Binding
	Up    key.Binding
	Down  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Step:  key.NewBinding(key.WithKeys("n", " "), key.WithHelp("n/space", "step")),
	Run:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run to end")),
	Play:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play/pause")),
	Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
	Pane:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "tree/views")),
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "scroll up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "scroll down")),
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Step, k.Run, k.Pane, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Step, k.Run, k.Play, k.Reset},
		{k.Pane, k.Up, k.Down},
		{k.Help, k.Quit},
	}
}
