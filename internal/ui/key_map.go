package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next   key.Binding
	prev   key.Binding
	submit key.Binding
	up     key.Binding
	down   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		up:     key.NewBinding(key.WithKeys("up", "pgup"), key.WithHelp("↑", "up")),
		down:   key.NewBinding(key.WithKeys("down", "pgdown"), key.WithHelp("↓", "down")),
		quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.submit, k.next, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.submit, k.up, k.down},
		{k.next, k.prev, k.quit},
	}
}
