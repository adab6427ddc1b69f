package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap lists every binding of the main screen. It implements help.KeyMap.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Append      key.Binding
	NextFocus   key.Binding
	PrevFocus   key.Binding
	Search      key.Binding
	Back        key.Binding
	NextGroup   key.Binding
	PrevGroup   key.Binding
	AllGroups   key.Binding
	Open        key.Binding
	Reload      key.Binding
	ToggleMode  key.Binding
	Copy        key.Binding
	ClearEditor key.Binding
	ClearAll    key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Top:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first row")),
		Bottom:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last row")),
		Append:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "append row")),
		NextFocus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		PrevFocus:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to rows")),
		NextGroup:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "next group")),
		PrevGroup:   key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "prev group")),
		AllGroups:   key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "all groups")),
		Open:        key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open csv")),
		Reload:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		ToggleMode:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "plain/grouped")),
		Copy:        key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
		ClearEditor: key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "clear editor")),
		ClearAll:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear all")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Append, k.Search, k.NextGroup, k.Copy, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom, k.Append},
		{k.NextFocus, k.PrevFocus, k.Search, k.Back, k.NextGroup, k.PrevGroup, k.AllGroups},
		{k.Open, k.Reload, k.ToggleMode, k.Copy, k.ClearEditor, k.ClearAll},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
