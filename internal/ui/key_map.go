package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	back       key.Binding
	playPause  key.Binding
	next       key.Binding
	previous   key.Binding
	shuffle    key.Binding
	repeat     key.Binding
	volumeUp   key.Binding
	volumeDown key.Binding
	search     key.Binding
	like       key.Binding
	devices    key.Binding
	saved      key.Binding
	recent     key.Binding
	recommend  key.Binding
	analysis   key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		playPause:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		previous:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		shuffle:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		repeat:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		volumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "vol up")),
		volumeDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "vol down")),
		search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		like:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		devices:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "devices")),
		saved:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "liked songs")),
		recent:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "recent")),
		recommend:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "radio")),
		analysis:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "analysis")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.playPause, k.search, k.enter, k.back, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.playPause, k.next, k.previous, k.shuffle, k.repeat},
		{k.volumeUp, k.volumeDown, k.like, k.recommend, k.analysis},
		{k.search, k.devices, k.saved, k.recent, k.quit},
	}
}
