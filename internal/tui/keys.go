package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Open       key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	Filter     key.Binding
	Window     key.Binding
	Scrape     key.Binding
	SwitchView key.Binding
	Help       key.Binding
	Quit       key.Binding

	// filter mode
	PrevDim   key.Binding
	NextDim   key.Binding
	PrevValue key.Binding
	NextValue key.Binding
	Clear     key.Binding
	Done      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Open:       key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("o", "open")),
		NextPage:   key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next page")),
		PrevPage:   key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "prev page")),
		Filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Window:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "window")),
		Scrape:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "scrape")),
		SwitchView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "feed/analytics")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		PrevDim:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "dimension")),
		NextDim:   key.NewBinding(key.WithKeys("right", "l")),
		PrevValue: key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "value")),
		NextValue: key.NewBinding(key.WithKeys("down", "j")),
		Clear:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear all")),
		Done:      key.NewBinding(key.WithKeys("esc", "f", "enter"), key.WithHelp("esc", "done")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.NextPage, k.PrevPage, k.Filter, k.Window, k.Scrape, k.SwitchView, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.NextPage, k.PrevPage},
		{k.Filter, k.PrevDim, k.PrevValue, k.Clear, k.Done},
		{k.Window, k.Scrape, k.SwitchView, k.Help, k.Quit},
	}
}

func (k keyMap) filterHelp() []key.Binding {
	return []key.Binding{k.PrevDim, k.PrevValue, k.Clear, k.Done}
}
