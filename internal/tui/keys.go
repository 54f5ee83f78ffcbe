package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the dashboard key bindings
type KeyMap struct {
	Send          key.Binding
	Stop          key.Binding
	Retry         key.Binding
	RefreshStatus key.Binding
	NextPanel     key.Binding
	PrevPanel     key.Binding
	Quit          key.Binding
}

var dashKeys = KeyMap{
	Send:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Send")),
	Stop:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Stop")),
	Retry:         key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("Ctrl+R", "Retry")),
	RefreshStatus: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("Ctrl+S", "Status")),
	NextPanel:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "Panel")),
	PrevPanel:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("Shift+Tab", "Back")),
	Quit:          key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "Quit")),
}
