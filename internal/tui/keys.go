package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap lists the bindings of the grid. It satisfies help.KeyMap.
type keyMap struct {
	Left, Right, Up, Down key.Binding
	PageUp, PageDown      key.Binding
	Weekend               key.Binding
	Details               key.Binding
	Delete                key.Binding
	Save                  key.Binding
	Refresh               key.Binding
	Switch                key.Binding
	New                   key.Binding
	Rename                key.Binding
	Favorite              key.Binding
	Generate              key.Binding
	NextCandidate         key.Binding
	PrevCandidate         key.Binding
	Accept                key.Binding
	Discard               key.Binding
	Analyze               key.Binding
	Summary               key.Binding
	Copy                  key.Binding
	Help                  key.Binding
	Quit                  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:          key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "day")),
		Right:         key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "day")),
		Up:            key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "earlier")),
		Down:          key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "later")),
		PageUp:        key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:      key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Weekend:       key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "weekend")),
		Details:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Delete:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove item")),
		Save:          key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Refresh:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "sync")),
		Switch:        key.NewBinding(key.WithKeys("tab", "o"), key.WithHelp("tab", "schedules")),
		New:           key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new schedule")),
		Rename:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Favorite:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		Generate:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
		NextCandidate: key.NewBinding(key.WithKeys("n", "]"), key.WithHelp("n", "next option")),
		PrevCandidate: key.NewBinding(key.WithKeys("p", "["), key.WithHelp("p", "prev option")),
		Accept:        key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "keep option")),
		Discard:       key.NewBinding(key.WithKeys("esc", "d"), key.WithHelp("esc", "discard")),
		Analyze:       key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "analyze")),
		Summary:       key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "week summary")),
		Copy:          key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy grid")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Generate, k.Switch, k.Summary, k.Help, k.Quit}
}

// FullHelp is shown in the help modal.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.PageUp, k.PageDown, k.Weekend},
		{k.Details, k.Delete, k.Save, k.Refresh, k.Copy, k.Summary},
		{k.Switch, k.New, k.Rename, k.Favorite, k.Analyze},
		{k.Generate, k.NextCandidate, k.PrevCandidate, k.Accept, k.Discard, k.Help, k.Quit},
	}
}

// previewKeys is the footer help while a generated schedule is shown.
type previewKeys struct{ k keyMap }

func (p previewKeys) ShortHelp() []key.Binding {
	return []key.Binding{p.k.NextCandidate, p.k.PrevCandidate, p.k.Accept, p.k.Discard}
}

func (p previewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{p.ShortHelp()}
}
