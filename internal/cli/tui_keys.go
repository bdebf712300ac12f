package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/pacview/pkg/nav"
)

// keyMap holds the browser's key bindings.
type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Enter    key.Binding
	Sort     key.Binding
	Filter   key.Binding
	Search   key.Binding
	Next     key.Binding
	Prev     key.Binding
	Help     key.Binding
	Quit     key.Binding

	// Active only while a search query is being typed.
	Confirm key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/→", "move between lists"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/↓", "move in list"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup/pgdown", "move a page in list"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "1"),
		key.WithHelp("1/0", "start/end of list"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "0"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "focus package in the middle list"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort by name or size"),
	),
	Filter: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "toggle explicitly installed only"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search (enter confirms, esc cancels)"),
	),
	Next: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "next match"),
	),
	Prev: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "previous match"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "c", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
	),
}

// bindings pairs each browsing key with its navigation action, in help
// table order.
func (k keyMap) bindings() []struct {
	binding key.Binding
	action  nav.Action
} {
	return []struct {
		binding key.Binding
		action  nav.Action
	}{
		{k.Left, nav.MoveLeft},
		{k.Right, nav.MoveRight},
		{k.Up, nav.MoveUp},
		{k.Down, nav.MoveDown},
		{k.PageUp, nav.PageUp},
		{k.PageDown, nav.PageDown},
		{k.Home, nav.Home},
		{k.End, nav.End},
		{k.Enter, nav.Enter},
		{k.Sort, nav.ToggleSort},
		{k.Filter, nav.ToggleFilter},
		{k.Search, nav.EnterSearch},
		{k.Next, nav.SearchNext},
		{k.Prev, nav.SearchPrev},
		{k.Help, nav.ToggleHelp},
		{k.Quit, nav.Quit},
	}
}

// actionFor maps a key press to an action. While searching only the confirm
// and cancel keys map to actions; every other key edits the query.
func actionFor(msg tea.KeyMsg, searching bool) nav.Action {
	if searching {
		switch {
		case key.Matches(msg, keys.Confirm):
			return nav.SearchConfirm
		case key.Matches(msg, keys.Cancel):
			return nav.SearchCancel
		}
		return nav.None
	}
	for _, b := range keys.bindings() {
		if key.Matches(msg, b.binding) {
			return b.action
		}
	}
	return nav.None
}

// helpRows returns the key/description pairs shown in the help table.
func helpRows() [][]string {
	var rows [][]string
	for _, b := range keys.bindings() {
		h := b.binding.Help()
		if h.Key == "" {
			continue
		}
		rows = append(rows, []string{h.Key, h.Desc})
	}
	return rows
}
