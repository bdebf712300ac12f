package nav

// Action is a discrete logical input delivered by the input dispatcher.
// Mapping raw keys to actions is the dispatcher's job.
type Action int

const (
	None Action = iota
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	PageUp
	PageDown
	Home
	End
	Enter
	ToggleSort
	ToggleFilter
	EnterSearch
	SearchConfirm
	SearchCancel
	SearchNext
	SearchPrev
	ToggleHelp
	Quit
)

var actionNames = [...]string{
	None:          "none",
	MoveLeft:      "move-left",
	MoveRight:     "move-right",
	MoveUp:        "move-up",
	MoveDown:      "move-down",
	PageUp:        "page-up",
	PageDown:      "page-down",
	Home:          "home",
	End:           "end",
	Enter:         "enter",
	ToggleSort:    "toggle-sort",
	ToggleFilter:  "toggle-filter",
	EnterSearch:   "enter-search",
	SearchConfirm: "search-confirm",
	SearchCancel:  "search-cancel",
	SearchNext:    "search-next",
	SearchPrev:    "search-prev",
	ToggleHelp:    "toggle-help",
	Quit:          "quit",
}

// String returns the kebab-case action name.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// SearchStatus reports the outcome of the most recent search step.
type SearchStatus int

const (
	// SearchIdle means no search has run since the last query change.
	SearchIdle SearchStatus = iota
	// SearchFound means the last search moved the selection to a match.
	SearchFound
	// SearchNotFound means the last search found no other match.
	SearchNotFound
)

// String returns a short label for the status.
func (s SearchStatus) String() string {
	switch s {
	case SearchFound:
		return "found"
	case SearchNotFound:
		return "not found"
	default:
		return ""
	}
}
