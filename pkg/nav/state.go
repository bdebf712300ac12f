package nav

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pacview/pkg/errors"
	"github.com/matzehuels/pacview/pkg/graph"
	"github.com/matzehuels/pacview/pkg/search"
	"github.com/matzehuels/pacview/pkg/view"
)

// DefaultPageSize is the PageUp/PageDown step used when Options.PageSize is
// not positive.
const DefaultPageSize = 10

// Options configures a new [State].
type Options struct {
	// PageSize is the number of rows PageUp and PageDown move.
	PageSize int
	// Sort is the initial sort mode of all three panes.
	Sort graph.SortMode
	// ExplicitOnly starts with the main pane limited to explicitly
	// installed packages.
	ExplicitOnly bool
	// Logger receives debug output about focus repairs. Nil discards.
	Logger *log.Logger
}

// State is the navigation state of one browsing session.
//
// A State is not safe for concurrent use; the event loop owns it.
type State struct {
	g        *graph.Graph
	logger   *log.Logger
	pageSize int

	main   string
	active view.Pane
	// sel is stored clamped to [0, max(len-1, 0)]; Selected reports -1 for
	// an empty pane.
	sel          [len(view.Panes)]int
	sort         graph.SortMode
	explicitOnly bool

	query     string
	direction search.Direction
	status    SearchStatus
	searching bool
	draft     string

	lists view.Lists
}

// New builds the initial state: the main pane is active and the first
// package of the main list is focused. g must not be nil.
func New(g *graph.Graph, opts Options) *State {
	s := &State{
		g:            g,
		logger:       opts.Logger,
		pageSize:     opts.PageSize,
		active:       view.Main,
		sort:         opts.Sort,
		explicitOnly: opts.ExplicitOnly,
		direction:    search.Forward,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.pageSize <= 0 {
		s.pageSize = DefaultPageSize
	}
	s.refresh()
	s.followMainSelection()
	return s
}

// =============================================================================
// Transitions
// =============================================================================

// Apply performs one action. Actions that do not apply in the current mode
// are ignored; while a search query is being typed only SearchConfirm and
// SearchCancel take effect. ToggleHelp and Quit are presentation concerns
// and never change the navigation state.
func (s *State) Apply(a Action) {
	if s.searching {
		switch a {
		case SearchConfirm:
			s.confirmSearch()
		case SearchCancel:
			s.searching = false
			s.draft = ""
		}
		return
	}

	switch a {
	case MoveLeft:
		s.moveBetween(-1)
	case MoveRight:
		s.moveBetween(1)
	case MoveUp:
		s.moveWithin(-1)
	case MoveDown:
		s.moveWithin(1)
	case PageUp:
		s.moveWithin(-s.pageSize)
	case PageDown:
		s.moveWithin(s.pageSize)
	case Home:
		s.jump(false)
	case End:
		s.jump(true)
	case Enter:
		s.enter()
	case ToggleSort:
		s.toggleSort()
	case ToggleFilter:
		s.toggleFilter()
	case EnterSearch:
		s.searching = true
		s.draft = ""
	case SearchNext:
		s.find(s.direction)
	case SearchPrev:
		s.find(s.direction.Reverse())
	}
}

// SetSearchDraft replaces the query being typed. It has no effect outside
// search input mode.
func (s *State) SetSearchDraft(text string) {
	if s.searching {
		s.draft = text
	}
}

// Focus makes name the focused package, as if it had been entered from a
// side pane. It fails with PACKAGE_NOT_FOUND for names not in the graph.
func (s *State) Focus(name string) error {
	r, err := s.g.Package(name)
	if err != nil {
		return err
	}
	s.focus(r)
	return nil
}

func (s *State) moveBetween(delta int) {
	next := int(s.active) + delta
	if next < int(view.Dependents) || next > int(view.Dependencies) {
		return
	}
	s.active = view.Pane(next)
}

func (s *State) moveWithin(delta int) {
	n := len(s.lists.Pane(s.active))
	if n == 0 {
		return
	}
	s.sel[s.active] = clamp(s.sel[s.active]+delta, n)
	if s.active == view.Main {
		s.followMainSelection()
	}
}

func (s *State) jump(end bool) {
	n := len(s.lists.Pane(s.active))
	if n == 0 {
		return
	}
	if end {
		s.sel[s.active] = n - 1
	} else {
		s.sel[s.active] = 0
	}
	if s.active == view.Main {
		s.followMainSelection()
	}
}

func (s *State) enter() {
	if s.active == view.Main {
		return
	}
	if r := s.SelectedRecord(s.active); r != nil {
		s.focus(r)
	}
}

// focus re-centres the view on r and activates the main pane. Side pane
// selections keep their index and are only clamped.
func (s *State) focus(r *graph.Record) {
	if s.explicitOnly && !r.Explicit {
		s.logger.Debug("disabling explicit-only filter to show focus", "package", r.Name)
		s.explicitOnly = false
	}
	s.main = r.Name
	s.active = view.Main
	s.refresh()
	if i := graph.IndexOf(s.lists.Main, r.Name); i >= 0 {
		s.sel[view.Main] = i
	}
}

func (s *State) toggleSort() {
	var names [len(view.Panes)]string
	for _, p := range view.Panes {
		if r := s.SelectedRecord(p); r != nil {
			names[p] = r.Name
		}
	}

	s.sort = s.sort.Toggle()
	s.refresh()

	// Selections follow their package, not their row.
	for _, p := range view.Panes {
		if names[p] == "" {
			continue
		}
		if i := graph.IndexOf(s.lists.Pane(p), names[p]); i >= 0 {
			s.sel[p] = i
		}
	}
}

func (s *State) toggleFilter() {
	prev := s.main

	s.explicitOnly = !s.explicitOnly
	s.refresh()

	if i := graph.IndexOf(s.lists.Main, prev); i >= 0 {
		s.sel[view.Main] = i
	}
	s.followMainSelection()
}

func (s *State) confirmSearch() {
	s.searching = false
	s.query = s.draft
	s.draft = ""
	s.direction = search.Forward
	s.status = SearchIdle
	s.find(s.direction)
}

func (s *State) find(dir search.Direction) {
	if s.query == "" {
		s.status = SearchIdle
		return
	}
	i, ok := search.FindNext(s.lists.Pane(s.active), s.Selected(s.active), s.query, dir)
	if !ok {
		s.status = SearchNotFound
		return
	}
	s.status = SearchFound
	s.sel[s.active] = i
	if s.active == view.Main {
		s.followMainSelection()
	}
}

// followMainSelection focuses whatever the main pane has selected.
func (s *State) followMainSelection() {
	r := s.SelectedRecord(view.Main)
	name := ""
	if r != nil {
		name = r.Name
	}
	if name == s.main {
		return
	}
	s.main = name
	s.refresh()
}

// refresh re-derives the lists and clamps every selection. A focus that is
// no longer in the graph is repaired first.
func (s *State) refresh() {
	if s.main != "" && !s.g.Has(s.main) {
		s.logger.Debug("focused package vanished, falling back", "package", s.main)
		s.main = ""
		if all := view.Derive(s.g, "", s.sort, s.explicitOnly).Main; len(all) > 0 {
			s.main = all[0].Name
			s.sel[view.Main] = 0
		}
	}
	s.lists = view.Derive(s.g, s.main, s.sort, s.explicitOnly)
	for _, p := range view.Panes {
		s.sel[p] = clamp(s.sel[p], len(s.lists.Pane(p)))
	}
}

// clamp limits i to [0, n-1], or 0 when n is 0.
func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// =============================================================================
// Accessors
// =============================================================================

// Main returns the focused package name, or "" when nothing is focused.
func (s *State) Main() string { return s.main }

// Active returns the pane that receives movement actions.
func (s *State) Active() view.Pane { return s.active }

// Sort returns the current sort mode.
func (s *State) Sort() graph.SortMode { return s.sort }

// ExplicitOnly reports whether the main pane hides dependency packages.
func (s *State) ExplicitOnly() bool { return s.explicitOnly }

// Searching reports whether a search query is being typed.
func (s *State) Searching() bool { return s.searching }

// Query returns the last confirmed search query.
func (s *State) Query() string { return s.query }

// Lists returns the currently derived lists. Callers must not modify them.
func (s *State) Lists() view.Lists { return s.lists }

// Selected returns the selection index of pane p, or -1 if the pane is empty.
func (s *State) Selected(p view.Pane) int {
	if len(s.lists.Pane(p)) == 0 {
		return -1
	}
	return s.sel[p]
}

// SelectedRecord returns the selected record of pane p, or nil if the pane
// is empty.
func (s *State) SelectedRecord(p view.Pane) *graph.Record {
	i := s.Selected(p)
	if i < 0 {
		return nil
	}
	return s.lists.Pane(p)[i]
}

// Graph returns the graph the state navigates.
func (s *State) Graph() *graph.Graph { return s.g }

// errNoFocus is returned by callers that need a focused package.
var errNoFocus = errors.New(errors.ErrCodePackageNotFound, "no package is focused")

// Current returns the focused record, failing when nothing is focused.
func (s *State) Current() (*graph.Record, error) {
	if s.main == "" {
		return nil, errNoFocus
	}
	return s.g.Package(s.main)
}
