package nav

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/pacview/pkg/errors"
	"github.com/matzehuels/pacview/pkg/graph"
	"github.com/matzehuels/pacview/pkg/view"
)

// Name order: firefox glib2 gtk3 htop nss vim
// Size order: firefox gtk3 vim glib2 nss htop
func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Build(map[string]*graph.Record{
		"firefox": {Name: "firefox", Size: 250, Explicit: true, Depends: []string{"gtk3", "nss"}},
		"gtk3":    {Name: "gtk3", Size: 60, Depends: []string{"glib2"}},
		"nss":     {Name: "nss", Size: 5, Depends: []string{"glib2"}},
		"glib2":   {Name: "glib2", Size: 30},
		"htop":    {Name: "htop", Size: 1, Explicit: true, Depends: []string{"ncurses"}},
		"vim":     {Name: "vim", Size: 40, Explicit: true, Depends: []string{"glib2"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func apply(s *State, actions ...Action) {
	for _, a := range actions {
		s.Apply(a)
	}
}

func names(s *State, p view.Pane) []string {
	return graph.Names(s.Lists().Pane(p))
}

func TestNew(t *testing.T) {
	s := New(testGraph(t), Options{})

	if s.Main() != "firefox" {
		t.Errorf("Main() = %q, want firefox", s.Main())
	}
	if s.Active() != view.Main {
		t.Errorf("Active() = %s, want main", s.Active())
	}
	if got := s.Selected(view.Dependents); got != -1 {
		t.Errorf("Selected(Dependents) = %d, want -1", got)
	}
	if got := names(s, view.Dependencies); !slices.Equal(got, []string{"gtk3", "nss"}) {
		t.Errorf("Dependencies = %v", got)
	}
	if got := s.Selected(view.Dependencies); got != 0 {
		t.Errorf("Selected(Dependencies) = %d, want 0", got)
	}
}

func TestNewExplicitOnlyWithoutExplicitPackages(t *testing.T) {
	g, err := graph.Build(map[string]*graph.Record{
		"glibc": {Name: "glibc"},
		"zlib":  {Name: "zlib", Depends: []string{"glibc"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	s := New(g, Options{ExplicitOnly: true})
	if s.Main() != "" {
		t.Errorf("Main() = %q, want empty", s.Main())
	}
	for _, p := range view.Panes {
		if got := s.Selected(p); got != -1 {
			t.Errorf("Selected(%s) = %d, want -1", p, got)
		}
	}

	apply(s, MoveDown, End, Enter, MoveLeft, Enter)
	if s.Main() != "" {
		t.Errorf("Main() after no-ops = %q", s.Main())
	}

	s.Apply(ToggleFilter)
	if s.Main() != "glibc" {
		t.Errorf("Main() after showing all = %q, want glibc", s.Main())
	}
}

func TestMoveWithinMainRefocuses(t *testing.T) {
	s := New(testGraph(t), Options{})

	s.Apply(MoveDown)
	if s.Main() != "glib2" {
		t.Fatalf("Main() = %q, want glib2", s.Main())
	}
	if got := names(s, view.Dependents); !slices.Equal(got, []string{"gtk3", "nss", "vim"}) {
		t.Errorf("Dependents = %v", got)
	}
	if got := names(s, view.Dependencies); len(got) != 0 {
		t.Errorf("Dependencies = %v, want empty", got)
	}

	s.Apply(MoveUp)
	s.Apply(MoveUp)
	if s.Main() != "firefox" || s.Selected(view.Main) != 0 {
		t.Errorf("MoveUp at top: main=%q sel=%d", s.Main(), s.Selected(view.Main))
	}
}

func TestMoveBetweenPanesStopsAtEdges(t *testing.T) {
	s := New(testGraph(t), Options{})

	apply(s, MoveLeft, MoveLeft)
	if s.Active() != view.Dependents {
		t.Errorf("Active() = %s, want Dependents", s.Active())
	}
	apply(s, MoveRight, MoveRight, MoveRight)
	if s.Active() != view.Dependencies {
		t.Errorf("Active() = %s, want Dependencies", s.Active())
	}
	if s.Main() != "firefox" {
		t.Errorf("moving between panes changed focus to %q", s.Main())
	}
}

func TestFocusRoundTrip(t *testing.T) {
	s := New(testGraph(t), Options{})

	// firefox -> gtk3 through the dependencies pane.
	apply(s, MoveRight, Enter)
	if s.Main() != "gtk3" {
		t.Fatalf("Main() = %q, want gtk3", s.Main())
	}
	if s.Active() != view.Main {
		t.Errorf("Active() = %s, want main", s.Active())
	}
	if got := s.Selected(view.Main); got != 2 {
		t.Errorf("Selected(Main) = %d, want 2", got)
	}

	// gtk3 -> firefox through the dependents pane.
	apply(s, MoveLeft)
	if got := names(s, view.Dependents); !slices.Equal(got, []string{"firefox"}) {
		t.Fatalf("Dependents = %v", got)
	}
	s.Apply(Enter)
	if s.Main() != "firefox" || s.Selected(view.Main) != 0 {
		t.Errorf("round trip: main=%q sel=%d", s.Main(), s.Selected(view.Main))
	}
}

func TestEnterDisablesHidingFilter(t *testing.T) {
	s := New(testGraph(t), Options{ExplicitOnly: true})

	if got := names(s, view.Main); !slices.Equal(got, []string{"firefox", "htop", "vim"}) {
		t.Fatalf("Main = %v", got)
	}

	apply(s, MoveRight, Enter)
	if s.ExplicitOnly() {
		t.Error("filter still on after focusing a dependency package")
	}
	if r := s.SelectedRecord(view.Main); r == nil || r.Name != "gtk3" {
		t.Errorf("SelectedRecord(Main) = %v, want gtk3", r)
	}
}

func TestEnterKeepsFilterForExplicitTarget(t *testing.T) {
	s := New(testGraph(t), Options{ExplicitOnly: true})

	if err := s.Focus("glib2"); err != nil {
		t.Fatal(err)
	}
	s.Apply(ToggleFilter) // back on; glib2 is hidden, selection clamps
	if !s.ExplicitOnly() {
		t.Fatal("filter should be on")
	}

	if err := s.Focus("vim"); err != nil {
		t.Fatal(err)
	}
	if !s.ExplicitOnly() {
		t.Error("focusing an explicit package turned the filter off")
	}
}

func TestEmptyPaneIsNoop(t *testing.T) {
	s := New(testGraph(t), Options{})

	s.Apply(MoveLeft) // firefox has no dependents
	apply(s, MoveDown, MoveUp, PageDown, Home, End, Enter)

	if s.Main() != "firefox" {
		t.Errorf("Main() = %q, want firefox", s.Main())
	}
	if s.Active() != view.Dependents {
		t.Errorf("Active() = %s", s.Active())
	}
	if got := s.Selected(view.Dependents); got != -1 {
		t.Errorf("Selected(Dependents) = %d, want -1", got)
	}
	if s.SelectedRecord(view.Dependents) != nil {
		t.Error("SelectedRecord on empty pane should be nil")
	}
}

func TestSideSelectionClampsOnRefocus(t *testing.T) {
	s := New(testGraph(t), Options{})

	s.Focus("glib2")
	apply(s, MoveLeft, End) // vim, index 2
	if got := s.Selected(view.Dependents); got != 2 {
		t.Fatalf("Selected(Dependents) = %d, want 2", got)
	}

	s.Focus("gtk3") // one dependent left
	if got := s.Selected(view.Dependents); got != 0 {
		t.Errorf("Selected(Dependents) = %d, want 0", got)
	}
}

func TestPaging(t *testing.T) {
	s := New(testGraph(t), Options{PageSize: 2})

	tests := []struct {
		action Action
		want   string
	}{
		{PageDown, "gtk3"},
		{PageDown, "nss"},
		{PageDown, "vim"},
		{PageDown, "vim"},
		{PageUp, "htop"},
		{Home, "firefox"},
		{End, "vim"},
	}
	for _, tt := range tests {
		s.Apply(tt.action)
		if s.Main() != tt.want {
			t.Errorf("after %s: Main() = %q, want %q", tt.action, s.Main(), tt.want)
		}
	}
}

func TestDefaultPageSize(t *testing.T) {
	g := testGraph(t)
	s := New(g, Options{PageSize: -3})
	s.Apply(PageDown)
	if got := s.Selected(view.Main); got != g.Len()-1 {
		t.Errorf("Selected(Main) = %d, want %d", got, g.Len()-1)
	}
}

func TestToggleSortFollowsPackage(t *testing.T) {
	s := New(testGraph(t), Options{})
	apply(s, MoveDown, MoveDown) // gtk3

	s.Apply(ToggleSort)
	if s.Sort() != graph.SortBySize {
		t.Fatalf("Sort() = %s", s.Sort())
	}
	if s.Main() != "gtk3" || s.Selected(view.Main) != 1 {
		t.Errorf("by size: main=%q sel=%d, want gtk3 at 1", s.Main(), s.Selected(view.Main))
	}

	s.Apply(ToggleSort)
	if s.Main() != "gtk3" || s.Selected(view.Main) != 2 {
		t.Errorf("by name: main=%q sel=%d, want gtk3 at 2", s.Main(), s.Selected(view.Main))
	}
}

func TestToggleFilter(t *testing.T) {
	t.Run("hidden focus clamps", func(t *testing.T) {
		s := New(testGraph(t), Options{})
		apply(s, MoveDown, MoveDown) // gtk3 at 2

		s.Apply(ToggleFilter)
		if got := s.Selected(view.Main); got != 2 {
			t.Errorf("Selected(Main) = %d, want 2", got)
		}
		if s.Main() != "vim" {
			t.Errorf("Main() = %q, want vim", s.Main())
		}
	})

	t.Run("visible focus is kept", func(t *testing.T) {
		s := New(testGraph(t), Options{})
		s.Focus("htop") // index 3

		s.Apply(ToggleFilter)
		if s.Main() != "htop" || s.Selected(view.Main) != 1 {
			t.Errorf("main=%q sel=%d, want htop at 1", s.Main(), s.Selected(view.Main))
		}
	})
}

func TestTogglesAreIdempotent(t *testing.T) {
	g := testGraph(t)
	s := New(g, Options{})
	s.Focus("vim")

	before := s.Snapshot()
	apply(s, ToggleSort, ToggleSort, ToggleFilter, ToggleFilter)
	after := s.Snapshot()

	if s.Main() != "vim" {
		t.Errorf("Main() = %q, want vim", s.Main())
	}
	for _, p := range view.Panes {
		b, a := before.Panes[p], after.Panes[p]
		if !slices.Equal(graph.Names(b.Items), graph.Names(a.Items)) || b.Selected != a.Selected {
			t.Errorf("%s: before %v@%d, after %v@%d",
				p, graph.Names(b.Items), b.Selected, graph.Names(a.Items), a.Selected)
		}
	}
}

func TestSearch(t *testing.T) {
	s := New(testGraph(t), Options{})

	search := func(q string) {
		s.Apply(EnterSearch)
		s.SetSearchDraft(q)
		s.Apply(SearchConfirm)
	}

	search("g")
	if s.Main() != "glib2" || s.Snapshot().Status != SearchFound {
		t.Fatalf("search g: main=%q status=%s", s.Main(), s.Snapshot().Status)
	}
	s.Apply(SearchNext)
	if s.Main() != "gtk3" {
		t.Errorf("next: Main() = %q, want gtk3", s.Main())
	}
	s.Apply(SearchPrev)
	if s.Main() != "glib2" {
		t.Errorf("prev: Main() = %q, want glib2", s.Main())
	}

	search("NSS")
	if s.Main() != "nss" {
		t.Fatalf("search NSS: Main() = %q", s.Main())
	}
	s.Apply(SearchNext)
	if s.Main() != "nss" || s.Snapshot().Status != SearchNotFound {
		t.Errorf("only match: main=%q status=%s", s.Main(), s.Snapshot().Status)
	}
}

func TestSearchInSidePaneKeepsFocus(t *testing.T) {
	s := New(testGraph(t), Options{})
	s.Apply(MoveRight)

	s.Apply(EnterSearch)
	s.SetSearchDraft("ss")
	s.Apply(SearchConfirm)

	if got := s.Selected(view.Dependencies); got != 1 {
		t.Errorf("Selected(Dependencies) = %d, want 1", got)
	}
	if s.Main() != "firefox" {
		t.Errorf("Main() = %q, want firefox", s.Main())
	}
}

func TestSearchCancelKeepsQuery(t *testing.T) {
	s := New(testGraph(t), Options{})

	s.Apply(EnterSearch)
	s.SetSearchDraft("vim")
	s.Apply(SearchConfirm)

	s.Apply(EnterSearch)
	if !s.Searching() {
		t.Fatal("Searching() = false after EnterSearch")
	}
	s.SetSearchDraft("zzz")
	s.Apply(MoveUp) // ignored while typing
	s.Apply(SearchCancel)

	if s.Searching() {
		t.Error("still searching after cancel")
	}
	if s.Query() != "vim" {
		t.Errorf("Query() = %q, want vim", s.Query())
	}
	if s.Main() != "vim" {
		t.Errorf("Main() = %q, want vim", s.Main())
	}
}

func TestSetSearchDraftOutsideSearch(t *testing.T) {
	s := New(testGraph(t), Options{})
	s.SetSearchDraft("vim")
	if v := s.Snapshot(); v.Draft != "" || v.Searching {
		t.Errorf("draft=%q searching=%v", v.Draft, v.Searching)
	}
}

func TestFocusUnknown(t *testing.T) {
	s := New(testGraph(t), Options{})
	err := s.Focus("chromium")
	if !errors.Is(err, errors.ErrCodePackageNotFound) {
		t.Errorf("Focus(unknown) error = %v", err)
	}
	if s.Main() != "firefox" {
		t.Errorf("failed Focus changed Main() to %q", s.Main())
	}
}

func TestCurrent(t *testing.T) {
	s := New(testGraph(t), Options{})
	r, err := s.Current()
	if err != nil || r.Name != "firefox" {
		t.Errorf("Current() = %v, %v", r, err)
	}
}

func TestSnapshot(t *testing.T) {
	s := New(testGraph(t), Options{ExplicitOnly: true})
	s.Apply(MoveRight)

	v := s.Snapshot()
	wantTitles := []string{"Dependents", "Explicit", "Dependencies"}
	for i, pv := range v.Panes {
		if pv.Title != wantTitles[i] {
			t.Errorf("pane %d title = %q, want %q", i, pv.Title, wantTitles[i])
		}
		if pv.Active != (pv.Pane == view.Dependencies) {
			t.Errorf("pane %s Active = %v", pv.Pane, pv.Active)
		}
	}
	if v.Focus == nil || v.Focus.Name != "firefox" {
		t.Errorf("Focus = %v", v.Focus)
	}
	if v.Panes[view.Dependents].Selected != -1 {
		t.Errorf("empty pane Selected = %d", v.Panes[view.Dependents].Selected)
	}
}

// TestInvariantsUnderRandomInput drives the machine with a fixed pseudo-random
// action sequence and checks the structural invariants after every step.
func TestInvariantsUnderRandomInput(t *testing.T) {
	g := testGraph(t)
	s := New(g, Options{PageSize: 3, ExplicitOnly: true})
	rng := rand.New(rand.NewPCG(1, 2))
	queries := []string{"g", "n", "vim", "x", ""}

	for step := range 2000 {
		a := Action(rng.IntN(int(Quit) + 1))
		s.Apply(a)
		if s.Searching() && rng.IntN(2) == 0 {
			s.SetSearchDraft(queries[rng.IntN(len(queries))])
		}

		lists := view.Derive(g, s.Main(), s.Sort(), s.ExplicitOnly())
		for _, p := range view.Panes {
			if !slices.Equal(graph.Names(lists.Pane(p)), names(s, p)) {
				t.Fatalf("step %d (%s): %s list is stale", step, a, p)
			}
			n, sel := len(lists.Pane(p)), s.Selected(p)
			if (n == 0 && sel != -1) || (n > 0 && (sel < 0 || sel >= n)) {
				t.Fatalf("step %d (%s): %s selection %d out of range for %d items", step, a, p, sel, n)
			}
		}

		want := ""
		if r := s.SelectedRecord(view.Main); r != nil {
			want = r.Name
		}
		if s.Main() != want {
			t.Fatalf("step %d (%s): Main() = %q, main pane selects %q", step, a, s.Main(), want)
		}
		if s.ExplicitOnly() {
			for _, r := range s.Lists().Main {
				if !r.Explicit {
					t.Fatalf("step %d (%s): filtered list contains %s", step, a, r.Name)
				}
			}
		}
	}
}

func TestActionString(t *testing.T) {
	if MoveLeft.String() != "move-left" || SearchPrev.String() != "search-prev" {
		t.Errorf("unexpected names %q %q", MoveLeft, SearchPrev)
	}
	if Action(99).String() != "unknown" {
		t.Errorf("Action(99).String() = %q", Action(99))
	}
}
