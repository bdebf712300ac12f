package nav

import (
	"github.com/matzehuels/pacview/pkg/graph"
	"github.com/matzehuels/pacview/pkg/search"
	"github.com/matzehuels/pacview/pkg/view"
)

// PaneView is the renderable state of one pane.
type PaneView struct {
	Pane     view.Pane
	Title    string
	Items    []*graph.Record
	Selected int // -1 when Items is empty
	Active   bool
}

// View is a read-only snapshot of everything the renderer needs.
type View struct {
	Panes        [len(view.Panes)]PaneView
	Focus        *graph.Record // nil when nothing is focused
	Sort         graph.SortMode
	ExplicitOnly bool

	Searching bool
	Draft     string
	Query     string
	Direction search.Direction
	Status    SearchStatus
}

// Snapshot captures the current state for rendering.
func (s *State) Snapshot() View {
	v := View{
		Sort:         s.sort,
		ExplicitOnly: s.explicitOnly,
		Searching:    s.searching,
		Draft:        s.draft,
		Query:        s.query,
		Direction:    s.direction,
		Status:       s.status,
	}
	if s.main != "" {
		v.Focus, _ = s.g.Package(s.main)
	}
	for _, p := range view.Panes {
		v.Panes[p] = PaneView{
			Pane:     p,
			Title:    s.title(p),
			Items:    s.lists.Pane(p),
			Selected: s.Selected(p),
			Active:   p == s.active,
		}
	}
	return v
}

func (s *State) title(p view.Pane) string {
	if p == view.Main && s.explicitOnly {
		return "Explicit"
	}
	return p.String()
}
