// Package view derives the three package lists shown side by side:
// the focused package's dependents, the main package list, and the focused
// package's dependencies.
//
// Derivation is pure. [Derive] holds no state and is cheap enough to be
// re-run after every navigation step, so the lists can never drift from the
// focus, sort mode and filter that produced them.
package view

import (
	"github.com/matzehuels/pacview/pkg/graph"
)

// Pane identifies one of the three lists.
type Pane int

const (
	// Dependents lists the packages that require the focused package.
	Dependents Pane = iota
	// Main lists all packages (optionally only explicitly installed ones).
	Main
	// Dependencies lists the packages the focused package requires.
	Dependencies
)

// Panes lists every pane from left to right.
var Panes = [...]Pane{Dependents, Main, Dependencies}

// String returns the pane title.
func (p Pane) String() string {
	switch p {
	case Dependents:
		return "Dependents"
	case Dependencies:
		return "Dependencies"
	default:
		return "All"
	}
}

// Lists holds the three derived lists.
type Lists struct {
	Dependents   []*graph.Record
	Main         []*graph.Record
	Dependencies []*graph.Record
}

// Pane returns the list shown in pane p.
func (l Lists) Pane(p Pane) []*graph.Record {
	switch p {
	case Dependents:
		return l.Dependents
	case Dependencies:
		return l.Dependencies
	default:
		return l.Main
	}
}

// Derive computes the three lists for the given focus, sort mode and filter.
//
// The side lists are empty when focus is empty or not in the graph; the
// caller is expected to repair such a focus (see package nav). The Main list
// contains every package, or only explicitly installed ones when
// explicitOnly is set. All three lists use the same sort mode.
func Derive(g *graph.Graph, focus string, mode graph.SortMode, explicitOnly bool) Lists {
	var l Lists

	all := g.All(mode)
	if explicitOnly {
		l.Main = make([]*graph.Record, 0, len(all))
		for _, r := range all {
			if r.Explicit {
				l.Main = append(l.Main, r)
			}
		}
	} else {
		l.Main = all
	}

	if focus == "" {
		return l
	}
	// Unknown focus yields empty side lists rather than an error.
	if deps, err := g.DependenciesOf(focus, mode); err == nil {
		l.Dependencies = deps
	}
	if users, err := g.DependentsOf(focus, mode); err == nil {
		l.Dependents = users
	}
	return l
}
