// Package nav implements the three-pane navigation state machine.
//
// # Overview
//
// A [State] is the single mutable object of a browsing session. It is built
// once from a read-only [graph.Graph] with [New], mutated by one [Action] at a
// time through [State.Apply], and rendered through [State.Snapshot]. Nothing
// in it is persisted.
//
// The state holds the focused ("main") package, the active pane, one
// selection index per pane, the shared sort mode, the explicit-only filter of
// the main pane and the search query. The three visible lists are never
// patched incrementally: every transition re-derives them with [view.Derive]
// and then re-clamps the selection indices.
//
// # Focus
//
// The main pane's selection is the focus. Moving inside the main pane
// re-focuses, and Enter on a dependents or dependencies entry focuses that
// package and returns to the main pane with the package selected. When the
// explicit-only filter would hide a newly focused package, the filter is
// switched off first.
//
// # Failure semantics
//
// Navigation never fails. Moves on empty panes, Enter on an empty pane and
// searches without a match are no-ops. A focus that is no longer in the
// graph falls back to the first package of the main pane, or to no focus.
//
// [graph.Graph]: github.com/matzehuels/pacview/pkg/graph.Graph
// [view.Derive]: github.com/matzehuels/pacview/pkg/view.Derive
package nav
