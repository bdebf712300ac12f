// Package search implements incremental substring search over a package list.
//
// A search always starts next to the current position and wraps around the
// list boundary once, so repeated [FindNext] calls cycle through every match.
// The current position itself is never reported: pressing "next" on the only
// match in a list finds nothing.
package search

import (
	"strings"

	"github.com/matzehuels/pacview/pkg/graph"
)

// Direction is the scan direction of a search.
type Direction int

const (
	// Forward scans towards the end of the list.
	Forward Direction = iota
	// Backward scans towards the start of the list.
	Backward
)

// String returns "forward" or "backward".
func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Forward {
		return Backward
	}
	return Forward
}

// Matches reports whether query is a case-insensitive substring of the
// record's name. An empty query matches nothing.
func Matches(r *graph.Record, query string) bool {
	if query == "" || r == nil {
		return false
	}
	return strings.Contains(strings.ToLower(r.Name), strings.ToLower(query))
}

// FindNext returns the index of the first record matching query, scanning
// from start+1 (Forward) or start-1 (Backward) and wrapping around once.
//
// start may be -1 (no selection); a Forward scan then begins at index 0 and a
// Backward scan at the last index, and every index is a candidate. Otherwise
// the record at start is never returned. Reports false for an empty query,
// an empty list, or when no other record matches.
func FindNext(list []*graph.Record, start int, query string, dir Direction) (int, bool) {
	n := len(list)
	if n == 0 || query == "" {
		return 0, false
	}
	q := strings.ToLower(query)

	step := 1
	if dir == Backward {
		step = -1
	}

	steps := n - 1
	if start < 0 || start >= n {
		// No valid current position: every index is a candidate.
		steps = n
		if dir == Forward {
			start = -1
		} else {
			start = n
		}
	}

	for i := 1; i <= steps; i++ {
		idx := ((start+step*i)%n + n) % n
		if strings.Contains(strings.ToLower(list[idx].Name), q) {
			return idx, true
		}
	}
	return 0, false
}
