package graph

import (
	"slices"
	"strings"
)

// Record is an immutable snapshot of one installed package's metadata.
//
// Depends holds the names the package requires, already reduced to bare
// package names (no version constraints). Optional dependencies are kept
// separately in Optional for display; loaders decide whether they also
// count as edges by folding them into Depends.
type Record struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Size        uint64   `json:"size"`
	Explicit    bool     `json:"explicit"`
	Depends     []string `json:"depends,omitempty"`
	Optional    []string `json:"optional,omitempty"`
	Provides    []string `json:"provides,omitempty"`
}

// Reason describes why the package is installed, as pacman reports it.
func (r *Record) Reason() string {
	if r.Explicit {
		return "explicit"
	}
	return "dependency"
}

// DependsOn reports whether name is among the record's dependency names.
func (r *Record) DependsOn(name string) bool {
	return slices.Contains(r.Depends, name)
}

// Names extracts the name of each record, preserving order.
func Names(recs []*Record) []string {
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Name
	}
	return names
}

// IndexOf returns the position of the record called name, or -1.
func IndexOf(recs []*Record, name string) int {
	return slices.IndexFunc(recs, func(r *Record) bool { return r.Name == name })
}

// SortMode selects the ordering applied to every package list.
type SortMode int

const (
	// SortByName orders by name ascending (byte-wise, case-sensitive).
	SortByName SortMode = iota
	// SortBySize orders by installed size descending, ties by name ascending.
	SortBySize
)

// String returns a short label for the mode.
func (m SortMode) String() string {
	switch m {
	case SortBySize:
		return "size"
	default:
		return "name"
	}
}

// Toggle returns the other sort mode.
func (m SortMode) Toggle() SortMode {
	if m == SortByName {
		return SortBySize
	}
	return SortByName
}

// ParseSortMode maps "name" and "size" (case-insensitive) to a SortMode.
// Unknown values report false.
func ParseSortMode(s string) (SortMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "alpha", "alphabetical":
		return SortByName, true
	case "size":
		return SortBySize, true
	default:
		return SortByName, false
	}
}

// Sort orders recs in place according to the mode.
// Names are unique within a graph, so the resulting order is total.
func (m SortMode) Sort(recs []*Record) {
	switch m {
	case SortBySize:
		slices.SortFunc(recs, func(a, b *Record) int {
			if a.Size != b.Size {
				if a.Size > b.Size {
					return -1
				}
				return 1
			}
			return strings.Compare(a.Name, b.Name)
		})
	default:
		slices.SortFunc(recs, func(a, b *Record) int {
			return strings.Compare(a.Name, b.Name)
		})
	}
}
