package graph

import (
	"maps"
	"slices"

	"github.com/matzehuels/pacview/pkg/errors"
)

// Graph is the dependency/dependent adjacency of a set of installed packages.
//
// The zero value is not usable - use Build to create a Graph.
// A Graph is read-only after Build and safe for concurrent reads.
type Graph struct {
	records    map[string]*Record
	outgoing   map[string][]string // name -> installed dependency names
	incoming   map[string][]string // name -> dependent names
	edgeCount  int
	sortedName []*Record // every record in SortByName order
}

// Build derives the dependents of every package from the dependency names of
// all records in a single traversal.
//
// Returns an error with code EMPTY_GRAPH if records is empty, and
// INVALID_INPUT if a record is nil or its Name disagrees with its key.
// Dangling dependency names are dropped; duplicate names are collapsed.
// The records are shared, not copied, and must not be modified afterwards.
func Build(records map[string]*Record) (*Graph, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyGraph, "no installed packages supplied")
	}

	g := &Graph{
		records:  make(map[string]*Record, len(records)),
		outgoing: make(map[string][]string, len(records)),
		incoming: make(map[string][]string, len(records)),
	}
	for name, r := range records {
		if r == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "package %q has no record", name)
		}
		if r.Name != name {
			return nil, errors.New(errors.ErrCodeInvalidInput, "package key %q does not match record name %q", name, r.Name)
		}
		g.records[name] = r
	}

	// Iterate in name order so adjacency slices are deterministic.
	names := slices.Sorted(maps.Keys(records))
	for _, name := range names {
		seen := make(map[string]bool, len(records[name].Depends))
		for _, dep := range records[name].Depends {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if _, ok := g.records[dep]; !ok {
				continue
			}
			g.outgoing[name] = append(g.outgoing[name], dep)
			g.incoming[dep] = append(g.incoming[dep], name)
			g.edgeCount++
		}
	}

	g.sortedName = make([]*Record, 0, len(names))
	for _, name := range names {
		g.sortedName = append(g.sortedName, g.records[name])
	}
	return g, nil
}

// Len returns the number of packages in the graph.
func (g *Graph) Len() int { return len(g.records) }

// EdgeCount returns the number of resolved dependency edges.
// Dangling references are not counted.
func (g *Graph) EdgeCount() int { return g.edgeCount }

// Has reports whether name is an installed package in the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.records[name]
	return ok
}

// Package returns the record called name.
// Returns an error with code PACKAGE_NOT_FOUND if it is not in the graph.
func (g *Graph) Package(name string) (*Record, error) {
	r, ok := g.records[name]
	if !ok {
		return nil, errors.New(errors.ErrCodePackageNotFound, "package %q is not installed", name)
	}
	return r, nil
}

// All returns every package, ordered by mode. The returned slice is a fresh
// copy; the records it points to are shared and must not be modified.
func (g *Graph) All(mode SortMode) []*Record {
	out := slices.Clone(g.sortedName)
	if mode != SortByName {
		mode.Sort(out)
	}
	return out
}

// DependenciesOf returns the installed packages name depends on, ordered by
// mode. Dependency names missing from the graph are silently dropped.
// Returns an error with code PACKAGE_NOT_FOUND if name itself is unknown.
func (g *Graph) DependenciesOf(name string, mode SortMode) ([]*Record, error) {
	if !g.Has(name) {
		return nil, errors.New(errors.ErrCodePackageNotFound, "package %q is not installed", name)
	}
	return g.lookup(g.outgoing[name], mode), nil
}

// DependentsOf returns the installed packages that depend on name, ordered
// by mode. Returns an error with code PACKAGE_NOT_FOUND if name is unknown.
func (g *Graph) DependentsOf(name string, mode SortMode) ([]*Record, error) {
	if !g.Has(name) {
		return nil, errors.New(errors.ErrCodePackageNotFound, "package %q is not installed", name)
	}
	return g.lookup(g.incoming[name], mode), nil
}

func (g *Graph) lookup(names []string, mode SortMode) []*Record {
	out := make([]*Record, 0, len(names))
	for _, n := range names {
		out = append(out, g.records[n])
	}
	mode.Sort(out)
	return out
}
