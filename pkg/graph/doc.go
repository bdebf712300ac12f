// Package graph provides the installed-package dependency graph.
//
// # Overview
//
// A [Graph] is built once from a flat table of [Record] values keyed by
// package name. Records never point at each other: every relationship is a
// name lookup into that table. This keeps cyclic dependency sets (which real
// package databases contain) free of ownership concerns, and lets the graph
// answer both directions of the adjacency in constant time:
//
//   - [Graph.DependenciesOf]: packages the given package requires
//   - [Graph.DependentsOf]: packages that require the given package
//
// The dependent side is derived by [Build] in a single pass over every
// record's dependency names. A dependency name that is not in the table
// (a dangling reference, e.g. a dependency satisfied by something the
// database does not list) is tolerated: it never produces a dependent entry
// and is never returned by the adjacency queries.
//
// # Basic Usage
//
//	g, err := graph.Build(map[string]*graph.Record{
//	    "app":  {Name: "app", Explicit: true, Depends: []string{"lib"}},
//	    "lib":  {Name: "lib", Depends: []string{"glibc"}},
//	    "glibc": {Name: "glibc"},
//	})
//	deps, _ := g.DependenciesOf("app", graph.SortByName) // [lib]
//	users, _ := g.DependentsOf("lib", graph.SortByName)  // [app]
//
// # Ordering
//
// Every query that returns a list takes a [SortMode]. [SortByName] orders by
// name (byte-wise, case-sensitive); [SortBySize] orders by installed size,
// largest first, breaking ties by name so the order is total and stable
// across repeated sorts.
//
// # Errors
//
// [Build] fails with code EMPTY_GRAPH for an empty table. Lookups of unknown
// names fail with code PACKAGE_NOT_FOUND (see package
// github.com/matzehuels/pacview/pkg/errors).
//
// # Concurrency
//
// A Graph is immutable after [Build] returns and is safe for concurrent
// reads without synchronization.
package graph
