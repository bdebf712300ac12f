// Package nodelink renders the dependency neighbourhood of one package as a
// node-link diagram.
//
// # Usage
//
// Convert the neighbourhood to DOT format, then render to SVG:
//
//	dot, err := nodelink.ToDOT(g, "vim", nodelink.Options{Depth: 2, Dependents: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Depth: dependency levels followed in each direction (default 1)
//   - Dependents: also draw packages that require the focus
//   - Detailed: add version and installed size to labels
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded box
// nodes; edges point from a package to what it depends on. Node and edge
// order is sorted by name, so the output is stable across runs and can be
// saved and processed with external Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is required.
package nodelink
