package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pacview/pkg/graph"
)

// Options configures neighbourhood diagram generation.
type Options struct {
	// Depth is how many dependency levels to follow in each direction.
	// Values below 1 are treated as 1.
	Depth int

	// Dependents includes packages that require the focus. When false only
	// the focus and what it depends on are drawn.
	Dependents bool

	// Detailed adds version and installed size to node labels.
	// When false, only the package name is shown.
	Detailed bool
}

// ToDOT converts the neighbourhood of focus to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// The focus is filled, explicitly installed packages are drawn with a bold
// outline. Fails with PACKAGE_NOT_FOUND when focus is not in g.
func ToDOT(g *graph.Graph, focus string, opts Options) (string, error) {
	root, err := g.Package(focus)
	if err != nil {
		return "", err
	}
	depth := max(opts.Depth, 1)

	nodes := map[string]*graph.Record{root.Name: root}
	walk(g, root.Name, depth, nodes, g.DependenciesOf)
	if opts.Dependents {
		walk(g, root.Name, depth, nodes, g.DependentsOf)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	names := sortedNames(nodes)
	for _, name := range names {
		r := nodes[name]
		attrs := fmtAttrs(r, fmtLabel(r, opts.Detailed), name == root.Name)
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, from := range names {
		deps, _ := g.DependenciesOf(from, graph.SortByName)
		for _, to := range deps {
			if _, ok := nodes[to.Name]; ok {
				fmt.Fprintf(&buf, "  %q -> %q;\n", from, to.Name)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

type neighbours func(name string, mode graph.SortMode) ([]*graph.Record, error)

// walk adds every package reachable from start through next within depth
// steps to seen.
func walk(g *graph.Graph, start string, depth int, seen map[string]*graph.Record, next neighbours) {
	frontier := []string{start}
	visited := map[string]bool{start: true}
	for level := 0; level < depth && len(frontier) > 0; level++ {
		var upcoming []string
		for _, name := range frontier {
			recs, err := next(name, graph.SortByName)
			if err != nil {
				continue
			}
			for _, r := range recs {
				if visited[r.Name] {
					continue
				}
				visited[r.Name] = true
				seen[r.Name] = r
				upcoming = append(upcoming, r.Name)
			}
		}
		frontier = upcoming
	}
}

func sortedNames(nodes map[string]*graph.Record) []string {
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func fmtLabel(r *graph.Record, detailed bool) string {
	if !detailed {
		return r.Name
	}
	return fmt.Sprintf("%s\n%s\n%s", r.Name, r.Version, humanize.Bytes(r.Size))
}

func fmtAttrs(r *graph.Record, label string, focus bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if focus {
		attrs = append(attrs, "fillcolor=\"#5fafaf\"", "fontcolor=white")
	}
	if r.Explicit {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one whose
// width and height match the viewBox, so the SVG scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
