package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pacview/pkg/graph"
)

// infoCommand creates the info command for printing one package.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "info <package>",
		Short:             "Show a package's details, dependencies and dependents",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completePackages,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.sourceFor(cmd)
			if err != nil {
				return err
			}
			g, _, err := c.loadGraph(cmd.Context(), src)
			if err != nil {
				return err
			}
			return printInfoFor(g, args[0], src.cfg.UI.SortMode())
		},
	}
}

func printInfoFor(g *graph.Graph, name string, mode graph.SortMode) error {
	r, err := g.Package(name)
	if err != nil {
		return err
	}
	deps, _ := g.DependenciesOf(name, mode)
	rdeps, _ := g.DependentsOf(name, mode)

	fmt.Println(StyleTitle.Render(r.Name))
	printKeyValue("Version", r.Version)
	printKeyValue("Reason", r.Reason())
	printKeyValue("Size", humanize.Bytes(r.Size))
	if r.Description != "" {
		printKeyValue("Description", r.Description)
	}
	if r.URL != "" {
		printKeyValue("URL", StyleLink.Render(r.URL))
	}
	if len(r.Provides) > 0 {
		printKeyValue("Provides", strings.Join(r.Provides, ", "))
	}
	if len(r.Optional) > 0 {
		printKeyValue("Optional", strings.Join(r.Optional, ", "))
	}
	printKeyValue("Depends on", joinNames(deps))
	printKeyValue("Required by", joinNames(rdeps))
	return nil
}

func joinNames(recs []*graph.Record) string {
	if len(recs) == 0 {
		return StyleDim.Render("none")
	}
	return strings.Join(graph.Names(recs), ", ")
}
