package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pacview/pkg/buildinfo"
	"github.com/matzehuels/pacview/pkg/graph"
	pkgio "github.com/matzehuels/pacview/pkg/io"
)

// exportCommand creates the export command for writing a JSON snapshot.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the installed packages as a JSON snapshot",
		Long: `Write the installed packages as a JSON snapshot.

The snapshot holds every package's metadata and dependency names. It can be
browsed later, or on another machine, with 'pacview --from <file>'.
Use -o - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.sourceFor(cmd)
			if err != nil {
				return err
			}
			g, cached, err := c.loadGraph(cmd.Context(), src)
			if err != nil {
				return err
			}
			return writeSnapshot(g, src.String(), output, cached)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "packages.json", "output file, - for stdout")

	return cmd
}

func writeSnapshot(g *graph.Graph, source, output string, cached bool) error {
	records := make(map[string]*graph.Record, g.Len())
	for _, r := range g.All(graph.SortByName) {
		records[r.Name] = r
	}
	snap := pkgio.NewSnapshot(source, records)
	snap.Generator = buildinfo.UserAgent()

	if output == "-" {
		return pkgio.WriteJSON(snap, os.Stdout)
	}
	if err := pkgio.ExportJSON(snap, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Export complete")
	printFile(output)
	printStats(g.Len(), g.EdgeCount(), cached)
	printNewline()
	printNextStep("Browse", appName+" --from "+output)
	return nil
}
