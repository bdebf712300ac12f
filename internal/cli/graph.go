package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pacview/pkg/errors"
	"github.com/matzehuels/pacview/pkg/render/nodelink"
)

// Output formats of the graph command.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphCommand creates the graph command for drawing a package neighbourhood.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output string
		format string
		opts   nodelink.Options
	)

	cmd := &cobra.Command{
		Use:   "graph <package>",
		Short: "Draw a package's dependency neighbourhood",
		Long: `Draw a package's dependency neighbourhood as a Graphviz diagram.

The focused package is filled and explicitly installed packages are outlined.
Edges point from a package to what it depends on. SVG is rendered in-process;
DOT output can be processed further with the Graphviz tools.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completePackages,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG {
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want dot or svg)", format)
			}
			src, err := c.sourceFor(cmd)
			if err != nil {
				return err
			}
			g, cached, err := c.loadGraph(cmd.Context(), src)
			if err != nil {
				return err
			}

			dot, err := nodelink.ToDOT(g, args[0], opts)
			if err != nil {
				return err
			}
			data, err := renderGraph(cmd.Context(), dot, format)
			if err != nil {
				return err
			}

			if output == "" {
				output = args[0] + "." + format
			}
			if output == "-" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}

			printSuccess("Graph complete")
			printFile(output)
			printStats(g.Len(), g.EdgeCount(), cached)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <package>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg, dot")
	cmd.Flags().IntVarP(&opts.Depth, "depth", "d", 1, "dependency levels to follow")
	cmd.Flags().BoolVar(&opts.Dependents, "dependents", false, "also draw packages that require the focus")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "add version and size to labels")

	return cmd
}

// renderGraph converts dot into the requested output format.
func renderGraph(ctx context.Context, dot, format string) ([]byte, error) {
	if format == formatDOT {
		return []byte(dot), nil
	}

	spinner := newSpinnerWithContext(ctx, "Rendering SVG...")
	spinner.Start()
	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		spinner.StopWithError("Render failed")
		return nil, err
	}
	spinner.Stop()
	return svg, ctx.Err()
}
