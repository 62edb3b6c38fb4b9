package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pedigraph/pedigraph/pkg/graph"
	"github.com/pedigraph/pedigraph/pkg/pipeline"
)

// layoutCommand creates the layout command for computing chart layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		steps   bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [family.json]",
		Short: "Compute a chart layout from a family document",
		Long: `Compute a chart layout from a family document.

The layout command reads a family document, runs the placement engine,
and writes a layout.json holding the settled position of every person
plus the derived connection set. Use --steps to record one snapshot per
placement for animated build-up.

Results are cached locally keyed by graph content; repeated runs over
an unchanged document return instantly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			opts.Incremental = steps
			c.applyConfig(&opts)
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&steps, "steps", false, "record one snapshot per placement for animated build-up")
	inputFlags(cmd, &opts)
	spacingFlags(cmd, &opts)
	highlightFlags(cmd, &opts)

	return cmd
}

// runLayout parses the document, computes the layout, and writes it.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	g, rootID, err := runner.Parse(ctx, opts)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, g, rootID, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "" {
		output = layoutPath(input)
	}
	if err := graph.WriteLayoutFile(l, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(len(l.Positions), len(l.Connections), cacheHit)
	printNewline()
	printNextStep("Export", "pedigraph export "+input+" -f svg")

	return nil
}
