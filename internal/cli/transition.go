package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pedigraph/pedigraph/pkg/graph"
	"github.com/pedigraph/pedigraph/pkg/pipeline"
)

// transitionCommand creates the transition command for diffing two
// layout documents.
func (c *CLI) transitionCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "transition [from.layout.json] [to.layout.json]",
		Short: "Compute the animated change set between two layouts",
		Long: `Compute the animated change set between two layouts.

The transition command diffs two layout files (produced by 'layout')
into everything an animation layer needs: persons that appear,
disappear, or move beyond the movement threshold, and the connection
IDs to draw in or fade out. Identical layouts produce an empty change
set. The JSON document goes to stdout unless --output names a file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConfig(&opts)
			return c.runTransition(cmd.Context(), args[0], args[1], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().Float64Var(&opts.MovementThreshold, "threshold", 0, "minimum distance before a move is reported (default 5)")

	return cmd
}

// runTransition loads both layouts, diffs them, and writes the change
// set as JSON.
func (c *CLI) runTransition(ctx context.Context, fromPath, toPath string, opts pipeline.Options, output string, noCache bool) error {
	from, err := graph.ReadLayoutFile(fromPath)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", fromPath, err)
	}
	to, err := graph.ReadLayoutFile(toPath)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", toPath, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	tr, cacheHit, err := runner.ComputeTransitionWithCacheInfo(ctx, from, to, opts)
	if err != nil {
		return fmt.Errorf("compute transition: %w", err)
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tr); err != nil {
		return fmt.Errorf("encode transition: %w", err)
	}

	if output != "" {
		if tr.HasChanges {
			printSuccess("Transition computed")
		} else {
			printInfo("Layouts are identical")
		}
		printFile(output)
		printTransitionSummary(len(tr.Appear), len(tr.Disappear), len(tr.Moves),
			len(tr.ConnectionsToAppear), len(tr.ConnectionsToDisappear))
		if cacheHit {
			printDetail("(cached)")
		}
	}
	return nil
}
