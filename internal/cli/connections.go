package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pedigraph/pedigraph/pkg/graph"
	"github.com/pedigraph/pedigraph/pkg/pipeline"
)

// connectionsCommand creates the connections command for deriving the
// edge set of a family document.
func (c *CLI) connectionsCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "connections [family.json]",
		Short: "Derive the connection set of a family document",
		Long: `Derive the connection set of a family document.

Connections are the drawable edges of a chart: one spouse connection
per couple and one parent-child connection per parent/child pair, with
canonical IDs that stay identical across recomputations. The JSON
array goes to stdout unless --output names a file.

With --highlight-from and --highlight-to, connections on the shortest
relationship path between the two persons are flagged highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return c.runConnections(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	inputFlags(cmd, &opts)
	highlightFlags(cmd, &opts)

	return cmd
}

// runConnections parses the document, derives its connections, and
// writes them as JSON.
func (c *CLI) runConnections(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	g, _, err := runner.Parse(ctx, opts)
	if err != nil {
		return err
	}

	conns, cacheHit, err := runner.DeriveConnectionsWithCacheInfo(ctx, g, opts)
	if err != nil {
		return fmt.Errorf("derive connections: %w", err)
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(graph.FromConnections(conns)); err != nil {
		return fmt.Errorf("encode connections: %w", err)
	}

	if output != "" {
		printSuccess("Derived %d connections", len(conns))
		printFile(output)
		printStats(g.Count(), len(conns), cacheHit)
	}
	return nil
}
