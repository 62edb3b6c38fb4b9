package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pedigraph/pedigraph/pkg/pipeline"
)

// exportCommand creates the export command for rendering chart
// artifacts straight from a family document.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output     string
		noCache    bool
		formatsStr string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "export [family.json]",
		Short: "Export chart artifacts from a family document",
		Long: `Export chart artifacts from a family document.

The export command runs the full pipeline: parse the document, compute
the layout, and render the requested formats. DOT output is the
Graphviz source; svg and png are rendered from it; json is the layout
document itself (the same format 'layout' writes).

Layout and rendered artifacts are cached independently, so changing
only the output format reuses the cached layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			c.applyConfig(&opts)
			return c.runExport(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include birth year and generation in labels")
	inputFlags(cmd, &opts)
	spacingFlags(cmd, &opts)
	highlightFlags(cmd, &opts)

	return cmd
}

// runExport runs the full pipeline and writes every rendered format.
func (c *CLI) runExport(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinner(ctx, "Exporting chart...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Export complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.PersonCount, result.Stats.ConnectionCount, result.CacheInfo.ExportHit)
	return nil
}

// writeArtifacts writes each rendered format to its own file. A single
// format goes to --output directly when given; multiple formats share
// it as a base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	base := artifactBase(output, input)

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if output != "" && len(formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactBase derives the base output path. A known format extension
// is stripped from --output so "-o chart.svg" combined with multiple
// formats yields chart.png next to chart.svg.
func artifactBase(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidateFormat(ext) == nil {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}
