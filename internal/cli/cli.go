// Package cli implements the pedigraph command-line interface.
//
// The package provides commands for computing family-chart layouts from
// relationship documents, deriving connection sets, diffing two layouts
// into an animated transition, exporting DOT/SVG/PNG artifacts, watching
// a document for live recomputation, stepping through incremental
// layouts in the terminal, and serving the HTTP API. Commands are built
// on cobra; logging uses charmbracelet/log with --verbose switching to
// debug level.
//
// Layout and export results are cached under the XDG cache directory
// (~/.cache/pedigraph/) keyed by graph content, so repeated runs over an
// unchanged document are instant. --no-cache and --refresh opt out per
// invocation.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pedigraph/pedigraph/pkg/buildinfo"
	"github.com/pedigraph/pedigraph/pkg/cache"
	"github.com/pedigraph/pedigraph/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "pedigraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// config is the optional pedigraph.toml, loaded by the root
	// command before any subcommand runs.
	config *fileConfig
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered. The persistent pre-run loads the config file and attaches
// the logger to the command context for the long-running commands.
func (c *CLI) RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "pedigraph",
		Short:        "Pedigraph lays out family graphs as animated charts",
		Long: `Pedigraph computes 2-D chart layouts for family and relationship
graphs, with stable positions across edits so charts can animate
smoothly from one state to the next.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, c.Logger)
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./pedigraph.toml if present)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.connectionsCommand())
	root.AddCommand(c.transitionCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/pedigraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// inputFlags registers the flags shared by every command that reads a
// family document: root override, scope cutting, and cache control.
func inputFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.Root, "root", "", "root person ID (default: the document's declared root)")
	cmd.Flags().IntVar(&opts.MaxDegree, "max-degree", 0, "clip the graph to persons within N degrees of the root (0 = no clipping)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached result exists")
}

// spacingFlags registers the layout tuning flags. Zero means unset:
// the config file fills unset values, then built-in defaults apply.
func spacingFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.BaseSpacing, "base-spacing", 0, "horizontal spacing between persons (default 100)")
	cmd.Flags().Float64Var(&opts.SpouseSpacing, "spouse-spacing", 0, "horizontal spacing between spouses (default 80)")
	cmd.Flags().Float64Var(&opts.VerticalSpacing, "vertical-spacing", 0, "vertical spacing between generations (default 120)")
	cmd.Flags().Float64Var(&opts.MinSpacing, "min-spacing", 0, "minimum spacing kept by collision probing (default 50)")
	cmd.Flags().Float64Var(&opts.ExpansionFactor, "expansion-factor", 0, "fallback spacing growth factor (default 1.5)")
}

// highlightFlags registers the relationship-path highlight pair.
func highlightFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.HighlightFrom, "highlight-from", "", "highlight the relationship path starting at this person")
	cmd.Flags().StringVar(&opts.HighlightTo, "highlight-to", "", "highlight the relationship path ending at this person")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// layoutPath derives the default layout output path from the input
// document path: family.json becomes family.layout.json.
func layoutPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".layout.json"
}

// nopCloser wraps an io.Writer with a no-op Close so os.Stdout can be
// used where an io.WriteCloser is expected.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path. An empty path
// means stdout; otherwise the file is created, overwriting any
// existing one.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
