package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pedigraph/pedigraph/pkg/connection"
	"github.com/pedigraph/pedigraph/pkg/graph"
	"github.com/pedigraph/pedigraph/pkg/pipeline"
)

// watchDebounce coalesces the burst of filesystem events editors emit
// per save into a single recompute.
const watchDebounce = 500 * time.Millisecond

// watchCommand creates the watch command for live recomputation.
func (c *CLI) watchCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "watch [family.json]",
		Short: "Recompute the layout whenever the document changes",
		Long: `Recompute the layout whenever the document changes.

The watch command keeps a layout session alive: every save of the
document re-runs the pipeline, writes the updated layout next to the
input, and prints the transition from the previous state - who
appeared, disappeared, or moved, and which connections draw in or fade
out. Connection animation state is carried across recomputes, so an
edge that survives an edit keeps its identity instead of re-animating.

Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			c.applyConfig(&opts)
			return c.runWatch(cmd.Context(), args[0], opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	inputFlags(cmd, &opts)
	spacingFlags(cmd, &opts)
	highlightFlags(cmd, &opts)

	return cmd
}

// watchSession threads layout and connection state between recomputes.
type watchSession struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	input  string
	output string

	// last is the previous desired snapshot, the baseline the next
	// transition is diffed against.
	last    graph.Layout
	hasLast bool

	// conns is the on-screen connection set, including edges still
	// fading out.
	conns []*connection.Connection
}

// runWatch computes the initial layout, then recomputes on every
// debounced change of the input document until the context ends.
func (c *CLI) runWatch(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger
	opts.SetLayoutDefaults()

	session := &watchSession{
		runner: runner,
		opts:   opts,
		input:  input,
		output: layoutPath(input),
	}

	if err := session.recompute(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors that save via
	// rename-and-replace would otherwise detach the watch.
	dir := filepath.Dir(input)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger := loggerFromContext(ctx)
	logger.Debug("watching for changes", "dir", dir, "file", filepath.Base(input))

	var debounce *time.Timer
	var debounceC <-chan time.Time
	target := filepath.Clean(input)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("document changed", "op", event.Op.String())
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(watchDebounce)
			}
			debounceC = debounce.C

		case <-debounceC:
			debounceC = nil
			if err := session.recompute(ctx); err != nil {
				// Half-saved documents are expected while editing;
				// report and keep watching.
				printWarning("%v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "err", err)
		}
	}
}

// recompute runs the pipeline once, prints the transition from the
// previous snapshot, and writes the layout with carried-over
// connection animation state.
func (s *watchSession) recompute(ctx context.Context) error {
	g, rootID, err := s.runner.Parse(ctx, s.opts)
	if err != nil {
		return err
	}

	l, _, err := s.runner.ComputeLayoutWithCacheInfo(ctx, g, rootID, s.opts)
	if err != nil {
		return err
	}

	// Diff against the fresh desired set so a removed edge is reported
	// exactly once, not again on every later save.
	if s.hasLast {
		tr, err := pipeline.ComputeTransition(s.last, l, s.opts.MovementThreshold)
		if err != nil {
			return err
		}
		if tr.HasChanges {
			printInfo("Updated %s", s.output)
			printTransitionSummary(len(tr.Appear), len(tr.Disappear), len(tr.Moves),
				len(tr.ConnectionsToAppear), len(tr.ConnectionsToDisappear))
		} else {
			printDetail("no visible changes")
		}
	}

	// Reconcile the on-screen connection set: surviving edges keep
	// their animation state, removed ones turn disappearing.
	desired, err := graph.ToConnections(l.Connections)
	if err != nil {
		return err
	}
	var highlighted map[string]struct{}
	if s.opts.ShouldHighlight() {
		highlighted = connection.HighlightSet(g.Path(s.opts.HighlightFrom, s.opts.HighlightTo))
	}
	s.conns = connection.Update(s.conns, desired, highlighted)

	onScreen := l
	onScreen.Connections = graph.FromConnections(s.conns)
	if err := graph.WriteLayoutFile(onScreen, s.output); err != nil {
		return fmt.Errorf("write layout %s: %w", s.output, err)
	}

	if !s.hasLast {
		printSuccess("Watching %s", s.input)
		printFile(s.output)
		printStats(len(l.Positions), len(l.Connections), false)
	}

	// The emitted transition is this cycle's animation; count the
	// fade-out as played so finished edges drop before the next diff.
	for _, cn := range s.conns {
		if cn.Anim.Disappearing {
			cn.Anim.Opacity = 0
		}
	}
	s.conns = connection.Prune(s.conns)

	s.last = l
	s.hasLast = true
	return nil
}
