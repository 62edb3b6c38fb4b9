package pipeline

import (
	"context"
	"time"

	"github.com/pedigraph/pedigraph/pkg/connection"
	apperrors "github.com/pedigraph/pedigraph/pkg/errors"
	"github.com/pedigraph/pedigraph/pkg/graph"
	"github.com/pedigraph/pedigraph/pkg/kin"
	"github.com/pedigraph/pedigraph/pkg/layout"
	"github.com/pedigraph/pedigraph/pkg/observability"
	"github.com/pedigraph/pedigraph/pkg/transition"
)

// =============================================================================
// Layout Stage
// =============================================================================

// ComputeLayout places every in-scope person and assembles the layout
// document, connections included. Incremental mode additionally
// records one positions snapshot per placement, so a UI can replay the
// construction step by step.
func ComputeLayout(ctx context.Context, g *kin.Graph, rootID string, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Mode(), g.Count())

	l, err := computeLayout(g, rootID, opts)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Mode(), time.Since(start), err)
	if err != nil {
		return graph.Layout{}, err
	}

	opts.Logger.Debug("computed layout",
		"mode", opts.Mode(),
		"positions", len(l.Positions),
		"connections", len(l.Connections))
	return l, nil
}

func computeLayout(g *kin.Graph, rootID string, opts Options) (graph.Layout, error) {
	engine := &layout.Engine{Logger: opts.Logger}
	cfg := opts.LayoutConfig()

	var (
		positions []layout.Position
		steps     [][]layout.Position
		err       error
	)
	if opts.Incremental {
		steps, err = engine.ComputeIncremental(g, rootID, opts.oracle(), cfg)
		if err == nil && len(steps) > 0 {
			positions = steps[len(steps)-1]
		}
	} else {
		positions, err = engine.Compute(g, rootID, opts.oracle(), cfg)
	}
	if err != nil {
		return graph.Layout{}, err
	}

	conns := placedConnections(g, positions, opts)
	if opts.Incremental {
		return graph.NewIncrementalLayout(rootID, cfg, steps, conns), nil
	}
	return graph.NewLayout(rootID, cfg, positions, conns), nil
}

// placedConnections derives the document's connection set: every edge
// whose endpoints both received a position. An external oracle can
// put persons out of scope, and connections must never dangle into
// positions the document does not carry.
func placedConnections(g *kin.Graph, placed []layout.Position, opts Options) []*connection.Connection {
	inScope := make(map[string]struct{}, len(placed))
	for _, p := range placed {
		inScope[p.ID] = struct{}{}
	}

	conns := connection.Derive(g)
	kept := conns[:0]
	for _, c := range conns {
		if _, ok := inScope[c.FromID]; !ok {
			continue
		}
		if _, ok := inScope[c.ToID]; !ok {
			continue
		}
		kept = append(kept, c)
	}

	if opts.ShouldHighlight() {
		connection.Highlight(kept, connection.HighlightSet(g.Path(opts.HighlightFrom, opts.HighlightTo)))
	}
	return kept
}

// =============================================================================
// Connections Stage
// =============================================================================

// DeriveConnections derives the deterministic connection set of a
// graph, highlighted along the shortest relationship path when the
// options request one.
func DeriveConnections(g *kin.Graph, opts Options) []*connection.Connection {
	conns := connection.Derive(g)
	if opts.ShouldHighlight() {
		connection.Highlight(conns, connection.HighlightSet(g.Path(opts.HighlightFrom, opts.HighlightTo)))
	}
	return conns
}

// =============================================================================
// Transition Stage
// =============================================================================

// ComputeTransition diffs two layout documents into the change set an
// animation layer needs: appeared, disappeared, moved (beyond the
// threshold), and the connection ID deltas. A negative threshold
// selects the default.
func ComputeTransition(from, to graph.Layout, threshold float64) (graph.Transition, error) {
	cur, err := from.State()
	if err != nil {
		return graph.Transition{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "current layout")
	}
	dst, err := to.State()
	if err != nil {
		return graph.Transition{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "destination layout")
	}
	return graph.FromTransition(transition.Compute(cur, dst, threshold)), nil
}
