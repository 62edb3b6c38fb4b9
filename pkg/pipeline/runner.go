package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pedigraph/pedigraph/pkg/cache"
	"github.com/pedigraph/pedigraph/pkg/connection"
	"github.com/pedigraph/pedigraph/pkg/graph"
	"github.com/pedigraph/pedigraph/pkg/kin"
	"github.com/pedigraph/pedigraph/pkg/observability"
)

// Runner executes pipeline stages with caching in front of the
// expensive ones. CLI and API share it so caching behaves the same
// from every entry point.
//
// The Runner is stateless except for the cache and logger - it holds
// no pipeline results. Multiple goroutines can safely share one Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer gets the DefaultKeyer; a nil cache gets a NullCache, so
// caching is effectively disabled.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	g, rootID, err := Parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Graph = g
	result.Root = rootID
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.PersonCount = g.Count()

	// Content hash for cache keys and API responses
	if hash, err := GraphHash(g); err == nil {
		result.GraphHash = hash
	}

	r.Logger.Info("parsed family document",
		"persons", g.Count(),
		"root", rootID,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, g, rootID, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.ConnectionCount = len(l.Connections)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"mode", opts.Mode(),
		"positions", len(l.Positions),
		"connections", len(l.Connections),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Export
	exportStart := time.Now()
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("exported artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Parse reads and indexes the family document. Parsing local documents
// is cheap, so this stage is never cached.
func (r *Runner) Parse(ctx context.Context, opts Options) (*kin.Graph, string, error) {
	r.applyLogger(&opts)
	return Parse(ctx, opts)
}

// ComputeLayoutWithCacheInfo computes a layout with caching and
// reports whether the result came from cache.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g *kin.Graph, rootID string, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	r.applyLogger(&opts)

	hash, err := GraphHash(g)
	if err != nil {
		return graph.Layout{}, false, fmt.Errorf("hash graph for cache key: %w", err)
	}
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts(rootID))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// Undecodable entries fall through to recompute.
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	l, err := ComputeLayout(ctx, g, rootID, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}
	return l, false, nil
}

// ComputeLayout calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g *kin.Graph, rootID string, opts Options) (graph.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, rootID, opts)
	return l, err
}

// DeriveConnectionsWithCacheInfo derives the connection set with
// caching. The cache stores the graph's raw edge set; highlighting is
// a per-request decoration applied after retrieval, so one cached
// derivation serves every highlight pair.
func (r *Runner) DeriveConnectionsWithCacheInfo(ctx context.Context, g *kin.Graph, opts Options) ([]*connection.Connection, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hash, err := GraphHash(g)
	if err != nil {
		return nil, false, fmt.Errorf("hash graph for cache key: %w", err)
	}
	key := r.Keyer.ConnectionsKey(hash)

	var conns []*connection.Connection
	cacheHit := false
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var wire []graph.Connection
			if err := json.Unmarshal(data, &wire); err == nil {
				if cs, err := graph.ToConnections(wire); err == nil {
					conns = cs
					cacheHit = true
					observability.Cache().OnCacheHit(ctx, "connections")
				}
			}
		}
	}

	if conns == nil {
		observability.Cache().OnCacheMiss(ctx, "connections")
		conns = connection.Derive(g)
		if data, err := json.Marshal(graph.FromConnections(conns)); err == nil {
			_ = r.Cache.Set(ctx, key, data, cache.TTLConnections)
			observability.Cache().OnCacheSet(ctx, "connections", len(data))
		}
	}

	if opts.ShouldHighlight() {
		connection.Highlight(conns, connection.HighlightSet(g.Path(opts.HighlightFrom, opts.HighlightTo)))
	}
	return conns, cacheHit, nil
}

// DeriveConnections calls DeriveConnectionsWithCacheInfo and discards the cache hit info.
func (r *Runner) DeriveConnections(ctx context.Context, g *kin.Graph, opts Options) ([]*connection.Connection, error) {
	conns, _, err := r.DeriveConnectionsWithCacheInfo(ctx, g, opts)
	return conns, err
}

// ComputeTransitionWithCacheInfo diffs two layout documents with
// caching and reports whether the result came from cache.
func (r *Runner) ComputeTransitionWithCacheInfo(ctx context.Context, from, to graph.Layout, opts Options) (graph.Transition, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	fromData, err := graph.MarshalLayout(from)
	if err != nil {
		return graph.Transition{}, false, fmt.Errorf("serialize current layout: %w", err)
	}
	toData, err := graph.MarshalLayout(to)
	if err != nil {
		return graph.Transition{}, false, fmt.Errorf("serialize destination layout: %w", err)
	}
	key := r.Keyer.TransitionKey(cache.Hash(fromData), cache.Hash(toData), opts.MovementThreshold)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := graph.UnmarshalTransition(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "transition")
				return cached, true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "transition")

	t, err := ComputeTransition(from, to, opts.MovementThreshold)
	if err != nil {
		return graph.Transition{}, false, err
	}

	if data, err := graph.MarshalTransition(t); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLTransition)
		observability.Cache().OnCacheSet(ctx, "transition", len(data))
	}
	return t, false, nil
}

// ComputeTransition calls ComputeTransitionWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeTransition(ctx context.Context, from, to graph.Layout, opts Options) (graph.Transition, error) {
	t, _, err := r.ComputeTransitionWithCacheInfo(ctx, from, to, opts)
	return t, err
}

// ExportWithCacheInfo renders artifacts with caching and reports
// whether every format came from cache.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Only a full set of cached formats counts as a hit; a partial set
	// still costs one render pass, so everything is re-rendered.
	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := !opts.Refresh
	if allCached {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				allCached = false
				break
			}
			artifacts[format] = data
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := Export(ctx, l, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Export calls ExportWithCacheInfo and discards the cache hit info.
func (r *Runner) Export(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// GraphHash content-addresses a graph for cache keys. The root is
// deliberately left out: it goes into the key options of the stages it
// affects, so stages that do not depend on the root (connections)
// share entries across roots.
func GraphHash(g *kin.Graph) (string, error) {
	data, err := graph.MarshalGraph(g, "")
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
