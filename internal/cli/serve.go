package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pedigraph/pedigraph/internal/api"
	"github.com/pedigraph/pedigraph/pkg/cache"
	"github.com/pedigraph/pedigraph/pkg/observability"
	"github.com/pedigraph/pedigraph/pkg/pipeline"
	"github.com/pedigraph/pedigraph/pkg/store"
)

// serveOptions collects the serve flags.
type serveOptions struct {
	addr        string
	storeKind   string
	mongoURI    string
	mongoDB     string
	cacheKind   string
	redisURL    string
	cachePrefix string
	metrics     bool
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	so := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

The serve command exposes the pipeline over HTTP: layout, connection
and transition computation on inline or stored documents, plus a named
graph store under /v1/graphs. Graphs live in memory by default;
--store mongo keeps them in MongoDB instead. The pipeline cache
defaults to the same on-disk cache the other commands use and can be
pointed at Redis for shared deployments; --cache-prefix namespaces the
keys when several instances share one backend.

The server runs until interrupted and drains in-flight requests on
shutdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), so)
		},
	}

	cmd.Flags().StringVar(&so.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&so.storeKind, "store", "memory", "graph store backend: memory or mongo")
	cmd.Flags().StringVar(&so.mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB connection string for --store mongo")
	cmd.Flags().StringVar(&so.mongoDB, "mongo-db", store.DefaultDatabase, "MongoDB database for --store mongo")
	cmd.Flags().StringVar(&so.cacheKind, "cache", "file", "pipeline cache backend: file, redis or none")
	cmd.Flags().StringVar(&so.redisURL, "redis-url", "redis://localhost:6379/0", "Redis URL for --cache redis")
	cmd.Flags().StringVar(&so.cachePrefix, "cache-prefix", "", "namespace for cache keys on shared backends")
	cmd.Flags().BoolVar(&so.metrics, "metrics", false, "expose Prometheus metrics on /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, so serveOptions) error {
	serveCache, err := c.serveCache(ctx, so)
	if err != nil {
		return err
	}

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if so.cachePrefix != "" {
		keyer = cache.NewScopedKeyer(keyer, so.cachePrefix)
	}

	runner := pipeline.NewRunner(serveCache, keyer, c.Logger)
	defer runner.Close()

	st, err := c.serveStore(ctx, so)
	if err != nil {
		return err
	}
	// ctx is already canceled by the time the deferred close runs.
	defer st.Close(context.Background())

	dep := api.Dependencies{
		Runner: runner,
		Store:  st,
		Logger: c.Logger,
	}
	if so.metrics {
		m := observability.NewMetrics()
		m.Install()
		dep.Metrics = m
	}

	c.Logger.Info("starting server",
		"addr", so.addr, "store", so.storeKind, "cache", so.cacheKind, "metrics", so.metrics)

	return api.New(dep).ListenAndServe(ctx, so.addr)
}

func (c *CLI) serveStore(ctx context.Context, so serveOptions) (store.Store, error) {
	switch so.storeKind {
	case "memory":
		return store.NewMemoryStore(), nil
	case "mongo":
		st, err := store.NewMongoStore(ctx, so.mongoURI, so.mongoDB)
		if err != nil {
			return nil, fmt.Errorf("connect mongo store: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (expected memory or mongo)", so.storeKind)
	}
}

func (c *CLI) serveCache(ctx context.Context, so serveOptions) (cache.Cache, error) {
	switch so.cacheKind {
	case "file":
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	case "redis":
		// Redis often comes up alongside the server; retry transient
		// connection failures instead of dying on the startup race.
		var rc cache.Cache
		err := cache.RetryWithBackoff(ctx, func() error {
			var connErr error
			rc, connErr = cache.NewRedisCache(ctx, so.redisURL)
			return connErr
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return rc, nil
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (expected file, redis or none)", so.cacheKind)
	}
}
