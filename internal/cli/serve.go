package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkagesim/internal/server"
	"github.com/matzehuels/linkagesim/pkg/cache"
	"github.com/matzehuels/linkagesim/pkg/observability"
)

// serveCommand creates the serve command, which runs the HTTP host.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		ttl       time.Duration
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP solver host",
		Long: `Run an HTTP server exposing the solver.

Endpoints:
  POST /v1/solve   solve a chain once
  POST /v1/sweep   solve a chain over a theta range
  GET  /healthz    liveness, version and solve counters

With --redis, solved results are cached in Redis and shared between
replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var results cache.Cache = cache.NewNullCache()
			if redisAddr != "" {
				rc, err := cache.NewRedisCache(ctx, redisAddr)
				if err != nil {
					return fmt.Errorf("connect redis %s: %w", redisAddr, err)
				}
				results = rc
				c.Logger.Info("Caching results in redis", "addr", redisAddr, "ttl", ttl)
			}
			defer results.Close()

			stats := server.NewStats()
			observability.SetSolverHooks(stats)
			observability.SetCacheHooks(stats)
			defer observability.Reset()

			srv := server.New(server.Options{
				Cache:   results,
				Keyer:   newKeyer(),
				TTL:     ttl,
				Workers: workers,
				Logger:  c.Logger,
				Stats:   stats,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for the result cache (disabled if empty)")
	cmd.Flags().DurationVar(&ttl, "ttl", cache.DefaultTTL, "cache entry lifetime")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent solves per sweep (default GOMAXPROCS)")

	return cmd
}
