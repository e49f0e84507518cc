package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-go/routesync/pkg/routesource"
	"github.com/vango-go/routesync/pkg/routesync"
	"github.com/vango-go/routesync/pkg/syncserver"
)

func serveCmd(configPath *string) *cobra.Command {
	var (
		addr   string
		routes string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the authoritative route table",
		Long: `Start the sync server.

The server loads routes from the configured source (or --routes), polls it
for changes, and pushes every new table to WebSocket followers.

Examples:
  routesync serve
  routesync serve --addr=:9090 --routes=routes.yaml
  routesync serve --routes=s3://my-bucket/prod/routes.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath, addr, routes)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from routesync.json)")
	cmd.Flags().StringVarP(&routes, "routes", "r", "", "Route file or s3://bucket/key (default from routesync.json)")

	return cmd
}

func runServe(configPath, addr, routes string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	metrics := routesync.NewMetrics(routesync.WithNamespace(cfg.Metrics.Namespace))
	a, _, err := newApp(cfg, logger, metrics)
	if err != nil {
		return err
	}

	srv, err := syncserver.New(a, syncserver.Config{
		StoreName:        cfg.Plugin.StoreName,
		StoreEvent:       cfg.Plugin.StoreEvent,
		Logger:           logger,
		MetricsNamespace: cfg.Metrics.Namespace,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := newSource(cfg.Source)
	if routes != "" {
		if source, err = sourceFor(routes); err != nil {
			return err
		}
	}
	if source != nil {
		interval, _ := cfg.Source.Interval()
		w := routesource.NewWatcher(source, srv, routesource.WatcherConfig{
			Interval: interval,
			Logger:   logger,
		})
		// The first load must succeed before serving.
		if _, err := w.Sync(ctx); err != nil {
			return err
		}
		go func() {
			if err := w.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("route watcher stopped", "error", err)
			}
		}()
		success("Loaded routes from %s", source)
	} else {
		warn("No route source configured; waiting for PUT /routes")
	}

	info("Listening on %s", cfg.Server.Addr)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
