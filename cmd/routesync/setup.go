package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-go/routesync/internal/config"
	"github.com/vango-go/routesync/pkg/app"
	"github.com/vango-go/routesync/pkg/routesource"
	"github.com/vango-go/routesync/pkg/routesync"
	"github.com/vango-go/routesync/pkg/store"
)

// loadConfig reads path, or ./routesync.json when path is empty. A missing
// default file yields the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if _, err := os.Stat(config.ConfigFileName); os.IsNotExist(err) {
		return config.New(), nil
	}
	return config.Load(".")
}

// newApp builds an app with the routes store and the route sync plugin
// configured from cfg.
func newApp(cfg *config.Config, logger *slog.Logger, metrics *routesync.Metrics) (*app.App, *routesync.Plugin, error) {
	plugin, err := routesync.New(routesync.Config{
		StoreName:  cfg.Plugin.StoreName,
		StoreEvent: cfg.Plugin.StoreEvent,
		Logger:     logger,
		Metrics:    metrics,
	})
	if err != nil {
		return nil, nil, err
	}

	a := app.New(app.WithLogger(logger))
	a.RegisterStore(cfg.Plugin.StoreName, func() store.Store { return store.NewRoutesStore() })
	if err := a.Plug(plugin); err != nil {
		return nil, nil, err
	}
	return a, plugin, nil
}

// newSource builds the configured route source, or nil if there is none.
func newSource(cfg config.SourceConfig) routesource.Source {
	switch {
	case cfg.File != "":
		return routesource.FileSource{Path: cfg.File}
	case cfg.S3Bucket != "":
		return routesource.NewS3Source(routesource.NewS3Client(cfg.S3Region), cfg.S3Bucket, cfg.S3Key)
	}
	return nil
}

// sourceFor returns the source for a route file path or s3://bucket/key.
func sourceFor(ref string) (routesource.Source, error) {
	if rest, ok := strings.CutPrefix(ref, "s3://"); ok {
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return nil, fmt.Errorf("s3 reference %q must look like s3://bucket/key", ref)
		}
		return routesource.NewS3Source(routesource.NewS3Client(""), bucket, key), nil
	}
	return routesource.FileSource{Path: filepath.Clean(ref)}, nil
}

// parseParams turns key=value arguments into path params.
func parseParams(args []string) (map[string]any, error) {
	params := make(map[string]any, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("param %q must be key=value", arg)
		}
		params[k] = v
	}
	return params, nil
}
