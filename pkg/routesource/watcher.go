package routesource

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/vango-go/routesync/internal/errors"
	"github.com/vango-go/routesync/pkg/router"
	"github.com/vango-go/routesync/pkg/routetable"
	"github.com/vango-go/routesync/pkg/store"
)

// Dispatcher receives actions. *app.Context satisfies it.
type Dispatcher interface {
	Dispatch(action string, payload any) error
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Interval between polls. Zero loads once and returns.
	Interval time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Watcher polls a Source and dispatches store.ReceiveRoutesAction whenever
// the loaded table differs from the last one dispatched.
type Watcher struct {
	source     Source
	dispatcher Dispatcher
	config     WatcherConfig

	mu   sync.Mutex
	last routetable.Table
}

// NewWatcher creates a watcher for source.
func NewWatcher(source Source, dispatcher Dispatcher, config WatcherConfig) *Watcher {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	config.Logger = config.Logger.With("source", source.String())
	return &Watcher{
		source:     source,
		dispatcher: dispatcher,
		config:     config,
	}
}

// Sync loads the source once and dispatches the table if it changed.
func (w *Watcher) Sync(ctx context.Context) (bool, error) {
	table, err := w.source.Load(ctx)
	if err != nil {
		return false, errors.New("R012").WithDetail(w.source.String()).Wrap(err)
	}
	// Store listeners only log router failures, so a table the router
	// rejects must not be dispatched.
	if _, err := router.New(table); err != nil {
		return false, errors.New("R012").WithDetail(w.source.String()).Wrap(err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.last != nil && reflect.DeepEqual(w.last, table) {
		return false, nil
	}
	if err := w.dispatcher.Dispatch(store.ReceiveRoutesAction, table); err != nil {
		return false, err
	}
	w.last = table
	w.config.Logger.Info("routes loaded", "routes", len(table))
	return true, nil
}

// Start loads the source, then polls until ctx is cancelled. Poll failures
// are logged and the previous table stays in effect. The first load must
// succeed.
func (w *Watcher) Start(ctx context.Context) error {
	if _, err := w.Sync(ctx); err != nil {
		return err
	}
	if w.config.Interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Sync(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.config.Logger.Warn("route source poll failed", "error", err)
			}
		}
	}
}

// Last returns the table most recently dispatched.
func (w *Watcher) Last() routetable.Table {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}
