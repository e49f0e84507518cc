package app

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vango-go/routesync/internal/errors"
	"github.com/vango-go/routesync/pkg/store"
)

// StoreFactory creates a store instance for a new Context.
type StoreFactory func() store.Store

// App holds the plugins and store factories shared by all contexts.
type App struct {
	mu      sync.RWMutex
	plugins []Plugin
	stores  map[string]StoreFactory
	logger  *slog.Logger
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// New creates an App.
func New(opts ...Option) *App {
	a := &App{stores: make(map[string]StoreFactory)}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Plug adds a plugin. Plugin names must be unique.
func (a *App) Plug(p Plugin) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, existing := range a.plugins {
		if existing.Name() == p.Name() {
			return errors.New("R007").WithDetail(p.Name())
		}
	}
	a.plugins = append(a.plugins, p)
	a.logger.Debug("plugin registered", "plugin", p.Name())
	return nil
}

// Plugins returns the registered plugins in registration order.
func (a *App) Plugins() []Plugin {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]Plugin(nil), a.plugins...)
}

// RegisterStore registers a store factory under name, replacing any previous one.
func (a *App) RegisterStore(name string, factory StoreFactory) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stores[name] = factory
}

// CreateContext creates a Context with fresh stores and plugin scopes.
func (a *App) CreateContext() *Context {
	a.mu.RLock()
	defer a.mu.RUnlock()

	c := &Context{
		id:     uuid.NewString(),
		stores: make(map[string]store.Store, len(a.stores)),
	}
	c.logger = a.logger.With("context", c.id)

	names := make([]string, 0, len(a.stores))
	for name := range a.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.stores[name] = a.stores[name]()
		c.storeOrder = append(c.storeOrder, name)
	}

	for _, p := range a.plugins {
		c.scopes = append(c.scopes, pluginScope{name: p.Name(), scope: p.CreateRequestScope()})
	}
	return c
}
