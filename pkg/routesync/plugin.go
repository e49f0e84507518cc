package routesync

import (
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/vango-go/routesync/pkg/app"
	"github.com/vango-go/routesync/pkg/routetable"
)

// Name is the plugin name, and the key of its state in dehydrated payloads.
const Name = "RouteSyncPlugin"

const tracerName = "routesync"

// Plugin creates request scopes that share one route table.
type Plugin struct {
	cfg Config

	mu     sync.RWMutex
	routes routetable.Table
}

var _ app.Plugin = (*Plugin)(nil)

// New creates a plugin.
func New(cfg Config) (*Plugin, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(tracerName)
	}
	return &Plugin{cfg: cfg}, nil
}

// Name implements app.Plugin.
func (p *Plugin) Name() string { return Name }

// Routes returns the current route table, or nil before the first update.
// The returned table is the one that was applied, not a copy.
func (p *Plugin) Routes() routetable.Table {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.routes
}

func (p *Plugin) setRoutes(t routetable.Table) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes = t
	p.cfg.Metrics.setRouteCount(len(t))
}

// CreateRequestScope implements app.Plugin.
func (p *Plugin) CreateRequestScope() app.RequestScope {
	return p.NewScope()
}

// NewScope returns a fresh request scope.
func (p *Plugin) NewScope() *Scope {
	id := uuid.NewString()
	p.cfg.Logger.Debug("new request scope", "plugin", Name, "scope", id)
	return &Scope{
		plugin: p,
		id:     id,
		logger: p.cfg.Logger.With("plugin", Name, "scope", id),
	}
}
