package routesync

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-go/routesync/internal/errors"
	"github.com/vango-go/routesync/pkg/app"
	"github.com/vango-go/routesync/pkg/router"
	"github.com/vango-go/routesync/pkg/routetable"
	"github.com/vango-go/routesync/pkg/store"
)

// Phase is the lifecycle phase of a Scope.
type Phase int

const (
	// PhaseUninitialized means no context is bound and no router exists.
	PhaseUninitialized Phase = iota

	// PhaseBound means a context is bound but no routes arrived yet.
	PhaseBound

	// PhaseActive means a router exists and bound contexts reference it.
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseBound:
		return "bound"
	case PhaseActive:
		return "active"
	default:
		return "uninitialized"
	}
}

// State is the dehydrated form of a scope: {"routes": <transformed table>}.
type State struct {
	Routes routetable.Table `json:"routes"`
}

// Scope is the per-request half of the plugin.
type Scope struct {
	plugin *Plugin
	id     string
	logger *slog.Logger

	mu         sync.Mutex
	router     *router.Router
	action     *app.ActionContext
	component  *app.ComponentContext
	subscribed store.Store
}

var (
	_ app.RequestScope = (*Scope)(nil)
	_ store.Listener   = (*Scope)(nil)
)

// ID returns the scope id used in logs.
func (s *Scope) ID() string { return s.id }

// Router returns the scope's current router, or nil before the first update.
func (s *Scope) Router() *router.Router {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router
}

// Phase reports the scope's lifecycle phase.
func (s *Scope) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.router != nil:
		return PhaseActive
	case s.action != nil || s.component != nil:
		return PhaseBound
	default:
		return PhaseUninitialized
	}
}

// BindActionContext stores ctx, gives it the current router (possibly nil),
// and subscribes the scope to the configured store event. Binding again
// replaces the previous subscription instead of adding a second one.
// A store lookup failure is returned as reported by ctx and leaves the
// scope unbound.
func (s *Scope) BindActionContext(ctx *app.ActionContext) error {
	cfg := s.plugin.cfg
	st, err := ctx.GetStore(cfg.StoreName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.action = ctx
	ctx.Router = s.router
	hasRouter := s.router != nil
	previous := s.subscribed
	s.mu.Unlock()

	s.logger.Debug("bind action context", "has_router", hasRouter)
	s.plugin.cfg.Metrics.recordBind("action")

	if previous != nil && previous != st {
		previous.RemoveListener(cfg.StoreEvent, s)
	}
	st.RemoveListener(cfg.StoreEvent, s)
	st.On(cfg.StoreEvent, s)

	s.mu.Lock()
	s.subscribed = st
	s.mu.Unlock()
	return nil
}

// BindComponentContext stores ctx and, if a router exists, gives it MakePath.
func (s *Scope) BindComponentContext(ctx *app.ComponentContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.component = ctx
	if s.router != nil {
		ctx.MakePath = s.router.MakePathFunc()
	}
	s.logger.Debug("bind component context", "has_router", s.router != nil)
	s.plugin.cfg.Metrics.recordBind("component")
}

// HandleEvent implements store.Listener. Failed updates are logged; the
// previous routes stay in effect.
func (s *Scope) HandleEvent(ev store.Event) {
	if err := s.UpdateRoutes(ev.Routes); err != nil {
		s.logger.Error("route update from store failed", "event", ev.Name, "error", err)
	}
}

// UpdateRoutes replaces the route table, builds a new router and rewires the
// bound contexts. On error nothing changes.
func (s *Scope) UpdateRoutes(routes routetable.Table) error {
	_, span := s.plugin.cfg.Tracer.Start(context.Background(), "routesync.update",
		trace.WithAttributes(
			attribute.String("routesync.scope", s.id),
			attribute.Int("routesync.routes", len(routes)),
		))
	defer span.End()

	s.logger.Debug("updating routes", "routes", len(routes))

	r, err := router.New(routes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.plugin.cfg.Metrics.recordUpdate(err)
		return err
	}

	s.plugin.setRoutes(routes)

	s.mu.Lock()
	s.router = r
	if s.action != nil {
		s.action.Router = r
	}
	if s.component != nil {
		s.component.MakePath = r.MakePathFunc()
	}
	s.mu.Unlock()

	span.SetStatus(codes.Ok, "")
	s.plugin.cfg.Metrics.recordUpdate(nil)
	return nil
}

// Serialize returns the shared table passed through DehydrateRoutes.
func (s *Scope) Serialize() (State, error) {
	routes, err := s.plugin.cfg.DehydrateRoutes(s.plugin.Routes())
	if err != nil {
		return State{}, err
	}
	s.plugin.cfg.Metrics.recordTransfer("serialize")
	return State{Routes: routes}, nil
}

// Deserialize passes state.Routes through RehydrateRoutes and applies the
// result with UpdateRoutes.
func (s *Scope) Deserialize(state State) error {
	_, span := s.plugin.cfg.Tracer.Start(context.Background(), "routesync.deserialize",
		trace.WithAttributes(
			attribute.String("routesync.scope", s.id),
			attribute.Int("routesync.routes", len(state.Routes)),
		))
	defer span.End()

	routes, err := s.plugin.cfg.RehydrateRoutes(state.Routes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	s.plugin.cfg.Metrics.recordTransfer("deserialize")
	return s.UpdateRoutes(routes)
}

// Dehydrate implements app.RequestScope.
func (s *Scope) Dehydrate() (json.RawMessage, error) {
	state, err := s.Serialize()
	if err != nil {
		return nil, err
	}
	return json.Marshal(state)
}

// Rehydrate implements app.RequestScope.
func (s *Scope) Rehydrate(raw json.RawMessage) error {
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return errors.New("R009").WithDetail(Name).Wrap(err)
	}
	return s.Deserialize(state)
}
