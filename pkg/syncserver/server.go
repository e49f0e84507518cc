package syncserver

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-go/routesync/pkg/app"
	"github.com/vango-go/routesync/pkg/middleware"
	"github.com/vango-go/routesync/pkg/router"
	"github.com/vango-go/routesync/pkg/store"
)

// Config configures a Server.
type Config struct {
	// StoreName and StoreEvent name the store and event that announce route
	// changes. They default to store.RoutesStoreName and store.ChangeEvent.
	StoreName  string
	StoreEvent string

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Registerer receives the HTTP metrics; Gatherer backs /metrics.
	// Both default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	// MetricsNamespace prefixes the HTTP metrics (default "routesync").
	MetricsNamespace string

	// TracerProvider overrides the global OpenTelemetry provider.
	TracerProvider trace.TracerProvider

	// ShutdownTimeout bounds graceful shutdown (default 5s).
	ShutdownTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.StoreName == "" {
		c.StoreName = store.RoutesStoreName
	}
	if c.StoreEvent == "" {
		c.StoreEvent = store.ChangeEvent
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Registerer == nil {
		c.Registerer = prometheus.DefaultRegisterer
	}
	if c.Gatherer == nil {
		c.Gatherer = prometheus.DefaultGatherer
	}
	if c.MetricsNamespace == "" {
		c.MetricsNamespace = "routesync"
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	return c
}

// Server holds the authoritative context. All access to it goes through mu,
// since app.Context is not safe for concurrent use.
type Server struct {
	config Config
	logger *slog.Logger
	hub    *Hub

	mu   sync.Mutex
	ctx  *app.Context
	actx *app.ActionContext

	handler http.Handler
}

// New creates a server over a fresh context of a. Every plugin is bound to
// the context's action context before the server subscribes to changes, so
// broadcasts always see the updated plugin state.
func New(a *app.App, config Config) (*Server, error) {
	config = config.withDefaults()

	ctx := a.CreateContext()
	actx, err := ctx.GetActionContext()
	if err != nil {
		return nil, err
	}
	ctx.GetComponentContext()

	st, err := ctx.GetStore(config.StoreName)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config: config,
		logger: config.Logger.With("component", "syncserver"),
		hub:    NewHub(config.Logger.With("component", "hub")),
		ctx:    ctx,
		actx:   actx,
	}
	st.On(config.StoreEvent, store.NewListener(s.onChange))
	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry(middleware.WithTracerProvider(s.config.TracerProvider)))
	r.Use(middleware.Prometheus(
		middleware.WithNamespace(s.config.MetricsNamespace),
		middleware.WithRegistry(s.config.Registerer),
	))

	r.Get("/healthz", s.handleHealth)
	r.Get("/routes", s.handleGetRoutes)
	r.Put("/routes", s.handlePutRoutes)
	r.Get("/paths/{name}", s.handleMakePath)
	r.Get("/match", s.handleMatch)
	r.Handle("/ws", s.hub)
	r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Hub returns the follower hub.
func (s *Server) Hub() *Hub { return s.hub }

// Dispatch dispatches an action on the authoritative context.
func (s *Server) Dispatch(action string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx.Dispatch(action, payload)
}

// Router returns the current router, or nil before the first table.
func (s *Server) Router() *router.Router {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actx.Router
}

// State returns the dehydrated state of the authoritative context.
func (s *Server) State() (*app.DehydratedState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx.Dehydrate()
}

// onChange runs inside Dispatch, with mu held.
func (s *Server) onChange(ev store.Event) {
	state, err := s.ctx.Dehydrate()
	if err != nil {
		s.logger.Error("dehydrate failed", "error", err)
		return
	}
	if err := s.hub.Broadcast(state); err != nil {
		s.logger.Error("broadcast failed", "error", err)
		return
	}
	s.logger.Info("routes updated", "routes", len(ev.Routes), "followers", s.hub.ClientCount())
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
