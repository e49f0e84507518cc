package routesync

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-go/routesync/internal/errors"
	"github.com/vango-go/routesync/pkg/routetable"
	"github.com/vango-go/routesync/pkg/store"
)

// TransformFunc converts a route table before it crosses the server/client
// boundary (DehydrateRoutes) or after it arrives (RehydrateRoutes).
type TransformFunc func(routetable.Table) (routetable.Table, error)

// PassThrough returns the table unchanged.
func PassThrough(t routetable.Table) (routetable.Table, error) {
	return t, nil
}

// Config configures the plugin.
type Config struct {
	// StoreName is the name of the store announcing route changes.
	StoreName string

	// StoreEvent is the event name carrying the new table.
	StoreEvent string

	// DehydrateRoutes transforms the table in Serialize. Default: PassThrough.
	DehydrateRoutes TransformFunc

	// RehydrateRoutes transforms the table in Deserialize. Default: PassThrough.
	RehydrateRoutes TransformFunc

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Metrics records update counts. If nil, nothing is recorded.
	Metrics *Metrics

	// Tracer creates update spans. If nil, the global provider's
	// "routesync" tracer is used.
	Tracer trace.Tracer
}

// DefaultConfig returns a Config for the stock RoutesStore.
func DefaultConfig() Config {
	return Config{
		StoreName:  store.RoutesStoreName,
		StoreEvent: store.ChangeEvent,
	}
}

// Validate checks the required fields.
func (c Config) Validate() error {
	if c.StoreName == "" {
		return errors.New("R001")
	}
	if c.StoreEvent == "" {
		return errors.New("R002")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.DehydrateRoutes == nil {
		c.DehydrateRoutes = PassThrough
	}
	if c.RehydrateRoutes == nil {
		c.RehydrateRoutes = PassThrough
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
