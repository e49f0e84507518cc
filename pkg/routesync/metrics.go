package routesync

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the plugin's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "routesync").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the plugin's Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics holds the plugin's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	updatesTotal   *prometheus.CounterVec
	routes         prometheus.Gauge
	transfersTotal *prometheus.CounterVec
	bindsTotal     *prometheus.CounterVec
}

// defaultMetrics caches collectors registered on prometheus.DefaultRegisterer,
// keyed by namespace and subsystem.
var (
	defaultMetricsMu sync.Mutex
	defaultMetrics   = make(map[string]*Metrics)
)

// NewMetrics registers the plugin metrics.
//
// On the default registerer, calls with the same namespace and subsystem
// return the same *Metrics (the first call's ConstLabels win). Any other
// registry gets new collectors, so call it once per registry.
//
// Metrics collected:
//   - routesync_updates_total: route table updates by result (success, error)
//   - routesync_routes: number of routes in the current table
//   - routesync_transfers_total: serialize/deserialize calls by direction
//   - routesync_binds_total: context binds by context kind (action, component)
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := MetricsConfig{
		Namespace: "routesync",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}

	if config.Registry != prometheus.DefaultRegisterer {
		return initMetrics(config)
	}
	key := config.Namespace + "/" + config.Subsystem
	defaultMetricsMu.Lock()
	defer defaultMetricsMu.Unlock()
	if m, ok := defaultMetrics[key]; ok {
		return m
	}
	m := initMetrics(config)
	defaultMetrics[key] = m
	return m
}

func initMetrics(config MetricsConfig) *Metrics {
	factory := promauto.With(config.Registry)

	return &Metrics{
		updatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "updates_total",
			Help:        "Total number of route table updates",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		routes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "routes",
			Help:        "Number of routes in the current table",
			ConstLabels: config.ConstLabels,
		}),

		transfersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transfers_total",
			Help:        "Total number of serialize and deserialize calls",
			ConstLabels: config.ConstLabels,
		}, []string{"direction"}),

		bindsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "binds_total",
			Help:        "Total number of context binds",
			ConstLabels: config.ConstLabels,
		}, []string{"context"}),
	}
}

func (m *Metrics) recordUpdate(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.updatesTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) setRouteCount(n int) {
	if m == nil {
		return
	}
	m.routes.Set(float64(n))
}

func (m *Metrics) recordTransfer(direction string) {
	if m == nil {
		return
	}
	m.transfersTotal.WithLabelValues(direction).Inc()
}

func (m *Metrics) recordBind(kind string) {
	if m == nil {
		return
	}
	m.bindsTotal.WithLabelValues(kind).Inc()
}
