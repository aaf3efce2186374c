package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics tracks the optimistic mutation lifecycle of the entity
// store: applied locally, confirmed remotely, or rolled back.
type StoreMetrics struct {
	mutationsApplied   *prometheus.CounterVec
	mutationsConfirmed *prometheus.CounterVec
	mutationsRolledUp  *prometheus.CounterVec
	loadFailures       prometheus.Counter
}

// Config carries the constant labels stamped on every series.
type Config struct {
	ServiceName string
	Environment string
}

var (
	storeMetricsOnce sync.Once
	storeMetrics     *StoreMetrics
)

// Store returns the process-wide store metrics.
func Store() *StoreMetrics {
	return StoreWithConfig(Config{})
}

// StoreWithConfig returns the process-wide store metrics, registering
// them on first use.
func StoreWithConfig(cfg Config) *StoreMetrics {
	storeMetricsOnce.Do(func() {
		storeMetrics = newStoreMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return storeMetrics
}

// ResetStoreMetricsForTest clears the singleton between test runs.
func ResetStoreMetricsForTest() {
	storeMetricsOnce = sync.Once{}
	storeMetrics = nil
}

func newStoreMetrics(registerer prometheus.Registerer, cfg Config) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "revhub"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &StoreMetrics{
		mutationsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "revhub_store_mutations_applied_total",
			Help:        "Optimistic mutations applied to the local store.",
			ConstLabels: constLabels,
		}, []string{"table", "op"}),
		mutationsConfirmed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "revhub_store_mutations_confirmed_total",
			Help:        "Mutations confirmed by the remote store.",
			ConstLabels: constLabels,
		}, []string{"table", "op"}),
		mutationsRolledUp: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "revhub_store_mutations_rolled_back_total",
			Help:        "Mutations rolled back after remote failure.",
			ConstLabels: constLabels,
		}, []string{"table", "op"}),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "revhub_store_load_failures_total",
			Help:        "Bulk load attempts that degraded at least one collection.",
			ConstLabels: constLabels,
		}),
	}

	for _, collector := range []prometheus.Collector{
		m.mutationsApplied,
		m.mutationsConfirmed,
		m.mutationsRolledUp,
		m.loadFailures,
	} {
		if err := registerer.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
		}
	}
	return m
}

// IncApplied records an optimistic local apply.
func (m *StoreMetrics) IncApplied(table, op string) {
	if m == nil {
		return
	}
	m.mutationsApplied.WithLabelValues(table, op).Inc()
}

// IncConfirmed records a remote confirmation.
func (m *StoreMetrics) IncConfirmed(table, op string) {
	if m == nil {
		return
	}
	m.mutationsConfirmed.WithLabelValues(table, op).Inc()
}

// IncRolledBack records a rollback after remote failure.
func (m *StoreMetrics) IncRolledBack(table, op string) {
	if m == nil {
		return
	}
	m.mutationsRolledUp.WithLabelValues(table, op).Inc()
}

// IncLoadFailure records a degraded bulk load.
func (m *StoreMetrics) IncLoadFailure() {
	if m == nil {
		return
	}
	m.loadFailures.Inc()
}
