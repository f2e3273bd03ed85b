// Package metrics exposes transaction, cache and update counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/goliatone/go-txcache/langrepo"
	"github.com/goliatone/go-txcache/pipeline"
	"github.com/goliatone/go-txcache/txscope"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "langbot"

// Metrics implements the txscope, langrepo and pipeline observers.
type Metrics struct {
	registry *prometheus.Registry

	txOpened      prometheus.Counter
	txCommitted   *prometheus.CounterVec
	txRolledBack  prometheus.Counter
	scopeOutcomes *prometheus.CounterVec

	cacheLookups      *prometheus.CounterVec
	cacheWriteFailure prometheus.Counter

	updates        *prometheus.CounterVec
	updateDuration *prometheus.HistogramVec
}

var (
	_ txscope.Observer        = (*Metrics)(nil)
	_ langrepo.Observer       = (*Metrics)(nil)
	_ pipeline.UpdateObserver = (*Metrics)(nil)
)

// New registers the collectors on a private registry, together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		txOpened: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "tx", Name: "opened_total",
			Help: "Transactions opened on first store use.",
		}),
		txCommitted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "tx", Name: "committed_total",
			Help: "Committed transactions, by who committed them.",
		}, []string{"by"}),
		txRolledBack: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "tx", Name: "rolled_back_total",
			Help: "Transactions rolled back after a failure.",
		}),
		scopeOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "tx", Name: "scope_outcomes_total",
			Help: "How transaction scopes finished.",
		}, []string{"outcome"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "lookups_total",
			Help: "Language cache lookups, by result.",
		}, []string{"result"}),
		cacheWriteFailure: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "write_failures_total",
			Help: "Failed language cache writes.",
		}),
		updates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "updates", Name: "handled_total",
			Help: "Handled updates, by kind and status.",
		}, []string{"kind", "status"}),
		updateDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "updates", Name: "duration_seconds",
			Help:    "Update handling latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) TransactionOpened() {
	m.txOpened.Inc()
}

func (m *Metrics) Committed(byOwner bool) {
	by := "scope"
	if byOwner {
		by = "owner"
	}
	m.txCommitted.WithLabelValues(by).Inc()
}

func (m *Metrics) RolledBack() {
	m.txRolledBack.Inc()
}

func (m *Metrics) ScopeFinished(outcome txscope.Outcome) {
	m.scopeOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) CacheLookup(result langrepo.CacheResult) {
	m.cacheLookups.WithLabelValues(string(result)).Inc()
}

func (m *Metrics) CacheWriteFailed() {
	m.cacheWriteFailure.Inc()
}

func (m *Metrics) UpdateHandled(kind string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.updates.WithLabelValues(kind, status).Inc()
	m.updateDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
