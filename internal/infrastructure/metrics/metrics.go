package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Approval gate metrics
	GateDecisions      *prometheus.CounterVec
	SecurityViolations *prometheus.CounterVec
	AuditTrailFailures prometheus.Counter

	// Capital ledger metrics
	CapitalEntriesCreated  *prometheus.CounterVec
	CapitalEntriesRejected *prometheus.CounterVec
	CapitalEntryAmount     prometheus.Histogram

	// Revenue ledger metrics
	RevenueEntriesCreated *prometheus.CounterVec
	SummariesRecomputed   *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RateCacheHits   prometheus.Counter
	RateCacheMisses prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Approval gate metrics
		GateDecisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincore_gate_decisions_total",
				Help: "Total approval gate decisions by operation and outcome",
			},
			[]string{"operation", "decision"},
		),
		SecurityViolations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincore_security_violations_total",
				Help: "Total attempted approval skips on critical operations",
			},
			[]string{"operation"},
		),
		AuditTrailFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fincore_audit_trail_failures_total",
			Help: "Total audit records that could not be persisted",
		}),

		// Capital ledger metrics
		CapitalEntriesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincore_capital_entries_created_total",
				Help: "Total capital entries created by type",
			},
			[]string{"type"},
		),
		CapitalEntriesRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincore_capital_entries_rejected_total",
				Help: "Total capital entries rejected by reason",
			},
			[]string{"reason"},
		),
		CapitalEntryAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fincore_capital_entry_amount_usd",
			Help:    "Capital entry amounts in USD",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Revenue ledger metrics
		RevenueEntriesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincore_revenue_entries_created_total",
				Help: "Total revenue entries created by type",
			},
			[]string{"type"},
		),
		SummariesRecomputed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincore_revenue_summaries_recomputed_total",
				Help: "Total revenue summary recomputations by period",
			},
			[]string{"period"},
		),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincore_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fincore_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "fincore_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincore_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RateCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fincore_rate_cache_hits_total",
			Help: "Total exchange rate cache hits",
		}),
		RateCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fincore_rate_cache_misses_total",
			Help: "Total exchange rate cache misses",
		}),
	}
}

// GateDecision records a gate outcome for an operation.
func (m *Metrics) GateDecision(op domain.OperationType, decision domain.AuditDecision) {
	m.GateDecisions.WithLabelValues(string(op), string(decision)).Inc()
}

// SecurityViolation records an attempted skip on a critical operation.
func (m *Metrics) SecurityViolation(op domain.OperationType) {
	m.SecurityViolations.WithLabelValues(string(op)).Inc()
}

// AuditTrailFailure records an audit record that could not be persisted.
func (m *Metrics) AuditTrailFailure() {
	m.AuditTrailFailures.Inc()
}

// CapitalEntryCreated records a created capital entry.
func (m *Metrics) CapitalEntryCreated(entryType domain.EntryType) {
	m.CapitalEntriesCreated.WithLabelValues(string(entryType)).Inc()
}

// CapitalEntryRejected records a rejected capital entry.
func (m *Metrics) CapitalEntryRejected(reason string) {
	m.CapitalEntriesRejected.WithLabelValues(reason).Inc()
}

// ObserveCapitalEntryAmount records the USD amount of a capital entry.
func (m *Metrics) ObserveCapitalEntryAmount(usd decimal.Decimal) {
	f, _ := usd.Float64()
	m.CapitalEntryAmount.Observe(f)
}

// RevenueEntryCreated records a created revenue entry.
func (m *Metrics) RevenueEntryCreated(entryType domain.RevenueEntryType) {
	m.RevenueEntriesCreated.WithLabelValues(string(entryType)).Inc()
}

// SummaryRecomputed records a revenue summary recomputation.
func (m *Metrics) SummaryRecomputed(period string) {
	m.SummariesRecomputed.WithLabelValues(period).Inc()
}
