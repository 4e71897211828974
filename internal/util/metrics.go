package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReconciliationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_reconciliations_total",
		Help: "Total number of cart reconciliations",
	})

	ReconciledItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_reconciled_items_total",
		Help: "Cart items processed by reconciliation, by outcome",
	}, []string{"outcome"})

	MalformedRecordsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recalc_malformed_records_total",
		Help: "Recalculation results skipped because they had no name",
	})

	RecalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_recalculations_total",
		Help: "Total number of recalculation requests, by backend",
	}, []string{"backend"})

	EstimatorFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carbon_estimator_fallbacks_total",
		Help: "Estimates served by the transport fallback after a primary estimator failure",
	})

	OptimizationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_optimizations_total",
		Help: "Total number of cart optimizations, by result",
	}, []string{"result"})

	OptimizationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_optimization_latency_seconds",
		Help:    "Latency of cart optimizations",
		Buckets: prometheus.DefBuckets,
	})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups, by result",
	}, []string{"result"})

	EventsPublishFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_publish_failed_total",
		Help: "Events that could not be published, by type",
	}, []string{"type"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
