package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	// OrderTransitions counts status changes by action (approve, cancel,
	// processing), source (manual, auto) and result (ok, error)
	OrderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Order status transitions",
		},
		[]string{"action", "source", "result"},
	)

	ShipmentsDispatched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shipments_dispatched_total",
			Help: "Shipment records written to the shipper collection",
		},
	)

	CollectionBootstraps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shipper_collection_bootstraps_total",
			Help: "Placeholder documents written to create the shipper collection",
		},
	)

	PartialApprovals = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "order_partial_approvals_total",
			Help: "Approvals that stopped after applying some of their effects",
		},
	)

	AutoApprovalSweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auto_approval_sweep_duration_seconds",
			Help:    "Duration of one auto-approval sweep over all vendors",
			Buckets: prometheus.DefBuckets,
		},
	)
)

var registerOnce sync.Once

// InitMetrics registers all collectors with the default registry
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HttpRequestsTotal,
			HttpRequestDuration,
			OrderTransitions,
			ShipmentsDispatched,
			CollectionBootstraps,
			PartialApprovals,
			AutoApprovalSweepDuration,
		)
	})
}

// Result maps an error to the result label
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "undefined"
		}

		HttpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HttpRequestDuration.WithLabelValues(path).Observe(duration.Seconds())
	}
}
