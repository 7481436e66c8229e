// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/BaSui01/swarmdfs/swarm"
)

// =============================================================================
// 📊 Collector
// =============================================================================

// Collector exports Prometheus metrics. It implements swarm.Observer and
// swarm.RunObserver, so it can be handed to a Swarm directly.
type Collector struct {
	// traversal
	eventsTotal  *prometheus.CounterVec
	recordsTotal *prometheus.CounterVec
	runsTotal    *prometheus.CounterVec
	runDuration  prometheus.Histogram
	traceDepth   prometheus.Histogram

	// http
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// store
	storeOpsTotal *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector registers the metrics on reg, or on the default registerer when reg is nil.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.eventsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "swarm",
			Name:      "events_total",
			Help:      "Total number of traversal events by kind",
		},
		[]string{"event"},
	)

	c.recordsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "swarm",
			Name:      "records_total",
			Help:      "Total number of trace records by status",
		},
		[]string{"status"},
	)

	c.runsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "swarm",
			Name:      "runs_total",
			Help:      "Total number of swarm runs by result",
		},
		[]string{"result"}, // result: ok, cancelled
	)

	c.runDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "swarm",
			Name:      "run_duration_seconds",
			Help:      "Swarm run duration in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 30, 60, 300},
		},
	)

	c.traceDepth = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "swarm",
			Name:      "trace_depth",
			Help:      "Deepest delegation level reached per run",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		},
	)

	c.httpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.storeOpsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of trace store operations",
		},
		[]string{"operation", "status"},
	)

	c.logger.Debug("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// =============================================================================
// 🎯 Traversal
// =============================================================================

// Observe implements swarm.Observer.
func (c *Collector) Observe(e swarm.Event) {
	c.eventsTotal.WithLabelValues(string(e.Kind)).Inc()
}

// RunFinished implements swarm.RunObserver.
func (c *Collector) RunFinished(t *swarm.Trace, err error) {
	result := "ok"
	if err != nil {
		result = "cancelled"
	}
	c.runsTotal.WithLabelValues(result).Inc()
	c.runDuration.Observe(t.Duration().Seconds())
	if t.Len() > 0 {
		c.traceDepth.Observe(float64(t.MaxDepth()))
	}
	for _, r := range t.Records {
		c.recordsTotal.WithLabelValues(string(r.Status)).Inc()
	}
}

// =============================================================================
// 🌐 HTTP and Store
// =============================================================================

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, statusCode(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordStoreOperation implements tracestore.OperationRecorder.
func (c *Collector) RecordStoreOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.storeOpsTotal.WithLabelValues(operation, status).Inc()
}

// statusCode buckets a status into its class, e.g. "4xx".
func statusCode(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return fmt.Sprintf("%d", code)
	}
}
