// Package metrics exposes operation counters and query latencies on a
// dedicated prometheus registry.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	custom_error "sntrack/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sntrack"

type Metrics struct {
	Registry      *prometheus.Registry
	operations    *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_operations_total",
			Help:      "Lifecycle operations by outcome.",
		}, []string{"operation", "outcome"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Latency of query and aggregation reads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
	}

	m.Registry.MustRegister(
		m.operations,
		m.queryDuration,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Outcome names the error class of err for the outcome label.
func Outcome(err error) string {
	var (
		validationErr *custom_error.ValidationError
		notFoundErr   *custom_error.NotFoundError
		integrityErr  *custom_error.IntegrityError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &validationErr):
		return "validation_error"
	case errors.As(err, &notFoundErr):
		return "not_found"
	case errors.Is(err, custom_error.ErrAlreadyVoided):
		return "already_voided"
	case errors.As(err, &integrityErr):
		return "integrity_error"
	default:
		return "internal_error"
	}
}

func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, Outcome(err)).Inc()
}

func (m *Metrics) ObserveQuery(endpoint string, started time.Time) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Middleware counts requests by matched route, so path ids do not explode
// the label set.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
