// Package metrics exposes Prometheus collectors for the task service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "taskr"

// Outcome labels.
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeDenied    = "denied"
	OutcomeNotFound  = "not_found"
	OutcomeConflict  = "conflict"
	OutcomeError     = "error"
	OutcomeNoSession = "no_session"
)

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	tasks    *prometheus.CounterVec
	auth     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_operations_total",
			Help:      "Task operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		auth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Authentication events by event and outcome.",
		}, []string{"event", "outcome"}),
	}
	reg.MustRegister(m.requests, m.duration, m.tasks, m.auth)
	return m
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// TaskOperation counts one task operation.
func (m *Metrics) TaskOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues(operation, outcome).Inc()
}

// AuthEvent counts one register, login, logout or session check.
func (m *Metrics) AuthEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.auth.WithLabelValues(event, outcome).Inc()
}
