// AngelaMos | 2026
// metrics.go

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns every collector the service exports. All recording methods
// are safe on a nil receiver so components can run without metrics.
type Metrics struct {
	registry  *prometheus.Registry
	namespace string

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	authAttempts   *prometheus.CounterVec
	contactOps     *prometheus.CounterVec
	tenantsCreated prometheus.Counter
	rateLimits     *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry:  reg,
		namespace: namespace,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		authAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Login and registration attempts by outcome",
			},
			[]string{"action", "outcome"},
		),
		contactOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "contact_operations_total",
				Help:      "Contact lifecycle operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		tenantsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tenants_created_total",
				Help:      "Tenants registered since process start",
			},
		),
		rateLimits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_decisions_total",
				Help:      "Rate limiter decisions by limiter, backend and outcome",
			},
			[]string{"limiter", "backend", "outcome"},
		),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.authAttempts,
		m.contactOps,
		m.tenantsCreated,
		m.rateLimits,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) AuthAttempt(action string, err error) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(action, outcome(err)).Inc()
}

func (m *Metrics) ContactOp(op string, err error) {
	if m == nil {
		return
	}
	m.contactOps.WithLabelValues(op, outcome(err)).Inc()
}

func (m *Metrics) TenantCreated() {
	if m == nil {
		return
	}
	m.tenantsCreated.Inc()
}

func (m *Metrics) RateLimitDecision(limiter, backend string, allowed bool) {
	if m == nil {
		return
	}
	result := "limited"
	if allowed {
		result = "allowed"
	}
	m.rateLimits.WithLabelValues(limiter, backend, result).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
