package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jonathan/ad-quality/internal/types"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "ad_quality"

// Metrics holds the Prometheus collectors for the API.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	AdsScoredTotal   *prometheus.CounterVec
	ComplianceIssues *prometheus.CounterVec
	RateLimitedTotal *prometheus.CounterVec
}

// NewMetrics registers the API metrics on reg. A nil reg gets a fresh registry so
// several servers can live in one process.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		AdsScoredTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "ads_scored_total",
			Help:      "Ads scored by resulting strength",
		}, []string{"strength"}),
		ComplianceIssues: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "compliance_issues_total",
			Help:      "Compliance issues found by severity and rule",
		}, []string{"severity", "rule"}),
		RateLimitedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}, []string{"route"}),
	}
}

// Registry returns the registry backing the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) observeStrength(result types.AdStrengthResult) {
	if m == nil {
		return
	}
	m.AdsScoredTotal.WithLabelValues(string(result.Strength)).Inc()
}

func (m *Metrics) observeIssues(issues []types.ComplianceIssue) {
	if m == nil {
		return
	}
	for _, issue := range issues {
		m.ComplianceIssues.WithLabelValues(string(issue.Severity), issue.Rule).Inc()
	}
}

func (m *Metrics) observeRateLimited(route string) {
	if m == nil {
		return
	}
	m.RateLimitedTotal.WithLabelValues(route).Inc()
}
