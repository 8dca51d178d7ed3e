package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hoyorecord"

// Upstream instruments calls to the platform API. Each instance registers
// its collectors on the registry it was built with, so tests can use a
// private registry.
type Upstream struct {
	Requests        *prometheus.CounterVec
	Duration        *prometheus.HistogramVec
	BreakerState    *prometheus.GaugeVec
	BreakerChanges  *prometheus.CounterVec
	AccountLookups  *prometheus.CounterVec
	LimiterWaitTime prometheus.Histogram
}

// NewUpstream registers the upstream collectors on reg
func NewUpstream(reg prometheus.Registerer) *Upstream {
	f := promauto.With(reg)
	return &Upstream{
		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Total number of requests sent to the platform API",
			},
			[]string{"endpoint", "realm", "result"},
		),
		Duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Duration of platform API requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint", "realm"},
		),
		BreakerState: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "upstream_circuit_breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
		BreakerChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_circuit_breaker_transitions_total",
				Help:      "Total number of circuit breaker state transitions",
			},
			[]string{"name", "from_state", "to_state"},
		),
		AccountLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "account_lookups_total",
				Help:      "Account record lookups by source (cache, upstream) and outcome",
			},
			[]string{"source", "result"},
		),
		LimiterWaitTime: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_rate_limit_wait_seconds",
				Help:      "Time spent waiting on the outbound rate limiter",
				Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
	}
}

// ObserveRequest records a finished upstream call. result is "ok" or an error kind.
func (u *Upstream) ObserveRequest(endpoint, realm, result string, elapsed time.Duration) {
	if u == nil {
		return
	}
	u.Requests.WithLabelValues(endpoint, realm, result).Inc()
	u.Duration.WithLabelValues(endpoint, realm).Observe(elapsed.Seconds())
}

// ObserveLimiterWait records how long a request waited for a rate limiter token
func (u *Upstream) ObserveLimiterWait(elapsed time.Duration) {
	if u == nil {
		return
	}
	u.LimiterWaitTime.Observe(elapsed.Seconds())
}

// SetBreakerState records a breaker transition. to is gobreaker's ordinal
// (0 closed, 1 half-open, 2 open).
func (u *Upstream) SetBreakerState(name string, to int, fromName, toName string) {
	if u == nil {
		return
	}
	u.BreakerState.WithLabelValues(name).Set(float64(to))
	u.BreakerChanges.WithLabelValues(name, fromName, toName).Inc()
}

// ObserveAccountLookup counts a resolution served from source
func (u *Upstream) ObserveAccountLookup(source string, ok bool) {
	if u == nil {
		return
	}
	u.AccountLookups.WithLabelValues(source, strconv.FormatBool(ok)).Inc()
}
