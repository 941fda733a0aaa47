package wmsclient

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated by a Client.
type Metrics struct {
	Requests    *prometheus.CounterVec
	Durations   *prometheus.HistogramVec
	Retries     *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// NewMetrics registers the client metrics against reg, defaulting to the
// global registry when reg is nil. Collectors that are already registered
// are reused, so several clients can share a registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ncwms_client_requests_total",
		Help: "Total number of ncWMS requests, labeled by metadata item and outcome.",
	}, []string{"item", "code"}), "ncwms_client_requests_total")
	if err != nil {
		return nil, err
	}
	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ncwms_client_request_duration_seconds",
		Help:    "ncWMS request latency in seconds, including retries.",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"item"}), "ncwms_client_request_duration_seconds")
	if err != nil {
		return nil, err
	}
	retries, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ncwms_client_retries_total",
		Help: "Number of retried ncWMS requests, labeled by metadata item.",
	}, []string{"item"}), "ncwms_client_retries_total")
	if err != nil {
		return nil, err
	}
	misses, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ncwms_client_cache_misses_total",
		Help: "Number of cacheable metadata requests that went to the server.",
	}, []string{"item"}), "ncwms_client_cache_misses_total")
	if err != nil {
		return nil, err
	}
	return &Metrics{
		Requests:    requests,
		Durations:   durations,
		Retries:     retries,
		CacheMisses: misses,
	}, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("wmsclient: collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("wmsclient: collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
