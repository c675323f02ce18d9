// Package metrics defines the prometheus collectors of the geocoder.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "geocoder"

// Reverse lookup outcomes.
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
)

// Metrics groups the collectors. The zero value is not usable; use New.
type Metrics struct {
	AddressesLoaded prometheus.Gauge
	InvalidRecords  *prometheus.CounterVec
	ReverseRequests *prometheus.CounterVec
	ReverseDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		AddressesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "addresses_loaded",
			Help:      "Number of addresses held in memory.",
		}),
		InvalidRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_records_total",
			Help:      "Address records skipped while loading, by reason.",
		}, []string{"reason"}),
		ReverseRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reverse_requests_total",
			Help:      "Reverse geocoding requests, by result.",
		}, []string{"result"}),
		ReverseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reverse_duration_seconds",
			Help:      "Time spent searching the address table.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	for _, c := range []prometheus.Collector{m.AddressesLoaded, m.InvalidRecords, m.ReverseRequests, m.ReverseDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordLoad publishes the outcome of a dataset load.
func (m *Metrics) RecordLoad(total int, invalid map[string]int) {
	m.AddressesLoaded.Set(float64(total))
	for reason, n := range invalid {
		m.InvalidRecords.WithLabelValues(reason).Add(float64(n))
	}
}

// ObserveReverse records one lookup started at start.
func (m *Metrics) ObserveReverse(result string, start time.Time) {
	m.ReverseRequests.WithLabelValues(result).Inc()
	if result != ResultInvalid {
		m.ReverseDuration.Observe(time.Since(start).Seconds())
	}
}
