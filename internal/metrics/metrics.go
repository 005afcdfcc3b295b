package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "slotbook"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	admissionOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admission_outcomes_total",
			Help:      "Booking admission attempts by terminal state and error kind.",
		},
		[]string{"state", "kind"},
	)

	admissionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "admission_duration_seconds",
			Help:      "Wall time of one admission attempt.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	botUpdateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bot_update_duration_seconds",
			Help:      "Time spent handling one Telegram update.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	botPanics = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bot_panics_total",
			Help:      "Telegram update handlers that panicked.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, admissionOutcomes, admissionDuration, botUpdateDuration, botPanics)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// ObserveAdmission records one finished attempt. kind is empty for accepted bookings.
func ObserveAdmission(state, kind string, took time.Duration) {
	if kind == "" {
		kind = "none"
	}
	admissionOutcomes.WithLabelValues(state, kind).Inc()
	admissionDuration.Observe(took.Seconds())
}

func ObserveBotUpdate(took time.Duration) {
	botUpdateDuration.Observe(took.Seconds())
}

func IncBotPanic() {
	botPanics.Inc()
}
