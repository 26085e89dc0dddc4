package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "http_in_flight_requests", Help: "In-flight HTTP requests"},
	)

	UsersRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "devconnector",
		Name:      "users_registered_total",
		Help:      "Users successfully registered",
	})
	// outcome is "created" or "updated"
	ProfilesSaved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "devconnector",
		Name:      "profiles_saved_total",
		Help:      "Profile writes by outcome",
	}, []string{"outcome"})
	EventsConsumed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "devconnector",
		Name:      "events_consumed_total",
		Help:      "Events handled by the notifier, by routing key and result",
	}, []string{"key", "result"})
)

var once sync.Once

// MustRegister registers every collector with the default registry. Safe to call more than once.
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(RequestsTotal, ReqDuration, InFlight, UsersRegistered, ProfilesSaved, EventsConsumed)
	})
}
