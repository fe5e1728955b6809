// path: metrics/metrics.go
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SightingsSubmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sightings_submitted_total",
			Help: "Total number of sighting reports persisted",
		},
	)

	SightingsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sightings_rejected_total",
			Help: "Total number of sighting submissions rejected by validation",
		},
	)

	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Total number of stored alert registrations",
		},
		[]string{"kind"},
	)

	RegistrationConflictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_conflicts_total",
			Help: "Total number of duplicate registration attempts",
		},
		[]string{"kind"},
	)

	AlertBroadcastsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alert_broadcasts_total",
			Help: "Total number of fire-alert fan-out runs",
		},
	)

	AlertSendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_sends_total",
			Help: "Total number of fire-alert delivery attempts by outcome",
		},
		[]string{"outcome"},
	)

	AlertBroadcastDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "alert_broadcast_duration_seconds",
			Help:    "Duration of fire-alert fan-out runs",
			Buckets: prometheus.DefBuckets,
		},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

// Register registers all collectors with the default registry.
func Register() {
	prometheus.MustRegister(SightingsSubmittedTotal)
	prometheus.MustRegister(SightingsRejectedTotal)
	prometheus.MustRegister(RegistrationsTotal)
	prometheus.MustRegister(RegistrationConflictsTotal)
	prometheus.MustRegister(AlertBroadcastsTotal)
	prometheus.MustRegister(AlertSendsTotal)
	prometheus.MustRegister(AlertBroadcastDuration)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
}
