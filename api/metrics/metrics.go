package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsCreated counts sessions handed out, by kind (checkout, portal).
	SessionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stripe_session",
		Name:      "sessions_created_total",
		Help:      "Stripe sessions created by kind.",
	}, []string{"kind"})

	// SessionFailures counts failed requests by error class.
	SessionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stripe_session",
		Name:      "session_failures_total",
		Help:      "Failed session requests by error class.",
	}, []string{"reason"})

	// RequestDuration tracks end-to-end handling latency per transport.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stripe_session",
		Name:      "request_duration_seconds",
		Help:      "Session request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"transport"})
)
