package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for relay requests
const (
	OutcomeSuccess         = "success"
	OutcomeInvalidRequest  = "invalid_request"
	OutcomeMisconfigured   = "misconfigured"
	OutcomeUpstreamError   = "upstream_error"
	OutcomeUnexpectedShape = "unexpected_response"
	OutcomeInternalError   = "internal_error"
)

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "prompt_relay_build_info",
			Help: "Build information",
		},
		[]string{"version", "profile"},
	)

	relayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prompt_relay_requests_total",
			Help: "Number of relay requests by outcome",
		},
		[]string{"profile", "outcome"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prompt_relay_upstream_duration_seconds",
			Help:    "Duration of outbound provider calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"profile", "status"},
	)

	registerOnce sync.Once
)

// Register registers all metrics with the provided registerer.
func Register(r prometheus.Registerer) {
	r.MustRegister(buildInfo, relayRequests, upstreamDuration)
}

// RegisterDefault registers the metrics with the default registry once.
func RegisterDefault() {
	registerOnce.Do(func() {
		Register(prometheus.DefaultRegisterer)
	})
}

// SetBuildInfo sets the build info metric.
func SetBuildInfo(version, profile string) {
	buildInfo.WithLabelValues(version, profile).Set(1)
}

// RecordRelayRequest increments the relay request counter.
func RecordRelayRequest(profile, outcome string) {
	relayRequests.WithLabelValues(profile, outcome).Inc()
}

// ObserveUpstreamDuration records the duration of an outbound call.
// status is the HTTP status code, or "error" when no response arrived.
func ObserveUpstreamDuration(profile, status string, d time.Duration) {
	upstreamDuration.WithLabelValues(profile, status).Observe(d.Seconds())
}
