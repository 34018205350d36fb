package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the agent.
type Metrics struct {
	Turns        *prometheus.CounterVec // labels: outcome={ok,degraded,error}
	TurnDuration prometheus.Histogram

	// Launch lookup metrics.
	LaunchLookups   *prometheus.CounterVec // labels: source={upcoming,historical-fallback,unavailable}
	DateExtractions *prometheus.CounterVec // labels: field (winning candidate, or "unknown")

	// Coordinate resolution metrics.
	Resolutions     *prometheus.CounterVec // labels: method={explicit,name-lookup,llm-grounded,deferred}
	GeocodeRequests *prometheus.CounterVec // labels: outcome={ok,empty,error}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}

	// Weather metrics.
	WeatherRequests *prometheus.CounterVec // labels: outcome={ok,error,retry}

	// LLM collaborator metrics.
	LLMRequests *prometheus.CounterVec // labels: kind={grounding,narration}, outcome={ok,empty,error}

	// Audit stream metrics.
	AuditPublished     prometheus.Counter
	AuditPublishErrors prometheus.Counter
}

// NewMetrics creates and registers all agent metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Turns,
		m.TurnDuration,
		m.LaunchLookups,
		m.DateExtractions,
		m.Resolutions,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.WeatherRequests,
		m.LLMRequests,
		m.AuditPublished,
		m.AuditPublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so parallel
// tests don't panic with "already registered".
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "space_agent",
			Name:      "turns_total",
			Help:      "Completed query turns by outcome.",
		}, []string{"outcome"}),
		TurnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "space_agent",
			Name:      "turn_duration_seconds",
			Help:      "Duration of a complete lookup-resolve-weather-assess turn.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LaunchLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "space_agent",
			Name:      "launch_lookups_total",
			Help:      "Launch lookups by data source outcome.",
		}, []string{"source"}),
		DateExtractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "space_agent",
			Name:      "date_extractions_total",
			Help:      "Date normalizations by winning candidate field.",
		}, []string{"field"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "space_agent",
			Name:      "coordinate_resolutions_total",
			Help:      "Coordinate resolutions by method.",
		}, []string{"method"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "space_agent",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "space_agent",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "space_agent",
			Name:      "weather_requests_total",
			Help:      "Current-weather API requests by outcome.",
		}, []string{"outcome"}),
		LLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "space_agent",
			Name:      "llm_requests_total",
			Help:      "LLM collaborator requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		AuditPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "space_agent",
			Name:      "audit_published_total",
			Help:      "Turn audit records published to the audit topic.",
		}),
		AuditPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "space_agent",
			Name:      "audit_publish_errors_total",
			Help:      "Failed attempts to publish turn audit records.",
		}),
	}
}
