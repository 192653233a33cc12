package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service-level prometheus collectors. A Registerer is
// injected so tests can use isolated registries.
type Metrics struct {
	WeatherRequests    *prometheus.CounterVec
	WeatherCacheHits   prometheus.Counter
	WeatherFallbacks   prometheus.Counter
	ElevationRequests  *prometheus.CounterVec
	RiskAssessments    *prometheus.CounterVec
	RiskScoreHistogram prometheus.Histogram
	RouteRequests      *prometheus.CounterVec
	RouteDuration      prometheus.Histogram
	BacktestRuns       *prometheus.CounterVec
	BacktestDuration   prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "floodwatch_weather_requests_total",
			Help: "Weather lookups by source outcome.",
		}, []string{"source"}),
		WeatherCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "floodwatch_weather_cache_hits_total",
			Help: "Weather lookups served from cache.",
		}),
		WeatherFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "floodwatch_weather_fallbacks_total",
			Help: "Weather lookups that degraded to the synthetic series.",
		}),
		ElevationRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "floodwatch_elevation_requests_total",
			Help: "Elevation lookups by source.",
		}, []string{"source"}),
		RiskAssessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "floodwatch_risk_assessments_total",
			Help: "Risk assessments by resulting level.",
		}, []string{"level"}),
		RiskScoreHistogram: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "floodwatch_risk_score",
			Help:    "Distribution of composite risk scores.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		RouteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "floodwatch_route_requests_total",
			Help: "Route computations by mode and outcome.",
		}, []string{"mode", "outcome"}),
		RouteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "floodwatch_route_duration_seconds",
			Help:    "Route computation latency.",
			Buckets: prometheus.DefBuckets,
		}),
		BacktestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "floodwatch_backtest_runs_total",
			Help: "Backtest executions by final status.",
		}, []string{"status"}),
		BacktestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "floodwatch_backtest_duration_seconds",
			Help:    "Backtest execution time.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}

	reg.MustRegister(
		m.WeatherRequests,
		m.WeatherCacheHits,
		m.WeatherFallbacks,
		m.ElevationRequests,
		m.RiskAssessments,
		m.RiskScoreHistogram,
		m.RouteRequests,
		m.RouteDuration,
		m.BacktestRuns,
		m.BacktestDuration,
	)

	return m
}
