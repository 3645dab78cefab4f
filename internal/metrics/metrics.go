/*
Package metrics exposes Prometheus counters for engine operations.

Counters are registered on the default registry at init time and served by
StartServer when a listen address is configured.
*/
package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Analyses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dev_advisor_analyses_total",
		Help: "Total project analyses completed",
	})
	AnalyzeErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dev_advisor_analyze_errors_total",
		Help: "Total project analyses that failed in the inspector",
	})
	AnalyzeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dev_advisor_analyze_duration_seconds",
		Help:    "Project analysis duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	Recommendations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dev_advisor_recommendations_total",
		Help: "Recommendations emitted by kind",
	}, []string{"kind"})
	UpgradesApplied = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dev_advisor_upgrades_applied_total",
		Help: "Upgrades recorded as applied",
	})
	ContentGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dev_advisor_content_generated_total",
		Help: "Content items generated by requested topic",
	}, []string{"topic"})
	Contributions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dev_advisor_contributions_total",
		Help: "Contributions recorded by type",
	}, []string{"type"})
	LearningMinutes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dev_advisor_learning_minutes_total",
		Help: "Learning minutes recorded",
	})
)

func init() {
	prometheus.MustRegister(
		Analyses,
		AnalyzeErrors,
		AnalyzeDuration,
		Recommendations,
		UpgradesApplied,
		ContentGenerated,
		Contributions,
		LearningMinutes,
	)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
// Falls back to DEV_ADVISOR_METRICS_ADDR; does nothing when both are empty.
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("DEV_ADVISOR_METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, mux) }()
}

// ObserveAnalyzeDuration records an analysis duration.
func ObserveAnalyzeDuration(start time.Time) {
	AnalyzeDuration.Observe(time.Since(start).Seconds())
}
