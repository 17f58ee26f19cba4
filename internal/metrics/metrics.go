// Package metrics provides the centralized Prometheus metrics registry for the advisor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SelectionCyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bet_advisor",
		Name:      "selection_cycles_total",
		Help:      "Total number of selection cycles started",
	})
	SelectionCycleFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bet_advisor",
		Name:      "selection_cycle_failures_total",
		Help:      "Total number of selection cycles aborted by a validation failure",
	})
	CandidatesAnalyzedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bet_advisor",
		Name:      "candidates_analyzed_total",
		Help:      "Total number of candidates scored across all cycles",
	})
	CandidatesRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bet_advisor",
		Name:      "candidates_rejected_total",
		Help:      "Total number of candidates rejected, by rejection category",
	}, []string{"reason"})
	RecommendationsEmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bet_advisor",
		Name:      "recommendations_emitted_total",
		Help:      "Total number of recommendations emitted",
	})
	PredictorErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bet_advisor",
		Name:      "predictor_errors_total",
		Help:      "Total number of predictor failures, by model name",
	}, []string{"model"})
)

// Gauge metrics
var (
	LastCycleRecommendations = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bet_advisor",
		Name:      "last_cycle_recommendations",
		Help:      "Number of recommendations produced by the most recent cycle",
	})
	LastCyclePoolSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bet_advisor",
		Name:      "last_cycle_pool_size",
		Help:      "Number of candidates in the most recent cycle's pool",
	})
	CurrentBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bet_advisor",
		Name:      "current_bankroll",
		Help:      "Bankroll used for stake sizing in the most recent cycle",
	})
	TopCompositeScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bet_advisor",
		Name:      "top_composite_score",
		Help:      "Composite score of the highest ranked recommendation",
	})
)

// Histogram metrics
var (
	SelectionCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bet_advisor",
		Name:      "selection_cycle_duration_seconds",
		Help:      "Duration of full selection cycles in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	PredictorLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bet_advisor",
		Name:      "predictor_latency_seconds",
		Help:      "Latency of individual model predictions in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"model"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(SelectionCyclesTotal)
		registry.MustRegister(SelectionCycleFailuresTotal)
		registry.MustRegister(CandidatesAnalyzedTotal)
		registry.MustRegister(CandidatesRejectedTotal)
		registry.MustRegister(RecommendationsEmittedTotal)
		registry.MustRegister(PredictorErrorsTotal)

		// Register gauge metrics
		registry.MustRegister(LastCycleRecommendations)
		registry.MustRegister(LastCyclePoolSize)
		registry.MustRegister(CurrentBankroll)
		registry.MustRegister(TopCompositeScore)

		// Register histogram metrics
		registry.MustRegister(SelectionCycleDuration)
		registry.MustRegister(PredictorLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRejection increments the rejection counter for a category.
func RecordRejection(reason string) {
	CandidatesRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordPredictorError increments the failure counter for a model.
func RecordPredictorError(model string) {
	PredictorErrorsTotal.WithLabelValues(model).Inc()
}
