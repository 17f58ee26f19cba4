package engine

import (
	"fmt"
	"math"

	"github.com/yourusername/bet-advisor/internal/models"
)

// Aggregator blends per-model predictions into a single consensus using
// the configured model weights. Weights are renormalized over the models
// actually present on each candidate, so a missing model redistributes
// its weight proportionally instead of dragging the consensus down.
type Aggregator struct {
	weights map[string]float64
}

// NewAggregator creates an aggregator from the enabled model weights.
func NewAggregator(weights map[string]float64) (*Aggregator, error) {
	if len(weights) == 0 {
		return nil, models.ErrEmptyWeights
	}
	owned := make(map[string]float64, len(weights))
	for name, w := range weights {
		if w < 0 || w > 1 {
			return nil, models.NewValidationError("ensemble.models", fmt.Sprintf("weight for model %q must be between 0 and 1", name))
		}
		owned[name] = w
	}
	return &Aggregator{weights: owned}, nil
}

// Aggregate computes the weighted consensus for one candidate. It returns
// models.ErrNoModelPredictions when no enabled model has a prediction for
// the candidate; callers treat that as a silent exclusion, not a failure.
func (a *Aggregator) Aggregate(c *models.Candidate) (models.AggregatedPrediction, error) {
	present := make([]string, 0, len(a.weights))
	totalWeight := 0.0
	for _, name := range c.ModelNames() {
		w, enabled := a.weights[name]
		if !enabled || w == 0 {
			continue
		}
		present = append(present, name)
		totalWeight += w
	}
	if len(present) == 0 || totalWeight <= 0 {
		return models.AggregatedPrediction{}, models.ErrNoModelPredictions
	}

	normalized := make(map[string]float64, len(present))
	confidences := make(map[string]float64, len(present))
	probability := 0.0
	confidence := 0.0
	for _, name := range present {
		w := a.weights[name] / totalWeight
		pred := c.Predictions[name]
		normalized[name] = w
		confidences[name] = pred.Confidence
		probability += w * pred.Probability
		confidence += w * pred.Confidence
	}

	dispersion := 0.0
	for _, name := range present {
		diff := c.Predictions[name].Probability - probability
		dispersion += normalized[name] * diff * diff
	}
	dispersion = math.Sqrt(dispersion)

	return models.AggregatedPrediction{
		Probability:           probability,
		Confidence:            confidence * 100,
		Dispersion:            dispersion,
		ModelWeights:          normalized,
		IndividualConfidences: confidences,
	}, nil
}
