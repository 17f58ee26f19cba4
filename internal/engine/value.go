// Package engine implements the recommendation pipeline: ensemble
// aggregation, value analysis, risk scoring, stake sizing and ranking.
package engine

import (
	"math"

	"github.com/yourusername/bet-advisor/internal/models"
)

// AnalyzeValue computes the value metrics for a consensus probability
// against a bookmaker's decimal odds. vigRate is the bookmaker margin
// applied when computing vig-adjusted figures.
func AnalyzeValue(probability, odds, vigRate float64) (models.ValueMetrics, error) {
	if odds <= 1.0 {
		return models.ValueMetrics{}, models.NewValidationError("odds", "decimal odds must be greater than 1.0")
	}
	if probability < 0 || probability > 1 {
		return models.ValueMetrics{}, models.NewValidationError("probability", "probability must be between 0 and 1")
	}
	if vigRate < 0 || vigRate >= 1 {
		return models.ValueMetrics{}, models.NewValidationError("vig_rate", "vig rate must be in [0, 1)")
	}

	implied := 1.0 / odds
	vigImplied := math.Min(1.0, implied*(1.0+vigRate))

	return models.ValueMetrics{
		ImpliedProbability:    implied,
		VigImpliedProbability: vigImplied,
		Edge:                  probability - implied,
		EdgeWithVig:           probability - vigImplied,
		ExpectedValue:         probability*odds - 1.0,
		EVWithVig:             probability*odds*(1.0-vigRate) - 1.0,
	}, nil
}
