package predictor

import (
	"context"

	"github.com/yourusername/bet-advisor/internal/models"
)

// Confidence bounds for the market consensus model. Shorter odds carry
// more market information, so confidence scales with implied probability.
const (
	marketBaseConfidence = 0.60
	marketMaxConfidence  = 0.90
)

// MarketConsensusPredictor derives a probability from the bookmaker's own
// price with the vig stripped out. It needs no external service and acts
// as the ensemble's always-available baseline model.
type MarketConsensusPredictor struct {
	vigRate float64
}

// NewMarketConsensusPredictor creates a market consensus predictor using
// the configured vig rate to deflate implied probabilities.
func NewMarketConsensusPredictor(vigRate float64) *MarketConsensusPredictor {
	return &MarketConsensusPredictor{vigRate: vigRate}
}

// Name returns the model name.
func (p *MarketConsensusPredictor) Name() string {
	return "market_consensus"
}

// Predict estimates the fair win probability from the candidate's odds.
func (p *MarketConsensusPredictor) Predict(_ context.Context, c *models.Candidate) (models.ModelPrediction, error) {
	if c.Odds <= 1.0 {
		return models.ModelPrediction{}, models.NewValidationError("odds", "decimal odds must be greater than 1.0")
	}

	implied := 1.0 / c.Odds
	fair := implied / (1.0 + p.vigRate)

	confidence := marketBaseConfidence + (marketMaxConfidence-marketBaseConfidence)*implied
	if confidence > marketMaxConfidence {
		confidence = marketMaxConfidence
	}

	return models.ModelPrediction{
		Probability: fair,
		Confidence:  confidence,
	}, nil
}
