package engine

import (
	"sort"

	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/models"
)

// Normalization ranges for the composite score components. EV multipliers
// above 1.20 and risk-adjusted values above 2.0 saturate at 1.0.
const (
	evNormalizationCeiling   = 0.20
	riskAdjNormalizationCeil = 2.0
)

// CompositeRanker scores accepted candidates on a weighted blend of
// confidence, expected value and risk-adjusted value, and orders them
// deterministically.
type CompositeRanker struct {
	weights config.ScoringConfig
}

// NewCompositeRanker creates a ranker from scoring weights.
func NewCompositeRanker(weights config.ScoringConfig) *CompositeRanker {
	return &CompositeRanker{weights: weights}
}

// Score computes the composite score in [0,1]. confidence is a fraction
// in [0,1]; evMultiplier is the vig-adjusted EV multiplier (1.0 means
// break-even); riskScore is in [0,1] with higher meaning riskier.
func (r *CompositeRanker) Score(confidence, evMultiplier, riskScore float64) float64 {
	confScore := normalize(confidence, 0, 1)
	evScore := normalize(evMultiplier-1.0, 0, evNormalizationCeiling)
	riskAdjusted := normalize((1.0-riskScore)*evMultiplier, 0, riskAdjNormalizationCeil)

	weighted := 0.0
	weighted += confScore * r.weights.ConfidenceWeight
	weighted += evScore * r.weights.ExpectedValueWeight
	weighted += riskAdjusted * r.weights.RiskAdjustedWeight

	return weighted
}

// Rank sorts recommendations by composite score descending and assigns
// 1-based ranks. Ties break on vig-adjusted EV, then confidence, then
// the candidate key, so equal inputs always produce the same order.
func (r *CompositeRanker) Rank(recs []models.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].CompositeScore != recs[j].CompositeScore {
			return recs[i].CompositeScore > recs[j].CompositeScore
		}
		if recs[i].EVWithVig != recs[j].EVWithVig {
			return recs[i].EVWithVig > recs[j].EVWithVig
		}
		if recs[i].Confidence != recs[j].Confidence {
			return recs[i].Confidence > recs[j].Confidence
		}
		return recs[i].CandidateKey < recs[j].CandidateKey
	})
	for i := range recs {
		recs[i].Rank = i + 1
	}
}

func normalize(value, min, max float64) float64 {
	if max-min == 0 {
		return 0
	}
	v := (value - min) / (max - min)
	return clamp01(v)
}
