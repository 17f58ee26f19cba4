package engine

import (
	"fmt"

	"github.com/yourusername/bet-advisor/internal/models"
)

// buildRationale produces the human-readable explanation attached to a
// recommendation: a one-line summary, the strongest reasons, per-model
// agreement and the value breakdown as formatted percentages.
func buildRationale(c *models.Candidate, agg models.AggregatedPrediction, value models.ValueMetrics) models.Rationale {
	agreement := make(map[string]float64, len(agg.ModelWeights))
	for name := range agg.ModelWeights {
		agreement[name] = c.Predictions[name].Probability
	}

	return models.Rationale{
		Summary:        fmt.Sprintf("%s on %s at %.2f: %.1f%% consensus probability vs %.1f%% implied", c.Selection, c.EventName, c.Odds, agg.Probability*100, value.ImpliedProbability*100),
		KeyReasons:     keyReasons(agg, value),
		ModelAgreement: agreement,
		ValueAnalysis: models.ValueBreakdown{
			ModelProbability:   fmt.Sprintf("%.2f%%", agg.Probability*100),
			ImpliedProbability: fmt.Sprintf("%.2f%%", value.ImpliedProbability*100),
			Edge:               fmt.Sprintf("%.2f%%", value.Edge*100),
			ExpectedValue:      fmt.Sprintf("%.2f%%", value.EVWithVig*100),
		},
	}
}

func keyReasons(agg models.AggregatedPrediction, value models.ValueMetrics) []string {
	var reasons []string

	switch {
	case agg.Confidence > 80:
		reasons = append(reasons, "very high model confidence (>80%)")
	case agg.Confidence > 70:
		reasons = append(reasons, "high model confidence (>70%)")
	}

	switch {
	case value.EVWithVig > 0.20:
		reasons = append(reasons, "exceptional expected value after vig (>20%)")
	case value.EVWithVig > 0.10:
		reasons = append(reasons, "strong expected value after vig (>10%)")
	case value.EVWithVig > 0.05:
		reasons = append(reasons, "positive expected value after vig (>5%)")
	}

	if value.ImpliedProbability > 0 && agg.Probability > value.ImpliedProbability*1.2 {
		reasons = append(reasons, "model probability significantly above market implied")
	}

	if len(agg.ModelWeights) >= 3 && agg.Dispersion < 0.05 {
		reasons = append(reasons, "strong consensus across all models")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "meets all selection thresholds")
	}
	return reasons
}
