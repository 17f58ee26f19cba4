package engine

import (
	"fmt"
	"math"

	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/models"
)

const (
	dispersionRiskWeight = 0.6
	thinEdgeRiskWeight   = 0.4

	// dispersionScale maps model disagreement onto [0,1]: a weighted
	// standard deviation of 0.25 or more counts as maximal disagreement.
	dispersionScale = 0.25

	// edgeComfortMargin is how far above the minimum EV threshold an edge
	// must sit before it stops contributing thin-edge risk.
	edgeComfortMargin = 0.10
)

// RiskScorer produces a risk score in [0,1] from model disagreement and
// how thin the vig-adjusted edge is relative to the minimum threshold.
// Higher is riskier.
type RiskScorer struct {
	minEdge float64
}

// NewRiskScorer creates a risk scorer. minExpectedValue is the EV
// multiplier threshold (e.g. 1.08); the scorer works with the edge above
// break-even, i.e. minExpectedValue - 1.
func NewRiskScorer(minExpectedValue float64) *RiskScorer {
	return &RiskScorer{minEdge: minExpectedValue - 1.0}
}

// Score computes the risk profile for one candidate.
func (r *RiskScorer) Score(agg models.AggregatedPrediction, value models.ValueMetrics) models.RiskProfile {
	dispersionComponent := clamp01(agg.Dispersion / dispersionScale)

	headroom := value.EVWithVig - r.minEdge
	thinEdgeComponent := clamp01(1.0 - headroom/edgeComfortMargin)

	score := clamp01(dispersionRiskWeight*dispersionComponent + thinEdgeRiskWeight*thinEdgeComponent)

	return models.RiskProfile{
		Score:               score,
		DispersionComponent: dispersionComponent,
		ThinEdgeComponent:   thinEdgeComponent,
	}
}

// FilterDecision is the outcome of the inverse filter for one candidate.
type FilterDecision struct {
	Accepted bool
	Reason   string
}

// InverseFilter rejects candidates that fail any hard threshold or match
// a suspect pattern. A single failed check rejects the candidate; the
// first failing check supplies the reason.
type InverseFilter struct {
	cfg config.SelectionConfig
}

// NewInverseFilter creates an inverse filter from selection thresholds.
func NewInverseFilter(cfg config.SelectionConfig) *InverseFilter {
	return &InverseFilter{cfg: cfg}
}

// Check evaluates all rejection rules against one scored candidate.
func (f *InverseFilter) Check(agg models.AggregatedPrediction, value models.ValueMetrics, risk models.RiskProfile) FilterDecision {
	confidence := agg.ConfidenceFraction()
	evMultiplier := value.EVWithVigMultiplier()

	if !agg.MeetsThreshold(f.cfg.MinConfidence) {
		return rejected(fmt.Sprintf("confidence %.1f%% below minimum %.1f%%", confidence*100, f.cfg.MinConfidence*100))
	}
	if evMultiplier < f.cfg.MinExpectedValue {
		return rejected(fmt.Sprintf("expected value %.3f below minimum %.3f", evMultiplier, f.cfg.MinExpectedValue))
	}
	if risk.Score > f.cfg.MaxRiskScore {
		return rejected(fmt.Sprintf("risk score %.2f above maximum %.2f", risk.Score, f.cfg.MaxRiskScore))
	}

	sp := f.cfg.SuspectPatterns
	if confidence > sp.OverconfidenceMinConfidence && evMultiplier < sp.OverconfidenceMaxEV {
		return rejected("suspect pattern: high confidence with marginal edge (overconfidence)")
	}
	if risk.Score < sp.FalseSecurityMaxRisk && evMultiplier < sp.FalseSecurityMaxEV {
		return rejected("suspect pattern: low risk with marginal edge (false security)")
	}
	if confidence >= sp.ContradictionMinConfidence && agg.Dispersion >= sp.ContradictionMinDispersion {
		return rejected("suspect pattern: high confidence despite strong model disagreement")
	}

	return FilterDecision{Accepted: true}
}

func rejected(reason string) FilterDecision {
	return FilterDecision{Accepted: false, Reason: reason}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
