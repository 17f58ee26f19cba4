package models

// ValueMetrics captures the market-value analysis of one candidate: how the
// consensus probability compares against the bookmaker's implied probability,
// with and without the bookmaker's commission (vigorish).
type ValueMetrics struct {
	// ImpliedProbability is 1 / decimal odds.
	ImpliedProbability float64 `json:"implied_probability"`
	// VigImpliedProbability is the implied probability inflated by the
	// configured vig rate, capped at 1.
	VigImpliedProbability float64 `json:"vig_implied_probability"`
	// Edge is consensus probability minus implied probability.
	Edge float64 `json:"edge"`
	// EdgeWithVig is consensus probability minus the vig-adjusted implied
	// probability. Always <= Edge for a positive vig rate.
	EdgeWithVig float64 `json:"edge_with_vig"`
	// ExpectedValue is probability * odds - 1 (net return per unit staked).
	ExpectedValue float64 `json:"expected_value"`
	// EVWithVig is the expected value computed against the vig-reduced
	// payout. Always <= ExpectedValue for a positive vig rate.
	EVWithVig float64 `json:"ev_with_vig"`
}

// EVWithVigMultiplier returns the vig-adjusted expected value as a breakeven
// multiplier, the form the selection thresholds are expressed in.
func (v ValueMetrics) EVWithVigMultiplier() float64 {
	return 1 + v.EVWithVig
}

// RiskProfile scores how trustworthy a candidate's consensus is. Higher is
// riskier. The score is monotone non-decreasing in model dispersion.
type RiskProfile struct {
	Score               float64 `json:"score"`
	DispersionComponent float64 `json:"dispersion_component"`
	ThinEdgeComponent   float64 `json:"thin_edge_component"`
}
