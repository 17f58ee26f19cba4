package models

// AggregatedPrediction is the consensus judgment produced by combining the
// per-model predictions of a single candidate under the configured weights.
type AggregatedPrediction struct {
	// Probability is the weighted consensus win probability in [0,1].
	Probability float64 `json:"probability"`
	// Confidence is the weighted consensus confidence on a 0-100 scale.
	Confidence float64 `json:"confidence"`
	// Dispersion is the weighted standard deviation of the per-model
	// probabilities around the consensus. Higher means more disagreement.
	Dispersion float64 `json:"dispersion"`
	// ModelWeights holds the renormalized weights actually used, keyed by
	// model name. They sum to 1 over the models present on the candidate.
	ModelWeights map[string]float64 `json:"model_weights"`
	// IndividualConfidences holds each contributing model's confidence in
	// [0,1], for the rationale block.
	IndividualConfidences map[string]float64 `json:"individual_confidences"`
}

// MeetsThreshold checks if the consensus confidence (0-100 scale) meets the
// given threshold expressed in [0,1].
func (a *AggregatedPrediction) MeetsThreshold(threshold float64) bool {
	return a.Confidence >= threshold*100
}

// ConfidenceFraction returns the consensus confidence on a [0,1] scale.
func (a *AggregatedPrediction) ConfidenceFraction() float64 {
	return a.Confidence / 100
}
