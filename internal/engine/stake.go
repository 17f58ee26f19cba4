package engine

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/models"
)

// minUnitConfidence is the consensus confidence below which a candidate
// gets zero units regardless of edge.
const minUnitConfidence = 0.70

// StakePlan is the monetary and unit sizing for one recommendation.
type StakePlan struct {
	Units         float64
	Amount        decimal.Decimal
	Percentage    float64
	KellyFraction float64
}

// StakeSizer applies fractional Kelly sizing with hard caps, plus the
// discrete unit-size bands used for display and bet grouping.
type StakeSizer struct {
	cfg config.StakingConfig
}

// NewStakeSizer creates a stake sizer from staking configuration.
func NewStakeSizer(cfg config.StakingConfig) *StakeSizer {
	return &StakeSizer{cfg: cfg}
}

// Size computes the stake for one accepted candidate. The second return
// value is false when the candidate must be excluded: zero unit size, or
// a capped stake that falls below the configured minimum. Stakes are
// never rounded up to meet the minimum.
func (s *StakeSizer) Size(odds float64, agg models.AggregatedPrediction, value models.ValueMetrics, risk models.RiskProfile, bankroll decimal.Decimal) (StakePlan, bool) {
	units := s.UnitSize(agg.ConfidenceFraction(), value.EVWithVigMultiplier(), risk.Score)
	if units == 0 {
		return StakePlan{}, false
	}

	kelly := kellyFraction(agg.Probability, odds)
	fraction := kelly * s.cfg.KellyFraction
	percentage := math.Min(fraction, s.cfg.MaxStakePercentage)

	amount := bankroll.Mul(decimal.NewFromFloat(percentage)).Truncate(2)
	maxAmount := decimal.NewFromFloat(s.cfg.MaxStakeAmount)
	if amount.GreaterThan(maxAmount) {
		amount = maxAmount
	}
	if amount.LessThan(decimal.NewFromFloat(s.cfg.MinStakeAmount)) {
		return StakePlan{}, false
	}

	if !bankroll.IsZero() {
		pct, _ := amount.Div(bankroll).Float64()
		percentage = pct
	}

	return StakePlan{
		Units:         units,
		Amount:        amount,
		Percentage:    percentage,
		KellyFraction: kelly,
	}, true
}

// UnitSize maps confidence, EV multiplier and risk onto the 0-5 unit
// bands in half-unit steps. Confidence below the floor yields zero.
func (s *StakeSizer) UnitSize(confidence, evMultiplier, riskScore float64) float64 {
	if confidence < minUnitConfidence {
		return 0
	}

	units := (confidence-0.65)*10 + (evMultiplier-1.0)*5 + (1.0-riskScore)*2 - riskScore*0.5
	units = math.Max(0.5, math.Min(s.cfg.MaxUnits, units))

	return math.Round(units*2) / 2
}

// kellyFraction computes the full Kelly criterion fraction for decimal
// odds, clipped to [0,1]. b is the net payout per unit staked.
func kellyFraction(probability, odds float64) float64 {
	b := odds - 1.0
	if b <= 0 {
		return 0
	}
	q := 1.0 - probability
	return clamp01((b*probability - q) / b)
}
