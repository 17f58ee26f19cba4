package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValueBreakdown holds the value analysis as formatted percentages for
// display in the rationale block.
type ValueBreakdown struct {
	ModelProbability   string `json:"model_probability"`
	ImpliedProbability string `json:"implied_probability"`
	Edge               string `json:"edge"`
	ExpectedValue      string `json:"expected_value"`
}

// Rationale explains why a recommendation was made.
type Rationale struct {
	Summary        string             `json:"summary"`
	KeyReasons     []string           `json:"key_reasons"`
	ModelAgreement map[string]float64 `json:"model_agreement"`
	ValueAnalysis  ValueBreakdown     `json:"value_analysis"`
}

// Recommendation is one sized, ranked wager produced by a selection cycle.
// Recommendations are recomputed from scratch every cycle; they carry no
// state between invocations.
type Recommendation struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	Rank            int             `db:"rank" json:"rank"`
	EventID         uuid.UUID       `db:"event_id" json:"event_id"`
	EventName       string          `db:"event_name" json:"event_name"`
	Sport           string          `db:"sport" json:"sport"`
	Selection       string          `db:"selection" json:"selection"`
	MarketType      string          `db:"market_type" json:"market_type"`
	Bookmaker       string          `db:"bookmaker" json:"bookmaker"`
	CandidateKey    string          `db:"candidate_key" json:"candidate_key"`
	Odds            float64         `db:"odds" json:"odds"`
	StartTime       time.Time       `db:"start_time" json:"start_time"`
	Probability     float64         `db:"probability" json:"probability"`
	Confidence      float64         `db:"confidence" json:"confidence"`
	RiskScore       float64         `db:"risk_score" json:"risk_score"`
	ExpectedValue   float64         `db:"expected_value" json:"expected_value"`
	EVWithVig       float64         `db:"ev_with_vig" json:"ev_with_vig"`
	CompositeScore  float64         `db:"composite_score" json:"composite_score"`
	UnitSize        float64         `db:"unit_size" json:"unit_size"`
	Stake           decimal.Decimal `db:"stake" json:"stake"`
	StakePercentage float64         `db:"stake_percentage" json:"stake_percentage"`
	Rationale       Rationale       `db:"rationale" json:"rationale"`
	GeneratedAt     time.Time       `db:"generated_at" json:"generated_at"`
}
