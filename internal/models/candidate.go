// Package models contains the core domain types shared across the advisor.
package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ModelPrediction is one model's judgment on a candidate: its estimated
// win probability and how confident it is in that estimate, both in [0,1].
type ModelPrediction struct {
	Probability float64 `json:"probability" validate:"gte=0,lte=1"`
	Confidence  float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// Candidate is one potential wager from the odds feed: an event, a
// selection within one of its markets, a bookmaker's price for it, and
// the per-model predictions attached by the predictor registry.
type Candidate struct {
	EventID     uuid.UUID                  `json:"event_id" validate:"required"`
	EventName   string                     `json:"event_name" validate:"required"`
	Sport       string                     `json:"sport" validate:"required"`
	Selection   string                     `json:"selection" validate:"required"`
	MarketType  string                     `json:"market_type"`
	Bookmaker   string                     `json:"bookmaker" validate:"required"`
	Odds        float64                    `json:"odds" validate:"gt=1"`
	StartTime   time.Time                  `json:"start_time" validate:"required"`
	Predictions map[string]ModelPrediction `json:"predictions"`
}

// Validate checks the candidate's structural fields. Odds at or below 1.0
// are a ValidationError because they poison every downstream calculation;
// a missing prediction map is ErrNoModelPredictions, which merely excludes
// the candidate.
func (c *Candidate) Validate() error {
	if c.Odds <= 1.0 {
		return NewValidationError("odds", fmt.Sprintf("decimal odds must be greater than 1.0, got %.4f", c.Odds))
	}
	if c.EventID == uuid.Nil {
		return NewValidationError("event_id", "event ID is required")
	}
	if c.Selection == "" {
		return NewValidationError("selection", "selection is required")
	}
	if c.StartTime.IsZero() {
		return NewValidationError("start_time", "start time is required")
	}
	for name, pred := range c.Predictions {
		if pred.Probability < 0 || pred.Probability > 1 {
			return NewValidationError("predictions", fmt.Sprintf("model %q probability %.4f outside [0,1]", name, pred.Probability))
		}
		if pred.Confidence < 0 || pred.Confidence > 1 {
			return NewValidationError("predictions", fmt.Sprintf("model %q confidence %.4f outside [0,1]", name, pred.Confidence))
		}
	}
	if len(c.Predictions) == 0 {
		return ErrNoModelPredictions
	}
	return nil
}

// ModelNames returns the names of the models with predictions on this
// candidate, sorted for deterministic iteration.
func (c *Candidate) ModelNames() []string {
	names := make([]string, 0, len(c.Predictions))
	for name := range c.Predictions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StartsWithin reports whether the event starts after now and no later
// than now plus the window.
func (c *Candidate) StartsWithin(now time.Time, window time.Duration) bool {
	return c.StartTime.After(now) && !c.StartTime.After(now.Add(window))
}

// Key uniquely identifies a candidate within one pool and provides the
// final ranking tie-break.
func (c *Candidate) Key() string {
	return fmt.Sprintf("%s:%s:%s", c.EventID, c.Selection, c.Bookmaker)
}
