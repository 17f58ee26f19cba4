// Package predictor provides the model abstraction the ensemble draws
// from: local predictors, the remote model service client and the
// registry that attaches predictions to candidates.
package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/metrics"
	"github.com/yourusername/bet-advisor/internal/models"
)

// Predictor produces one model's prediction for a candidate.
type Predictor interface {
	// Name is the model name the ensemble weights are keyed by.
	Name() string
	// Predict estimates the win probability and confidence for one
	// candidate. Implementations must be safe for concurrent use.
	Predict(ctx context.Context, c *models.Candidate) (models.ModelPrediction, error)
}

// Registry holds the registered predictors for the enabled ensemble
// models and attaches their predictions to candidates before scoring.
type Registry struct {
	predictors map[string]Predictor
	logger     *logrus.Logger
}

// NewRegistry builds a registry from the enabled ensemble models. Every
// enabled model must have a registered predictor; a missing one is a
// startup failure, not a per-cycle surprise.
func NewRegistry(cfg config.EnsembleConfig, log *logrus.Logger, predictors ...Predictor) (*Registry, error) {
	byName := make(map[string]Predictor, len(predictors))
	for _, p := range predictors {
		if _, dup := byName[p.Name()]; dup {
			return nil, fmt.Errorf("predictor %q registered twice", p.Name())
		}
		byName[p.Name()] = p
	}

	registered := make(map[string]Predictor)
	for _, m := range cfg.Models {
		if !m.Enabled {
			continue
		}
		p, ok := byName[m.Name]
		if !ok {
			return nil, fmt.Errorf("enabled model %q has no registered predictor", m.Name)
		}
		registered[m.Name] = p
	}
	if len(registered) == 0 {
		return nil, models.ErrEmptyWeights
	}

	return &Registry{predictors: registered, logger: log}, nil
}

// Names returns the registered model names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.predictors))
	for name := range r.predictors {
		names = append(names, name)
	}
	return names
}

// PredictAll runs every registered predictor against the candidate and
// attaches the successful predictions. A failing predictor is logged and
// skipped; the ensemble renormalizes over whatever survives. The error
// return is non-nil only when the context is cancelled.
func (r *Registry) PredictAll(ctx context.Context, c *models.Candidate) error {
	if c.Predictions == nil {
		c.Predictions = make(map[string]models.ModelPrediction, len(r.predictors))
	}

	for name, p := range r.predictors {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		pred, err := p.Predict(ctx, c)
		metrics.PredictorLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.RecordPredictorError(name)
			r.logger.WithFields(logrus.Fields{
				"model":     name,
				"event":     c.EventName,
				"selection": c.Selection,
				"error":     err,
			}).Warn("Predictor failed, continuing without it")
			continue
		}
		c.Predictions[name] = pred
	}
	return nil
}
