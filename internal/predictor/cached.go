package predictor

import (
	"context"

	"github.com/yourusername/bet-advisor/internal/models"
)

// CachedPredictor wraps another predictor with a read-through cache so
// repeated cycles within the TTL don't re-query the model service for
// unchanged prices.
type CachedPredictor struct {
	inner Predictor
	cache *PredictionCache
}

// NewCachedPredictor wraps a predictor with a cache.
func NewCachedPredictor(inner Predictor, cache *PredictionCache) *CachedPredictor {
	return &CachedPredictor{inner: inner, cache: cache}
}

// Name returns the wrapped predictor's model name.
func (p *CachedPredictor) Name() string {
	return p.inner.Name()
}

// Predict serves from cache when possible, delegating misses to the
// wrapped predictor. Failed predictions are not cached.
func (p *CachedPredictor) Predict(ctx context.Context, c *models.Candidate) (models.ModelPrediction, error) {
	key := CacheKey{
		Model:     p.Name(),
		EventID:   c.EventID,
		Selection: c.Selection,
		Odds:      c.Odds,
	}

	if pred, found := p.cache.Get(key); found {
		return pred, nil
	}

	pred, err := p.inner.Predict(ctx, c)
	if err != nil {
		return models.ModelPrediction{}, err
	}
	p.cache.Set(key, pred)
	return pred, nil
}
