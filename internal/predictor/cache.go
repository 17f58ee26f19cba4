package predictor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/bet-advisor/internal/models"
)

// CacheKey identifies one cached prediction: the model and the exact
// priced selection it was asked about. A changed price is a new key, so
// stale odds never serve a cached answer.
type CacheKey struct {
	Model     string
	EventID   uuid.UUID
	Selection string
	Odds      float64
}

// String returns the string form used as the underlying cache key.
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s:%.4f", k.Model, k.EventID, k.Selection, k.Odds)
}

// PredictionCache provides in-memory caching for model predictions with
// TTL expiry and a soft size cap.
type PredictionCache struct {
	cache   *cache.Cache
	ttl     time.Duration
	maxSize int
}

// NewPredictionCache creates a prediction cache.
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached prediction.
func (pc *PredictionCache) Get(key CacheKey) (models.ModelPrediction, bool) {
	if result, found := pc.cache.Get(key.String()); found {
		if pred, ok := result.(models.ModelPrediction); ok {
			return pred, true
		}
	}
	return models.ModelPrediction{}, false
}

// Set stores a prediction. When the cache is at its size cap, expired
// entries are flushed first; the cap is soft beyond that.
func (pc *PredictionCache) Set(key CacheKey, prediction models.ModelPrediction) {
	if pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
	}
	pc.cache.Set(key.String(), prediction, pc.ttl)
}

// Flush removes all cached predictions.
func (pc *PredictionCache) Flush() {
	pc.cache.Flush()
}

// Len returns the current number of cached entries, expired included.
func (pc *PredictionCache) Len() int {
	return pc.cache.ItemCount()
}
