package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testCandidate() *models.Candidate {
	return &models.Candidate{
		EventID:    uuid.New(),
		EventName:  "Leeds vs Derby",
		Sport:      "football",
		Selection:  "home",
		MarketType: "match_odds",
		Bookmaker:  "bet365",
		Odds:       2.0,
		StartTime:  time.Now().Add(4 * time.Hour),
	}
}

// stubPredictor returns a fixed prediction or error.
type stubPredictor struct {
	name  string
	pred  models.ModelPrediction
	err   error
	calls int
}

func (s *stubPredictor) Name() string { return s.name }

func (s *stubPredictor) Predict(_ context.Context, _ *models.Candidate) (models.ModelPrediction, error) {
	s.calls++
	if s.err != nil {
		return models.ModelPrediction{}, s.err
	}
	return s.pred, nil
}

func ensembleConfig(names ...string) config.EnsembleConfig {
	cfg := config.EnsembleConfig{}
	for _, name := range names {
		cfg.Models = append(cfg.Models, config.ModelWeightConfig{
			Name: name, Enabled: true, Weight: 1.0 / float64(len(names)),
		})
	}
	return cfg
}

func TestNewRegistryRequiresAllEnabledModels(t *testing.T) {
	_, err := NewRegistry(
		ensembleConfig("market_consensus", "gradient_boost"),
		testLogger(),
		&stubPredictor{name: "market_consensus"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gradient_boost")
}

func TestNewRegistryRejectsDuplicatePredictors(t *testing.T) {
	_, err := NewRegistry(
		ensembleConfig("market_consensus"),
		testLogger(),
		&stubPredictor{name: "market_consensus"},
		&stubPredictor{name: "market_consensus"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registered twice")
}

func TestNewRegistryIgnoresDisabledModels(t *testing.T) {
	cfg := config.EnsembleConfig{
		Models: []config.ModelWeightConfig{
			{Name: "market_consensus", Enabled: true, Weight: 1.0},
			{Name: "experimental", Enabled: false, Weight: 0.0},
		},
	}

	registry, err := NewRegistry(cfg, testLogger(), &stubPredictor{name: "market_consensus"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"market_consensus"}, registry.Names())
}

func TestPredictAllAttachesPredictions(t *testing.T) {
	registry, err := NewRegistry(
		ensembleConfig("alpha", "beta"),
		testLogger(),
		&stubPredictor{name: "alpha", pred: models.ModelPrediction{Probability: 0.7, Confidence: 0.8}},
		&stubPredictor{name: "beta", pred: models.ModelPrediction{Probability: 0.6, Confidence: 0.7}},
	)
	require.NoError(t, err)

	c := testCandidate()
	require.NoError(t, registry.PredictAll(context.Background(), c))

	require.Len(t, c.Predictions, 2)
	assert.Equal(t, 0.7, c.Predictions["alpha"].Probability)
	assert.Equal(t, 0.6, c.Predictions["beta"].Probability)
}

func TestPredictAllIsolatesFailures(t *testing.T) {
	failing := &stubPredictor{name: "beta", err: errors.New("model service down")}
	registry, err := NewRegistry(
		ensembleConfig("alpha", "beta"),
		testLogger(),
		&stubPredictor{name: "alpha", pred: models.ModelPrediction{Probability: 0.7, Confidence: 0.8}},
		failing,
	)
	require.NoError(t, err)

	c := testCandidate()
	require.NoError(t, registry.PredictAll(context.Background(), c))

	// The failed model contributes nothing; the rest still attach.
	require.Len(t, c.Predictions, 1)
	_, hasBeta := c.Predictions["beta"]
	assert.False(t, hasBeta)
}

func TestPredictAllCancelledContext(t *testing.T) {
	registry, err := NewRegistry(
		ensembleConfig("alpha"),
		testLogger(),
		&stubPredictor{name: "alpha", pred: models.ModelPrediction{Probability: 0.7, Confidence: 0.8}},
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, registry.PredictAll(ctx, testCandidate()), context.Canceled)
}

func TestMarketConsensusStripsVig(t *testing.T) {
	p := NewMarketConsensusPredictor(0.0476)

	c := testCandidate()
	c.Odds = 2.0
	pred, err := p.Predict(context.Background(), c)
	require.NoError(t, err)

	// Implied 0.50 deflated by the vig rate.
	assert.InDelta(t, 0.4773, pred.Probability, 1e-3)
	assert.GreaterOrEqual(t, pred.Confidence, marketBaseConfidence)
	assert.LessOrEqual(t, pred.Confidence, marketMaxConfidence)
}

func TestMarketConsensusShorterOddsMoreConfident(t *testing.T) {
	p := NewMarketConsensusPredictor(0.0476)

	short := testCandidate()
	short.Odds = 1.25
	long := testCandidate()
	long.Odds = 8.0

	shortPred, err := p.Predict(context.Background(), short)
	require.NoError(t, err)
	longPred, err := p.Predict(context.Background(), long)
	require.NoError(t, err)

	assert.Greater(t, shortPred.Confidence, longPred.Confidence)
}

func TestRemoteModelPredictor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/predict", r.URL.Path)

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gradient_boost", req.Model)

		json.NewEncoder(w).Encode(predictResponse{
			Model:       req.Model,
			Probability: 0.72,
			Confidence:  0.81,
		})
	}))
	defer server.Close()

	p := NewRemoteModelPredictor("gradient_boost", config.ModelServiceConfig{
		BaseURL:        server.URL,
		TimeoutSeconds: 5,
	}, testLogger())

	pred, err := p.Predict(context.Background(), testCandidate())
	require.NoError(t, err)
	assert.Equal(t, 0.72, pred.Probability)
	assert.Equal(t, 0.81, pred.Confidence)
}

func TestRemoteModelPredictorRejectsOutOfRangeResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(predictResponse{Probability: 1.4, Confidence: 0.8})
	}))
	defer server.Close()

	p := NewRemoteModelPredictor("gradient_boost", config.ModelServiceConfig{
		BaseURL:        server.URL,
		TimeoutSeconds: 5,
	}, testLogger())

	_, err := p.Predict(context.Background(), testCandidate())
	assert.ErrorIs(t, err, ErrInvalidPrediction)
}

func TestRemoteModelPredictorUnknownModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := NewRemoteModelPredictor("no_such_model", config.ModelServiceConfig{
		BaseURL:        server.URL,
		TimeoutSeconds: 5,
	}, testLogger())

	_, err := p.Predict(context.Background(), testCandidate())
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestCachedPredictorServesFromCache(t *testing.T) {
	stub := &stubPredictor{name: "alpha", pred: models.ModelPrediction{Probability: 0.7, Confidence: 0.8}}
	cached := NewCachedPredictor(stub, NewPredictionCache(time.Minute, 100))

	c := testCandidate()
	first, err := cached.Predict(context.Background(), c)
	require.NoError(t, err)
	second, err := cached.Predict(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.calls)
}

func TestCachedPredictorOddsChangeBypassesCache(t *testing.T) {
	stub := &stubPredictor{name: "alpha", pred: models.ModelPrediction{Probability: 0.7, Confidence: 0.8}}
	cached := NewCachedPredictor(stub, NewPredictionCache(time.Minute, 100))

	c := testCandidate()
	_, err := cached.Predict(context.Background(), c)
	require.NoError(t, err)

	c.Odds = 2.2
	_, err = cached.Predict(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, 2, stub.calls)
}

func TestCachedPredictorDoesNotCacheFailures(t *testing.T) {
	stub := &stubPredictor{name: "alpha", err: errors.New("down")}
	cached := NewCachedPredictor(stub, NewPredictionCache(time.Minute, 100))

	c := testCandidate()
	_, err := cached.Predict(context.Background(), c)
	require.Error(t, err)
	_, err = cached.Predict(context.Background(), c)
	require.Error(t, err)

	assert.Equal(t, 2, stub.calls)
}
