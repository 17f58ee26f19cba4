package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/models"
)

// RemoteModelPredictor queries the external model service for one named
// model's prediction over HTTP with automatic retries.
type RemoteModelPredictor struct {
	name    string
	client  *retryablehttp.Client
	baseURL string
	logger  *logrus.Logger
}

// predictRequest is the model service request payload.
type predictRequest struct {
	Model      string    `json:"model"`
	EventID    string    `json:"event_id"`
	Sport      string    `json:"sport"`
	Selection  string    `json:"selection"`
	MarketType string    `json:"market_type,omitempty"`
	Odds       float64   `json:"odds"`
	StartTime  time.Time `json:"start_time"`
}

// predictResponse is the model service response payload.
type predictResponse struct {
	Model       string  `json:"model"`
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
}

// NewRemoteModelPredictor creates a predictor backed by the model service.
func NewRemoteModelPredictor(name string, cfg config.ModelServiceConfig, logger *logrus.Logger) *RemoteModelPredictor {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	retryClient.RetryMax = cfg.RetryAttempts
	retryClient.Logger = nil

	return &RemoteModelPredictor{
		name:    name,
		client:  retryClient,
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

// Name returns the model name this predictor serves.
func (p *RemoteModelPredictor) Name() string {
	return p.name
}

// Predict requests a prediction from the model service.
func (p *RemoteModelPredictor) Predict(ctx context.Context, c *models.Candidate) (models.ModelPrediction, error) {
	start := time.Now()

	payload, err := json.Marshal(predictRequest{
		Model:      p.name,
		EventID:    c.EventID.String(),
		Sport:      c.Sport,
		Selection:  c.Selection,
		MarketType: c.MarketType,
		Odds:       c.Odds,
		StartTime:  c.StartTime,
	})
	if err != nil {
		return models.ModelPrediction{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/v1/predict", bytes.NewBuffer(payload))
	if err != nil {
		return models.ModelPrediction{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return models.ModelPrediction{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return models.ModelPrediction{}, fmt.Errorf("%w: %s", ErrUnknownModel, p.name)
	default:
		body, _ := io.ReadAll(resp.Body)
		return models.ModelPrediction{}, fmt.Errorf("prediction request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var predResp predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&predResp); err != nil {
		return models.ModelPrediction{}, fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
	}
	if predResp.Probability < 0 || predResp.Probability > 1 || predResp.Confidence < 0 || predResp.Confidence > 1 {
		return models.ModelPrediction{}, fmt.Errorf("%w: probability %.4f confidence %.4f", ErrInvalidPrediction, predResp.Probability, predResp.Confidence)
	}

	p.logger.WithFields(logrus.Fields{
		"model":     p.name,
		"event":     c.EventName,
		"selection": c.Selection,
		"duration":  time.Since(start),
	}).Debug("Prediction received")

	return models.ModelPrediction{
		Probability: predResp.Probability,
		Confidence:  predResp.Confidence,
	}, nil
}
