package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/models"
)

// CandidateSource supplies the candidate pool for a selection cycle.
type CandidateSource interface {
	FetchCandidates(ctx context.Context) ([]models.Candidate, error)
}

// eventDTO is the feed's wire format for one event with its markets.
type eventDTO struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Sport     string      `json:"sport"`
	StartTime time.Time   `json:"start_time"`
	Markets   []marketDTO `json:"markets"`
}

type marketDTO struct {
	Type       string         `json:"type"`
	Selections []selectionDTO `json:"selections"`
}

type selectionDTO struct {
	Name      string  `json:"name"`
	Bookmaker string  `json:"bookmaker"`
	Odds      float64 `json:"odds"`
}

type eventsResponse struct {
	Events []eventDTO `json:"events"`
}

// OddsFeedClient fetches upcoming events from the odds feed API and
// flattens them into candidates.
type OddsFeedClient struct {
	http    *RateLimitedHTTPClient
	baseURL string
	apiKey  string
	logger  *logrus.Logger
}

// NewOddsFeedClient creates a feed client from configuration.
func NewOddsFeedClient(cfg config.OddsFeedConfig, logger *logrus.Logger) *OddsFeedClient {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.MaxRetries > 0 {
		httpCfg.MaxRetries = cfg.MaxRetries
	}
	if cfg.RateLimitPerSecond > 0 {
		httpCfg.RateLimit = cfg.RateLimitPerSecond
	}
	if cfg.CircuitBreakerMax > 0 {
		httpCfg.CircuitBreakerMax = cfg.CircuitBreakerMax
	}

	return &OddsFeedClient{
		http:    NewRateLimitedHTTPClient(httpCfg, logger),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// FetchCandidates retrieves upcoming events and flattens every priced
// selection into a candidate. Malformed events are logged and skipped;
// the rest of the pool survives.
func (c *OddsFeedClient) FetchCandidates(ctx context.Context) ([]models.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/events/upcoming", nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("odds feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("odds feed returned status %d", resp.StatusCode)
	}

	var payload eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode odds feed response: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(payload.Events))
	for _, event := range payload.Events {
		eventID, err := uuid.Parse(event.ID)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"event_id": event.ID,
				"event":    event.Name,
			}).Warn("Skipping event with malformed ID")
			continue
		}
		for _, market := range event.Markets {
			for _, sel := range market.Selections {
				// Suspended or unpriced selections come through at 1.0 or
				// below; they would fail pool validation downstream.
				if sel.Odds <= 1.0 {
					c.logger.WithFields(logrus.Fields{
						"event":     event.Name,
						"selection": sel.Name,
						"bookmaker": sel.Bookmaker,
						"odds":      sel.Odds,
					}).Warn("Skipping selection with invalid odds")
					continue
				}
				candidates = append(candidates, models.Candidate{
					EventID:    eventID,
					EventName:  event.Name,
					Sport:      event.Sport,
					Selection:  sel.Name,
					MarketType: market.Type,
					Bookmaker:  sel.Bookmaker,
					Odds:       sel.Odds,
					StartTime:  event.StartTime,
				})
			}
		}
	}

	c.logger.WithFields(logrus.Fields{
		"events":     len(payload.Events),
		"candidates": len(candidates),
	}).Debug("Fetched candidate pool")

	return candidates, nil
}

// Close releases the underlying HTTP client resources.
func (c *OddsFeedClient) Close() error {
	return c.http.Close()
}
