package feed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/bet-advisor/internal/config"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func feedConfig(url string) config.OddsFeedConfig {
	return config.OddsFeedConfig{
		Enabled:        true,
		BaseURL:        url,
		APIKey:         "test-key",
		TimeoutSeconds: 5,
	}
}

const feedPayload = `{
	"events": [
		{
			"id": "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
			"name": "Arsenal vs Chelsea",
			"sport": "football",
			"start_time": "2026-03-14T18:00:00Z",
			"markets": [
				{
					"type": "match_odds",
					"selections": [
						{"name": "home", "bookmaker": "bet365", "odds": 2.0},
						{"name": "away", "bookmaker": "bet365", "odds": 3.8}
					]
				}
			]
		},
		{
			"id": "not-a-uuid",
			"name": "Broken Event",
			"sport": "football",
			"start_time": "2026-03-14T19:00:00Z",
			"markets": [
				{
					"type": "match_odds",
					"selections": [{"name": "home", "bookmaker": "bet365", "odds": 1.5}]
				}
			]
		}
	]
}`

func TestFetchCandidatesFlattensMarkets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/events/upcoming", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		io.WriteString(w, feedPayload)
	}))
	defer server.Close()

	client := NewOddsFeedClient(feedConfig(server.URL), testLogger())
	defer client.Close()

	candidates, err := client.FetchCandidates(context.Background())
	require.NoError(t, err)

	// The malformed event is skipped; the good event yields two candidates.
	require.Len(t, candidates, 2)
	assert.Equal(t, "Arsenal vs Chelsea", candidates[0].EventName)
	assert.Equal(t, "home", candidates[0].Selection)
	assert.Equal(t, 2.0, candidates[0].Odds)
	assert.Equal(t, "away", candidates[1].Selection)
	assert.Equal(t, time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC), candidates[0].StartTime)
}

func TestFetchCandidatesSkipsInvalidOdds(t *testing.T) {
	payload := `{
		"events": [
			{
				"id": "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
				"name": "Arsenal vs Chelsea",
				"sport": "football",
				"start_time": "2026-03-14T18:00:00Z",
				"markets": [
					{
						"type": "match_odds",
						"selections": [
							{"name": "home", "bookmaker": "bet365", "odds": 2.0},
							{"name": "draw", "bookmaker": "bet365", "odds": 0},
							{"name": "away", "bookmaker": "bet365", "odds": 1.0}
						]
					}
				]
			}
		]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, payload)
	}))
	defer server.Close()

	client := NewOddsFeedClient(feedConfig(server.URL), testLogger())
	defer client.Close()

	candidates, err := client.FetchCandidates(context.Background())
	require.NoError(t, err)

	// Suspended (odds 0) and even-money-floor (odds 1.0) selections are
	// dropped; the priced selection survives.
	require.Len(t, candidates, 1)
	assert.Equal(t, "home", candidates[0].Selection)
	assert.Equal(t, 2.0, candidates[0].Odds)
}

func TestFetchCandidatesNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewOddsFeedClient(feedConfig(server.URL), testLogger())
	defer client.Close()

	_, err := client.FetchCandidates(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFetchCandidatesEmptyFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"events": []}`)
	}))
	defer server.Close()

	client := NewOddsFeedClient(feedConfig(server.URL), testLogger())
	defer client.Close()

	candidates, err := client.FetchCandidates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.Timeout = 500 * time.Millisecond
	cfg.CircuitBreakerMax = 2
	cfg.RateLimit = 1000

	client := NewRateLimitedHTTPClient(cfg, testLogger())
	defer client.Close()

	// Unroutable target: every request errors.
	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), "http://127.0.0.1:1")
		require.Error(t, err)
	}

	_, err := client.Get(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}

func TestCircuitBreakerResetsOnSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.Timeout = 500 * time.Millisecond
	cfg.CircuitBreakerMax = 3
	cfg.RateLimit = 1000

	client := NewRateLimitedHTTPClient(cfg, testLogger())
	defer client.Close()

	_, err := client.Get(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	// A success clears the consecutive error count.
	_, err = client.Get(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "circuit breaker open")
}
