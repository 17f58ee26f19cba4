package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/bet-advisor/internal/service"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(_ context.Context) error { return p.err }

type stubCycles struct {
	summary *service.CycleSummary
}

func (c stubCycles) LastCycle() *service.CycleSummary { return c.summary }

func testServer(db DatabasePinger, cycles CycleStatusProvider) *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewServer(Config{
		ServiceName: "bet-advisor",
		Version:     "test",
		Logger:      log,
		DB:          db,
		Cycles:      cycles,
	})
}

func TestHandleHealth(t *testing.T) {
	s := testServer(nil, nil)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "bet-advisor", resp.Service)
}

func TestHandleReadyNotReady(t *testing.T) {
	s := testServer(nil, nil)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleReadyWithHealthyDatabase(t *testing.T) {
	s := testServer(stubPinger{}, nil)
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Checks["database"])
}

func TestHandleReadyWithFailingDatabase(t *testing.T) {
	s := testServer(stubPinger{err: errors.New("connection refused")}, nil)
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleLastCycleBeforeFirstCycle(t *testing.T) {
	s := testServer(nil, stubCycles{})

	rec := httptest.NewRecorder()
	s.handleLastCycle(rec, httptest.NewRequest(http.MethodGet, "/status/last-cycle", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandleLastCycleReturnsSummary(t *testing.T) {
	summary := &service.CycleSummary{CycleID: uuid.New(), PoolSize: 12}
	s := testServer(nil, stubCycles{summary: summary})

	rec := httptest.NewRecorder()
	s.handleLastCycle(rec, httptest.NewRequest(http.MethodGet, "/status/last-cycle", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp service.CycleSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, summary.CycleID, resp.CycleID)
	assert.Equal(t, 12, resp.PoolSize)
}
