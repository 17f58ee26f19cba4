// Package service orchestrates selection cycles: fetching candidates,
// attaching predictions, running the engine and persisting the output.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/engine"
	"github.com/yourusername/bet-advisor/internal/feed"
	"github.com/yourusername/bet-advisor/internal/logger"
	"github.com/yourusername/bet-advisor/internal/metrics"
	"github.com/yourusername/bet-advisor/internal/models"
	"github.com/yourusername/bet-advisor/internal/predictor"
	"github.com/yourusername/bet-advisor/internal/repository"
	"github.com/yourusername/bet-advisor/internal/tracing"
)

// BankrollProvider supplies the bankroll a cycle sizes stakes against.
type BankrollProvider interface {
	Bankroll(ctx context.Context) (decimal.Decimal, error)
}

// StaticBankroll is a BankrollProvider with a fixed amount.
type StaticBankroll struct {
	Amount decimal.Decimal
}

// Bankroll returns the fixed amount.
func (s StaticBankroll) Bankroll(_ context.Context) (decimal.Decimal, error) {
	return s.Amount, nil
}

// CycleSummary reports what one selection cycle did.
type CycleSummary struct {
	CycleID         uuid.UUID               `json:"cycle_id"`
	StartedAt       time.Time               `json:"started_at"`
	Duration        time.Duration           `json:"duration"`
	PoolSize        int                     `json:"pool_size"`
	Windowed        int                     `json:"windowed"`
	Rejected        int                     `json:"rejected"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// RecommendationService runs selection cycles end to end.
type RecommendationService struct {
	source    feed.CandidateSource
	registry  *predictor.Registry
	selector  *engine.Selector
	repo      repository.RecommendationRepository
	bankroll  BankrollProvider
	logger    *logrus.Logger
	audit     *logger.AuditLogger
	topK      int
	mu        sync.RWMutex
	lastCycle *CycleSummary
}

// NewRecommendationService wires a service. repo may be nil when
// persistence is disabled.
func NewRecommendationService(
	cfg *config.Config,
	source feed.CandidateSource,
	registry *predictor.Registry,
	repo repository.RecommendationRepository,
	bankroll BankrollProvider,
	log *logrus.Logger,
) (*RecommendationService, error) {
	selector, err := engine.NewSelector(cfg, log)
	if err != nil {
		return nil, err
	}
	if bankroll == nil {
		bankroll = StaticBankroll{Amount: decimal.NewFromFloat(cfg.Staking.DefaultBankroll)}
	}

	return &RecommendationService{
		source:   source,
		registry: registry,
		selector: selector,
		repo:     repo,
		bankroll: bankroll,
		logger:   log,
		audit:    logger.NewAuditLogger(log),
		topK:     cfg.Selection.TopK,
	}, nil
}

// RunCycle executes one full selection cycle. A ValidationError aborts
// the cycle with no recommendations; an empty result is a normal outcome.
func (s *RecommendationService) RunCycle(ctx context.Context) (summary *CycleSummary, err error) {
	start := time.Now()
	cycleID := uuid.New()
	metrics.SelectionCyclesTotal.Inc()

	ctx, seg := tracing.StartCycleSegment(ctx, cycleID.String())
	defer func() { tracing.CloseSegment(seg, err) }()

	log := s.logger.WithField("cycle_id", cycleID)
	log.Info("Selection cycle starting")

	candidates, err := s.source.FetchCandidates(ctx)
	if err != nil {
		metrics.SelectionCycleFailuresTotal.Inc()
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}

	for i := range candidates {
		if err := s.registry.PredictAll(ctx, &candidates[i]); err != nil {
			metrics.SelectionCycleFailuresTotal.Inc()
			return nil, err
		}
	}

	bankroll, err := s.bankroll.Bankroll(ctx)
	if err != nil {
		metrics.SelectionCycleFailuresTotal.Inc()
		return nil, fmt.Errorf("failed to resolve bankroll: %w", err)
	}

	result, err := s.selector.SelectTop(ctx, engine.Input{
		Candidates: candidates,
		Bankroll:   bankroll,
		Now:        start,
	})
	if err != nil {
		metrics.SelectionCycleFailuresTotal.Inc()
		log.WithError(err).Error("Selection cycle aborted")
		return nil, err
	}

	for _, rejection := range result.Rejections {
		s.audit.LogCandidateRejection(
			rejection.Candidate.EventID.String(),
			rejection.Candidate.EventName,
			rejection.Candidate.Selection,
			rejection.Reason,
		)
	}
	for _, rec := range result.Recommendations {
		s.audit.LogRecommendation(
			rec.Rank, rec.EventID.String(), rec.EventName, rec.Selection,
			rec.Bookmaker, rec.Odds, rec.Confidence, rec.EVWithVig,
			rec.RiskScore, rec.UnitSize, rec.Stake.StringFixed(2), rec.GeneratedAt,
		)
	}

	if s.repo != nil && len(result.Recommendations) > 0 {
		if err := s.repo.SaveCycle(ctx, cycleID, result.Recommendations); err != nil {
			// Persistence failure doesn't invalidate the recommendations.
			log.WithError(err).Error("Failed to persist recommendations")
		}
	}

	duration := time.Since(start)
	summary = &CycleSummary{
		CycleID:         cycleID,
		StartedAt:       start,
		Duration:        duration,
		PoolSize:        result.PoolSize,
		Windowed:        result.Windowed,
		Rejected:        len(result.Rejections),
		Recommendations: result.Recommendations,
	}
	s.recordCycle(summary, bankroll, duration)

	return summary, nil
}

func (s *RecommendationService) recordCycle(summary *CycleSummary, bankroll decimal.Decimal, duration time.Duration) {
	s.mu.Lock()
	s.lastCycle = summary
	s.mu.Unlock()

	metrics.SelectionCycleDuration.Observe(duration.Seconds())
	metrics.RecommendationsEmittedTotal.Add(float64(len(summary.Recommendations)))
	metrics.LastCycleRecommendations.Set(float64(len(summary.Recommendations)))
	metrics.LastCyclePoolSize.Set(float64(summary.PoolSize))
	bankrollValue, _ := bankroll.Float64()
	metrics.CurrentBankroll.Set(bankrollValue)
	if len(summary.Recommendations) > 0 {
		metrics.TopCompositeScore.Set(summary.Recommendations[0].CompositeScore)
	} else {
		metrics.TopCompositeScore.Set(0)
	}

	excluded := summary.PoolSize - summary.Windowed
	s.audit.LogCycleResult(
		summary.PoolSize, excluded, summary.Rejected,
		len(summary.Recommendations), bankroll.StringFixed(2), duration,
	)
}

// LastCycle returns the most recent cycle summary, or nil before the
// first cycle completes.
func (s *RecommendationService) LastCycle() *CycleSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCycle
}
