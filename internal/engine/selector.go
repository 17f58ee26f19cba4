package engine

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/metrics"
	"github.com/yourusername/bet-advisor/internal/models"
)

// Rejection categories used for metrics labelling.
const (
	rejectionExcluded = "excluded"
	rejectionFilter   = "filter"
	rejectionStake    = "stake"
)

// Selector runs the full per-cycle pipeline: validate the pool, window
// it, score every candidate in parallel, then rank the survivors and
// keep the top K.
type Selector struct {
	aggregator *Aggregator
	filter     *InverseFilter
	riskScorer *RiskScorer
	sizer      *StakeSizer
	ranker     *CompositeRanker
	selection  config.SelectionConfig
	vigRate    float64
	logger     *logrus.Logger
}

// Input is one selection cycle's worth of work.
type Input struct {
	Candidates []models.Candidate
	Bankroll   decimal.Decimal
	// Now anchors the time window and the recommendation timestamps.
	// Zero means time.Now().
	Now time.Time
}

// Result summarizes a completed selection cycle. An empty
// Recommendations slice is a normal outcome, not an error.
type Result struct {
	Recommendations []models.Recommendation
	Rejections      []CandidateRejection
	PoolSize        int
	Windowed        int
	Accepted        int
}

// CandidateRejection records why one candidate did not survive scoring.
type CandidateRejection struct {
	Candidate *models.Candidate
	Category  string
	Reason    string
}

// scoredResult carries one worker's output back to the cycle goroutine.
type scoredResult struct {
	recommendation *models.Recommendation
	rejection      *CandidateRejection
}

// NewSelector wires the pipeline stages from configuration.
func NewSelector(cfg *config.Config, log *logrus.Logger) (*Selector, error) {
	aggregator, err := NewAggregator(cfg.Ensemble.EnabledWeights())
	if err != nil {
		return nil, err
	}
	return &Selector{
		aggregator: aggregator,
		filter:     NewInverseFilter(cfg.Selection),
		riskScorer: NewRiskScorer(cfg.Selection.MinExpectedValue),
		sizer:      NewStakeSizer(cfg.Staking),
		ranker:     NewCompositeRanker(cfg.Scoring),
		selection:  cfg.Selection,
		vigRate:    cfg.Staking.VigRate,
		logger:     log,
	}, nil
}

// SelectTop runs one selection cycle. The whole pool is validated before
// any scoring happens; a single candidate with invalid odds aborts the
// cycle with a ValidationError. Scoring is all-or-nothing with respect
// to ctx: cancellation returns ctx.Err() and no partial result.
func (s *Selector) SelectTop(ctx context.Context, in Input) (*Result, error) {
	if !in.Bankroll.IsPositive() {
		return nil, models.NewValidationError("bankroll", models.ErrInvalidBankroll.Error())
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	// Validation pass over the entire pool before any scoring.
	for i := range in.Candidates {
		if err := in.Candidates[i].Validate(); models.IsValidationError(err) {
			return nil, err
		}
	}

	window := s.selection.TimeWindow()
	pool := make([]*models.Candidate, 0, len(in.Candidates))
	for i := range in.Candidates {
		if in.Candidates[i].StartsWithin(now, window) {
			pool = append(pool, &in.Candidates[i])
		}
	}

	s.logger.WithFields(logrus.Fields{
		"pool_size": len(in.Candidates),
		"windowed":  len(pool),
		"window":    window.String(),
	}).Debug("Starting candidate scoring")

	results, err := s.scorePool(ctx, pool, in.Bankroll, now)
	if err != nil {
		return nil, err
	}

	result := &Result{
		PoolSize: len(in.Candidates),
		Windowed: len(pool),
	}
	recommendations := make([]models.Recommendation, 0, len(results))
	for _, r := range results {
		switch {
		case r.recommendation != nil:
			recommendations = append(recommendations, *r.recommendation)
		case r.rejection != nil:
			result.Rejections = append(result.Rejections, *r.rejection)
			metrics.RecordRejection(r.rejection.Category)
		}
	}
	result.Accepted = len(recommendations)

	// Ranking barrier: every candidate has been scored before any
	// ordering decision is made.
	s.ranker.Rank(recommendations)
	if len(recommendations) > s.selection.TopK {
		recommendations = recommendations[:s.selection.TopK]
	}
	result.Recommendations = recommendations

	return result, nil
}

// scorePool fans the windowed pool out over a bounded worker group and
// waits for every candidate to finish. Results land in a fixed slot per
// candidate so the output order never depends on goroutine scheduling.
func (s *Selector) scorePool(ctx context.Context, pool []*models.Candidate, bankroll decimal.Decimal, now time.Time) ([]scoredResult, error) {
	results := make([]scoredResult, len(pool))
	jobs := make(chan int)

	workers := runtime.NumCPU()
	if workers > len(pool) {
		workers = len(pool)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.scoreCandidate(pool[i], bankroll, now)
			}
		}()
	}

	dispatch := func() error {
		defer close(jobs)
		for i := range pool {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
	err := dispatch()
	wg.Wait()

	if err != nil {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return results, nil
}

// scoreCandidate runs one candidate through aggregation, value analysis,
// risk scoring, the inverse filter and stake sizing.
func (s *Selector) scoreCandidate(c *models.Candidate, bankroll decimal.Decimal, now time.Time) scoredResult {
	metrics.CandidatesAnalyzedTotal.Inc()

	agg, err := s.aggregator.Aggregate(c)
	if err != nil {
		return reject(c, rejectionExcluded, "no enabled model predictions")
	}

	value, err := AnalyzeValue(agg.Probability, c.Odds, s.vigRate)
	if err != nil {
		return reject(c, rejectionExcluded, err.Error())
	}

	risk := s.riskScorer.Score(agg, value)

	if decision := s.filter.Check(agg, value, risk); !decision.Accepted {
		return reject(c, rejectionFilter, decision.Reason)
	}

	plan, ok := s.sizer.Size(c.Odds, agg, value, risk, bankroll)
	if !ok {
		return reject(c, rejectionStake, "stake below minimum or zero unit size")
	}

	rec := &models.Recommendation{
		ID:              uuid.NewSHA1(uuid.NameSpaceOID, []byte(c.Key())),
		EventID:         c.EventID,
		EventName:       c.EventName,
		Sport:           c.Sport,
		Selection:       c.Selection,
		MarketType:      c.MarketType,
		Bookmaker:       c.Bookmaker,
		CandidateKey:    c.Key(),
		Odds:            c.Odds,
		StartTime:       c.StartTime,
		Probability:     agg.Probability,
		Confidence:      agg.Confidence,
		RiskScore:       risk.Score,
		ExpectedValue:   value.ExpectedValue,
		EVWithVig:       value.EVWithVig,
		CompositeScore:  s.ranker.Score(agg.ConfidenceFraction(), value.EVWithVigMultiplier(), risk.Score),
		UnitSize:        plan.Units,
		Stake:           plan.Amount,
		StakePercentage: plan.Percentage,
		Rationale:       buildRationale(c, agg, value),
		GeneratedAt:     now,
	}
	return scoredResult{recommendation: rec}
}

func reject(c *models.Candidate, category, reason string) scoredResult {
	return scoredResult{rejection: &CandidateRejection{Candidate: c, Category: category, Reason: reason}}
}
