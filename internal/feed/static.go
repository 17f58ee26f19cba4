package feed

import (
	"context"

	"github.com/yourusername/bet-advisor/internal/models"
)

// StaticSource is an in-memory CandidateSource. It serves a fixed pool,
// which makes it useful for tests and dry runs against known candidates.
type StaticSource struct {
	Candidates []models.Candidate
}

// NewStaticSource creates a source that always returns the given pool.
func NewStaticSource(candidates []models.Candidate) *StaticSource {
	return &StaticSource{Candidates: candidates}
}

// FetchCandidates returns a copy of the fixed pool so callers cannot
// mutate the source's backing slice between cycles.
func (s *StaticSource) FetchCandidates(_ context.Context) ([]models.Candidate, error) {
	out := make([]models.Candidate, len(s.Candidates))
	copy(out, s.Candidates)
	return out, nil
}
