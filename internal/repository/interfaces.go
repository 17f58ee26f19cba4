// Package repository provides persistence for selection cycle output.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/bet-advisor/internal/models"
)

// RecommendationRepository persists the ranked output of selection cycles.
type RecommendationRepository interface {
	// SaveCycle stores all recommendations from one cycle atomically.
	SaveCycle(ctx context.Context, cycleID uuid.UUID, recs []models.Recommendation) error
	// GetByCycle retrieves a cycle's recommendations in rank order.
	GetByCycle(ctx context.Context, cycleID uuid.UUID) ([]models.Recommendation, error)
	// GetLatest retrieves the most recent cycle's recommendations in rank order.
	GetLatest(ctx context.Context) ([]models.Recommendation, error)
	// DeleteOlderThan removes recommendations generated before the cutoff,
	// returning the number of rows deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
