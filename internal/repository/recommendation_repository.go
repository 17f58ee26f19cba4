package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/bet-advisor/internal/database"
	"github.com/yourusername/bet-advisor/internal/models"
)

// PostgresRecommendationRepository implements RecommendationRepository for PostgreSQL
type PostgresRecommendationRepository struct {
	db *database.DB
}

// NewPostgresRecommendationRepository creates a new recommendation repository
func NewPostgresRecommendationRepository(db *database.DB) RecommendationRepository {
	return &PostgresRecommendationRepository{db: db}
}

const recommendationColumns = `
	id, cycle_id, rank, event_id, event_name, sport, selection, market_type,
	bookmaker, candidate_key, odds, start_time, probability, confidence,
	risk_score, expected_value, ev_with_vig, composite_score, unit_size,
	stake, stake_percentage, rationale, generated_at`

// SaveCycle stores all recommendations from one cycle in a single
// transaction so a cycle is either fully persisted or not at all.
func (r *PostgresRecommendationRepository) SaveCycle(ctx context.Context, cycleID uuid.UUID, recs []models.Recommendation) error {
	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO recommendations (` + recommendationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`

	for _, rec := range recs {
		rationale, err := json.Marshal(rec.Rationale)
		if err != nil {
			return fmt.Errorf("failed to marshal rationale: %w", err)
		}

		_, err = tx.Exec(ctx, query,
			rec.ID, cycleID, rec.Rank, rec.EventID, rec.EventName, rec.Sport,
			rec.Selection, rec.MarketType, rec.Bookmaker, rec.CandidateKey,
			rec.Odds, rec.StartTime, rec.Probability, rec.Confidence,
			rec.RiskScore, rec.ExpectedValue, rec.EVWithVig, rec.CompositeScore,
			rec.UnitSize, rec.Stake, rec.StakePercentage, rationale, rec.GeneratedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert recommendation: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recommendations: %w", err)
	}
	return nil
}

// GetByCycle retrieves a cycle's recommendations in rank order
func (r *PostgresRecommendationRepository) GetByCycle(ctx context.Context, cycleID uuid.UUID) ([]models.Recommendation, error) {
	query := `
		SELECT ` + recommendationColumns + `
		FROM recommendations
		WHERE cycle_id = $1
		ORDER BY rank ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations by cycle: %w", err)
	}
	defer rows.Close()

	recs, err := scanRecommendations(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, models.ErrNotFound
	}
	return recs, nil
}

// GetLatest retrieves the most recent cycle's recommendations in rank order
func (r *PostgresRecommendationRepository) GetLatest(ctx context.Context) ([]models.Recommendation, error) {
	query := `
		SELECT ` + recommendationColumns + `
		FROM recommendations
		WHERE cycle_id = (
			SELECT cycle_id FROM recommendations
			ORDER BY generated_at DESC
			LIMIT 1
		)
		ORDER BY rank ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest recommendations: %w", err)
	}
	defer rows.Close()

	recs, err := scanRecommendations(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, models.ErrNotFound
	}
	return recs, nil
}

// DeleteOlderThan prunes recommendations generated before the cutoff.
func (r *PostgresRecommendationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.GetPool().Exec(ctx, `DELETE FROM recommendations WHERE generated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old recommendations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRecommendations(rows pgx.Rows) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	for rows.Next() {
		var rec models.Recommendation
		var cycleID uuid.UUID
		var rationale []byte

		err := rows.Scan(
			&rec.ID, &cycleID, &rec.Rank, &rec.EventID, &rec.EventName, &rec.Sport,
			&rec.Selection, &rec.MarketType, &rec.Bookmaker, &rec.CandidateKey,
			&rec.Odds, &rec.StartTime, &rec.Probability, &rec.Confidence,
			&rec.RiskScore, &rec.ExpectedValue, &rec.EVWithVig, &rec.CompositeScore,
			&rec.UnitSize, &rec.Stake, &rec.StakePercentage, &rationale, &rec.GeneratedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		if len(rationale) > 0 {
			if err := json.Unmarshal(rationale, &rec.Rationale); err != nil {
				return nil, fmt.Errorf("failed to unmarshal rationale: %w", err)
			}
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
