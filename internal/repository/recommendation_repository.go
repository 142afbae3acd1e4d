package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RecommendationRepository struct {
	db *sqlx.DB
}

func NewRecommendationRepository(db *sqlx.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

const recommendationColumns = `
	id, soil_data_id, crops, score, remarks,
	fertilizers, irrigation, model_version, created_at`

// CreateIfAbsent inserts the recommendation unless one already exists
// for the same reading. The unique constraint on soil_data_id makes
// this safe under concurrent ingestion; a conflicting insert is not an
// error, it reports created=false so the caller fetches the winner.
func (r *RecommendationRepository) CreateIfAbsent(ctx context.Context, rec *models.Recommendation) (bool, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()

	query := `
		INSERT INTO recommendations (
			id, soil_data_id, crops, score, remarks,
			fertilizers, irrigation, model_version, created_at
		) VALUES (
			:id, :soil_data_id, :crops, :score, :remarks,
			:fertilizers, :irrigation, :model_version, :created_at
		)
		ON CONFLICT (soil_data_id) DO NOTHING`

	res, err := r.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		slog.Error("Failed to create recommendation", "soil_data_id", rec.SoilDataID, "error", err)
		return false, fmt.Errorf("failed to create recommendation: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to inspect recommendation insert: %w", err)
	}
	if affected == 0 {
		slog.Info("Recommendation already exists", "soil_data_id", rec.SoilDataID)
		return false, nil
	}

	slog.Info("Created recommendation", "id", rec.ID, "soil_data_id", rec.SoilDataID)
	return true, nil
}

// GetBySoilDataID returns the recommendation or (nil, nil) when none
// has been generated yet.
func (r *RecommendationRepository) GetBySoilDataID(ctx context.Context, soilDataID uuid.UUID) (*models.Recommendation, error) {
	var rec models.Recommendation
	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE soil_data_id = $1`

	err := r.db.GetContext(ctx, &rec, query, soilDataID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Error("Failed to get recommendation", "soil_data_id", soilDataID, "error", err)
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}
	return &rec, nil
}

// ListForFarms returns recent recommendations for readings on the given
// farms, newest first.
func (r *RecommendationRepository) ListForFarms(ctx context.Context, farmIDs []uuid.UUID, limit int) ([]models.Recommendation, error) {
	if limit <= 0 {
		limit = 10
	}

	recs := []models.Recommendation{}
	query := `
		SELECT r.id, r.soil_data_id, r.crops, r.score, r.remarks,
		       r.fertilizers, r.irrigation, r.model_version, r.created_at
		FROM recommendations r
		JOIN soil_data s ON s.id = r.soil_data_id
		WHERE s.farm_id = ANY($1::uuid[])
		ORDER BY r.created_at DESC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &recs, query, farmIDArray(farmIDs), limit); err != nil {
		slog.Error("Failed to list recommendations", "error", err)
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return recs, nil
}

// CountForFarmSince counts recommendations generated for a farm's
// readings within the reporting window.
func (r *RecommendationRepository) CountForFarmSince(ctx context.Context, farmID uuid.UUID, since time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM recommendations r
		JOIN soil_data s ON s.id = r.soil_data_id
		WHERE s.farm_id = $1 AND s.timestamp >= $2`

	if err := r.db.GetContext(ctx, &count, query, farmID, since); err != nil {
		slog.Error("Failed to count recommendations", "farm_id", farmID, "error", err)
		return 0, fmt.Errorf("failed to count recommendations: %w", err)
	}
	return count, nil
}
