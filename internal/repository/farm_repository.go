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

type FarmRepository struct {
	db *sqlx.DB
}

func NewFarmRepository(db *sqlx.DB) *FarmRepository {
	return &FarmRepository{db: db}
}

// GetByID returns the farm or (nil, nil) when no row matches.
func (r *FarmRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	query := `
		SELECT id, name, location, owner_id, last_reading, created_at
		FROM farms
		WHERE id = $1`

	err := r.db.GetContext(ctx, &farm, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Error("Failed to get farm", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get farm: %w", err)
	}
	return &farm, nil
}

// ListByOwner returns every farm owned by the user, optionally narrowed
// to a single farm id.
func (r *FarmRepository) ListByOwner(ctx context.Context, ownerID string, farmID *uuid.UUID) ([]models.Farm, error) {
	farms := []models.Farm{}

	if farmID != nil {
		query := `
			SELECT id, name, location, owner_id, last_reading, created_at
			FROM farms
			WHERE owner_id = $1 AND id = $2`
		if err := r.db.SelectContext(ctx, &farms, query, ownerID, *farmID); err != nil {
			slog.Error("Failed to list farms", "owner_id", ownerID, "error", err)
			return nil, fmt.Errorf("failed to list farms: %w", err)
		}
		return farms, nil
	}

	query := `
		SELECT id, name, location, owner_id, last_reading, created_at
		FROM farms
		WHERE owner_id = $1
		ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &farms, query, ownerID); err != nil {
		slog.Error("Failed to list farms", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	return farms, nil
}

// UpdateLastReading stamps the farm with the time of its newest reading.
func (r *FarmRepository) UpdateLastReading(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE farms SET last_reading = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		slog.Error("Failed to update farm last reading", "id", id, "error", err)
		return fmt.Errorf("failed to update farm last reading: %w", err)
	}
	return nil
}
