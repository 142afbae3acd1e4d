package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type SoilDataRepository struct {
	db *sqlx.DB
}

func NewSoilDataRepository(db *sqlx.DB) *SoilDataRepository {
	return &SoilDataRepository{db: db}
}

const soilDataColumns = `
	id, device_id, farm_id, zone_id,
	ph, nitrogen, phosphorus, potassium, moisture, temperature,
	organic_matter, conductivity, salinity,
	quality, timestamp, created_at`

// Create persists one reading. Readings are append-only and never
// updated after this point.
func (r *SoilDataRepository) Create(ctx context.Context, data *models.SoilData) error {
	if data.ID == uuid.Nil {
		data.ID = uuid.New()
	}
	data.CreatedAt = time.Now()

	slog.Info("Creating soil data",
		"id", data.ID,
		"farm_id", data.FarmID,
		"device_id", data.DeviceID,
		"quality", data.Quality)

	query := `
		INSERT INTO soil_data (
			id, device_id, farm_id, zone_id,
			ph, nitrogen, phosphorus, potassium, moisture, temperature,
			organic_matter, conductivity, salinity,
			quality, timestamp, created_at
		) VALUES (
			:id, :device_id, :farm_id, :zone_id,
			:ph, :nitrogen, :phosphorus, :potassium, :moisture, :temperature,
			:organic_matter, :conductivity, :salinity,
			:quality, :timestamp, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, data); err != nil {
		slog.Error("Failed to create soil data", "id", data.ID, "error", err)
		return fmt.Errorf("failed to create soil data: %w", err)
	}
	return nil
}

// GetByID returns the reading or (nil, nil) when no row matches.
func (r *SoilDataRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SoilData, error) {
	var data models.SoilData
	query := `SELECT ` + soilDataColumns + ` FROM soil_data WHERE id = $1`

	err := r.db.GetContext(ctx, &data, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Error("Failed to get soil data", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get soil data: %w", err)
	}
	return &data, nil
}

// List returns readings matching the filter, newest first.
func (r *SoilDataRepository) List(ctx context.Context, filter models.ReadingFilter) ([]models.SoilData, error) {
	conditions := []string{"farm_id = ANY($1::uuid[])"}
	args := []any{farmIDArray(filter.FarmIDs)}

	if filter.DeviceID != nil {
		args = append(args, *filter.DeviceID)
		conditions = append(conditions, fmt.Sprintf("device_id = $%d", len(args)))
	}
	if filter.ZoneID != nil {
		args = append(args, *filter.ZoneID)
		conditions = append(conditions, fmt.Sprintf("zone_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("timestamp <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	query := `SELECT ` + soilDataColumns + `
		FROM soil_data
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY timestamp DESC
		LIMIT $` + fmt.Sprint(len(args))

	readings := []models.SoilData{}
	if err := r.db.SelectContext(ctx, &readings, query, args...); err != nil {
		slog.Error("Failed to list soil data", "error", err)
		return nil, fmt.Errorf("failed to list soil data: %w", err)
	}
	return readings, nil
}

// ListForFarmsSince returns readings taken at or after the given time.
func (r *SoilDataRepository) ListForFarmsSince(ctx context.Context, farmIDs []uuid.UUID, since time.Time) ([]models.SoilData, error) {
	readings := []models.SoilData{}
	query := `SELECT ` + soilDataColumns + `
		FROM soil_data
		WHERE farm_id = ANY($1::uuid[]) AND timestamp >= $2
		ORDER BY timestamp DESC`

	if err := r.db.SelectContext(ctx, &readings, query, farmIDArray(farmIDs), since); err != nil {
		slog.Error("Failed to list soil data since", "since", since, "error", err)
		return nil, fmt.Errorf("failed to list soil data: %w", err)
	}
	return readings, nil
}

// ListForFarmsBetween returns readings in [from, to).
func (r *SoilDataRepository) ListForFarmsBetween(ctx context.Context, farmIDs []uuid.UUID, from, to time.Time) ([]models.SoilData, error) {
	readings := []models.SoilData{}
	query := `SELECT ` + soilDataColumns + `
		FROM soil_data
		WHERE farm_id = ANY($1::uuid[]) AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp DESC`

	if err := r.db.SelectContext(ctx, &readings, query, farmIDArray(farmIDs), from, to); err != nil {
		slog.Error("Failed to list soil data between", "from", from, "to", to, "error", err)
		return nil, fmt.Errorf("failed to list soil data: %w", err)
	}
	return readings, nil
}

func farmIDArray(ids []uuid.UUID) pq.StringArray {
	arr := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		arr = append(arr, id.String())
	}
	return arr
}
