package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type AlertRepository struct {
	db *sqlx.DB
}

func NewAlertRepository(db *sqlx.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// CreateBatch persists all alerts raised by one reading in a single
// transaction.
func (r *AlertRepository) CreateBatch(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	slog.Info("Creating alert batch", "count", len(alerts))

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		slog.Error("Failed to begin transaction", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for i := range alerts {
		if alerts[i].ID == uuid.Nil {
			alerts[i].ID = uuid.New()
		}
		alerts[i].CreatedAt = now
	}

	query := `
		INSERT INTO alerts (
			id, type, severity, message, is_read,
			user_id, farm_id, device_id, soil_data_id, created_at
		) VALUES (
			:id, :type, :severity, :message, :is_read,
			:user_id, :farm_id, :device_id, :soil_data_id, :created_at
		)`

	for _, alert := range alerts {
		if _, err := tx.NamedExecContext(ctx, query, alert); err != nil {
			slog.Error("Failed to insert alert in batch", "id", alert.ID, "error", err)
			return fmt.Errorf("failed to insert alert %s: %w", alert.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("Failed to commit alert batch", "error", err)
		return fmt.Errorf("failed to commit alert batch: %w", err)
	}
	return nil
}

// ListByUser returns the user's alerts, newest first.
func (r *AlertRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 50
	}

	alerts := []models.Alert{}
	query := `
		SELECT id, type, severity, message, is_read,
		       user_id, farm_id, device_id, soil_data_id, created_at
		FROM alerts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &alerts, query, userID, limit); err != nil {
		slog.Error("Failed to list alerts", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// MarkRead flips the read flag. The user id guards against marking
// someone else's alert; a zero row count means not found or not owned.
func (r *AlertRepository) MarkRead(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	query := `UPDATE alerts SET is_read = TRUE WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		slog.Error("Failed to mark alert read", "id", id, "error", err)
		return false, fmt.Errorf("failed to mark alert read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to inspect alert update: %w", err)
	}
	return affected > 0, nil
}
