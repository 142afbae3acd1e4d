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

type DeviceRepository struct {
	db *sqlx.DB
}

func NewDeviceRepository(db *sqlx.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Create registers a device. The external id carries a unique
// constraint, so a concurrent double-register surfaces as an error.
func (r *DeviceRepository) Create(ctx context.Context, device *models.Device) error {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	device.CreatedAt = time.Now()

	slog.Info("Registering device",
		"id", device.ID,
		"external_id", device.ExternalID,
		"farm_id", device.FarmID)

	query := `
		INSERT INTO devices (
			id, external_id, name, farm_id, device_type, status,
			last_active, battery_level, signal_strength, created_at
		) VALUES (
			:id, :external_id, :name, :farm_id, :device_type, :status,
			:last_active, :battery_level, :signal_strength, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, device); err != nil {
		slog.Error("Failed to register device", "external_id", device.ExternalID, "error", err)
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

// GetByExternalID returns the device or (nil, nil) when unknown.
func (r *DeviceRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Device, error) {
	var device models.Device
	query := `
		SELECT id, external_id, name, farm_id, device_type, status,
		       last_active, battery_level, signal_strength, created_at
		FROM devices
		WHERE external_id = $1`

	err := r.db.GetContext(ctx, &device, query, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Error("Failed to get device", "external_id", externalID, "error", err)
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return &device, nil
}

// UpdateTelemetryState refreshes the lifecycle fields a reading touches.
func (r *DeviceRepository) UpdateTelemetryState(ctx context.Context, id uuid.UUID, status models.DeviceStatus, lastActive time.Time, battery, signal float64) error {
	query := `
		UPDATE devices
		SET status = $2, last_active = $3, battery_level = $4, signal_strength = $5
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, status, lastActive, battery, signal); err != nil {
		slog.Error("Failed to update device state", "id", id, "error", err)
		return fmt.Errorf("failed to update device state: %w", err)
	}
	return nil
}

// MarkInactiveBefore sweeps devices whose last activity predates the
// cutoff and returns how many were flipped to INACTIVE.
func (r *DeviceRepository) MarkInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE devices
		SET status = $1
		WHERE status = $2 AND last_active < $3`

	res, err := r.db.ExecContext(ctx, query, models.DeviceInactive, models.DeviceActive, cutoff)
	if err != nil {
		slog.Error("Failed to sweep stale devices", "error", err)
		return 0, fmt.Errorf("failed to sweep stale devices: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count swept devices: %w", err)
	}
	return affected, nil
}
