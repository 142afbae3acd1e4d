package services

import (
	"context"
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/google/uuid"
)

// Store interfaces are satisfied by the sqlx repositories. Services
// depend on these so the pipeline can be exercised against in-memory
// fakes. Get methods return (nil, nil) when no row matches.

type FarmStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	ListByOwner(ctx context.Context, ownerID string, farmID *uuid.UUID) ([]models.Farm, error)
	UpdateLastReading(ctx context.Context, id uuid.UUID, at time.Time) error
}

type DeviceStore interface {
	Create(ctx context.Context, device *models.Device) error
	GetByExternalID(ctx context.Context, externalID string) (*models.Device, error)
	UpdateTelemetryState(ctx context.Context, id uuid.UUID, status models.DeviceStatus, lastActive time.Time, battery, signal float64) error
}

type ReadingStore interface {
	Create(ctx context.Context, data *models.SoilData) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SoilData, error)
	List(ctx context.Context, filter models.ReadingFilter) ([]models.SoilData, error)
	ListForFarmsSince(ctx context.Context, farmIDs []uuid.UUID, since time.Time) ([]models.SoilData, error)
	ListForFarmsBetween(ctx context.Context, farmIDs []uuid.UUID, from, to time.Time) ([]models.SoilData, error)
}

type RecommendationStore interface {
	CreateIfAbsent(ctx context.Context, rec *models.Recommendation) (bool, error)
	GetBySoilDataID(ctx context.Context, soilDataID uuid.UUID) (*models.Recommendation, error)
	ListForFarms(ctx context.Context, farmIDs []uuid.UUID, limit int) ([]models.Recommendation, error)
	CountForFarmSince(ctx context.Context, farmID uuid.UUID, since time.Time) (int, error)
}

type AlertStore interface {
	CreateBatch(ctx context.Context, alerts []models.Alert) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Alert, error)
	MarkRead(ctx context.Context, id uuid.UUID, userID string) (bool, error)
}

// EventPublisher is the fire-and-forget fan-out sink.
type EventPublisher interface {
	Publish(channel, eventName string, payload any)
}

// TelemetryMirror receives a best-effort copy of each reading for
// time-series charting.
type TelemetryMirror interface {
	WriteReading(reading *models.SoilData, deviceExternalID string)
}

// LatestReadingCache keeps the newest reading per farm for the
// dashboard's recent view.
type LatestReadingCache interface {
	SetLatest(ctx context.Context, farmID uuid.UUID, reading *models.SoilData) error
	GetLatest(ctx context.Context, farmID uuid.UUID) (*models.SoilData, error)
}
