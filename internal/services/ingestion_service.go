package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/event"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/google/uuid"
)

const defaultDeviceCharge = 100

// IngestionService runs the telemetry pipeline: validate, authorize,
// resolve the device, persist the reading, then derive quality,
// recommendation and alerts, and fan everything out. Once the reading
// is durable the remaining steps degrade gracefully: a broken broker,
// mirror or cache is logged and never rolls back data.
type IngestionService struct {
	farms    FarmStore
	devices  DeviceStore
	readings ReadingStore
	quality  *SoilQualityService
	recs     *RecommendationService
	alerts   *AlertService
	events   EventPublisher
	mirror   TelemetryMirror
	cache    LatestReadingCache

	now func() time.Time
}

func NewIngestionService(
	farms FarmStore,
	devices DeviceStore,
	readings ReadingStore,
	quality *SoilQualityService,
	recs *RecommendationService,
	alerts *AlertService,
	events EventPublisher,
	mirror TelemetryMirror,
	cache LatestReadingCache,
) *IngestionService {
	return &IngestionService{
		farms:    farms,
		devices:  devices,
		readings: readings,
		quality:  quality,
		recs:     recs,
		alerts:   alerts,
		events:   events,
		mirror:   mirror,
		cache:    cache,
		now:      time.Now,
	}
}

// Ingest processes one telemetry submission end to end and reports the
// stored reading id, its grade, and how many alerts were raised.
func (s *IngestionService) Ingest(ctx context.Context, userID string, payload *models.TelemetryPayload) (*models.IngestResult, error) {
	receivedAt := s.now()

	reading, err := ValidateTelemetry(payload, receivedAt)
	if err != nil {
		return nil, err
	}

	farmID, _ := uuid.Parse(payload.FarmID)
	farm, err := s.authorizeFarm(ctx, userID, farmID)
	if err != nil {
		return nil, err
	}

	device, err := s.resolveDevice(ctx, farm, payload, receivedAt)
	if err != nil {
		return nil, err
	}

	reading.DeviceID = device.ID
	reading.FarmID = farm.ID
	points, grade := s.quality.Score(reading)
	reading.Quality = grade

	if err := s.readings.Create(ctx, reading); err != nil {
		return nil, &PersistenceError{Op: "soil data insert", Err: err}
	}
	if err := s.farms.UpdateLastReading(ctx, farm.ID, receivedAt); err != nil {
		return nil, &PersistenceError{Op: "farm last reading update", Err: err}
	}

	// Recommendation derivation and alert evaluation only read the
	// persisted reading, so they run concurrently. Their failures are
	// logged; the reading stays durable either way.
	var wg sync.WaitGroup
	var raised []models.Alert

	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, _, err := s.recs.EnsureForReading(ctx, reading); err != nil {
			slog.Error("Recommendation generation failed", "soil_data_id", reading.ID, "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		alerts := s.alerts.Evaluate(reading, device, farm.OwnerID)
		if err := s.alerts.Raise(ctx, alerts); err != nil {
			slog.Error("Alert persistence failed", "soil_data_id", reading.ID, "error", err)
			return
		}
		raised = alerts
	}()
	wg.Wait()

	s.fanOut(farm, device, reading, raised)
	s.mirrorAndCache(ctx, farm, device, reading)

	slog.Info("Ingested soil reading",
		"soil_data_id", reading.ID,
		"device_id", device.ExternalID,
		"quality", grade,
		"points", points,
		"alerts", len(raised))

	return &models.IngestResult{
		ReadingID:    reading.ID,
		Quality:      grade,
		QualityScore: s.quality.ScorePercent(reading),
		AlertsRaised: len(raised),
	}, nil
}

// ListReadings returns readings across the user's farms, newest first.
func (s *IngestionService) ListReadings(ctx context.Context, userID string, filter models.ReadingFilter, farmID *uuid.UUID) ([]models.SoilData, error) {
	farms, err := s.farms.ListByOwner(ctx, userID, farmID)
	if err != nil {
		return nil, &PersistenceError{Op: "farm list", Err: err}
	}
	if len(farms) == 0 {
		return []models.SoilData{}, nil
	}
	for _, farm := range farms {
		filter.FarmIDs = append(filter.FarmIDs, farm.ID)
	}

	readings, err := s.readings.List(ctx, filter)
	if err != nil {
		return nil, &PersistenceError{Op: "soil data list", Err: err}
	}
	return readings, nil
}

// LatestForFarm serves the dashboard's recent view, reading through the
// cache when it is warm.
func (s *IngestionService) LatestForFarm(ctx context.Context, userID string, farmID uuid.UUID) (*models.SoilData, error) {
	farm, err := s.authorizeFarm(ctx, userID, farmID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, err := s.cache.GetLatest(ctx, farm.ID); err != nil {
			slog.Warn("Latest reading cache lookup failed", "farm_id", farm.ID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	readings, err := s.readings.List(ctx, models.ReadingFilter{FarmIDs: []uuid.UUID{farm.ID}, Limit: 1})
	if err != nil {
		return nil, &PersistenceError{Op: "soil data list", Err: err}
	}
	if len(readings) == 0 {
		return nil, nil
	}
	return &readings[0], nil
}

func (s *IngestionService) authorizeFarm(ctx context.Context, userID string, farmID uuid.UUID) (*models.Farm, error) {
	farm, err := s.farms.GetByID(ctx, farmID)
	if err != nil {
		return nil, &PersistenceError{Op: "farm fetch", Err: err}
	}
	if farm == nil {
		return nil, ErrFarmNotFound
	}
	if farm.OwnerID != userID {
		return nil, ErrNotFarmOwner
	}
	return farm, nil
}

// resolveDevice auto-registers an unknown device on first telemetry and
// refreshes the lifecycle fields of a known one. A device id bound to a
// different farm is a conflict.
func (s *IngestionService) resolveDevice(ctx context.Context, farm *models.Farm, payload *models.TelemetryPayload, receivedAt time.Time) (*models.Device, error) {
	device, err := s.devices.GetByExternalID(ctx, payload.DeviceID)
	if err != nil {
		return nil, &PersistenceError{Op: "device fetch", Err: err}
	}

	if device == nil {
		name := payload.DeviceName
		if name == "" {
			name = fmt.Sprintf("NPK Sensor %s", payload.DeviceID)
		}
		device = &models.Device{
			ExternalID:     payload.DeviceID,
			Name:           name,
			FarmID:         farm.ID,
			DeviceType:     models.DeviceTypeSoilSensor,
			Status:         models.DeviceActive,
			LastActive:     receivedAt,
			BatteryLevel:   valueOrDefault(payload.BatteryLevel, defaultDeviceCharge),
			SignalStrength: valueOrDefault(payload.SignalStrength, defaultDeviceCharge),
		}
		if err := s.devices.Create(ctx, device); err != nil {
			return nil, &PersistenceError{Op: "device registration", Err: err}
		}
		return device, nil
	}

	if device.FarmID != farm.ID {
		return nil, ErrDeviceConflict
	}

	battery := valueOrDefault(payload.BatteryLevel, device.BatteryLevel)
	signal := valueOrDefault(payload.SignalStrength, device.SignalStrength)
	if err := s.devices.UpdateTelemetryState(ctx, device.ID, models.DeviceActive, receivedAt, battery, signal); err != nil {
		return nil, &PersistenceError{Op: "device state update", Err: err}
	}

	device.Status = models.DeviceActive
	device.LastActive = receivedAt
	device.BatteryLevel = battery
	device.SignalStrength = signal
	return device, nil
}

// fanOut broadcasts the farm-channel update first, then the user-scoped
// alert notification when any alerts were raised.
func (s *IngestionService) fanOut(farm *models.Farm, device *models.Device, reading *models.SoilData, raised []models.Alert) {
	s.events.Publish(event.FarmChannel(farm.ID.String()), event.EventSoilDataUpdate, map[string]any{
		"deviceId": device.ExternalID,
		"soilData": reading,
		"quality":  reading.Quality,
	})

	if len(raised) > 0 {
		s.events.Publish(event.UserChannel(farm.OwnerID), event.EventNewAlerts, map[string]any{
			"count":  len(raised),
			"alerts": raised,
		})
	}
}

func (s *IngestionService) mirrorAndCache(ctx context.Context, farm *models.Farm, device *models.Device, reading *models.SoilData) {
	if s.mirror != nil {
		s.mirror.WriteReading(reading, device.ExternalID)
	}
	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, farm.ID, reading); err != nil {
			slog.Warn("Latest reading cache update failed", "farm_id", farm.ID, "error", err)
		}
	}
}

func valueOrDefault(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
