package services

import (
	"context"
	"errors"
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/google/uuid"
)

// In-memory store fakes for exercising the services without postgres.

type fakeFarmStore struct {
	farms        []models.Farm
	lastReadings map[uuid.UUID]time.Time
}

func newFakeFarmStore(farms ...models.Farm) *fakeFarmStore {
	return &fakeFarmStore{farms: farms, lastReadings: map[uuid.UUID]time.Time{}}
}

func (f *fakeFarmStore) GetByID(_ context.Context, id uuid.UUID) (*models.Farm, error) {
	for i := range f.farms {
		if f.farms[i].ID == id {
			farm := f.farms[i]
			return &farm, nil
		}
	}
	return nil, nil
}

func (f *fakeFarmStore) ListByOwner(_ context.Context, ownerID string, farmID *uuid.UUID) ([]models.Farm, error) {
	out := []models.Farm{}
	for _, farm := range f.farms {
		if farm.OwnerID != ownerID {
			continue
		}
		if farmID != nil && farm.ID != *farmID {
			continue
		}
		out = append(out, farm)
	}
	return out, nil
}

func (f *fakeFarmStore) UpdateLastReading(_ context.Context, id uuid.UUID, at time.Time) error {
	f.lastReadings[id] = at
	return nil
}

type fakeDeviceStore struct {
	devices      []models.Device
	creates      int
	stateUpdates int
}

func (f *fakeDeviceStore) Create(_ context.Context, device *models.Device) error {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	f.creates++
	f.devices = append(f.devices, *device)
	return nil
}

func (f *fakeDeviceStore) GetByExternalID(_ context.Context, externalID string) (*models.Device, error) {
	for i := range f.devices {
		if f.devices[i].ExternalID == externalID {
			device := f.devices[i]
			return &device, nil
		}
	}
	return nil, nil
}

func (f *fakeDeviceStore) UpdateTelemetryState(_ context.Context, id uuid.UUID, status models.DeviceStatus, lastActive time.Time, battery, signal float64) error {
	f.stateUpdates++
	for i := range f.devices {
		if f.devices[i].ID == id {
			f.devices[i].Status = status
			f.devices[i].LastActive = lastActive
			f.devices[i].BatteryLevel = battery
			f.devices[i].SignalStrength = signal
		}
	}
	return nil
}

type fakeReadingStore struct {
	readings []models.SoilData
}

func (f *fakeReadingStore) Create(_ context.Context, data *models.SoilData) error {
	if data.ID == uuid.Nil {
		data.ID = uuid.New()
	}
	data.CreatedAt = time.Now()
	f.readings = append(f.readings, *data)
	return nil
}

func (f *fakeReadingStore) GetByID(_ context.Context, id uuid.UUID) (*models.SoilData, error) {
	for i := range f.readings {
		if f.readings[i].ID == id {
			reading := f.readings[i]
			return &reading, nil
		}
	}
	return nil, nil
}

func (f *fakeReadingStore) List(_ context.Context, filter models.ReadingFilter) ([]models.SoilData, error) {
	out := []models.SoilData{}
	for _, reading := range f.readings {
		if !farmIDIn(reading.FarmID, filter.FarmIDs) {
			continue
		}
		out = append(out, reading)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeReadingStore) ListForFarmsSince(_ context.Context, farmIDs []uuid.UUID, since time.Time) ([]models.SoilData, error) {
	out := []models.SoilData{}
	for _, reading := range f.readings {
		if farmIDIn(reading.FarmID, farmIDs) && !reading.Timestamp.Before(since) {
			out = append(out, reading)
		}
	}
	return out, nil
}

func (f *fakeReadingStore) ListForFarmsBetween(_ context.Context, farmIDs []uuid.UUID, from, to time.Time) ([]models.SoilData, error) {
	out := []models.SoilData{}
	for _, reading := range f.readings {
		if farmIDIn(reading.FarmID, farmIDs) && !reading.Timestamp.Before(from) && reading.Timestamp.Before(to) {
			out = append(out, reading)
		}
	}
	return out, nil
}

func farmIDIn(id uuid.UUID, ids []uuid.UUID) bool {
	if len(ids) == 0 {
		return true
	}
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

type fakeRecommendationStore struct {
	bySoilData map[uuid.UUID]models.Recommendation
	inserts    int
}

func newFakeRecommendationStore() *fakeRecommendationStore {
	return &fakeRecommendationStore{bySoilData: map[uuid.UUID]models.Recommendation{}}
}

func (f *fakeRecommendationStore) CreateIfAbsent(_ context.Context, rec *models.Recommendation) (bool, error) {
	if _, exists := f.bySoilData[rec.SoilDataID]; exists {
		return false, nil
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()
	f.bySoilData[rec.SoilDataID] = *rec
	f.inserts++
	return true, nil
}

func (f *fakeRecommendationStore) GetBySoilDataID(_ context.Context, soilDataID uuid.UUID) (*models.Recommendation, error) {
	if rec, exists := f.bySoilData[soilDataID]; exists {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeRecommendationStore) ListForFarms(_ context.Context, _ []uuid.UUID, limit int) ([]models.Recommendation, error) {
	out := []models.Recommendation{}
	for _, rec := range f.bySoilData {
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRecommendationStore) CountForFarmSince(_ context.Context, _ uuid.UUID, _ time.Time) (int, error) {
	return len(f.bySoilData), nil
}

type fakeAlertStore struct {
	alerts     []models.Alert
	failCreate bool
}

func (f *fakeAlertStore) CreateBatch(_ context.Context, alerts []models.Alert) error {
	if f.failCreate {
		return errors.New("insert failed")
	}
	for i := range alerts {
		if alerts[i].ID == uuid.Nil {
			alerts[i].ID = uuid.New()
		}
		f.alerts = append(f.alerts, alerts[i])
	}
	return nil
}

func (f *fakeAlertStore) ListByUser(_ context.Context, userID string, limit int) ([]models.Alert, error) {
	out := []models.Alert{}
	for _, alert := range f.alerts {
		if alert.UserID != userID {
			continue
		}
		out = append(out, alert)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeAlertStore) MarkRead(_ context.Context, id uuid.UUID, userID string) (bool, error) {
	for i := range f.alerts {
		if f.alerts[i].ID == id && f.alerts[i].UserID == userID {
			f.alerts[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

type recordedEvent struct {
	Channel string
	Event   string
	Payload any
}

type fakePublisher struct {
	events []recordedEvent
}

func (f *fakePublisher) Publish(channel, eventName string, payload any) {
	f.events = append(f.events, recordedEvent{Channel: channel, Event: eventName, Payload: payload})
}

type fakeMirror struct {
	writes int
}

func (f *fakeMirror) WriteReading(_ *models.SoilData, _ string) {
	f.writes++
}

type fakeCache struct {
	latest map[uuid.UUID]*models.SoilData
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{latest: map[uuid.UUID]*models.SoilData{}}
}

func (f *fakeCache) SetLatest(_ context.Context, farmID uuid.UUID, reading *models.SoilData) error {
	copied := *reading
	f.latest[farmID] = &copied
	f.sets++
	return nil
}

func (f *fakeCache) GetLatest(_ context.Context, farmID uuid.UUID) (*models.SoilData, error) {
	return f.latest[farmID], nil
}
