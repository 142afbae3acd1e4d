package services

import (
	"context"
	"testing"
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/event"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ingestionFixture struct {
	svc      *IngestionService
	farm     models.Farm
	farms    *fakeFarmStore
	devices  *fakeDeviceStore
	readings *fakeReadingStore
	recs     *fakeRecommendationStore
	alerts   *fakeAlertStore
	events   *fakePublisher
	mirror   *fakeMirror
	cache    *fakeCache
}

func newIngestionFixture() *ingestionFixture {
	farm := models.Farm{ID: uuid.New(), Name: "Hilltop", OwnerID: "user-1"}
	farms := newFakeFarmStore(farm)
	devices := &fakeDeviceStore{}
	readings := &fakeReadingStore{}
	recs := newFakeRecommendationStore()
	alerts := &fakeAlertStore{}
	events := &fakePublisher{}
	mirror := &fakeMirror{}
	cache := newFakeCache()

	quality := NewSoilQualityService(nil)
	alertSvc := NewAlertService(nil, alerts)
	recSvc := NewRecommendationService(nil, quality, recs, alerts, events)

	svc := NewIngestionService(farms, devices, readings, quality, recSvc, alertSvc, events, mirror, cache)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	return &ingestionFixture{
		svc: svc, farm: farm, farms: farms, devices: devices,
		readings: readings, recs: recs, alerts: alerts,
		events: events, mirror: mirror, cache: cache,
	}
}

func (f *ingestionFixture) payload() *models.TelemetryPayload {
	p := validPayload()
	p.FarmID = f.farm.ID.String()
	return p
}

func TestIngestHappyPath(t *testing.T) {
	f := newIngestionFixture()

	result, err := f.svc.Ingest(context.Background(), "user-1", f.payload())
	require.NoError(t, err)

	assert.Equal(t, models.QualityExcellent, result.Quality)
	assert.Equal(t, 100, result.QualityScore)
	assert.Zero(t, result.AlertsRaised)

	// Device was auto-registered with defaults.
	require.Len(t, f.devices.devices, 1)
	device := f.devices.devices[0]
	assert.Equal(t, "npk-001", device.ExternalID)
	assert.Equal(t, "NPK Sensor npk-001", device.Name)
	assert.Equal(t, models.DeviceActive, device.Status)
	assert.Equal(t, 100.0, device.BatteryLevel)
	assert.Equal(t, 100.0, device.SignalStrength)

	// Reading persisted with the derived grade; farm freshness updated.
	require.Len(t, f.readings.readings, 1)
	assert.Equal(t, models.QualityExcellent, f.readings.readings[0].Quality)
	assert.Equal(t, f.svc.now(), f.farms.lastReadings[f.farm.ID])

	// Recommendation derived inline during ingestion.
	assert.Equal(t, 1, f.recs.inserts)

	// Farm channel event only; no alerts, no user event.
	require.Len(t, f.events.events, 1)
	assert.Equal(t, event.FarmChannel(f.farm.ID.String()), f.events.events[0].Channel)
	assert.Equal(t, event.EventSoilDataUpdate, f.events.events[0].Event)

	assert.Equal(t, 1, f.mirror.writes)
	assert.Equal(t, 1, f.cache.sets)
}

func TestIngestRegistersDeviceOnce(t *testing.T) {
	f := newIngestionFixture()

	_, err := f.svc.Ingest(context.Background(), "user-1", f.payload())
	require.NoError(t, err)

	second := f.payload()
	second.BatteryLevel = floatPtr(70)

	_, err = f.svc.Ingest(context.Background(), "user-1", second)
	require.NoError(t, err)

	assert.Equal(t, 1, f.devices.creates)
	assert.Equal(t, 1, f.devices.stateUpdates)
	assert.Equal(t, 70.0, f.devices.devices[0].BatteryLevel)
	// Signal was omitted on the second submission, the stored value stays.
	assert.Equal(t, 100.0, f.devices.devices[0].SignalStrength)
}

func TestIngestRejectsForeignDevice(t *testing.T) {
	f := newIngestionFixture()
	f.devices.devices = append(f.devices.devices, models.Device{
		ID:         uuid.New(),
		ExternalID: "npk-001",
		FarmID:     uuid.New(),
	})

	_, err := f.svc.Ingest(context.Background(), "user-1", f.payload())

	assert.ErrorIs(t, err, ErrDeviceConflict)
	assert.Empty(t, f.readings.readings)
}

func TestIngestAuthorization(t *testing.T) {
	f := newIngestionFixture()

	_, err := f.svc.Ingest(context.Background(), "intruder", f.payload())
	assert.ErrorIs(t, err, ErrNotFarmOwner)

	unknown := f.payload()
	unknown.FarmID = uuid.NewString()
	_, err = f.svc.Ingest(context.Background(), "user-1", unknown)
	assert.ErrorIs(t, err, ErrFarmNotFound)

	assert.Empty(t, f.readings.readings)
	assert.Empty(t, f.events.events)
}

func TestIngestRaisesAlertsAndNotifiesUser(t *testing.T) {
	f := newIngestionFixture()
	payload := f.payload()
	payload.PH = floatPtr(5.0)
	payload.Moisture = floatPtr(10)

	result, err := f.svc.Ingest(context.Background(), "user-1", payload)
	require.NoError(t, err)

	assert.Equal(t, 2, result.AlertsRaised)
	assert.Len(t, f.alerts.alerts, 2)

	// Farm update goes out before the user notification.
	require.Len(t, f.events.events, 2)
	assert.Equal(t, event.EventSoilDataUpdate, f.events.events[0].Event)
	assert.Equal(t, event.UserChannel("user-1"), f.events.events[1].Channel)
	assert.Equal(t, event.EventNewAlerts, f.events.events[1].Event)
}

func TestIngestSurvivesAlertStoreFailure(t *testing.T) {
	f := newIngestionFixture()
	f.alerts.failCreate = true
	payload := f.payload()
	payload.PH = floatPtr(5.0)

	result, err := f.svc.Ingest(context.Background(), "user-1", payload)
	require.NoError(t, err)

	// Reading stays durable, alert failure is swallowed.
	assert.Len(t, f.readings.readings, 1)
	assert.Zero(t, result.AlertsRaised)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, event.EventSoilDataUpdate, f.events.events[0].Event)
}

func TestIngestToleratesMissingMirrorAndCache(t *testing.T) {
	f := newIngestionFixture()
	f.svc.mirror = nil
	f.svc.cache = nil

	_, err := f.svc.Ingest(context.Background(), "user-1", f.payload())

	require.NoError(t, err)
	assert.Len(t, f.readings.readings, 1)
}

func TestIngestRejectsInvalidPayloadBeforePersisting(t *testing.T) {
	f := newIngestionFixture()
	payload := f.payload()
	payload.PH = nil

	_, err := f.svc.Ingest(context.Background(), "user-1", payload)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Empty(t, f.readings.readings)
	assert.Empty(t, f.devices.devices)
}

func TestLatestForFarmReadsThroughCache(t *testing.T) {
	f := newIngestionFixture()

	_, err := f.svc.Ingest(context.Background(), "user-1", f.payload())
	require.NoError(t, err)

	cached, err := f.svc.LatestForFarm(context.Background(), "user-1", f.farm.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, f.readings.readings[0].ID, cached.ID)

	// Cold cache falls back to the store.
	f.svc.cache = newFakeCache()
	fromStore, err := f.svc.LatestForFarm(context.Background(), "user-1", f.farm.ID)
	require.NoError(t, err)
	require.NotNil(t, fromStore)
	assert.Equal(t, cached.ID, fromStore.ID)
}

func TestListReadingsScopedToOwner(t *testing.T) {
	f := newIngestionFixture()

	_, err := f.svc.Ingest(context.Background(), "user-1", f.payload())
	require.NoError(t, err)

	mine, err := f.svc.ListReadings(context.Background(), "user-1", models.ReadingFilter{}, nil)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.svc.ListReadings(context.Background(), "someone-else", models.ReadingFilter{}, nil)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
