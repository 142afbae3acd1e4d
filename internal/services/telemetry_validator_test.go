package services

import (
	"testing"
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func validPayload() *models.TelemetryPayload {
	return &models.TelemetryPayload{
		DeviceID:    "npk-001",
		FarmID:      uuid.NewString(),
		PH:          floatPtr(6.5),
		Nitrogen:    floatPtr(45),
		Phosphorus:  floatPtr(30),
		Potassium:   floatPtr(200),
		Moisture:    floatPtr(60),
		Temperature: floatPtr(25),
	}
}

func TestValidateTelemetryAcceptsCompletePayload(t *testing.T) {
	receivedAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	reading, err := ValidateTelemetry(validPayload(), receivedAt)

	require.NoError(t, err)
	assert.Equal(t, 6.5, reading.PH)
	assert.Equal(t, receivedAt, reading.Timestamp)
}

func TestValidateTelemetryRequiredFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*models.TelemetryPayload)
	}{
		{"deviceId", func(p *models.TelemetryPayload) { p.DeviceID = "" }},
		{"farmId", func(p *models.TelemetryPayload) { p.FarmID = "" }},
		{"pH", func(p *models.TelemetryPayload) { p.PH = nil }},
		{"nitrogen", func(p *models.TelemetryPayload) { p.Nitrogen = nil }},
		{"phosphorus", func(p *models.TelemetryPayload) { p.Phosphorus = nil }},
		{"potassium", func(p *models.TelemetryPayload) { p.Potassium = nil }},
		{"moisture", func(p *models.TelemetryPayload) { p.Moisture = nil }},
		{"temperature", func(p *models.TelemetryPayload) { p.Temperature = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(payload)

			_, err := ValidateTelemetry(payload, time.Now())

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestValidateTelemetryZeroIsNotMissing(t *testing.T) {
	payload := validPayload()
	payload.PH = floatPtr(0)
	payload.Nitrogen = floatPtr(0)
	payload.Moisture = floatPtr(0)

	reading, err := ValidateTelemetry(payload, time.Now())

	require.NoError(t, err)
	assert.Zero(t, reading.PH)
	assert.Zero(t, reading.Nitrogen)
	assert.Zero(t, reading.Moisture)
}

func TestValidateTelemetryRangeChecks(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		mutate func(*models.TelemetryPayload)
	}{
		{"pH above 14", "pH", func(p *models.TelemetryPayload) { p.PH = floatPtr(14.5) }},
		{"negative nitrogen", "nitrogen", func(p *models.TelemetryPayload) { p.Nitrogen = floatPtr(-1) }},
		{"moisture above 100", "moisture", func(p *models.TelemetryPayload) { p.Moisture = floatPtr(101) }},
		{"battery above 100", "batteryLevel", func(p *models.TelemetryPayload) { p.BatteryLevel = floatPtr(120) }},
		{"malformed farm id", "farmId", func(p *models.TelemetryPayload) { p.FarmID = "not-a-uuid" }},
		{"malformed zone id", "zoneId", func(p *models.TelemetryPayload) { zone := "zone-7"; p.ZoneID = &zone }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(payload)

			_, err := ValidateTelemetry(payload, time.Now())

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestValidateTelemetryKeepsProvidedTimestamp(t *testing.T) {
	sampled := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)
	payload := validPayload()
	payload.Timestamp = &sampled

	reading, err := ValidateTelemetry(payload, time.Now())

	require.NoError(t, err)
	assert.Equal(t, sampled, reading.Timestamp)
}
