package services

import (
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/google/uuid"
)

// ValidateTelemetry normalizes and range-checks a raw payload into a
// reading. It has no side effects; on failure it returns a
// *ValidationError naming the offending field and nothing is persisted.
// The farm and device are resolved later by the ingestion coordinator;
// here only the identifiers themselves are checked.
func ValidateTelemetry(payload *models.TelemetryPayload, receivedAt time.Time) (*models.SoilData, error) {
	if payload.DeviceID == "" {
		return nil, &ValidationError{Field: "deviceId", Reason: "must not be empty"}
	}
	if payload.FarmID == "" {
		return nil, &ValidationError{Field: "farmId", Reason: "must not be empty"}
	}
	if _, err := uuid.Parse(payload.FarmID); err != nil {
		return nil, &ValidationError{Field: "farmId", Reason: "must be a valid id"}
	}

	if payload.PH == nil {
		return nil, &ValidationError{Field: "pH", Reason: "is required"}
	}
	if *payload.PH < 0 || *payload.PH > 14 {
		return nil, &ValidationError{Field: "pH", Reason: "must be between 0 and 14"}
	}

	if payload.Nitrogen == nil {
		return nil, &ValidationError{Field: "nitrogen", Reason: "is required"}
	}
	if *payload.Nitrogen < 0 {
		return nil, &ValidationError{Field: "nitrogen", Reason: "must not be negative"}
	}

	if payload.Phosphorus == nil {
		return nil, &ValidationError{Field: "phosphorus", Reason: "is required"}
	}
	if *payload.Phosphorus < 0 {
		return nil, &ValidationError{Field: "phosphorus", Reason: "must not be negative"}
	}

	if payload.Potassium == nil {
		return nil, &ValidationError{Field: "potassium", Reason: "is required"}
	}
	if *payload.Potassium < 0 {
		return nil, &ValidationError{Field: "potassium", Reason: "must not be negative"}
	}

	if payload.Moisture == nil {
		return nil, &ValidationError{Field: "moisture", Reason: "is required"}
	}
	if *payload.Moisture < 0 || *payload.Moisture > 100 {
		return nil, &ValidationError{Field: "moisture", Reason: "must be between 0 and 100"}
	}

	if payload.Temperature == nil {
		return nil, &ValidationError{Field: "temperature", Reason: "is required"}
	}

	if payload.OrganicMatter != nil && (*payload.OrganicMatter < 0 || *payload.OrganicMatter > 100) {
		return nil, &ValidationError{Field: "organicMatter", Reason: "must be between 0 and 100"}
	}
	if payload.Conductivity != nil && *payload.Conductivity < 0 {
		return nil, &ValidationError{Field: "conductivity", Reason: "must not be negative"}
	}
	if payload.Salinity != nil && *payload.Salinity < 0 {
		return nil, &ValidationError{Field: "salinity", Reason: "must not be negative"}
	}
	if payload.BatteryLevel != nil && (*payload.BatteryLevel < 0 || *payload.BatteryLevel > 100) {
		return nil, &ValidationError{Field: "batteryLevel", Reason: "must be between 0 and 100"}
	}
	if payload.SignalStrength != nil && (*payload.SignalStrength < 0 || *payload.SignalStrength > 100) {
		return nil, &ValidationError{Field: "signalStrength", Reason: "must be between 0 and 100"}
	}

	var zoneID *uuid.UUID
	if payload.ZoneID != nil && *payload.ZoneID != "" {
		parsed, err := uuid.Parse(*payload.ZoneID)
		if err != nil {
			return nil, &ValidationError{Field: "zoneId", Reason: "must be a valid id"}
		}
		zoneID = &parsed
	}

	timestamp := receivedAt
	if payload.Timestamp != nil {
		timestamp = *payload.Timestamp
	}

	return &models.SoilData{
		ZoneID:        zoneID,
		PH:            *payload.PH,
		Nitrogen:      *payload.Nitrogen,
		Phosphorus:    *payload.Phosphorus,
		Potassium:     *payload.Potassium,
		Moisture:      *payload.Moisture,
		Temperature:   *payload.Temperature,
		OrganicMatter: payload.OrganicMatter,
		Conductivity:  payload.Conductivity,
		Salinity:      payload.Salinity,
		Timestamp:     timestamp,
	}, nil
}
