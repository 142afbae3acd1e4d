package services

import (
	"context"
	"fmt"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/google/uuid"
)

// AlertService detects out-of-band parameter values. Evaluation is pure
// construction over a reading; persistence and fan-out stay with the
// ingestion coordinator so the rules are independently testable.
type AlertService struct {
	thresholds *AlertThresholds
	alerts     AlertStore
}

func NewAlertService(thresholds *AlertThresholds, alerts AlertStore) *AlertService {
	if thresholds == nil {
		thresholds = &DefaultAlertThresholds
	}
	return &AlertService{thresholds: thresholds, alerts: alerts}
}

// Evaluate returns zero or more alerts for the reading. Rules fire
// independently; low and high pH are mutually exclusive by construction.
func (s *AlertService) Evaluate(reading *models.SoilData, device *models.Device, ownerID string) []models.Alert {
	alerts := []models.Alert{}

	ref := func(t models.AlertType, severity models.AlertSeverity, message string) models.Alert {
		deviceID := device.ID
		soilDataID := reading.ID
		return models.Alert{
			Type:       t,
			Severity:   severity,
			Message:    message,
			IsRead:     false,
			UserID:     ownerID,
			FarmID:     reading.FarmID,
			DeviceID:   &deviceID,
			SoilDataID: &soilDataID,
		}
	}

	if reading.PH < s.thresholds.LowPHBelow {
		alerts = append(alerts, ref(models.AlertLowPH, models.SeverityWarning,
			fmt.Sprintf("Low pH detected (%g) at %s. Consider applying lime to raise soil pH.", reading.PH, device.Name)))
	} else if reading.PH > s.thresholds.HighPHAbove {
		alerts = append(alerts, ref(models.AlertHighPH, models.SeverityWarning,
			fmt.Sprintf("High pH detected (%g) at %s. Consider applying sulfur to lower soil pH.", reading.PH, device.Name)))
	}

	if reading.Moisture < s.thresholds.LowMoistureBelow {
		alerts = append(alerts, ref(models.AlertLowMoisture, models.SeverityCritical,
			fmt.Sprintf("Low soil moisture (%g%%) detected at %s. Consider irrigation.", reading.Moisture, device.Name)))
	}

	return alerts
}

// Raise persists a batch of alerts.
func (s *AlertService) Raise(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	if err := s.alerts.CreateBatch(ctx, alerts); err != nil {
		return &PersistenceError{Op: "alert batch insert", Err: err}
	}
	return nil
}

// ListForUser returns the user's alerts with read state, newest first.
func (s *AlertService) ListForUser(ctx context.Context, userID string, limit int) ([]models.Alert, error) {
	alerts, err := s.alerts.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "alert list", Err: err}
	}
	return alerts, nil
}

// MarkRead sets the read flag on one of the user's alerts.
func (s *AlertService) MarkRead(ctx context.Context, id uuid.UUID, userID string) error {
	ok, err := s.alerts.MarkRead(ctx, id, userID)
	if err != nil {
		return &PersistenceError{Op: "alert update", Err: err}
	}
	if !ok {
		return ErrAlertNotFound
	}
	return nil
}
