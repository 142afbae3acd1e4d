package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Farm struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Location    string     `json:"location" db:"location"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	LastReading *time.Time `json:"last_reading,omitempty" db:"last_reading"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type Device struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	ExternalID     string       `json:"device_id" db:"external_id"`
	Name           string       `json:"name" db:"name"`
	FarmID         uuid.UUID    `json:"farm_id" db:"farm_id"`
	DeviceType     DeviceType   `json:"device_type" db:"device_type"`
	Status         DeviceStatus `json:"status" db:"status"`
	LastActive     time.Time    `json:"last_active" db:"last_active"`
	BatteryLevel   float64      `json:"battery_level" db:"battery_level"`
	SignalStrength float64      `json:"signal_strength" db:"signal_strength"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
}

// SoilData is one immutable telemetry sample from a device.
type SoilData struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	DeviceID      uuid.UUID   `json:"device_id" db:"device_id"`
	FarmID        uuid.UUID   `json:"farm_id" db:"farm_id"`
	ZoneID        *uuid.UUID  `json:"zone_id,omitempty" db:"zone_id"`
	PH            float64     `json:"pH" db:"ph"`
	Nitrogen      float64     `json:"nitrogen" db:"nitrogen"`
	Phosphorus    float64     `json:"phosphorus" db:"phosphorus"`
	Potassium     float64     `json:"potassium" db:"potassium"`
	Moisture      float64     `json:"moisture" db:"moisture"`
	Temperature   float64     `json:"temperature" db:"temperature"`
	OrganicMatter *float64    `json:"organic_matter,omitempty" db:"organic_matter"`
	Conductivity  *float64    `json:"conductivity,omitempty" db:"conductivity"`
	Salinity      *float64    `json:"salinity,omitempty" db:"salinity"`
	Quality       SoilQuality `json:"quality" db:"quality"`
	Timestamp     time.Time   `json:"timestamp" db:"timestamp"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}

// FertilizerAdvice is the fixed advice shape for one nutrient.
type FertilizerAdvice struct {
	Level          NutrientLevel `json:"level"`
	Recommendation string        `json:"recommendation"`
}

// FertilizerSet carries per-nutrient advice, stored as a JSONB column.
type FertilizerSet struct {
	Nitrogen   FertilizerAdvice `json:"nitrogen"`
	Phosphorus FertilizerAdvice `json:"phosphorus"`
	Potassium  FertilizerAdvice `json:"potassium"`
}

func (f FertilizerSet) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *FertilizerSet) Scan(value any) error {
	if value == nil {
		*f = FertilizerSet{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("FertilizerSet: Scan failed, expected []byte but got %T", value)
	}
	return json.Unmarshal(b, f)
}

// IrrigationPlan is the fixed irrigation guidance shape, stored as JSONB.
type IrrigationPlan struct {
	Frequency string `json:"frequency"`
	Amount    string `json:"amount"`
	Notes     string `json:"notes"`
}

func (p IrrigationPlan) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *IrrigationPlan) Scan(value any) error {
	if value == nil {
		*p = IrrigationPlan{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("IrrigationPlan: Scan failed, expected []byte but got %T", value)
	}
	return json.Unmarshal(b, p)
}

// Recommendation is derived guidance tied 1:1 to a soil data record.
type Recommendation struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	SoilDataID   uuid.UUID      `json:"soil_data_id" db:"soil_data_id"`
	Crops        pq.StringArray `json:"crops" db:"crops"`
	Score        int            `json:"score" db:"score"`
	Remarks      string         `json:"remarks" db:"remarks"`
	Fertilizers  FertilizerSet  `json:"fertilizers" db:"fertilizers"`
	Irrigation   IrrigationPlan `json:"irrigation" db:"irrigation"`
	ModelVersion string         `json:"model_version" db:"model_version"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

type Alert struct {
	ID         uuid.UUID     `json:"id" db:"id"`
	Type       AlertType     `json:"type" db:"type"`
	Severity   AlertSeverity `json:"severity" db:"severity"`
	Message    string        `json:"message" db:"message"`
	IsRead     bool          `json:"is_read" db:"is_read"`
	UserID     string        `json:"user_id" db:"user_id"`
	FarmID     uuid.UUID     `json:"farm_id" db:"farm_id"`
	DeviceID   *uuid.UUID    `json:"device_id,omitempty" db:"device_id"`
	SoilDataID *uuid.UUID    `json:"soil_data_id,omitempty" db:"soil_data_id"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}
