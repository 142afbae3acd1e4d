package models

import (
	"time"

	"github.com/google/uuid"
)

// TelemetryPayload is the raw device submission before validation.
// Required numeric fields are pointers so a missing value can be told
// apart from a legitimate zero.
type TelemetryPayload struct {
	DeviceID       string     `json:"deviceId"`
	DeviceName     string     `json:"deviceName,omitempty"`
	FarmID         string     `json:"farmId"`
	ZoneID         *string    `json:"zoneId,omitempty"`
	PH             *float64   `json:"pH"`
	Nitrogen       *float64   `json:"nitrogen"`
	Phosphorus     *float64   `json:"phosphorus"`
	Potassium      *float64   `json:"potassium"`
	Moisture       *float64   `json:"moisture"`
	Temperature    *float64   `json:"temperature"`
	OrganicMatter  *float64   `json:"organicMatter,omitempty"`
	Conductivity   *float64   `json:"conductivity,omitempty"`
	Salinity       *float64   `json:"salinity,omitempty"`
	BatteryLevel   *float64   `json:"batteryLevel,omitempty"`
	SignalStrength *float64   `json:"signalStrength,omitempty"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
}

// IngestResult is what the ingestion pipeline reports back to the device.
type IngestResult struct {
	ReadingID    uuid.UUID   `json:"readingId"`
	Quality      SoilQuality `json:"quality"`
	QualityScore int         `json:"qualityScore"`
	AlertsRaised int         `json:"alertsRaised"`
}

// ReadingFilter narrows soil data list queries.
type ReadingFilter struct {
	FarmIDs  []uuid.UUID
	DeviceID *uuid.UUID
	ZoneID   *uuid.UUID
	From     *time.Time
	To       *time.Time
	Limit    int
}

type OverallHealth struct {
	Score         int    `json:"score"`
	PreviousScore int    `json:"previousScore"`
	Change        string `json:"change"`
	ChangePercent string `json:"changePercent"`
}

type SoilTrend struct {
	ID            string  `json:"id"`
	Parameter     string  `json:"parameter"`
	CurrentValue  float64 `json:"currentValue"`
	PreviousValue float64 `json:"previousValue"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Trend         string  `json:"trend"`
	Optimal       bool    `json:"optimal"`
}

type FarmPerformance struct {
	ID                     uuid.UUID `json:"id"`
	Name                   string    `json:"name"`
	SoilHealth             int       `json:"soilHealth"`
	PreviousSoilHealth     int       `json:"previousSoilHealth"`
	SoilHealthChange       int       `json:"soilHealthChange"`
	RecommendationAccuracy int       `json:"recommendationAccuracy"`
	DeviceReliability      int       `json:"deviceReliability"`
}

type Insight struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    InsightPriority `json:"priority"`
}

// AnalyticsSnapshot is the ephemeral computed reporting view. It is
// never persisted.
type AnalyticsSnapshot struct {
	OverallHealth   OverallHealth     `json:"overallHealth"`
	SoilTrends      []SoilTrend       `json:"soilTrends"`
	FarmPerformance []FarmPerformance `json:"farmPerformance"`
	SoilData        []SoilData        `json:"soilData"`
	Insights        []Insight         `json:"insights"`
}
