package models

type SoilQuality string

const (
	QualityPoor      SoilQuality = "POOR"
	QualityFair      SoilQuality = "FAIR"
	QualityGood      SoilQuality = "GOOD"
	QualityExcellent SoilQuality = "EXCELLENT"
)

type DeviceStatus string

const (
	DeviceActive      DeviceStatus = "ACTIVE"
	DeviceInactive    DeviceStatus = "INACTIVE"
	DeviceMaintenance DeviceStatus = "MAINTENANCE"
)

type DeviceType string

const (
	DeviceTypeSoilSensor DeviceType = "SOIL_SENSOR"
)

type AlertType string

const (
	AlertLowPH             AlertType = "LOW_PH"
	AlertHighPH            AlertType = "HIGH_PH"
	AlertLowMoisture       AlertType = "LOW_MOISTURE"
	AlertNewRecommendation AlertType = "NEW_RECOMMENDATION"
)

type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "INFO"
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityCritical AlertSeverity = "CRITICAL"
)

type AnalyticsPeriod string

const (
	PeriodWeek  AnalyticsPeriod = "week"
	PeriodMonth AnalyticsPeriod = "month"
	PeriodYear  AnalyticsPeriod = "year"
)

// NutrientLevel classifies an NPK measurement against the agronomy cutoffs.
type NutrientLevel string

const (
	NutrientVeryLow NutrientLevel = "Very Low"
	NutrientLow     NutrientLevel = "Low"
	NutrientOptimal NutrientLevel = "Optimal"
	NutrientHigh    NutrientLevel = "High"
)

type InsightPriority string

const (
	PriorityHigh   InsightPriority = "high"
	PriorityMedium InsightPriority = "medium"
	PriorityLow    InsightPriority = "low"
)
