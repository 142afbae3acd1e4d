package services

import "github.com/Divyamsirswal/SoilSense-sub000/internal/models"

// ScoreBand is the tiered distance-from-optimal classification for one
// soil parameter. The near band encloses the optimal band and the far
// band encloses both, so membership is checked inside-out.
type ScoreBand struct {
	OptimalLow, OptimalHigh float64
	NearLow, NearHigh       float64
	FarLow, FarHigh         float64
}

// Per-parameter points by band tier.
const (
	pointsOptimal = 10
	pointsNear    = 7
	pointsFar     = 4
	pointsMinimal = 1
)

// QualityRuleTable holds the scoring bands for the five graded
// parameters. It is passed by reference into the scorer so thresholds
// stay testable and swappable without touching control flow.
type QualityRuleTable struct {
	Version    string
	PH         ScoreBand
	Nitrogen   ScoreBand
	Phosphorus ScoreBand
	Potassium  ScoreBand
	Moisture   ScoreBand
}

// MaxPoints is the scorer ceiling: five parameters at full points.
func (t *QualityRuleTable) MaxPoints() int {
	return 5 * pointsOptimal
}

var DefaultQualityRules = QualityRuleTable{
	Version:    "1.0.0",
	PH:         ScoreBand{OptimalLow: 6.0, OptimalHigh: 7.5, NearLow: 5.5, NearHigh: 8.0, FarLow: 5.0, FarHigh: 8.5},
	Nitrogen:   ScoreBand{OptimalLow: 30, OptimalHigh: 60, NearLow: 20, NearHigh: 80, FarLow: 10, FarHigh: 100},
	Phosphorus: ScoreBand{OptimalLow: 20, OptimalHigh: 40, NearLow: 15, NearHigh: 50, FarLow: 10, FarHigh: 60},
	Potassium:  ScoreBand{OptimalLow: 150, OptimalHigh: 250, NearLow: 100, NearHigh: 300, FarLow: 50, FarHigh: 350},
	Moisture:   ScoreBand{OptimalLow: 50, OptimalHigh: 70, NearLow: 40, NearHigh: 80, FarLow: 30, FarHigh: 90},
}

// NutrientRule classifies one NPK level and carries the fixed advice
// text per class.
type NutrientRule struct {
	VeryLowBelow float64
	LowBelow     float64
	HighAbove    float64

	VeryLowText string
	LowText     string
	HighText    string
	OptimalText string
}

func (r NutrientRule) Classify(value float64) models.FertilizerAdvice {
	switch {
	case value < r.VeryLowBelow:
		return models.FertilizerAdvice{Level: models.NutrientVeryLow, Recommendation: r.VeryLowText}
	case value < r.LowBelow:
		return models.FertilizerAdvice{Level: models.NutrientLow, Recommendation: r.LowText}
	case value > r.HighAbove:
		return models.FertilizerAdvice{Level: models.NutrientHigh, Recommendation: r.HighText}
	default:
		return models.FertilizerAdvice{Level: models.NutrientOptimal, Recommendation: r.OptimalText}
	}
}

// IrrigationRule maps a moisture band upper bound onto a fixed plan.
// Bands are checked in order; the last rule is the catch-all.
type IrrigationRule struct {
	MoistureBelow float64
	Plan          models.IrrigationPlan
}

// CropRule adds crops for one pH band, plus a moisture-conditional
// extension of the candidate list.
type CropRule struct {
	Base []string

	// Appended when moisture is strictly above WetAbove.
	ExtraWhenWet []string
	WetAbove     float64

	// Appended when moisture is strictly below DryBelow. When DryBelow
	// is zero the dry set is the else-branch of the wet check instead.
	ExtraWhenDry []string
	DryBelow     float64
}

// Extend applies the moisture conditions to the base candidate list.
func (r CropRule) Extend(moisture float64) []string {
	crops := append([]string{}, r.Base...)
	if len(r.ExtraWhenWet) > 0 && moisture > r.WetAbove {
		crops = append(crops, r.ExtraWhenWet...)
	}
	if len(r.ExtraWhenDry) > 0 {
		if r.DryBelow > 0 {
			if moisture < r.DryBelow {
				crops = append(crops, r.ExtraWhenDry...)
			}
		} else if moisture <= r.WetAbove {
			crops = append(crops, r.ExtraWhenDry...)
		}
	}
	return crops
}

// AgronomyRuleTable drives the recommendation deriver: crop candidates
// by pH/moisture band, NPK fertilizer guidance, and irrigation plans.
type AgronomyRuleTable struct {
	Version string

	// pH band edges: acidic below AcidicBelow, alkaline above
	// AlkalineAbove, neutral in between.
	AcidicBelow   float64
	AlkalineAbove float64

	AcidicCrops   CropRule
	NeutralCrops  CropRule
	AlkalineCrops CropRule

	Nitrogen   NutrientRule
	Phosphorus NutrientRule
	Potassium  NutrientRule

	Irrigation []IrrigationRule
}

const maintainFertilityText = "Maintain current fertility program"

var DefaultAgronomyRules = AgronomyRuleTable{
	Version: "1.0.0",

	AcidicBelow:   6.0,
	AlkalineAbove: 7.0,

	AcidicCrops: CropRule{
		Base:         []string{"Potatoes", "Blueberries"},
		ExtraWhenWet: []string{"Rice"},
		WetAbove:     60,
	},
	NeutralCrops: CropRule{
		Base:         []string{"Wheat", "Corn", "Soybeans"},
		ExtraWhenWet: []string{"Tomatoes", "Peppers"},
		WetAbove:     50,
		ExtraWhenDry: []string{"Beans", "Sunflowers"},
	},
	AlkalineCrops: CropRule{
		Base:         []string{"Spinach", "Cabbage", "Cauliflower"},
		ExtraWhenDry: []string{"Barley"},
		DryBelow:     50,
	},

	Nitrogen: NutrientRule{
		VeryLowBelow: 20,
		LowBelow:     30,
		HighAbove:    80,
		VeryLowText:  "Apply high-nitrogen fertilizer such as urea (46-0-0) at 50kg/ha",
		LowText:      "Apply balanced fertilizer such as NPK (20-10-10) at 100kg/ha",
		HighText:     "Reduce nitrogen application in next cycle",
		OptimalText:  maintainFertilityText,
	},
	Phosphorus: NutrientRule{
		VeryLowBelow: 15,
		LowBelow:     20,
		HighAbove:    50,
		VeryLowText:  "Apply high-phosphate fertilizer such as triple super phosphate (0-45-0) at 40kg/ha",
		LowText:      "Apply balanced fertilizer with higher phosphorus such as NPK (10-20-10) at 75kg/ha",
		HighText:     "Reduce phosphorus application in next cycle",
		OptimalText:  maintainFertilityText,
	},
	Potassium: NutrientRule{
		VeryLowBelow: 100,
		LowBelow:     150,
		HighAbove:    300,
		VeryLowText:  "Apply potash fertilizer such as muriate of potash (0-0-60) at 60kg/ha",
		LowText:      "Apply balanced fertilizer with higher potassium such as NPK (10-10-20) at 80kg/ha",
		HighText:     "Reduce potassium application in next cycle",
		OptimalText:  maintainFertilityText,
	},

	Irrigation: []IrrigationRule{
		{
			MoistureBelow: 30,
			Plan: models.IrrigationPlan{
				Frequency: "Daily",
				Amount:    "High",
				Notes:     "Soil is very dry. Immediate irrigation needed. Consider drip irrigation system for efficient water use.",
			},
		},
		{
			MoistureBelow: 50,
			Plan: models.IrrigationPlan{
				Frequency: "Every 2-3 days",
				Amount:    "Moderate",
				Notes:     "Soil moisture is below optimal. Regular irrigation schedule recommended.",
			},
		},
		{
			MoistureBelow: 70,
			Plan: models.IrrigationPlan{
				Frequency: "Every 4-5 days",
				Amount:    "Low to Moderate",
				Notes:     "Soil moisture is at optimal levels. Maintain current irrigation practices.",
			},
		},
		{
			Plan: models.IrrigationPlan{
				Frequency: "As needed",
				Amount:    "Low",
				Notes:     "Soil moisture is high. Reduce irrigation and monitor for potential drainage issues.",
			},
		},
	},
}

// AlertThresholds are the out-of-band trigger values for alerting.
type AlertThresholds struct {
	LowPHBelow       float64
	HighPHAbove      float64
	LowMoistureBelow float64
}

var DefaultAlertThresholds = AlertThresholds{
	LowPHBelow:       5.5,
	HighPHAbove:      7.5,
	LowMoistureBelow: 20,
}
