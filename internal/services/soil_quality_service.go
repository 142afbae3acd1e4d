package services

import (
	"math"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"
)

// SoilQualityService grades readings against the banded scoring table.
// Scoring is a pure function of the reading: the same input always
// produces the same points and grade.
type SoilQualityService struct {
	rules *QualityRuleTable
}

func NewSoilQualityService(rules *QualityRuleTable) *SoilQualityService {
	if rules == nil {
		rules = &DefaultQualityRules
	}
	return &SoilQualityService{rules: rules}
}

// Score sums the five per-parameter band scores and derives the grade
// from the percentage of the maximum.
func (s *SoilQualityService) Score(reading *models.SoilData) (int, models.SoilQuality) {
	points := bandPoints(reading.PH, s.rules.PH) +
		bandPoints(reading.Nitrogen, s.rules.Nitrogen) +
		bandPoints(reading.Phosphorus, s.rules.Phosphorus) +
		bandPoints(reading.Potassium, s.rules.Potassium) +
		bandPoints(reading.Moisture, s.rules.Moisture)

	return points, s.gradeFor(points)
}

// ScorePercent reports the score as a 0-100 percentage.
func (s *SoilQualityService) ScorePercent(reading *models.SoilData) int {
	points, _ := s.Score(reading)
	return int(math.Round(float64(points) / float64(s.rules.MaxPoints()) * 100))
}

func (s *SoilQualityService) gradeFor(points int) models.SoilQuality {
	percent := float64(points) / float64(s.rules.MaxPoints()) * 100
	switch {
	case percent >= 90:
		return models.QualityExcellent
	case percent >= 70:
		return models.QualityGood
	case percent >= 50:
		return models.QualityFair
	default:
		return models.QualityPoor
	}
}

// bandPoints walks the tiers inside-out: optimal, then the wider near
// band, then the wider far band, else the minimal floor.
func bandPoints(value float64, band ScoreBand) int {
	switch {
	case value >= band.OptimalLow && value <= band.OptimalHigh:
		return pointsOptimal
	case value >= band.NearLow && value <= band.NearHigh:
		return pointsNear
	case value >= band.FarLow && value <= band.FarHigh:
		return pointsFar
	default:
		return pointsMinimal
	}
}
