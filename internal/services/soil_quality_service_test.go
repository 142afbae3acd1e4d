package services

import (
	"testing"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/stretchr/testify/assert"
)

func optimalReading() *models.SoilData {
	return &models.SoilData{
		PH:          6.5,
		Nitrogen:    45,
		Phosphorus:  30,
		Potassium:   200,
		Moisture:    60,
		Temperature: 25,
	}
}

func TestScoreAllOptimal(t *testing.T) {
	svc := NewSoilQualityService(nil)

	points, grade := svc.Score(optimalReading())

	assert.Equal(t, 50, points)
	assert.Equal(t, models.QualityExcellent, grade)
	assert.Equal(t, 100, svc.ScorePercent(optimalReading()))
}

func TestScorePHBandTiers(t *testing.T) {
	svc := NewSoilQualityService(nil)

	tests := []struct {
		name   string
		ph     float64
		points int
	}{
		{"optimal lower edge", 6.0, 50},
		{"optimal upper edge", 7.5, 50},
		{"near band", 5.5, 47},
		{"far band", 5.0, 44},
		{"outside all bands", 4.0, 41},
		{"extreme alkaline", 9.0, 41},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading := optimalReading()
			reading.PH = tt.ph
			points, _ := svc.Score(reading)
			assert.Equal(t, tt.points, points)
		})
	}
}

func TestGradeThresholds(t *testing.T) {
	svc := NewSoilQualityService(nil)

	// One far-band parameter drops 88% of max, below the EXCELLENT cut.
	good := optimalReading()
	good.Nitrogen = 12
	_, grade := svc.Score(good)
	assert.Equal(t, models.QualityGood, grade)

	// 10+10+7+4+1 = 32 points = 64%.
	fair := &models.SoilData{PH: 6.5, Nitrogen: 45, Phosphorus: 16, Potassium: 60, Moisture: 10}
	points, fairGrade := svc.Score(fair)
	assert.Equal(t, 32, points)
	assert.Equal(t, models.QualityFair, fairGrade)

	// Everything outside every band floors at 1 point each.
	poor := &models.SoilData{PH: 1, Nitrogen: 500, Phosphorus: 500, Potassium: 900, Moisture: 95}
	points, poorGrade := svc.Score(poor)
	assert.Equal(t, 5, points)
	assert.Equal(t, models.QualityPoor, poorGrade)
}

func TestScoreIsDeterministic(t *testing.T) {
	svc := NewSoilQualityService(nil)
	reading := &models.SoilData{PH: 5.7, Nitrogen: 25, Phosphorus: 18, Potassium: 120, Moisture: 45}

	firstPoints, firstGrade := svc.Score(reading)
	secondPoints, secondGrade := svc.Score(reading)

	assert.Equal(t, firstPoints, secondPoints)
	assert.Equal(t, firstGrade, secondGrade)
}
