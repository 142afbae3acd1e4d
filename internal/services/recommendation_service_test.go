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

func newRecommendationService(recs RecommendationStore, alerts AlertStore, events EventPublisher) *RecommendationService {
	return NewRecommendationService(nil, NewSoilQualityService(nil), recs, alerts, events)
}

func deriveOnly() *RecommendationService {
	return newRecommendationService(newFakeRecommendationStore(), &fakeAlertStore{}, &fakePublisher{})
}

func TestDeriveCropsByPHBand(t *testing.T) {
	svc := deriveOnly()

	tests := []struct {
		name     string
		ph       float64
		moisture float64
		crops    []string
	}{
		{"acidic wet adds rice", 5.5, 65, []string{"Potatoes", "Blueberries", "Rice"}},
		{"acidic at wet edge excludes rice", 5.5, 60, []string{"Potatoes", "Blueberries"}},
		{"neutral wet", 6.5, 55, []string{"Wheat", "Corn", "Soybeans", "Tomatoes", "Peppers"}},
		{"neutral dry", 6.5, 50, []string{"Wheat", "Corn", "Soybeans", "Beans", "Sunflowers"}},
		{"alkaline dry adds barley", 7.8, 45, []string{"Spinach", "Cabbage", "Cauliflower", "Barley"}},
		{"alkaline at dry edge excludes barley", 7.8, 50, []string{"Spinach", "Cabbage", "Cauliflower"}},
		{"ph 7 is still neutral", 7.0, 55, []string{"Wheat", "Corn", "Soybeans", "Tomatoes", "Peppers"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading := optimalReading()
			reading.PH = tt.ph
			reading.Moisture = tt.moisture

			rec := svc.Derive(reading)

			assert.Equal(t, tt.crops, []string(rec.Crops))
		})
	}
}

func TestDeriveFertilizerTiers(t *testing.T) {
	svc := deriveOnly()

	reading := optimalReading()
	reading.Nitrogen = 10
	reading.Phosphorus = 10
	reading.Potassium = 50

	rec := svc.Derive(reading)

	assert.Equal(t, models.NutrientVeryLow, rec.Fertilizers.Nitrogen.Level)
	assert.Equal(t, "Apply high-nitrogen fertilizer such as urea (46-0-0) at 50kg/ha", rec.Fertilizers.Nitrogen.Recommendation)
	assert.Equal(t, models.NutrientVeryLow, rec.Fertilizers.Phosphorus.Level)
	assert.Equal(t, "Apply high-phosphate fertilizer such as triple super phosphate (0-45-0) at 40kg/ha", rec.Fertilizers.Phosphorus.Recommendation)
	assert.Equal(t, models.NutrientVeryLow, rec.Fertilizers.Potassium.Level)
	assert.Equal(t, "Apply potash fertilizer such as muriate of potash (0-0-60) at 60kg/ha", rec.Fertilizers.Potassium.Recommendation)
}

func TestDeriveFertilizerBoundaries(t *testing.T) {
	svc := deriveOnly()

	tests := []struct {
		name     string
		nitrogen float64
		level    models.NutrientLevel
	}{
		{"very low below 20", 19.9, models.NutrientVeryLow},
		{"low at 20", 20, models.NutrientLow},
		{"optimal at 30", 30, models.NutrientOptimal},
		{"optimal at 80", 80, models.NutrientOptimal},
		{"high above 80", 80.1, models.NutrientHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading := optimalReading()
			reading.Nitrogen = tt.nitrogen
			rec := svc.Derive(reading)
			assert.Equal(t, tt.level, rec.Fertilizers.Nitrogen.Level)
		})
	}

	optimal := svc.Derive(optimalReading())
	assert.Equal(t, "Maintain current fertility program", optimal.Fertilizers.Nitrogen.Recommendation)
}

func TestDeriveIrrigationBands(t *testing.T) {
	svc := deriveOnly()

	tests := []struct {
		moisture  float64
		frequency string
		amount    string
	}{
		{25, "Daily", "High"},
		{45, "Every 2-3 days", "Moderate"},
		{65, "Every 4-5 days", "Low to Moderate"},
		{85, "As needed", "Low"},
		{70, "As needed", "Low"},
	}

	for _, tt := range tests {
		reading := optimalReading()
		reading.Moisture = tt.moisture

		rec := svc.Derive(reading)

		assert.Equal(t, tt.frequency, rec.Irrigation.Frequency, "moisture %v", tt.moisture)
		assert.Equal(t, tt.amount, rec.Irrigation.Amount, "moisture %v", tt.moisture)
	}
}

func TestDeriveScoreAndRemarks(t *testing.T) {
	svc := deriveOnly()

	rec := svc.Derive(optimalReading())

	assert.Equal(t, 100, rec.Score)
	assert.Equal(t, "1.0.0", rec.ModelVersion)
	assert.Equal(t, "Soil quality is excellent. Soil pH is in optimal range. ", rec.Remarks)

	depleted := optimalReading()
	depleted.Nitrogen = 10
	depleted.Phosphorus = 10
	depleted.Potassium = 50
	depleted.Moisture = 20

	rec = svc.Derive(depleted)
	assert.Contains(t, rec.Remarks, "Nitrogen levels are low, consider adding nitrogen-rich fertilizers. ")
	assert.Contains(t, rec.Remarks, "Phosphorus levels are low, consider adding phosphate fertilizers. ")
	assert.Contains(t, rec.Remarks, "Potassium levels are low, consider adding potash fertilizers. ")
	assert.Contains(t, rec.Remarks, "Soil moisture is low, consider increasing irrigation. ")
}

func TestEnsureForReadingIsMemoized(t *testing.T) {
	store := newFakeRecommendationStore()
	svc := newRecommendationService(store, &fakeAlertStore{}, &fakePublisher{})

	reading := optimalReading()
	reading.ID = uuid.New()

	first, created, err := svc.EnsureForReading(context.Background(), reading)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.EnsureForReading(context.Background(), reading)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.inserts)
}

func TestGenerateForReadingNotifiesOnce(t *testing.T) {
	ownerID := "user-1"
	farm := models.Farm{ID: uuid.New(), Name: "Hilltop", OwnerID: ownerID}
	farms := NewFarmService(newFakeFarmStore(farm))

	readings := &fakeReadingStore{}
	reading := optimalReading()
	reading.FarmID = farm.ID
	reading.Timestamp = time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	require.NoError(t, readings.Create(context.Background(), reading))

	alerts := &fakeAlertStore{}
	publisher := &fakePublisher{}
	svc := newRecommendationService(newFakeRecommendationStore(), alerts, publisher)

	rec, created, err := svc.GenerateForReading(context.Background(), farms, ownerID, reading.ID, readings)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, reading.ID, rec.SoilDataID)

	require.Len(t, alerts.alerts, 1)
	assert.Equal(t, models.AlertNewRecommendation, alerts.alerts[0].Type)
	assert.Equal(t, models.SeverityInfo, alerts.alerts[0].Severity)
	assert.Equal(t, "New crop and fertilizer recommendations available for soil data from 3/5/2026", alerts.alerts[0].Message)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, event.FarmChannel(farm.ID.String()), publisher.events[0].Channel)
	assert.Equal(t, event.EventNewRecommendation, publisher.events[0].Event)

	// Re-request returns the stored record and stays quiet.
	_, created, err = svc.GenerateForReading(context.Background(), farms, ownerID, reading.ID, readings)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, alerts.alerts, 1)
	assert.Len(t, publisher.events, 1)
}

func TestGenerateForReadingAuthorization(t *testing.T) {
	farm := models.Farm{ID: uuid.New(), OwnerID: "user-1"}
	farms := NewFarmService(newFakeFarmStore(farm))

	readings := &fakeReadingStore{}
	reading := optimalReading()
	reading.FarmID = farm.ID
	require.NoError(t, readings.Create(context.Background(), reading))

	svc := newRecommendationService(newFakeRecommendationStore(), &fakeAlertStore{}, &fakePublisher{})

	_, _, err := svc.GenerateForReading(context.Background(), farms, "intruder", reading.ID, readings)
	assert.ErrorIs(t, err, ErrNotFarmOwner)

	_, _, err = svc.GenerateForReading(context.Background(), farms, "user-1", uuid.New(), readings)
	assert.ErrorIs(t, err, ErrReadingNotFound)
}
