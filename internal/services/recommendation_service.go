package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/event"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/google/uuid"
)

const ruleModelVersion = "1.0.0"

// RecommendationService derives crop, fertilizer and irrigation
// guidance from a reading via the agronomy rule table. Derivation is
// deterministic; persistence is memoized per reading so a repeat
// request returns the stored record instead of regenerating.
type RecommendationService struct {
	rules   *AgronomyRuleTable
	quality *SoilQualityService
	recs    RecommendationStore
	alerts  AlertStore
	events  EventPublisher
}

func NewRecommendationService(rules *AgronomyRuleTable, quality *SoilQualityService, recs RecommendationStore, alerts AlertStore, events EventPublisher) *RecommendationService {
	if rules == nil {
		rules = &DefaultAgronomyRules
	}
	return &RecommendationService{
		rules:   rules,
		quality: quality,
		recs:    recs,
		alerts:  alerts,
		events:  events,
	}
}

// Derive computes the guidance for one reading. Pure: no persistence,
// no fan-out.
func (s *RecommendationService) Derive(reading *models.SoilData) *models.Recommendation {
	_, grade := s.quality.Score(reading)

	return &models.Recommendation{
		SoilDataID: reading.ID,
		Crops:      s.recommendCrops(reading),
		Score:      s.quality.ScorePercent(reading),
		Remarks:    s.remarks(reading, grade),
		Fertilizers: models.FertilizerSet{
			Nitrogen:   s.rules.Nitrogen.Classify(reading.Nitrogen),
			Phosphorus: s.rules.Phosphorus.Classify(reading.Phosphorus),
			Potassium:  s.rules.Potassium.Classify(reading.Potassium),
		},
		Irrigation:   s.irrigation(reading.Moisture),
		ModelVersion: ruleModelVersion,
	}
}

// EnsureForReading derives and stores the recommendation at most once
// per reading. When another writer got there first, the stored record
// wins and is returned with created=false.
func (s *RecommendationService) EnsureForReading(ctx context.Context, reading *models.SoilData) (*models.Recommendation, bool, error) {
	rec := s.Derive(reading)

	created, err := s.recs.CreateIfAbsent(ctx, rec)
	if err != nil {
		return nil, false, &PersistenceError{Op: "recommendation insert", Err: err}
	}
	if created {
		return rec, true, nil
	}

	existing, err := s.recs.GetBySoilDataID(ctx, reading.ID)
	if err != nil {
		return nil, false, &PersistenceError{Op: "recommendation fetch", Err: err}
	}
	if existing == nil {
		return nil, false, &PersistenceError{Op: "recommendation fetch", Err: ErrRecommendationNotFound}
	}
	return existing, false, nil
}

// GenerateForReading is the user-facing request path: it authorizes the
// reading's farm, memoizes the recommendation, and on first creation
// raises an INFO alert plus a farm-channel event.
func (s *RecommendationService) GenerateForReading(ctx context.Context, farms *FarmService, userID string, soilDataID uuid.UUID, readings ReadingStore) (*models.Recommendation, bool, error) {
	reading, err := readings.GetByID(ctx, soilDataID)
	if err != nil {
		return nil, false, &PersistenceError{Op: "soil data fetch", Err: err}
	}
	if reading == nil {
		return nil, false, ErrReadingNotFound
	}

	farm, err := farms.AuthorizeFarm(ctx, userID, reading.FarmID)
	if err != nil {
		return nil, false, err
	}

	rec, created, err := s.EnsureForReading(ctx, reading)
	if err != nil {
		return nil, false, err
	}
	if !created {
		return rec, false, nil
	}

	soilDataRef := reading.ID
	notice := models.Alert{
		Type:     models.AlertNewRecommendation,
		Severity: models.SeverityInfo,
		Message: fmt.Sprintf("New crop and fertilizer recommendations available for soil data from %s",
			reading.Timestamp.Format("1/2/2006")),
		IsRead:     false,
		UserID:     farm.OwnerID,
		FarmID:     farm.ID,
		SoilDataID: &soilDataRef,
	}
	if err := s.alerts.CreateBatch(ctx, []models.Alert{notice}); err != nil {
		slog.Error("Failed to create recommendation alert", "soil_data_id", reading.ID, "error", err)
	}

	s.events.Publish(event.FarmChannel(farm.ID.String()), event.EventNewRecommendation, map[string]any{
		"recommendation": rec,
	})

	return rec, true, nil
}

// GetForReading returns the stored recommendation for a reading.
func (s *RecommendationService) GetForReading(ctx context.Context, farms *FarmService, userID string, soilDataID uuid.UUID, readings ReadingStore) (*models.Recommendation, error) {
	reading, err := readings.GetByID(ctx, soilDataID)
	if err != nil {
		return nil, &PersistenceError{Op: "soil data fetch", Err: err}
	}
	if reading == nil {
		return nil, ErrReadingNotFound
	}
	if _, err := farms.AuthorizeFarm(ctx, userID, reading.FarmID); err != nil {
		return nil, err
	}

	rec, err := s.recs.GetBySoilDataID(ctx, soilDataID)
	if err != nil {
		return nil, &PersistenceError{Op: "recommendation fetch", Err: err}
	}
	if rec == nil {
		return nil, ErrRecommendationNotFound
	}
	return rec, nil
}

// ListForUser returns recent recommendations across the user's farms.
func (s *RecommendationService) ListForUser(ctx context.Context, farms *FarmService, userID string, farmID *uuid.UUID, limit int) ([]models.Recommendation, error) {
	farmIDs, err := farms.OwnedFarmIDs(ctx, userID, farmID)
	if err != nil {
		return nil, &PersistenceError{Op: "farm list", Err: err}
	}
	if len(farmIDs) == 0 {
		return []models.Recommendation{}, nil
	}

	recs, err := s.recs.ListForFarms(ctx, farmIDs, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "recommendation list", Err: err}
	}
	return recs, nil
}

func (s *RecommendationService) recommendCrops(reading *models.SoilData) []string {
	var rule CropRule
	switch {
	case reading.PH < s.rules.AcidicBelow:
		rule = s.rules.AcidicCrops
	case reading.PH <= s.rules.AlkalineAbove:
		rule = s.rules.NeutralCrops
	default:
		rule = s.rules.AlkalineCrops
	}

	return rule.Extend(reading.Moisture)
}

func (s *RecommendationService) irrigation(moisture float64) models.IrrigationPlan {
	for _, rule := range s.rules.Irrigation {
		if rule.MoistureBelow > 0 && moisture < rule.MoistureBelow {
			return rule.Plan
		}
	}
	return s.rules.Irrigation[len(s.rules.Irrigation)-1].Plan
}

func (s *RecommendationService) remarks(reading *models.SoilData, grade models.SoilQuality) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Soil quality is %s. ", strings.ToLower(string(grade)))

	switch {
	case reading.PH < 5.5:
		b.WriteString("Soil is too acidic, consider adding lime to raise pH. ")
	case reading.PH > 7.5:
		b.WriteString("Soil is too alkaline, consider adding sulfur to lower pH. ")
	default:
		b.WriteString("Soil pH is in optimal range. ")
	}

	if reading.Nitrogen < 30 {
		b.WriteString("Nitrogen levels are low, consider adding nitrogen-rich fertilizers. ")
	}
	if reading.Phosphorus < 20 {
		b.WriteString("Phosphorus levels are low, consider adding phosphate fertilizers. ")
	}
	if reading.Potassium < 150 {
		b.WriteString("Potassium levels are low, consider adding potash fertilizers. ")
	}

	if reading.Moisture < 40 {
		b.WriteString("Soil moisture is low, consider increasing irrigation. ")
	} else if reading.Moisture > 80 {
		b.WriteString("Soil moisture is high, consider improving drainage. ")
	}

	return b.String()
}
