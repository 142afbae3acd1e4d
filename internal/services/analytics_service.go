package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/google/uuid"
)

// AnalyticsService computes the reporting snapshot: aggregate health,
// per-parameter trends, per-farm performance, and insights. It is
// read-only and side-effect-free.
//
// The aggregate health score bands the *average* of each parameter over
// the window. That is deliberately a different computation from the
// per-reading grading in SoilQualityService; unifying them would change
// reported historical scores.
type AnalyticsService struct {
	farms    FarmStore
	readings ReadingStore
	recs     RecommendationStore

	now  func() time.Time
	intn func(n int) int
}

func NewAnalyticsService(farms FarmStore, readings ReadingStore, recs RecommendationStore) *AnalyticsService {
	return &AnalyticsService{
		farms:    farms,
		readings: readings,
		recs:     recs,
		now:      time.Now,
		intn:     rand.Intn,
	}
}

// Aggregate builds the snapshot for the user's farms over the period.
// An unknown farm set is not-found; zero readings in the window is a
// valid empty result.
func (s *AnalyticsService) Aggregate(ctx context.Context, userID string, farmID *uuid.UUID, period models.AnalyticsPeriod) (*models.AnalyticsSnapshot, error) {
	farms, err := s.farms.ListByOwner(ctx, userID, farmID)
	if err != nil {
		return nil, &PersistenceError{Op: "farm list", Err: err}
	}
	if len(farms) == 0 {
		return nil, ErrFarmNotFound
	}

	farmIDs := make([]uuid.UUID, 0, len(farms))
	for _, farm := range farms {
		farmIDs = append(farmIDs, farm.ID)
	}

	periodStart, comparisonStart := s.windows(period)

	current, err := s.readings.ListForFarmsSince(ctx, farmIDs, periodStart)
	if err != nil {
		return nil, &PersistenceError{Op: "soil data list", Err: err}
	}
	previous, err := s.readings.ListForFarmsBetween(ctx, farmIDs, comparisonStart, periodStart)
	if err != nil {
		return nil, &PersistenceError{Op: "soil data list", Err: err}
	}

	currentHealth := aggregateHealthScore(current)
	previousHealth := aggregateHealthScore(previous)
	healthChange := currentHealth - previousHealth

	trends := soilTrends(current, previous)
	performance, err := s.farmPerformance(ctx, farms, current, previous, periodStart)
	if err != nil {
		return nil, err
	}

	// The snapshot's reading set is chronological regardless of how the
	// store returned it.
	sorted := append([]models.SoilData{}, current...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	changePercent := "0"
	if previousHealth != 0 {
		changePercent = fmt.Sprintf("%.1f", healthChange/previousHealth*100)
	}

	return &models.AnalyticsSnapshot{
		OverallHealth: models.OverallHealth{
			Score:         int(math.Round(currentHealth)),
			PreviousScore: int(math.Round(previousHealth)),
			Change:        fmt.Sprintf("%.1f", healthChange),
			ChangePercent: changePercent,
		},
		SoilTrends:      trends,
		FarmPerformance: performance,
		SoilData:        sorted,
		Insights:        insights(healthChange, trends, period),
	}, nil
}

// windows maps the period onto a lookback start and the start of the
// equal-length comparison window immediately preceding it.
func (s *AnalyticsService) windows(period models.AnalyticsPeriod) (time.Time, time.Time) {
	today := s.now()
	switch period {
	case models.PeriodWeek:
		periodStart := today.AddDate(0, 0, -7)
		return periodStart, periodStart.AddDate(0, 0, -7)
	case models.PeriodYear:
		periodStart := today.AddDate(-1, 0, 0)
		return periodStart, periodStart.AddDate(-1, 0, 0)
	default:
		periodStart := today.AddDate(0, -1, 0)
		return periodStart, periodStart.AddDate(0, -1, 0)
	}
}

func (s *AnalyticsService) farmPerformance(ctx context.Context, farms []models.Farm, current, previous []models.SoilData, periodStart time.Time) ([]models.FarmPerformance, error) {
	performance := make([]models.FarmPerformance, 0, len(farms))

	for _, farm := range farms {
		farmCurrent := filterByFarm(current, farm.ID)
		farmPrevious := filterByFarm(previous, farm.ID)

		soilHealth := int(math.Round(aggregateHealthScore(farmCurrent)))
		previousSoilHealth := int(math.Round(aggregateHealthScore(farmPrevious)))

		recCount, err := s.recs.CountForFarmSince(ctx, farm.ID, periodStart)
		if err != nil {
			return nil, &PersistenceError{Op: "recommendation count", Err: err}
		}

		// Accuracy and reliability are synthetic placeholders until
		// outcome tracking exists; comparing guidance against actual
		// yield is out of reach of this service.
		accuracy := 90
		if recCount > 0 {
			accuracy = 85 + s.intn(10)
		}

		performance = append(performance, models.FarmPerformance{
			ID:                     farm.ID,
			Name:                   farm.Name,
			SoilHealth:             soilHealth,
			PreviousSoilHealth:     previousSoilHealth,
			SoilHealthChange:       soilHealth - previousSoilHealth,
			RecommendationAccuracy: accuracy,
			DeviceReliability:      95 + s.intn(5),
		})
	}
	return performance, nil
}

// aggregateHealthScore bands the averaged parameters of a reading set
// into a 0-100 score. Empty sets score zero.
func aggregateHealthScore(data []models.SoilData) float64 {
	if len(data) == 0 {
		return 0
	}

	score := 0.0

	avgPH := average(data, func(d models.SoilData) float64 { return d.PH })
	switch {
	case avgPH >= 6.0 && avgPH <= 7.5:
		score += 25
	case (avgPH >= 5.5 && avgPH < 6.0) || (avgPH > 7.5 && avgPH <= 8.0):
		score += 20
	default:
		score += 10
	}

	avgN := average(data, func(d models.SoilData) float64 { return d.Nitrogen })
	avgP := average(data, func(d models.SoilData) float64 { return d.Phosphorus })
	avgK := average(data, func(d models.SoilData) float64 { return d.Potassium })
	score += nutrientScore(avgN, 30, 60, 20)
	score += nutrientScore(avgP, 20, 40, 15)
	score += nutrientScore(avgK, 150, 250, 100)

	avgMoisture := average(data, func(d models.SoilData) float64 { return d.Moisture })
	switch {
	case avgMoisture >= 50 && avgMoisture <= 70:
		score += 25
	case (avgMoisture >= 40 && avgMoisture < 50) || (avgMoisture > 70 && avgMoisture <= 80):
		score += 20
	default:
		score += 10
	}

	avgTemp := average(data, func(d models.SoilData) float64 { return d.Temperature })
	switch {
	case avgTemp >= 18 && avgTemp <= 30:
		score += 20
	case (avgTemp >= 15 && avgTemp < 18) || (avgTemp > 30 && avgTemp <= 35):
		score += 15
	default:
		score += 5
	}

	return score
}

func nutrientScore(avg, optimalLow, optimalHigh, nearLow float64) float64 {
	switch {
	case avg >= optimalLow && avg <= optimalHigh:
		return 10
	case avg >= nearLow:
		return 7
	default:
		return 3
	}
}

type trendParameter struct {
	id       string
	name     string
	decimals int
	value    func(models.SoilData) float64
	optimal  func(float64) bool
}

var trendParameters = []trendParameter{
	{"1", "pH", 1, func(d models.SoilData) float64 { return d.PH }, func(v float64) bool { return v >= 6.0 && v <= 7.5 }},
	{"2", "nitrogen", 0, func(d models.SoilData) float64 { return d.Nitrogen }, func(v float64) bool { return v >= 30 && v <= 60 }},
	{"3", "phosphorus", 0, func(d models.SoilData) float64 { return d.Phosphorus }, func(v float64) bool { return v >= 20 && v <= 40 }},
	{"4", "potassium", 0, func(d models.SoilData) float64 { return d.Potassium }, func(v float64) bool { return v >= 150 && v <= 250 }},
	{"5", "moisture", 0, func(d models.SoilData) float64 { return d.Moisture }, func(v float64) bool { return v >= 50 && v <= 70 }},
	{"6", "temperature", 1, func(d models.SoilData) float64 { return d.Temperature }, func(v float64) bool { return v >= 18 && v <= 30 }},
}

func soilTrends(current, previous []models.SoilData) []models.SoilTrend {
	if len(current) == 0 {
		return []models.SoilTrend{}
	}

	trends := make([]models.SoilTrend, 0, len(trendParameters))
	for _, param := range trendParameters {
		currentValue := average(current, param.value)
		previousValue := 0.0
		if len(previous) > 0 {
			previousValue = average(previous, param.value)
		}

		change := currentValue - previousValue
		changePercent := 0.0
		if previousValue > 0 {
			changePercent = roundTo((currentValue-previousValue)/previousValue*100, 1)
		}

		direction := "down"
		if changePercent >= 0 {
			direction = "up"
		}

		trends = append(trends, models.SoilTrend{
			ID:            param.id,
			Parameter:     param.name,
			CurrentValue:  roundTo(currentValue, param.decimals),
			PreviousValue: roundTo(previousValue, param.decimals),
			Change:        roundTo(change, param.decimals),
			ChangePercent: changePercent,
			Trend:         direction,
			Optimal:       param.optimal(currentValue),
		})
	}
	return trends
}

// insights derives up to a handful of narrative findings: one overall
// health note (omitted when the delta is exactly zero), one per
// parameter whose trend moved more than 5%, and a generic NPK backfill
// when fewer than three exist.
func insights(healthChange float64, trends []models.SoilTrend, period models.AnalyticsPeriod) []models.Insight {
	result := []models.Insight{}

	if healthChange > 0 {
		result = append(result, models.Insight{
			ID:    "1",
			Title: "Improving Soil Health",
			Description: fmt.Sprintf(
				"Your overall soil health score has improved by %.1f%% in the last %s. Continue maintaining current practices.",
				healthChange, period),
			Priority: models.PriorityHigh,
		})
	} else if healthChange < 0 {
		result = append(result, models.Insight{
			ID:    "1",
			Title: "Declining Soil Health",
			Description: fmt.Sprintf(
				"Your overall soil health score has decreased by %.1f%% in the last %s. Review your soil management practices.",
				math.Abs(healthChange), period),
			Priority: models.PriorityHigh,
		})
	}

	for _, trend := range trends {
		if math.Abs(trend.ChangePercent) <= 5 {
			continue
		}

		direction := "decreased"
		titleWord := "Decrease"
		if trend.Trend == "up" {
			direction = "increased"
			titleWord = "Increase"
		}

		priority := models.PriorityLow
		if !trend.Optimal || math.Abs(trend.ChangePercent) > 15 {
			priority = models.PriorityMedium
		}

		rangeNote := "This is outside the optimal range."
		if trend.Optimal {
			rangeNote = "This is within the optimal range."
		}

		name := capitalize(trend.Parameter)
		result = append(result, models.Insight{
			ID:    strconv.Itoa(len(result) + 2),
			Title: fmt.Sprintf("%s %s", name, titleWord),
			Description: fmt.Sprintf("%s has %s by %s%% in the last %s. %s",
				name, direction, formatPercent(math.Abs(trend.ChangePercent)), period, rangeNote),
			Priority: priority,
		})
	}

	if len(result) < 3 {
		if hasOptimalNPK(trends) && !mentionsNPK(result) {
			result = append(result, models.Insight{
				ID:          strconv.Itoa(len(result) + 2),
				Title:       "Optimal NPK Levels",
				Description: "Your NPK levels are within optimal ranges, supporting healthy crop growth and yield potential.",
				Priority:    models.PriorityLow,
			})
		}
	}

	return result
}

func hasOptimalNPK(trends []models.SoilTrend) bool {
	for _, trend := range trends {
		switch trend.Parameter {
		case "nitrogen", "phosphorus", "potassium":
			if trend.Optimal {
				return true
			}
		}
	}
	return false
}

func mentionsNPK(insights []models.Insight) bool {
	for _, insight := range insights {
		if strings.Contains(insight.Title, "NPK") {
			return true
		}
	}
	return false
}

func filterByFarm(data []models.SoilData, farmID uuid.UUID) []models.SoilData {
	out := []models.SoilData{}
	for _, d := range data {
		if d.FarmID == farmID {
			out = append(out, d)
		}
	}
	return out
}

func average(data []models.SoilData, value func(models.SoilData) float64) float64 {
	sum := 0.0
	for _, d := range data {
		sum += value(d)
	}
	return sum / float64(len(data))
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
