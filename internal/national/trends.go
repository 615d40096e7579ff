package national

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/features"
)

const (
	trendWindowDays = 45
	trendSeriesLen  = 14
)

// TrendPoint is one point of the condensed trend series.
type TrendPoint struct {
	T     int     `json:"t"`
	Value float64 `json:"value"`
}

// Correlations are the Pearson coefficients across paired signal series.
type Correlations struct {
	RainfallMosquito float64 `json:"rainfallMosquito"`
	HeatAbsentee     float64 `json:"heatAbsentee"`
	AqiRespiratory   float64 `json:"aqiRespiratory"`
}

// TrendSeries carries the trailing environmental series behind each
// correlation pair, one condensed chart per pair.
type TrendSeries struct {
	RainfallMosquito []TrendPoint `json:"rainfallMosquito"`
	HeatAbsentee     []TrendPoint `json:"heatAbsentee"`
	AqiRespiratory   []TrendPoint `json:"aqiRespiratory"`
}

// Trends is the climate-health correlation response.
type Trends struct {
	AnalysisID       string       `json:"analysisId"`
	Scope            string       `json:"scope"`
	GeneratedAt      time.Time    `json:"generatedAt"`
	WindowDays       int          `json:"windowDays"`
	Correlations     Correlations `json:"correlations"`
	TrendSeries      TrendSeries  `json:"trendSeries"`
	ModelVersion     string       `json:"modelVersion"`
	GovernanceNotice string       `json:"governanceNotice"`
}

// Trends derives proxy series from the climate and attendance signal
// windows and correlates paired environment and health indicators.
func (s *Service) Trends(ctx context.Context, scope contracts.Scope) (*Trends, error) {
	now := time.Now().UTC()
	since := now.AddDate(0, 0, -trendWindowDays)

	climate, err := s.climate.SamplesSince(ctx, scope, since)
	if err != nil {
		return nil, err
	}
	signals, err := s.signals.AttendanceSignalsSince(ctx, scope, since)
	if err != nil {
		return nil, err
	}

	// Oldest first so paired series line up chronologically.
	sort.SliceStable(climate, func(i, j int) bool { return climate[i].Date.Before(climate[j].Date) })
	sort.SliceStable(signals, func(i, j int) bool { return signals[i].Date.Before(signals[j].Date) })

	var rainfall, heat, aqi []float64
	for _, row := range climate {
		rainBase := 60.0
		if row.HeatAlertFlag {
			rainBase = 30.0
		}
		rainfall = append(rainfall, features.BoundedIn(rainBase+math.Max(0, 35-row.Temperature)*2, 0, 100))
		heat = append(heat, features.BoundedIn(row.Temperature*2, 0, 100))
		aqi = append(aqi, features.BoundedIn(float64(row.AQI), 0, 300))
	}

	var mosquito, absentee, respiratory []float64
	for _, row := range signals {
		mosquito = append(mosquito, features.BoundedIn(row.SymptomClusterIndex*100+row.EnvRiskDelta*45, 0, 100))
		absentee = append(absentee, features.BoundedIn(row.AttendanceDropPct*3, 0, 100))
		respiratory = append(respiratory, features.BoundedIn(row.SymptomClusterIndex*120, 0, 100))
	}

	return &Trends{
		AnalysisID:  uuid.NewString(),
		Scope:       scope.NationalLabel(),
		GeneratedAt: now,
		WindowDays:  trendWindowDays,
		Correlations: Correlations{
			RainfallMosquito: features.Pearson(rainfall, mosquito),
			HeatAbsentee:     features.Pearson(heat, absentee),
			AqiRespiratory:   features.Pearson(aqi, respiratory),
		},
		TrendSeries: TrendSeries{
			RainfallMosquito: trailingPoints(rainfall),
			HeatAbsentee:     trailingPoints(heat),
			AqiRespiratory:   trailingPoints(aqi),
		},
		ModelVersion:     ModelVersion,
		GovernanceNotice: GovernanceNotice,
	}, nil
}

// trailingPoints condenses a series to its last entries, re-indexed from 1.
func trailingPoints(series []float64) []TrendPoint {
	if len(series) > trendSeriesLen {
		series = series[len(series)-trendSeriesLen:]
	}
	points := make([]TrendPoint, 0, len(series))
	for i, value := range series {
		points = append(points, TrendPoint{T: i + 1, Value: value})
	}
	return points
}
