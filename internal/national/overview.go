// Package national rolls district risk up to the multi-district and
// national views: vulnerability rankings, climate-health trend
// correlations, policy scenario estimates, and reporting anomaly scans.
package national

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/features"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// ModelVersion tags national aggregation responses.
const ModelVersion = "multi-district-risk-aggregation-v1"

// GovernanceNotice is attached to every national overview response.
const GovernanceNotice = "Preventive intelligence only. Outputs guide climate-health policy planning and do not diagnose disease."

const (
	overviewClimateDays = 30
	overviewAlertLimit  = 20
	topDistrictLimit    = 10
)

// DistrictScore is one district's aggregated risk entry.
type DistrictScore struct {
	District string  `json:"district"`
	Score    float64 `json:"score"`
	Band     string  `json:"band"`
}

// BandBucket is one band of the district risk distribution.
type BandBucket struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// BandDistribution buckets districts into risk bands.
type BandDistribution struct {
	High     BandBucket `json:"high"`
	Moderate BandBucket `json:"moderate"`
	Low      BandBucket `json:"low"`
}

// Explainability surfaces the rollup model and its contributors.
type Explainability struct {
	Model        string             `json:"model"`
	Contributors map[string]float64 `json:"contributors"`
}

// Overview is the national climate-health rollup.
type Overview struct {
	AnalysisID             string           `json:"analysisId"`
	Scope                  string           `json:"scope"`
	GeneratedAt            time.Time        `json:"generatedAt"`
	TopVulnerableDistricts []DistrictScore  `json:"topVulnerableDistricts"`
	BandDistribution       BandDistribution `json:"bandDistribution"`
	DistrictsAnalyzed      int              `json:"districtsAnalyzed"`
	HeatImpactIndex        float64          `json:"heatImpactIndex"`
	AqiImpactTrend         float64          `json:"aqiImpactTrend"`
	ClimateResilienceScore float64          `json:"climateResilienceScore"`
	ActiveOutbreakSignals  int              `json:"activeOutbreakSignals"`
	Explainability         Explainability   `json:"explainability"`
	ModelVersion           string           `json:"modelVersion"`
	GovernanceNotice       string           `json:"governanceNotice"`
}

// Service computes national rollups from the signal repositories and
// delegates policy what-ifs to the district scenario simulator.
type Service struct {
	schools   contracts.SchoolRepository
	climate   contracts.ClimateRepository
	signals   contracts.SignalRepository
	scenarios ScenarioSimulator
	logger    *logger.Logger
}

// NewService wires the national rollup service.
func NewService(
	schools contracts.SchoolRepository,
	climate contracts.ClimateRepository,
	signals contracts.SignalRepository,
	scenarios ScenarioSimulator,
	log *logger.Logger,
) *Service {
	return &Service{schools: schools, climate: climate, signals: signals, scenarios: scenarios, logger: log}
}

// Overview aggregates per-district risk, climate pressure, and outbreak
// signals into the national dashboard payload.
func (s *Service) Overview(ctx context.Context, scope contracts.Scope) (*Overview, error) {
	now := time.Now().UTC()

	schools, err := s.schools.Schools(ctx, scope)
	if err != nil {
		return nil, err
	}
	climate, err := s.climate.SamplesSince(ctx, scope, now.AddDate(0, 0, -overviewClimateDays))
	if err != nil {
		return nil, err
	}
	alerts, err := s.signals.AlertsEndingAfter(ctx, scope, now, overviewAlertLimit)
	if err != nil {
		return nil, err
	}

	districtScores := scoreDistricts(schools)

	var temps, aqis []float64
	heatAlertRows := 0
	for _, row := range climate {
		temps = append(temps, row.Temperature)
		aqis = append(aqis, float64(row.AQI))
		if row.HeatAlertFlag {
			heatAlertRows++
		}
	}
	avgTemp := features.Mean(temps)
	avgAqi := features.Mean(aqis)

	heatImpact := features.BoundedIn(avgTemp*1.8+float64(heatAlertRows)*1.4, 0, 100)

	var scores []float64
	var inverted []float64
	for _, entry := range districtScores {
		scores = append(scores, entry.Score)
		inverted = append(inverted, 100-entry.Score)
	}
	cappedAqi := avgAqi
	if cappedAqi > 220 {
		cappedAqi = 220
	}
	resilience := features.Bounded(
		features.Mean(inverted)*0.35 + (100-cappedAqi)*0.35 + (100-heatImpact)*0.3)

	top := districtScores
	if len(top) > topDistrictLimit {
		top = top[:topDistrictLimit]
	}

	return &Overview{
		AnalysisID:             uuid.NewString(),
		Scope:                  scope.NationalLabel(),
		GeneratedAt:            now,
		TopVulnerableDistricts: top,
		BandDistribution:       bandDistribution(districtScores),
		DistrictsAnalyzed:      len(districtScores),
		HeatImpactIndex:        heatImpact,
		AqiImpactTrend:         features.Bounded(avgAqi),
		ClimateResilienceScore: resilience,
		ActiveOutbreakSignals:  len(alerts),
		Explainability: Explainability{
			Model: ModelVersion,
			Contributors: map[string]float64{
				"districtRisk":      features.Bounded(features.Mean(scores)),
				"temperature":       features.Bounded(avgTemp * 2),
				"aqi":               features.Bounded(avgAqi),
				"complianceSignals": features.Bounded(float64(len(alerts)) * 3),
			},
		},
		ModelVersion:     ModelVersion,
		GovernanceNotice: GovernanceNotice,
	}, nil
}

// scoreDistricts groups student scores by district and ranks descending.
func scoreDistricts(schools []contracts.School) []DistrictScore {
	byDistrict := map[string][]float64{}
	for _, school := range schools {
		byDistrict[school.District] = append(byDistrict[school.District], school.StudentScores...)
	}

	entries := make([]DistrictScore, 0, len(byDistrict))
	for district, scores := range byDistrict {
		score := features.Bounded(features.Mean(scores) * 100)
		entries = append(entries, DistrictScore{
			District: district,
			Score:    score,
			Band:     bandFromScore(score),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	return entries
}

func bandFromScore(score float64) string {
	switch {
	case score >= 70:
		return "high"
	case score >= 40:
		return "moderate"
	default:
		return "low"
	}
}

func bandDistribution(entries []DistrictScore) BandDistribution {
	var high, moderate, low int
	for _, entry := range entries {
		switch entry.Band {
		case "high":
			high++
		case "moderate":
			moderate++
		default:
			low++
		}
	}
	denom := float64(len(entries))
	if denom < 1 {
		denom = 1
	}
	bucket := func(count int) BandBucket {
		return BandBucket{Count: count, Percentage: features.Bounded(float64(count) / denom * 100)}
	}
	return BandDistribution{High: bucket(high), Moderate: bucket(moderate), Low: bucket(low)}
}
