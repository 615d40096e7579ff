package district

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/features"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
	"github.com/swasthyasetu/risk-engine/pkg/redis"
)

// ModelVersion tags district overview responses.
const ModelVersion = "climate-aware-multi-layer-risk-intelligence-v2"

// Fixed model metadata surfaced for explainability.
const (
	architectureName = "Climate-Aware Multi-Layer Risk Intelligence Model"
	riskModelName    = "RandomForestClassifier"
	anomalyModelName = "Z-Score Anomaly Detection"
	geoModelName     = "K-Means Clustering"

	overviewNotes = "District model predicts preventive climate-linked risk flags to prioritize governance action. It does not diagnose disease."
	// GovernanceNotice is attached to every district overview response.
	GovernanceNotice = "Preventive intelligence only. This dashboard provides district-level risk flags and priorities, not diagnosis."
)

// Signal windows for the overview feature vector.
const (
	climateWindowDays    = 7
	reportWindowDays     = 30
	reportLimit          = 400
	attendanceWindowDays = 14
	recommendationLimit  = 40
	activeAlertLimit     = 10
)

// Models names the sub-models backing each layer.
type Models struct {
	RiskModel       string `json:"riskModel"`
	AnomalyModel    string `json:"anomalyModel"`
	GeospatialModel string `json:"geospatialModel"`
}

// Contributors are the explainable layer scores, each in [0,100].
type Contributors struct {
	EnvironmentalRiskLayer          float64 `json:"environmentalRiskLayer"`
	InstitutionalVulnerabilityLayer float64 `json:"institutionalVulnerabilityLayer"`
	PredictiveAlertLayer            float64 `json:"predictiveAlertLayer"`
	SchoolRiskAggregate             float64 `json:"schoolRiskAggregate"`
}

// RiskBucket is one band of the student risk distribution.
type RiskBucket struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RiskDistribution buckets student risk scores into bands.
type RiskDistribution struct {
	High     RiskBucket `json:"high"`
	Moderate RiskBucket `json:"moderate"`
	Low      RiskBucket `json:"low"`
}

// PriorityZone is one block ranked by composite risk index.
type PriorityZone struct {
	BlockName     string   `json:"blockName"`
	RiskIndex     float64  `json:"riskIndex"`
	AvgSchoolRisk float64  `json:"avgSchoolRisk"`
	ReportLoad    float64  `json:"reportLoad"`
	InfraPenalty  float64  `json:"infraPenalty"`
	SchoolCount   int      `json:"schoolCount"`
	Drivers       []string `json:"drivers"`
}

// AlertView is the active-alert subset surfaced on the overview.
type AlertView struct {
	AlertType string    `json:"alertType"`
	Severity  int       `json:"severity"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
}

// Overview is the full district risk intelligence response.
type Overview struct {
	AnalysisID                 string           `json:"analysisId"`
	District                   string           `json:"district"`
	GeneratedAt                time.Time        `json:"generatedAt"`
	ArchitectureName           string           `json:"architectureName"`
	Layers                     []string         `json:"layers"`
	Models                     Models           `json:"models"`
	DistrictVulnerabilityIndex float64          `json:"districtVulnerabilityIndex"`
	RiskProbability            float64          `json:"riskProbability"`
	Contributors               Contributors     `json:"contributors"`
	RiskDistribution           RiskDistribution `json:"riskDistribution"`
	PriorityZones              []PriorityZone   `json:"priorityZones"`
	FeatureVector              FeatureVector    `json:"featureVector"`
	ActiveAlerts               []AlertView      `json:"activeAlerts"`
	SchoolsAnalyzed            int              `json:"schoolsAnalyzed"`
	Confidence                 float64          `json:"confidence"`
	ModelVersion               string           `json:"modelVersion"`
	Notes                      string           `json:"notes"`
	GovernanceNotice           string           `json:"governanceNotice"`
}

// Service aggregates district risk from the signal repositories.
type Service struct {
	schools         contracts.SchoolRepository
	climate         contracts.ClimateRepository
	signals         contracts.SignalRepository
	recommendations contracts.RecommendationRepository
	cache           *redis.Cache
	logger          *logger.Logger
}

// NewService wires the district aggregator.
func NewService(
	schools contracts.SchoolRepository,
	climate contracts.ClimateRepository,
	signals contracts.SignalRepository,
	recommendations contracts.RecommendationRepository,
	cache *redis.Cache,
	log *logger.Logger,
) *Service {
	return &Service{
		schools:         schools,
		climate:         climate,
		signals:         signals,
		recommendations: recommendations,
		cache:           cache,
		logger:          log,
	}
}

// Overview computes the multi-layer district risk overview. Results are
// cached briefly per district label.
func (s *Service) Overview(ctx context.Context, scope contracts.Scope) (*Overview, error) {
	cacheKey := redis.DistrictOverviewKey(scope.Label())
	if s.cache != nil {
		var cached Overview
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	now := time.Now().UTC()

	schools, err := s.schools.Schools(ctx, scope)
	if err != nil {
		return nil, err
	}
	climate, err := s.climate.SamplesSince(ctx, scope, now.AddDate(0, 0, -climateWindowDays))
	if err != nil {
		return nil, err
	}
	reports, err := s.signals.FieldReportsSince(ctx, scope, now.AddDate(0, 0, -reportWindowDays), reportLimit)
	if err != nil {
		return nil, err
	}
	signals, err := s.signals.AttendanceSignalsSince(ctx, scope, now.AddDate(0, 0, -attendanceWindowDays))
	if err != nil {
		return nil, err
	}
	recommendations, err := s.recommendations.Newest(ctx, scope, recommendationLimit)
	if err != nil {
		return nil, err
	}
	alerts, err := s.signals.ActiveAlerts(ctx, scope, now, activeAlertLimit)
	if err != nil {
		return nil, err
	}

	vector := buildFeatureVector(climate, reports, signals, recommendations, now)
	riskProbability := forestProbability(vector)
	contributors := layerContributors(vector, schools)

	overview := &Overview{
		AnalysisID:       uuid.NewString(),
		District:         scope.Label(),
		GeneratedAt:      now,
		ArchitectureName: architectureName,
		Layers: []string{
			"Layer 1 - Environmental Risk Layer",
			"Layer 2 - Institutional Vulnerability Layer",
			"Layer 3 - Predictive Alert Layer",
		},
		Models: Models{
			RiskModel:       riskModelName,
			AnomalyModel:    anomalyModelName,
			GeospatialModel: geoModelName,
		},
		DistrictVulnerabilityIndex: vulnerabilityIndex(riskProbability, contributors),
		RiskProbability:            riskProbability,
		Contributors:               contributors,
		RiskDistribution:           riskDistribution(schools),
		PriorityZones:              priorityZones(schools, reports),
		FeatureVector:              vector,
		ActiveAlerts:               alertViews(alerts),
		SchoolsAnalyzed:            len(schools),
		Confidence:                 overviewConfidence(len(schools), len(climate)),
		ModelVersion:               ModelVersion,
		Notes:                      overviewNotes,
		GovernanceNotice:           GovernanceNotice,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, overview, redis.TTLMedium); err != nil {
			s.logger.WithError(err).Warn("Failed to cache district overview")
		}
	}
	return overview, nil
}

// layerContributors decomposes district risk into the three model layers
// plus the aggregated school risk.
func layerContributors(v FeatureVector, schools []contracts.School) Contributors {
	environmental := features.Bounded(
		(v.HeatIndex/60)*30 + (v.AQI/300)*35 + ((100-v.WaterQualityScore)/100)*35)
	institutional := features.Bounded(
		((100-v.SanitationScore)/100)*45 + ((100-v.WasteManagementScore)/100)*30 + (v.InspectionDelayDays/30)*25)
	predictive := features.Bounded(
		(v.AttendanceAnomalyPct/100)*35 + (v.SymptomClusterCount/100)*35 + (v.StagnantWaterReports/50)*30)

	return Contributors{
		EnvironmentalRiskLayer:          environmental,
		InstitutionalVulnerabilityLayer: institutional,
		PredictiveAlertLayer:            predictive,
		SchoolRiskAggregate:             features.Bounded(meanStudentScore(schools) * 100),
	}
}

// vulnerabilityIndex fuses the forest probability with the layer scores.
func vulnerabilityIndex(riskProbability float64, c Contributors) float64 {
	return features.Bounded(riskProbability*100*0.55 +
		c.EnvironmentalRiskLayer*0.2 +
		c.InstitutionalVulnerabilityLayer*0.15 +
		c.PredictiveAlertLayer*0.1)
}

func meanStudentScore(schools []contracts.School) float64 {
	var scores []float64
	for _, school := range schools {
		scores = append(scores, school.StudentScores...)
	}
	return features.Mean(scores)
}

// riskDistribution buckets every student score in the district.
func riskDistribution(schools []contracts.School) RiskDistribution {
	var high, moderate, low, total int
	for _, school := range schools {
		for _, score := range school.StudentScores {
			total++
			switch {
			case score >= 0.7:
				high++
			case score >= 0.4:
				moderate++
			default:
				low++
			}
		}
	}

	denom := float64(total)
	if denom < 1 {
		denom = 1
	}
	bucket := func(count int) RiskBucket {
		return RiskBucket{Count: count, Percentage: features.Bounded(float64(count) / denom * 100)}
	}
	return RiskDistribution{High: bucket(high), Moderate: bucket(moderate), Low: bucket(low)}
}

// priorityZones ranks blocks by a composite of school risk, field report
// load, and infrastructure penalty. Top five blocks are returned.
func priorityZones(schools []contracts.School, reports []contracts.FieldReport) []PriorityZone {
	type blockAccum struct {
		scoreTotal float64
		infraTotal float64
		count      int
	}
	blocks := map[string]*blockAccum{}
	for _, school := range schools {
		block := school.BlockName()
		accum, ok := blocks[block]
		if !ok {
			accum = &blockAccum{}
			blocks[block] = accum
		}
		accum.scoreTotal += school.AvgStudentRisk()
		accum.infraTotal += school.InfraScore
		accum.count++
	}

	reportLoad := map[string]float64{}
	for _, report := range reports {
		reportLoad[report.BlockName] += float64(report.Severity)
	}

	zones := make([]PriorityZone, 0, len(blocks))
	for block, accum := range blocks {
		count := accum.count
		if count < 1 {
			count = 1
		}
		avgRisk := accum.scoreTotal / float64(count)
		infraPenalty := features.Bounded(100 - accum.infraTotal/float64(count))
		load := reportLoad[block]

		riskIndex := features.BoundedIn(avgRisk*100*0.58+load*1.6+infraPenalty*0.2, 0, 100)

		var drivers []string
		if avgRisk >= 0.7 {
			drivers = append(drivers, "elevated_school_risk")
		}
		if load > 20 {
			drivers = append(drivers, "high_environmental_signal")
		}
		if infraPenalty > 35 {
			drivers = append(drivers, "institutional_vulnerability")
		}
		if len(drivers) == 0 {
			drivers = append(drivers, "baseline_monitoring")
		}

		zones = append(zones, PriorityZone{
			BlockName:     block,
			RiskIndex:     riskIndex,
			AvgSchoolRisk: features.Bounded(avgRisk * 100),
			ReportLoad:    features.Round2(load),
			InfraPenalty:  infraPenalty,
			SchoolCount:   accum.count,
			Drivers:       drivers,
		})
	}

	sort.SliceStable(zones, func(i, j int) bool { return zones[i].RiskIndex > zones[j].RiskIndex })
	if len(zones) > 5 {
		zones = zones[:5]
	}
	return zones
}

func alertViews(alerts []contracts.EnvironmentalAlert) []AlertView {
	views := make([]AlertView, 0, len(alerts))
	for _, alert := range alerts {
		views = append(views, AlertView{
			AlertType: alert.AlertType,
			Severity:  alert.Severity,
			StartsAt:  alert.StartsAt,
			EndsAt:    alert.EndsAt,
		})
	}
	return views
}

// overviewConfidence grows with data coverage and saturates at 95.
func overviewConfidence(schoolCount, weatherRows int) float64 {
	boost := float64(schoolCount*2 + weatherRows)
	if boost > 35 {
		boost = 35
	}
	return features.BoundedIn(57+boost, 0, 95)
}
