package geo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/features"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
	"github.com/swasthyasetu/risk-engine/pkg/redis"
)

// ModelVersion tags hotspot responses.
const ModelVersion = "geo-hotspot-kmeans-v2"

// GovernanceNotice is attached to every hotspot response.
const GovernanceNotice = "Preventive intelligence only. Hotspot clusters indicate operational priority zones, not disease diagnosis."

// Hotspot type labels, in inference precedence order.
const (
	TypeWaterContamination = "water_contamination_hotspot"
	TypeVectorExposure     = "vector_exposure_zone"
	TypeHeatVulnerability  = "heat_vulnerability_block"
	TypeHighRiskCluster    = "high_risk_school_cluster"
	TypeMonitoring         = "monitoring_cluster"
)

// defaultWindowDays is the field-report lookback when none is requested.
const defaultWindowDays = 30

// fieldReportSignal default when a cluster has no reports in its blocks.
const neutralReportSignal = 20.0

// Centroid is the cluster center.
type Centroid struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HotspotSchool is one school inside a hotspot cluster.
type HotspotSchool struct {
	SchoolID  string  `json:"schoolId"`
	Name      string  `json:"name"`
	BlockName string  `json:"blockName"`
	AvgRisk   float64 `json:"avgRisk"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Contributors decomposes a hotspot's severity for explainability.
type Contributors struct {
	SchoolRisk        float64 `json:"schoolRisk"`
	FieldReportSignal float64 `json:"fieldReportSignal"`
	HeatSignal        float64 `json:"heatSignal"`
}

// Hotspot is one clustered priority zone.
type Hotspot struct {
	ClusterID    string          `json:"clusterId"`
	HotspotType  string          `json:"hotspotType"`
	Severity     float64         `json:"severity"`
	Centroid     Centroid        `json:"centroid"`
	Schools      []HotspotSchool `json:"schools"`
	ReportCount  int             `json:"reportCount"`
	Confidence   float64         `json:"confidence"`
	Contributors Contributors    `json:"contributors"`
}

// Result is the geospatial hotspot response for a scope.
type Result struct {
	AnalysisID       string    `json:"analysisId"`
	District         string    `json:"district"`
	GeneratedAt      time.Time `json:"generatedAt"`
	WindowDays       int       `json:"windowDays"`
	SchoolsAnalyzed  int       `json:"schoolsAnalyzed"`
	Hotspots         []Hotspot `json:"hotspots"`
	ModelVersion     string    `json:"modelVersion"`
	GovernanceNotice string    `json:"governanceNotice"`
}

// Service computes geospatial hotspot clusters.
type Service struct {
	schools contracts.SchoolRepository
	climate contracts.ClimateRepository
	signals contracts.SignalRepository
	cache   *redis.Cache
	logger  *logger.Logger
}

// NewService wires the hotspot service.
func NewService(
	schools contracts.SchoolRepository,
	climate contracts.ClimateRepository,
	signals contracts.SignalRepository,
	cache *redis.Cache,
	log *logger.Logger,
) *Service {
	return &Service{schools: schools, climate: climate, signals: signals, cache: cache, logger: log}
}

// Hotspots clusters geo-tagged schools and grades each cluster by school
// risk, field-report load, and heat exposure. Schools without coordinates
// are skipped.
func (s *Service) Hotspots(ctx context.Context, scope contracts.Scope, windowDays int) (*Result, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}

	cacheKey := redis.HotspotKey(scope.Label(), windowDays)
	if s.cache != nil {
		var cached Result
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	now := time.Now().UTC()

	schools, err := s.schools.Schools(ctx, scope)
	if err != nil {
		return nil, err
	}
	located := make([]contracts.School, 0, len(schools))
	for _, school := range schools {
		if school.Geo != nil {
			located = append(located, school)
		}
	}

	windowStart := now.AddDate(0, 0, -windowDays)
	reports, err := s.signals.FieldReportsSince(ctx, scope, windowStart, 0)
	if err != nil {
		return nil, err
	}
	climate, err := s.climate.SamplesSince(ctx, scope, windowStart)
	if err != nil {
		return nil, err
	}

	heatExposure := climateHeatExposure(climate)

	clusters := Cluster(located, func(school contracts.School) (float64, float64) {
		return school.Geo.Latitude, school.Geo.Longitude
	})

	hotspots := make([]Hotspot, 0, len(clusters))
	for i, cluster := range clusters {
		hotspots = append(hotspots, gradeCluster(fmt.Sprintf("cluster-%d", i+1), cluster, reports, heatExposure))
	}
	sort.SliceStable(hotspots, func(i, j int) bool { return hotspots[i].Severity > hotspots[j].Severity })

	result := &Result{
		AnalysisID:       uuid.NewString(),
		District:         scope.Label(),
		GeneratedAt:      now,
		WindowDays:       windowDays,
		SchoolsAnalyzed:  len(located),
		Hotspots:         hotspots,
		ModelVersion:     ModelVersion,
		GovernanceNotice: GovernanceNotice,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, redis.TTLMedium); err != nil {
			s.logger.WithError(err).Warn("Failed to cache hotspot result")
		}
	}
	return result, nil
}

// climateHeatExposure is the fraction of window climate rows carrying a
// heat alert flag, in [0,1].
func climateHeatExposure(climate []contracts.ClimateSample) float64 {
	if len(climate) == 0 {
		return 0
	}
	flagged := 0
	for _, row := range climate {
		if row.HeatAlertFlag {
			flagged++
		}
	}
	return float64(flagged) / float64(len(climate))
}

// gradeCluster computes severity, type, and confidence for one cluster.
func gradeCluster(clusterID string, cluster []contracts.School, reports []contracts.FieldReport, heatExposure float64) Hotspot {
	blocks := map[string]bool{}
	var latSum, lngSum, riskSum float64
	schoolViews := make([]HotspotSchool, 0, len(cluster))
	for _, school := range cluster {
		blocks[school.BlockName()] = true
		latSum += school.Geo.Latitude
		lngSum += school.Geo.Longitude
		avg := school.AvgStudentRisk()
		riskSum += avg
		schoolViews = append(schoolViews, HotspotSchool{
			SchoolID:  school.ID,
			Name:      school.Name,
			BlockName: school.BlockName(),
			AvgRisk:   features.Bounded(avg * 100),
			Latitude:  school.Geo.Latitude,
			Longitude: school.Geo.Longitude,
		})
	}
	avgRisk := riskSum / float64(len(cluster))

	var severities []float64
	reportTypes := map[contracts.ReportType]bool{}
	for _, report := range reports {
		if !blocks[report.BlockName] {
			continue
		}
		severities = append(severities, float64(report.Severity))
		reportTypes[report.ReportType] = true
	}

	// The raw 0-10 mean severity feeds the severity blend; the x10 scale
	// appears only in the explainability contributor.
	meanSeverity := neutralReportSignal
	reportSignal := neutralReportSignal
	if len(severities) > 0 {
		meanSeverity = features.Mean(severities)
		reportSignal = features.Bounded(meanSeverity * 10)
	}

	severity := features.Bounded(avgRisk*100*0.62 + meanSeverity*0.38)

	return Hotspot{
		ClusterID:   clusterID,
		HotspotType: inferHotspotType(reportTypes, avgRisk, heatExposure),
		Severity:    severity,
		Centroid: Centroid{
			Latitude:  latSum / float64(len(cluster)),
			Longitude: lngSum / float64(len(cluster)),
		},
		Schools:     schoolViews,
		ReportCount: len(severities),
		Confidence:  features.BoundedIn(52+float64(len(cluster))*8+float64(len(severities))*2, 0, 96),
		Contributors: Contributors{
			SchoolRisk:        features.Bounded(avgRisk * 100),
			FieldReportSignal: reportSignal,
			HeatSignal:        features.Bounded(heatExposure * 100),
		},
	}
}

// inferHotspotType labels the cluster by signal precedence: water first,
// then vector, heat, elevated school risk, else monitoring.
func inferHotspotType(reportTypes map[contracts.ReportType]bool, avgRisk, heatExposure float64) string {
	switch {
	case reportTypes[contracts.ReportWater]:
		return TypeWaterContamination
	case reportTypes[contracts.ReportVector]:
		return TypeVectorExposure
	case heatExposure >= 0.5 || reportTypes[contracts.ReportHeat]:
		return TypeHeatVulnerability
	case avgRisk >= 0.58:
		return TypeHighRiskCluster
	default:
		return TypeMonitoring
	}
}
