package geo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/pkg/config"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

type fakeSchoolRepo struct {
	schools []contracts.School
}

func (f *fakeSchoolRepo) Schools(context.Context, contracts.Scope) ([]contracts.School, error) {
	return f.schools, nil
}

func (f *fakeSchoolRepo) SchoolByID(context.Context, string) (*contracts.School, error) {
	return nil, contracts.ErrNotFound
}

func (f *fakeSchoolRepo) Districts(context.Context) ([]string, error) {
	return nil, nil
}

type fakeClimateRepo struct {
	samples []contracts.ClimateSample
	since   time.Time
}

func (f *fakeClimateRepo) SamplesSince(_ context.Context, _ contracts.Scope, since time.Time) ([]contracts.ClimateSample, error) {
	f.since = since
	return f.samples, nil
}

func (f *fakeClimateRepo) History(context.Context, contracts.Scope, int) ([]contracts.ClimateSample, error) {
	return f.samples, nil
}

func (f *fakeClimateRepo) Append(context.Context, contracts.ClimateSample) error {
	return nil
}

type fakeSignalRepo struct {
	reports []contracts.FieldReport
}

func (f *fakeSignalRepo) FieldReportsSince(context.Context, contracts.Scope, time.Time, int) ([]contracts.FieldReport, error) {
	return f.reports, nil
}

func (f *fakeSignalRepo) AttendanceSignalsSince(context.Context, contracts.Scope, time.Time) ([]contracts.AttendanceSignalDaily, error) {
	return nil, nil
}

func (f *fakeSignalRepo) ActiveAlerts(context.Context, contracts.Scope, time.Time, int) ([]contracts.EnvironmentalAlert, error) {
	return nil, nil
}

func (f *fakeSignalRepo) AlertsEndingAfter(context.Context, contracts.Scope, time.Time, int) ([]contracts.EnvironmentalAlert, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "json"})
}

func school(id, block string, lat, lng, avgRisk float64) contracts.School {
	return contracts.School{
		ID:            id,
		Name:          "GPS " + block,
		District:      "Pune",
		InfraScore:    60,
		StudentScores: []float64{avgRisk},
		Geo:           &contracts.GeoProfile{SchoolID: id, Latitude: lat, Longitude: lng, BlockName: block},
	}
}

func TestClusterCount(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{1, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
		{20, 4},
	}
	for _, tt := range tests {
		if got := clusterCount(tt.points); got != tt.want {
			t.Errorf("clusterCount(%d) = %d, want %d", tt.points, got, tt.want)
		}
	}
}

func TestClusterGroupsNearbyPoints(t *testing.T) {
	type p struct{ lat, lng float64 }
	points := []p{
		{18.50, 73.80}, {18.51, 73.81},
		{21.10, 79.05}, {21.11, 79.06},
	}

	clusters := Cluster(points, func(pt p) (float64, float64) { return pt.lat, pt.lng })
	require.Len(t, clusters, 2)

	total := 0
	for _, cluster := range clusters {
		assert.NotEmpty(t, cluster)
		total += len(cluster)
	}
	assert.Equal(t, len(points), total)
}

func TestClusterEmptyInput(t *testing.T) {
	clusters := Cluster(nil, func(s contracts.School) (float64, float64) { return 0, 0 })
	assert.Nil(t, clusters)
}

func TestHotspotsGradesWaterCluster(t *testing.T) {
	now := time.Now().UTC()
	schools := &fakeSchoolRepo{schools: []contracts.School{
		school("s1", "Hadapsar", 18.50, 73.92, 0.72),
		school("s2", "Hadapsar", 18.51, 73.93, 0.66),
		{ID: "s3", Name: "No Geo School", District: "Pune", StudentScores: []float64{0.5}},
	}}
	signals := &fakeSignalRepo{reports: []contracts.FieldReport{
		{District: "Pune", BlockName: "Hadapsar", ReportType: contracts.ReportWater, Severity: 8, ReportedAt: now.AddDate(0, 0, -2)},
		{District: "Pune", BlockName: "Hadapsar", ReportType: contracts.ReportWater, Severity: 7, ReportedAt: now.AddDate(0, 0, -3)},
	}}
	climate := &fakeClimateRepo{samples: []contracts.ClimateSample{
		{District: "Pune", Date: now.AddDate(0, 0, -1), Temperature: 33},
	}}

	service := NewService(schools, climate, signals, nil, testLogger())
	result, err := service.Hotspots(context.Background(), contracts.ParseScope("Pune"), 0)
	require.NoError(t, err)

	assert.NotEmpty(t, result.AnalysisID)
	assert.Equal(t, defaultWindowDays, result.WindowDays)
	assert.Equal(t, 2, result.SchoolsAnalyzed)
	assert.Equal(t, ModelVersion, result.ModelVersion)
	require.NotEmpty(t, result.Hotspots)

	var waterHotspot *Hotspot
	for i := range result.Hotspots {
		if result.Hotspots[i].HotspotType == TypeWaterContamination {
			waterHotspot = &result.Hotspots[i]
			break
		}
	}
	require.NotNil(t, waterHotspot)
	assert.Equal(t, 2, waterHotspot.ReportCount)
	// avgRisk 0.72, mean report severity 7.5: 0.72*100*0.62 + 7.5*0.38.
	assert.InDelta(t, 47.49, waterHotspot.Severity, 0.001)
	assert.GreaterOrEqual(t, waterHotspot.Confidence, 52.0)
	assert.LessOrEqual(t, waterHotspot.Confidence, 96.0)
	assert.Equal(t, 75.0, waterHotspot.Contributors.FieldReportSignal)
}

func TestHotspotsSortedBySeverity(t *testing.T) {
	schools := &fakeSchoolRepo{schools: []contracts.School{
		school("s1", "A", 18.50, 73.80, 0.9),
		school("s2", "A", 18.51, 73.81, 0.85),
		school("s3", "B", 21.10, 79.05, 0.2),
		school("s4", "B", 21.11, 79.06, 0.25),
	}}
	climate := &fakeClimateRepo{}
	service := NewService(schools, climate, &fakeSignalRepo{}, nil, testLogger())

	result, err := service.Hotspots(context.Background(), contracts.ParseScope("Pune"), 14)
	require.NoError(t, err)
	require.Len(t, result.Hotspots, 2)
	assert.GreaterOrEqual(t, result.Hotspots[0].Severity, result.Hotspots[1].Severity)
	assert.Equal(t, 14, result.WindowDays)

	// Climate rows come from the same lookback as the field reports.
	wantSince := time.Now().UTC().AddDate(0, 0, -14)
	assert.WithinDuration(t, wantSince, climate.since, time.Minute)
}

func TestClimateHeatExposureIsAlertRatio(t *testing.T) {
	assert.Equal(t, 0.0, climateHeatExposure(nil))

	samples := []contracts.ClimateSample{
		{Temperature: 44, HeatAlertFlag: true},
		{Temperature: 41, HeatAlertFlag: false},
		{Temperature: 39, HeatAlertFlag: false},
		{Temperature: 45, HeatAlertFlag: true},
	}
	assert.Equal(t, 0.5, climateHeatExposure(samples))

	// Hot rows without the alert flag do not count toward exposure.
	assert.Equal(t, 0.0, climateHeatExposure([]contracts.ClimateSample{{Temperature: 46}}))
}

func TestInferHotspotTypePrecedence(t *testing.T) {
	tests := []struct {
		name         string
		reportTypes  map[contracts.ReportType]bool
		avgRisk      float64
		heatExposure float64
		want         string
	}{
		{"water wins over vector", map[contracts.ReportType]bool{contracts.ReportWater: true, contracts.ReportVector: true}, 0.9, 0.9, TypeWaterContamination},
		{"vector over heat", map[contracts.ReportType]bool{contracts.ReportVector: true}, 0.2, 0.9, TypeVectorExposure},
		{"heat by exposure", nil, 0.2, 0.6, TypeHeatVulnerability},
		{"heat by report", map[contracts.ReportType]bool{contracts.ReportHeat: true}, 0.2, 0.1, TypeHeatVulnerability},
		{"high risk cluster", nil, 0.6, 0.1, TypeHighRiskCluster},
		{"monitoring default", nil, 0.3, 0.1, TypeMonitoring},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inferHotspotType(tt.reportTypes, tt.avgRisk, tt.heatExposure)
			if got != tt.want {
				t.Errorf("inferHotspotType() = %q, want %q", got, tt.want)
			}
		})
	}
}
