package national

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
}

func (f *fakeClimateRepo) SamplesSince(context.Context, contracts.Scope, time.Time) ([]contracts.ClimateSample, error) {
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
	signals []contracts.AttendanceSignalDaily
	alerts  []contracts.EnvironmentalAlert
}

func (f *fakeSignalRepo) FieldReportsSince(context.Context, contracts.Scope, time.Time, int) ([]contracts.FieldReport, error) {
	return f.reports, nil
}

func (f *fakeSignalRepo) AttendanceSignalsSince(context.Context, contracts.Scope, time.Time) ([]contracts.AttendanceSignalDaily, error) {
	return f.signals, nil
}

func (f *fakeSignalRepo) ActiveAlerts(context.Context, contracts.Scope, time.Time, int) ([]contracts.EnvironmentalAlert, error) {
	return f.alerts, nil
}

func (f *fakeSignalRepo) AlertsEndingAfter(context.Context, contracts.Scope, time.Time, int) ([]contracts.EnvironmentalAlert, error) {
	return f.alerts, nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "json"})
}

func testService(schools *fakeSchoolRepo, climate *fakeClimateRepo, signals *fakeSignalRepo) *Service {
	return NewService(schools, climate, signals, &fakeScenarioSim{}, testLogger())
}

func districtSchool(district string, scores ...float64) contracts.School {
	return contracts.School{ID: district + "-1", District: district, StudentScores: scores}
}

func TestOverviewRanksDistricts(t *testing.T) {
	now := time.Now().UTC()
	schools := &fakeSchoolRepo{schools: []contracts.School{
		districtSchool("Nagpur", 0.8, 0.7),
		districtSchool("Pune", 0.5),
		districtSchool("Satara", 0.2, 0.3),
	}}
	climate := &fakeClimateRepo{samples: []contracts.ClimateSample{
		{District: "Nagpur", Date: now.AddDate(0, 0, -1), Temperature: 40, AQI: 180, HeatAlertFlag: true},
		{District: "Pune", Date: now.AddDate(0, 0, -2), Temperature: 34, AQI: 120},
	}}
	signals := &fakeSignalRepo{alerts: []contracts.EnvironmentalAlert{
		{District: "Nagpur", AlertType: "HEATWAVE", Severity: 4, EndsAt: now.AddDate(0, 0, 2), Status: contracts.AlertActive},
	}}

	service := testService(schools, climate, signals)
	overview, err := service.Overview(context.Background(), contracts.Scope{National: true})
	require.NoError(t, err)

	assert.NotEmpty(t, overview.AnalysisID)
	assert.Equal(t, "NATIONAL", overview.Scope)
	assert.Equal(t, 3, overview.DistrictsAnalyzed)
	assert.Equal(t, 1, overview.ActiveOutbreakSignals)
	assert.Equal(t, ModelVersion, overview.ModelVersion)

	require.Len(t, overview.TopVulnerableDistricts, 3)
	assert.Equal(t, "Nagpur", overview.TopVulnerableDistricts[0].District)
	assert.Equal(t, 75.0, overview.TopVulnerableDistricts[0].Score)
	assert.Equal(t, "high", overview.TopVulnerableDistricts[0].Band)
	assert.Equal(t, "Satara", overview.TopVulnerableDistricts[2].District)
	assert.Equal(t, "low", overview.TopVulnerableDistricts[2].Band)

	assert.Equal(t, 1, overview.BandDistribution.High.Count)
	assert.Equal(t, 1, overview.BandDistribution.Moderate.Count)
	assert.Equal(t, 1, overview.BandDistribution.Low.Count)

	assert.GreaterOrEqual(t, overview.HeatImpactIndex, 0.0)
	assert.LessOrEqual(t, overview.HeatImpactIndex, 100.0)
	assert.GreaterOrEqual(t, overview.ClimateResilienceScore, 0.0)
	assert.LessOrEqual(t, overview.ClimateResilienceScore, 100.0)
	assert.Contains(t, overview.Explainability.Contributors, "districtRisk")
	assert.Contains(t, overview.Explainability.Contributors, "complianceSignals")
}

func TestOverviewEmptyScope(t *testing.T) {
	service := testService(&fakeSchoolRepo{}, &fakeClimateRepo{}, &fakeSignalRepo{})

	overview, err := service.Overview(context.Background(), contracts.Scope{National: true})
	require.NoError(t, err)
	assert.Equal(t, 0, overview.DistrictsAnalyzed)
	assert.Empty(t, overview.TopVulnerableDistricts)
	assert.Equal(t, 0, overview.BandDistribution.High.Count)
	assert.Equal(t, 0.0, overview.BandDistribution.High.Percentage)
}

func TestBandFromScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{85, "high"},
		{70, "high"},
		{69.9, "moderate"},
		{40, "moderate"},
		{39.9, "low"},
		{0, "low"},
	}
	for _, tt := range tests {
		if got := bandFromScore(tt.score); got != tt.want {
			t.Errorf("bandFromScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
