package national

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
)

func TestTrendsCorrelatesPairedSeries(t *testing.T) {
	now := time.Now().UTC()
	var samples []contracts.ClimateSample
	var signals []contracts.AttendanceSignalDaily
	for i := 0; i < 10; i++ {
		temperature := 30.0 + float64(i)
		samples = append(samples, contracts.ClimateSample{
			District:    "Pune",
			Date:        now.AddDate(0, 0, -10+i),
			Temperature: temperature,
			AQI:         100 + i*10,
		})
		// Hotter days drive larger attendance drops so the heat/absentee
		// correlation is strongly positive.
		signals = append(signals, contracts.AttendanceSignalDaily{
			District:            "Pune",
			BlockName:           "Hadapsar",
			Date:                now.AddDate(0, 0, -10+i),
			AttendanceDropPct:   1.0 + float64(i)*0.8,
			SymptomClusterIndex: 0.1 + float64(i)*0.05,
			EnvRiskDelta:        0.1,
		})
	}

	service := testService(&fakeSchoolRepo{}, &fakeClimateRepo{samples: samples}, &fakeSignalRepo{signals: signals})
	trends, err := service.Trends(context.Background(), contracts.Scope{National: true})
	require.NoError(t, err)

	assert.Equal(t, "NATIONAL", trends.Scope)
	assert.Equal(t, trendWindowDays, trends.WindowDays)
	assert.Equal(t, ModelVersion, trends.ModelVersion)

	assert.Greater(t, trends.Correlations.HeatAbsentee, 0.9)
	assert.Greater(t, trends.Correlations.AqiRespiratory, 0.9)
	assert.GreaterOrEqual(t, trends.Correlations.RainfallMosquito, -1.0)
	assert.LessOrEqual(t, trends.Correlations.RainfallMosquito, 1.0)

	// One trailing chart per correlation pair, built from the climate proxies.
	require.Len(t, trends.TrendSeries.HeatAbsentee, 10)
	assert.Equal(t, 1, trends.TrendSeries.HeatAbsentee[0].T)
	assert.Equal(t, 10, trends.TrendSeries.HeatAbsentee[9].T)
	assert.Equal(t, 60.0, trends.TrendSeries.HeatAbsentee[0].Value)

	require.Len(t, trends.TrendSeries.RainfallMosquito, 10)
	assert.Equal(t, 70.0, trends.TrendSeries.RainfallMosquito[0].Value)

	require.Len(t, trends.TrendSeries.AqiRespiratory, 10)
	assert.Equal(t, 100.0, trends.TrendSeries.AqiRespiratory[0].Value)
	assert.Equal(t, 190.0, trends.TrendSeries.AqiRespiratory[9].Value)
}

func TestTrendsSeriesCappedAtFourteenPoints(t *testing.T) {
	now := time.Now().UTC()
	var samples []contracts.ClimateSample
	for i := 0; i < 30; i++ {
		samples = append(samples, contracts.ClimateSample{
			District:    "Pune",
			Date:        now.AddDate(0, 0, -30+i),
			Temperature: float64(i),
			AQI:         100,
		})
	}

	service := testService(&fakeSchoolRepo{}, &fakeClimateRepo{samples: samples}, &fakeSignalRepo{})
	trends, err := service.Trends(context.Background(), contracts.ParseScope("Pune"))
	require.NoError(t, err)

	require.Len(t, trends.TrendSeries.HeatAbsentee, trendSeriesLen)
	// Last 14 rows of the window: temperatures 16..29, scaled by 2.
	assert.Equal(t, 32.0, trends.TrendSeries.HeatAbsentee[0].Value)
	assert.Equal(t, 58.0, trends.TrendSeries.HeatAbsentee[trendSeriesLen-1].Value)
	assert.Equal(t, 1, trends.TrendSeries.HeatAbsentee[0].T)
	assert.Equal(t, trendSeriesLen, trends.TrendSeries.HeatAbsentee[trendSeriesLen-1].T)

	require.Len(t, trends.TrendSeries.RainfallMosquito, trendSeriesLen)
	require.Len(t, trends.TrendSeries.AqiRespiratory, trendSeriesLen)
}

func TestTrendsEmptyWindow(t *testing.T) {
	service := testService(&fakeSchoolRepo{}, &fakeClimateRepo{}, &fakeSignalRepo{})
	trends, err := service.Trends(context.Background(), contracts.ParseScope("Pune"))
	require.NoError(t, err)

	assert.Empty(t, trends.TrendSeries.RainfallMosquito)
	assert.Empty(t, trends.TrendSeries.HeatAbsentee)
	assert.Empty(t, trends.TrendSeries.AqiRespiratory)
	assert.Equal(t, 0.0, trends.Correlations.HeatAbsentee)
	assert.Equal(t, GovernanceNotice, trends.GovernanceNotice)
}
