package national

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
)

func reportBurst(block string, reportType contracts.ReportType, count int) []contracts.FieldReport {
	now := time.Now().UTC()
	reports := make([]contracts.FieldReport, 0, count)
	for i := 0; i < count; i++ {
		reports = append(reports, contracts.FieldReport{
			District:   "Pune",
			BlockName:  block,
			ReportType: reportType,
			Severity:   5,
			ReportedAt: now.AddDate(0, 0, -i%20),
		})
	}
	return reports
}

func TestScanReportingAnomaliesFlagsBurst(t *testing.T) {
	var reports []contracts.FieldReport
	reports = append(reports, reportBurst("Hadapsar", contracts.ReportWater, 12)...)
	reports = append(reports, reportBurst("Baner", contracts.ReportWater, 2)...)
	reports = append(reports, reportBurst("Kothrud", contracts.ReportSanitation, 1)...)

	service := testService(&fakeSchoolRepo{}, &fakeClimateRepo{}, &fakeSignalRepo{reports: reports})
	scan, err := service.ScanReportingAnomalies(context.Background(), contracts.Scope{National: true})
	require.NoError(t, err)

	assert.Equal(t, "NATIONAL", scan.Scope)
	assert.Equal(t, fraudWindowDays, scan.WindowDays)
	assert.Equal(t, 3, scan.StreamsAnalyzed)

	// Mean stream volume is 5, so the threshold is 9; only the burst crosses.
	require.Len(t, scan.Anomalies, 1)
	anomaly := scan.Anomalies[0]
	assert.Equal(t, "Hadapsar", anomaly.BlockName)
	assert.Equal(t, "WATER", anomaly.ReportType)
	assert.Equal(t, 12, anomaly.Count)
	assert.Equal(t, 9.0, anomaly.Threshold)
	assert.Equal(t, fraudReason, anomaly.Reason)
}

func TestScanReportingAnomaliesMinimumThreshold(t *testing.T) {
	// One report per stream keeps the mean-based threshold below the floor
	// of 3, so nothing is flagged.
	var reports []contracts.FieldReport
	reports = append(reports, reportBurst("A", contracts.ReportWater, 1)...)
	reports = append(reports, reportBurst("B", contracts.ReportVector, 1)...)

	service := testService(&fakeSchoolRepo{}, &fakeClimateRepo{}, &fakeSignalRepo{reports: reports})
	scan, err := service.ScanReportingAnomalies(context.Background(), contracts.Scope{National: true})
	require.NoError(t, err)

	assert.Empty(t, scan.Anomalies)
	assert.Equal(t, 2, scan.StreamsAnalyzed)
}

func TestScanReportingAnomaliesSortedByCount(t *testing.T) {
	var reports []contracts.FieldReport
	reports = append(reports, reportBurst("Mid", contracts.ReportVector, 20)...)
	reports = append(reports, reportBurst("Zeta", contracts.ReportWater, 18)...)
	reports = append(reports, reportBurst("Alpha", contracts.ReportWater, 18)...)
	for _, block := range []string{"Q1", "Q2", "Q3", "Q4", "Q5"} {
		reports = append(reports, reportBurst(block, contracts.ReportHeat, 1)...)
	}

	service := testService(&fakeSchoolRepo{}, &fakeClimateRepo{}, &fakeSignalRepo{reports: reports})
	scan, err := service.ScanReportingAnomalies(context.Background(), contracts.Scope{National: true})
	require.NoError(t, err)

	// Mean stream volume 7.625 gives a threshold of 13.73; ties on count
	// break by block name.
	require.Len(t, scan.Anomalies, 3)
	assert.Equal(t, "Mid", scan.Anomalies[0].BlockName)
	assert.Equal(t, "Alpha", scan.Anomalies[1].BlockName)
	assert.Equal(t, "Zeta", scan.Anomalies[2].BlockName)
}

func TestScanReportingAnomaliesEmpty(t *testing.T) {
	service := testService(&fakeSchoolRepo{}, &fakeClimateRepo{}, &fakeSignalRepo{})
	scan, err := service.ScanReportingAnomalies(context.Background(), contracts.ParseScope("Pune"))
	require.NoError(t, err)
	assert.Empty(t, scan.Anomalies)
	assert.Equal(t, 0, scan.StreamsAnalyzed)
}
