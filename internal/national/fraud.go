package national

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/features"
)

const (
	fraudWindowDays = 30
	fraudFlagLimit  = 15
	fraudReason     = "unusual_reporting_volume"

	fraudGovernanceNotice = "Anomaly signals indicate potential reporting irregularities for audit follow-up; they are not evidence of fraud by themselves."
)

// ReportingAnomaly is one flagged block/report-type reporting stream.
type ReportingAnomaly struct {
	BlockName  string  `json:"blockName"`
	ReportType string  `json:"reportType"`
	Count      int     `json:"count"`
	Threshold  float64 `json:"threshold"`
	Reason     string  `json:"reason"`
}

// FraudScan is the reporting anomaly scan response.
type FraudScan struct {
	AnalysisID       string             `json:"analysisId"`
	Scope            string             `json:"scope"`
	GeneratedAt      time.Time          `json:"generatedAt"`
	WindowDays       int                `json:"windowDays"`
	StreamsAnalyzed  int                `json:"streamsAnalyzed"`
	Anomalies        []ReportingAnomaly `json:"anomalies"`
	ModelVersion     string             `json:"modelVersion"`
	GovernanceNotice string             `json:"governanceNotice"`
}

// ScanReportingAnomalies flags block/report-type streams whose 30-day
// volume exceeds max(3, 1.8x the mean stream volume).
func (s *Service) ScanReportingAnomalies(ctx context.Context, scope contracts.Scope) (*FraudScan, error) {
	now := time.Now().UTC()
	reports, err := s.signals.FieldReportsSince(ctx, scope, now.AddDate(0, 0, -fraudWindowDays), 0)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, report := range reports {
		counts[fmt.Sprintf("%s::%s", report.BlockName, report.ReportType)]++
	}

	values := make([]float64, 0, len(counts))
	for _, count := range counts {
		values = append(values, float64(count))
	}
	threshold := features.Mean(values) * 1.8
	if threshold < 3 {
		threshold = 3
	}

	anomalies := make([]ReportingAnomaly, 0)
	for key, count := range counts {
		if float64(count) <= threshold {
			continue
		}
		block, reportType, _ := strings.Cut(key, "::")
		anomalies = append(anomalies, ReportingAnomaly{
			BlockName:  block,
			ReportType: reportType,
			Count:      count,
			Threshold:  features.Round2(threshold),
			Reason:     fraudReason,
		})
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		if anomalies[i].Count != anomalies[j].Count {
			return anomalies[i].Count > anomalies[j].Count
		}
		return anomalies[i].BlockName < anomalies[j].BlockName
	})
	if len(anomalies) > fraudFlagLimit {
		anomalies = anomalies[:fraudFlagLimit]
	}

	return &FraudScan{
		AnalysisID:       uuid.NewString(),
		Scope:            scope.NationalLabel(),
		GeneratedAt:      now,
		WindowDays:       fraudWindowDays,
		StreamsAnalyzed:  len(counts),
		Anomalies:        anomalies,
		ModelVersion:     ModelVersion,
		GovernanceNotice: fraudGovernanceNotice,
	}, nil
}
