package store

import (
	"context"
	"fmt"
	"time"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/pkg/database"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// SignalStore reads surveillance signal rows.
type SignalStore struct {
	db     *database.DB
	logger *logger.Logger
}

// FieldReportsSince returns field reports in scope reported on or after
// since, newest first. limit 0 means no cap.
func (s *SignalStore) FieldReportsSince(ctx context.Context, scope contracts.Scope, since time.Time, limit int) ([]contracts.FieldReport, error) {
	filter, args := scopeFilter(scope, "district", 2)
	query := fmt.Sprintf(`
		SELECT district, block_name, report_type, severity, source_role, reported_at
		FROM field_reports
		WHERE reported_at >= $1 AND %s
		ORDER BY reported_at DESC`, filter)
	queryArgs := append([]interface{}{since}, args...)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(queryArgs)+1)
		queryArgs = append(queryArgs, limit)
	}

	rows, err := s.db.Pool.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query field reports: %w", err)
	}
	defer rows.Close()

	var reports []contracts.FieldReport
	for rows.Next() {
		var report contracts.FieldReport
		var reportType string
		if err := rows.Scan(&report.District, &report.BlockName, &reportType,
			&report.Severity, &report.SourceRole, &report.ReportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan field report: %w", err)
		}
		report.ReportType = contracts.ReportType(reportType)
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// AttendanceSignalsSince returns daily attendance signal rows in scope.
func (s *SignalStore) AttendanceSignalsSince(ctx context.Context, scope contracts.Scope, since time.Time) ([]contracts.AttendanceSignalDaily, error) {
	filter, args := scopeFilter(scope, "district", 2)
	query := fmt.Sprintf(`
		SELECT district, block_name, date, schools_reporting,
		       attendance_drop_pct, symptom_cluster_index, env_risk_delta
		FROM attendance_signals_daily
		WHERE date >= $1 AND %s
		ORDER BY date ASC`, filter)

	rows, err := s.db.Pool.Query(ctx, query, append([]interface{}{since}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance signals: %w", err)
	}
	defer rows.Close()

	var signals []contracts.AttendanceSignalDaily
	for rows.Next() {
		var signal contracts.AttendanceSignalDaily
		if err := rows.Scan(&signal.District, &signal.BlockName, &signal.Date,
			&signal.SchoolsReporting, &signal.AttendanceDropPct,
			&signal.SymptomClusterIndex, &signal.EnvRiskDelta); err != nil {
			return nil, fmt.Errorf("failed to scan attendance signal: %w", err)
		}
		signals = append(signals, signal)
	}
	return signals, rows.Err()
}

func (s *SignalStore) queryAlerts(ctx context.Context, query string, args []interface{}) ([]contracts.EnvironmentalAlert, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []contracts.EnvironmentalAlert
	for rows.Next() {
		var alert contracts.EnvironmentalAlert
		var status string
		if err := rows.Scan(&alert.District, &alert.AlertType, &alert.Severity,
			&alert.StartsAt, &alert.EndsAt, &status); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alert.Status = contracts.AlertStatus(status)
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

// ActiveAlerts returns ACTIVE alerts ending on or after now, severity desc
// then start desc, capped at limit.
func (s *SignalStore) ActiveAlerts(ctx context.Context, scope contracts.Scope, now time.Time, limit int) ([]contracts.EnvironmentalAlert, error) {
	filter, args := scopeFilter(scope, "district", 3)
	query := fmt.Sprintf(`
		SELECT district, alert_type, severity, starts_at, ends_at, status
		FROM environmental_alerts
		WHERE status = 'ACTIVE' AND ends_at >= $1 AND %s
		ORDER BY severity DESC, starts_at DESC
		LIMIT $2`, filter)
	return s.queryAlerts(ctx, query, append([]interface{}{now, limit}, args...))
}

// AlertsEndingAfter returns alerts of any status ending after now.
func (s *SignalStore) AlertsEndingAfter(ctx context.Context, scope contracts.Scope, now time.Time, limit int) ([]contracts.EnvironmentalAlert, error) {
	filter, args := scopeFilter(scope, "district", 3)
	query := fmt.Sprintf(`
		SELECT district, alert_type, severity, starts_at, ends_at, status
		FROM environmental_alerts
		WHERE ends_at >= $1 AND %s
		ORDER BY severity DESC, starts_at DESC
		LIMIT $2`, filter)
	return s.queryAlerts(ctx, query, append([]interface{}{now, limit}, args...))
}
