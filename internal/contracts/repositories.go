package contracts

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound signals a direct single-entity lookup with no matching row.
// Aggregations never return it; they yield neutral results instead.
var ErrNotFound = errors.New("not found")

// SchoolRepository reads school aggregates with student risk scores.
type SchoolRepository interface {
	// Schools returns schools in scope with their student risk scores and
	// geo profile when present.
	Schools(ctx context.Context, scope Scope) ([]School, error)
	// SchoolByID returns a single school or ErrNotFound.
	SchoolByID(ctx context.Context, id string) (*School, error)
	// Districts lists distinct district names.
	Districts(ctx context.Context) ([]string, error)
}

// StudentRepository reads and updates per-student observations.
type StudentRepository interface {
	StudentsBySchool(ctx context.Context, schoolID string) ([]StudentObservation, error)
	AllStudents(ctx context.Context) ([]StudentObservation, error)
	UpdateRiskScore(ctx context.Context, studentID string, score float64) error
}

// ClimateRepository reads and appends the per-district climate series.
type ClimateRepository interface {
	// SamplesSince returns climate rows in scope on or after since,
	// newest first.
	SamplesSince(ctx context.Context, scope Scope, since time.Time) ([]ClimateSample, error)
	// History returns up to limit rows in scope, oldest first.
	History(ctx context.Context, scope Scope, limit int) ([]ClimateSample, error)
	// Append inserts one ingestion-cycle row.
	Append(ctx context.Context, sample ClimateSample) error
}

// SignalRepository reads surveillance signal rows.
type SignalRepository interface {
	// FieldReportsSince returns field reports in scope reported on or after
	// since, newest first, capped at limit (0 means no cap).
	FieldReportsSince(ctx context.Context, scope Scope, since time.Time, limit int) ([]FieldReport, error)
	// AttendanceSignalsSince returns daily attendance signal rows in scope.
	AttendanceSignalsSince(ctx context.Context, scope Scope, since time.Time) ([]AttendanceSignalDaily, error)
	// ActiveAlerts returns ACTIVE alerts ending on or after now, severity
	// desc then start desc, capped at limit.
	ActiveAlerts(ctx context.Context, scope Scope, now time.Time, limit int) ([]EnvironmentalAlert, error)
	// AlertsEndingAfter returns alerts of any status ending after now.
	AlertsEndingAfter(ctx context.Context, scope Scope, now time.Time, limit int) ([]EnvironmentalAlert, error)
}

// RecommendationRepository reads stored resource recommendations.
type RecommendationRepository interface {
	// Recent returns up to limit recommendations in scope ordered by stored
	// priority desc then recommended date asc.
	Recent(ctx context.Context, scope Scope, limit int) ([]ResourceRecommendation, error)
	// Newest returns up to limit recommendations ordered by recommended
	// date desc.
	Newest(ctx context.Context, scope Scope, limit int) ([]ResourceRecommendation, error)
}
