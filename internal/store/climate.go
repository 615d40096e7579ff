package store

import (
	"context"
	"fmt"
	"time"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/pkg/database"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// ClimateStore reads and appends the per-district climate series.
type ClimateStore struct {
	db     *database.DB
	logger *logger.Logger
}

func scanClimate(rows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
}) ([]contracts.ClimateSample, error) {
	var samples []contracts.ClimateSample
	for rows.Next() {
		var sample contracts.ClimateSample
		if err := rows.Scan(&sample.District, &sample.Date, &sample.Temperature,
			&sample.AQI, &sample.HeatAlertFlag); err != nil {
			return nil, fmt.Errorf("failed to scan climate sample: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// SamplesSince returns climate rows in scope on or after since, newest first.
func (s *ClimateStore) SamplesSince(ctx context.Context, scope contracts.Scope, since time.Time) ([]contracts.ClimateSample, error) {
	filter, args := scopeFilter(scope, "district", 2)
	query := fmt.Sprintf(`
		SELECT district, date, temperature, aqi, heat_alert_flag
		FROM climate_samples
		WHERE date >= $1 AND %s
		ORDER BY date DESC`, filter)

	rows, err := s.db.Pool.Query(ctx, query, append([]interface{}{since}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query climate samples: %w", err)
	}
	defer rows.Close()
	return scanClimate(rows)
}

// History returns up to limit rows in scope, oldest first.
func (s *ClimateStore) History(ctx context.Context, scope contracts.Scope, limit int) ([]contracts.ClimateSample, error) {
	filter, args := scopeFilter(scope, "district", 2)
	query := fmt.Sprintf(`
		SELECT district, date, temperature, aqi, heat_alert_flag
		FROM (
			SELECT district, date, temperature, aqi, heat_alert_flag
			FROM climate_samples
			WHERE %s
			ORDER BY date DESC
			LIMIT $1
		) recent
		ORDER BY date ASC`, filter)

	rows, err := s.db.Pool.Query(ctx, query, append([]interface{}{limit}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query climate history: %w", err)
	}
	defer rows.Close()
	return scanClimate(rows)
}

// Append inserts one ingestion-cycle row.
func (s *ClimateStore) Append(ctx context.Context, sample contracts.ClimateSample) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO climate_samples (district, date, temperature, aqi, heat_alert_flag)
		VALUES ($1, $2, $3, $4, $5)`,
		sample.District, sample.Date, sample.Temperature, sample.AQI, sample.HeatAlertFlag)
	if err != nil {
		return fmt.Errorf("failed to append climate sample: %w", err)
	}
	return nil
}
