// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/swasthyasetu/risk-engine/internal/ingest"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// ClimateJob ingests a climate reading per district every six hours and
// then rescores every student against the fresh readings.
type ClimateJob struct {
	ingestor     *ingest.Ingestor
	recalculator *ingest.Recalculator
	logger       *logger.Logger
}

// NewClimateJob creates the climate ingestion job.
func NewClimateJob(ingestor *ingest.Ingestor, recalculator *ingest.Recalculator, log *logger.Logger) *ClimateJob {
	return &ClimateJob{ingestor: ingestor, recalculator: recalculator, logger: log}
}

// Name returns the job name.
func (j *ClimateJob) Name() string {
	return "climate_ingestion"
}

// Schedule runs every six hours.
func (j *ClimateJob) Schedule() string {
	return "0 0 */6 * * *"
}

// Run ingests one reading per district and recalculates student risk.
func (j *ClimateJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled climate ingestion")

	if err := j.ingestor.IngestOnce(ctx); err != nil {
		return fmt.Errorf("climate ingestion: %w", err)
	}

	updated, err := j.recalculator.RecalculateAll(ctx)
	if err != nil {
		return fmt.Errorf("risk recalculation: %w", err)
	}

	j.logger.WithField("students_updated", updated).Info("Scheduled climate cycle completed")
	return nil
}
