package ingest

import (
	"context"
	"time"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/risk"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// Climate defaults used when a district has no recent samples.
const (
	defaultTemperature = 32.0
	defaultAQI         = 120
)

// Recalculator rescores every student against the latest district climate.
type Recalculator struct {
	schools  contracts.SchoolRepository
	students contracts.StudentRepository
	climate  contracts.ClimateRepository
	provider risk.ScoreProvider
	logger   *logger.Logger
}

// NewRecalculator wires the batch rescoring pass.
func NewRecalculator(
	schools contracts.SchoolRepository,
	students contracts.StudentRepository,
	climate contracts.ClimateRepository,
	provider risk.ScoreProvider,
	log *logger.Logger,
) *Recalculator {
	return &Recalculator{
		schools:  schools,
		students: students,
		climate:  climate,
		provider: provider,
		logger:   log,
	}
}

// RecalculateAll rescores all students school by school, using each
// school district's newest climate sample. Per-student failures are
// logged and skipped; the pass reports how many scores were updated.
func (r *Recalculator) RecalculateAll(ctx context.Context) (int, error) {
	schools, err := r.schools.Schools(ctx, contracts.Scope{National: true})
	if err != nil {
		return 0, err
	}

	type districtClimate struct {
		temperature float64
		aqi         int
	}
	climateByDistrict := map[string]districtClimate{}
	now := time.Now().UTC()

	updated := 0
	for _, school := range schools {
		conditions, ok := climateByDistrict[school.District]
		if !ok {
			conditions = districtClimate{temperature: defaultTemperature, aqi: defaultAQI}
			samples, err := r.climate.SamplesSince(ctx,
				contracts.Scope{District: school.District}, now.AddDate(0, 0, -7))
			if err != nil {
				r.logger.WithError(err).WithField("district", school.District).Warn("Failed to load district climate")
			} else if len(samples) > 0 {
				conditions = districtClimate{temperature: samples[0].Temperature, aqi: samples[0].AQI}
			}
			climateByDistrict[school.District] = conditions
		}

		students, err := r.students.StudentsBySchool(ctx, school.ID)
		if err != nil {
			r.logger.WithError(err).WithField("school_id", school.ID).Error("Failed to load students")
			continue
		}

		for _, student := range students {
			result, err := r.provider.Score(ctx, risk.Input{
				BMI:               student.BMI,
				VaccinationStatus: string(student.VaccinationStatus),
				Temperature:       conditions.temperature,
				AQI:               conditions.aqi,
				AttendanceRatio:   student.AttendanceRatio,
			})
			if err != nil {
				r.logger.WithError(err).WithField("student_id", student.StudentID).Error("Failed to score student")
				continue
			}
			if err := r.students.UpdateRiskScore(ctx, student.StudentID, result.Score); err != nil {
				r.logger.WithError(err).WithField("student_id", student.StudentID).Error("Failed to persist risk score")
				continue
			}
			updated++
		}
	}

	r.logger.WithField("students_updated", updated).Info("Student risk recalculation completed")
	return updated, nil
}
