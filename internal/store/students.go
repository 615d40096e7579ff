package store

import (
	"context"
	"fmt"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/pkg/database"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// StudentStore reads and updates per-student observations.
type StudentStore struct {
	db     *database.DB
	logger *logger.Logger
}

const studentColumns = `id, school_id, bmi, vaccination_status, attendance_ratio, risk_score`

func scanStudents(rows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
}) ([]contracts.StudentObservation, error) {
	var students []contracts.StudentObservation
	for rows.Next() {
		var student contracts.StudentObservation
		var status string
		if err := rows.Scan(&student.StudentID, &student.SchoolID, &student.BMI,
			&status, &student.AttendanceRatio, &student.RiskScore); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		student.VaccinationStatus = contracts.VaccinationStatus(status)
		students = append(students, student)
	}
	return students, rows.Err()
}

// StudentsBySchool returns all observations for one school.
func (s *StudentStore) StudentsBySchool(ctx context.Context, schoolID string) ([]contracts.StudentObservation, error) {
	rows, err := s.db.Pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM students WHERE school_id = $1`, studentColumns), schoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()
	return scanStudents(rows)
}

// AllStudents returns every student observation.
func (s *StudentStore) AllStudents(ctx context.Context) ([]contracts.StudentObservation, error) {
	rows, err := s.db.Pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM students`, studentColumns))
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()
	return scanStudents(rows)
}

// UpdateRiskScore persists a recomputed composite score.
func (s *StudentStore) UpdateRiskScore(ctx context.Context, studentID string, score float64) error {
	tag, err := s.db.Pool.Exec(ctx,
		`UPDATE students SET risk_score = $1, risk_updated_at = NOW() WHERE id = $2`, score, studentID)
	if err != nil {
		return fmt.Errorf("failed to update risk score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}
