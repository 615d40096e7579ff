package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/pkg/database"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// SchoolStore reads school aggregates with student scores and geo profiles.
type SchoolStore struct {
	db     *database.DB
	logger *logger.Logger
}

// Schools returns schools in scope with their student risk scores attached.
func (s *SchoolStore) Schools(ctx context.Context, scope contracts.Scope) ([]contracts.School, error) {
	filter, args := scopeFilter(scope, "s.district", 1)

	query := fmt.Sprintf(`
		SELECT s.id, s.name, s.district, s.infra_score,
		       g.school_id, g.latitude, g.longitude, g.block_name, g.ward_name
		FROM schools s
		LEFT JOIN geo_profiles g ON g.school_id = s.id
		WHERE %s
		ORDER BY s.district, s.name`, filter)

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schools: %w", err)
	}
	defer rows.Close()

	var schools []contracts.School
	index := map[string]int{}
	for rows.Next() {
		var school contracts.School
		var geoSchoolID, blockName, wardName *string
		var latitude, longitude *float64
		if err := rows.Scan(&school.ID, &school.Name, &school.District, &school.InfraScore,
			&geoSchoolID, &latitude, &longitude, &blockName, &wardName); err != nil {
			return nil, fmt.Errorf("failed to scan school: %w", err)
		}
		if geoSchoolID != nil && latitude != nil && longitude != nil {
			geo := &contracts.GeoProfile{
				SchoolID:  *geoSchoolID,
				Latitude:  *latitude,
				Longitude: *longitude,
			}
			if blockName != nil {
				geo.BlockName = *blockName
			}
			if wardName != nil {
				geo.WardName = *wardName
			}
			school.Geo = geo
		}
		index[school.ID] = len(schools)
		schools = append(schools, school)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schools: %w", err)
	}

	if err := s.attachStudentScores(ctx, scope, schools, index); err != nil {
		return nil, err
	}
	return schools, nil
}

func (s *SchoolStore) attachStudentScores(ctx context.Context, scope contracts.Scope, schools []contracts.School, index map[string]int) error {
	if len(schools) == 0 {
		return nil
	}

	filter, args := scopeFilter(scope, "sc.district", 1)
	query := fmt.Sprintf(`
		SELECT st.school_id, st.risk_score
		FROM students st
		JOIN schools sc ON sc.id = st.school_id
		WHERE %s`, filter)

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query student scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var schoolID string
		var score float64
		if err := rows.Scan(&schoolID, &score); err != nil {
			return fmt.Errorf("failed to scan student score: %w", err)
		}
		if i, ok := index[schoolID]; ok {
			schools[i].StudentScores = append(schools[i].StudentScores, score)
		}
	}
	return rows.Err()
}

// SchoolByID returns a single school or contracts.ErrNotFound.
func (s *SchoolStore) SchoolByID(ctx context.Context, id string) (*contracts.School, error) {
	query := `
		SELECT s.id, s.name, s.district, s.infra_score,
		       g.school_id, g.latitude, g.longitude, g.block_name, g.ward_name
		FROM schools s
		LEFT JOIN geo_profiles g ON g.school_id = s.id
		WHERE s.id = $1`

	var school contracts.School
	var geoSchoolID, blockName, wardName *string
	var latitude, longitude *float64
	err := s.db.Pool.QueryRow(ctx, query, id).Scan(
		&school.ID, &school.Name, &school.District, &school.InfraScore,
		&geoSchoolID, &latitude, &longitude, &blockName, &wardName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query school %s: %w", id, err)
	}

	if geoSchoolID != nil && latitude != nil && longitude != nil {
		geo := &contracts.GeoProfile{SchoolID: *geoSchoolID, Latitude: *latitude, Longitude: *longitude}
		if blockName != nil {
			geo.BlockName = *blockName
		}
		if wardName != nil {
			geo.WardName = *wardName
		}
		school.Geo = geo
	}

	scoreRows, err := s.db.Pool.Query(ctx,
		`SELECT risk_score FROM students WHERE school_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query school students: %w", err)
	}
	defer scoreRows.Close()
	for scoreRows.Next() {
		var score float64
		if err := scoreRows.Scan(&score); err != nil {
			return nil, fmt.Errorf("failed to scan student score: %w", err)
		}
		school.StudentScores = append(school.StudentScores, score)
	}
	if err := scoreRows.Err(); err != nil {
		return nil, err
	}
	return &school, nil
}

// Districts lists distinct district names.
func (s *SchoolStore) Districts(ctx context.Context) ([]string, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT DISTINCT district FROM schools ORDER BY district`)
	if err != nil {
		return nil, fmt.Errorf("failed to query districts: %w", err)
	}
	defer rows.Close()

	var districts []string
	for rows.Next() {
		var district string
		if err := rows.Scan(&district); err != nil {
			return nil, fmt.Errorf("failed to scan district: %w", err)
		}
		districts = append(districts, district)
	}
	return districts, rows.Err()
}
