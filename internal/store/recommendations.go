package store

import (
	"context"
	"fmt"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/pkg/database"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// RecommendationStore reads stored resource recommendations.
type RecommendationStore struct {
	db     *database.DB
	logger *logger.Logger
}

const recommendationColumns = `id, district, block_name, action_type, priority_score, recommended_date, status, explanation`

func (s *RecommendationStore) query(ctx context.Context, scope contracts.Scope, orderBy string, limit int) ([]contracts.ResourceRecommendation, error) {
	filter, args := scopeFilter(scope, "district", 2)
	query := fmt.Sprintf(`
		SELECT %s
		FROM resource_recommendations
		WHERE %s
		ORDER BY %s
		LIMIT $1`, recommendationColumns, filter, orderBy)

	rows, err := s.db.Pool.Query(ctx, query, append([]interface{}{limit}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var recommendations []contracts.ResourceRecommendation
	for rows.Next() {
		var rec contracts.ResourceRecommendation
		var actionType string
		if err := rows.Scan(&rec.ID, &rec.District, &rec.BlockName, &actionType,
			&rec.PriorityScore, &rec.RecommendedDate, &rec.Status, &rec.Explanation); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		rec.ActionType = contracts.ActionType(actionType)
		recommendations = append(recommendations, rec)
	}
	return recommendations, rows.Err()
}

// Recent returns up to limit recommendations in scope ordered by stored
// priority desc then recommended date asc.
func (s *RecommendationStore) Recent(ctx context.Context, scope contracts.Scope, limit int) ([]contracts.ResourceRecommendation, error) {
	return s.query(ctx, scope, "priority_score DESC, recommended_date ASC", limit)
}

// Newest returns up to limit recommendations ordered by recommended date desc.
func (s *RecommendationStore) Newest(ctx context.Context, scope contracts.Scope, limit int) ([]contracts.ResourceRecommendation, error) {
	return s.query(ctx, scope, "recommended_date DESC", limit)
}
