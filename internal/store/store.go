// Package store implements the repository contracts on PostgreSQL.
package store

import (
	"fmt"
	"strings"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/pkg/database"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// Store bundles all repository implementations over one connection pool.
type Store struct {
	Schools         *SchoolStore
	Students        *StudentStore
	Climate         *ClimateStore
	Signals         *SignalStore
	Recommendations *RecommendationStore
}

// New wires every repository on the shared pool.
func New(db *database.DB, log *logger.Logger) *Store {
	return &Store{
		Schools:         &SchoolStore{db: db, logger: log},
		Students:        &StudentStore{db: db, logger: log},
		Climate:         &ClimateStore{db: db, logger: log},
		Signals:         &SignalStore{db: db, logger: log},
		Recommendations: &RecommendationStore{db: db, logger: log},
	}
}

// scopeFilter builds a WHERE fragment matching the scope's district name
// variants by case-insensitive substring on the given column. A national
// scope matches everything. Placeholders start at argIndex.
func scopeFilter(scope contracts.Scope, column string, argIndex int) (string, []interface{}) {
	variants := scope.Variants()
	if scope.National || len(variants) == 0 {
		return "TRUE", nil
	}

	clauses := make([]string, 0, len(variants))
	args := make([]interface{}, 0, len(variants))
	for i, variant := range variants {
		clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", column, argIndex+i))
		args = append(args, "%"+variant+"%")
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}
