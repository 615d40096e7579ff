// Package resources re-ranks stored preventive action recommendations by a
// composite of stored severity, block population load, inspection delay,
// and environmental burden.
package resources

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/features"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// ModelVersion tags resource allocation responses.
const ModelVersion = "resource-priority-ranking-v1"

// GovernanceNotice is attached to every allocation response.
const GovernanceNotice = "Priority ranking supports preventive district operations and does not provide medical diagnosis."

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Contributors decomposes a ranked priority score.
type Contributors struct {
	Severity            float64 `json:"severity"`
	PopulationLoad      float64 `json:"populationLoad"`
	DelayPenalty        float64 `json:"delayPenalty"`
	EnvironmentalBurden float64 `json:"environmentalBurden"`
}

// RankedAction is one recommendation with its recomputed priority.
type RankedAction struct {
	RecommendationID string       `json:"recommendationId"`
	BlockName        string       `json:"blockName"`
	ActionType       string       `json:"actionType"`
	ActionLabel      string       `json:"actionLabel"`
	Status           string       `json:"status"`
	RecommendedDate  time.Time    `json:"recommendedDate"`
	DelayDays        int          `json:"delayDays"`
	PriorityScore    float64      `json:"priorityScore"`
	Contributors     Contributors `json:"contributors"`
	Confidence       float64      `json:"confidence"`
	Explanation      string       `json:"explanation"`
}

// Result is the resource allocation ranking response.
type Result struct {
	AnalysisID       string         `json:"analysisId"`
	District         string         `json:"district"`
	GeneratedAt      time.Time      `json:"generatedAt"`
	Actions          []RankedAction `json:"actions"`
	ModelVersion     string         `json:"modelVersion"`
	GovernanceNotice string         `json:"governanceNotice"`
}

// Ranker recomputes recommendation priorities against live block context.
type Ranker struct {
	schools         contracts.SchoolRepository
	recommendations contracts.RecommendationRepository
	logger          *logger.Logger
}

// NewRanker wires the resource ranker.
func NewRanker(schools contracts.SchoolRepository, recommendations contracts.RecommendationRepository, log *logger.Logger) *Ranker {
	return &Ranker{schools: schools, recommendations: recommendations, logger: log}
}

// Rank fetches a wider candidate set than requested, re-scores each
// recommendation, and returns the top limit by recomputed priority.
func (r *Ranker) Rank(ctx context.Context, scope contracts.Scope, limit int) (*Result, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	candidateLimit := clampInt(limit*2, 1, maxLimit)

	now := time.Now().UTC()

	recommendations, err := r.recommendations.Recent(ctx, scope, candidateLimit)
	if err != nil {
		return nil, err
	}
	schools, err := r.schools.Schools(ctx, scope)
	if err != nil {
		return nil, err
	}

	blockSchools := map[string]int{}
	blockRiskSum := map[string]float64{}
	for _, school := range schools {
		block := school.BlockName()
		blockSchools[block]++
		blockRiskSum[block] += school.AvgStudentRisk()
	}

	actions := make([]RankedAction, 0, len(recommendations))
	for _, rec := range recommendations {
		schoolCount := blockSchools[rec.BlockName]
		if schoolCount < 1 {
			schoolCount = 1
		}
		blockRisk := blockRiskSum[rec.BlockName] / float64(schoolCount)

		delayDays := int(math.Round(now.Sub(rec.RecommendedDate).Hours() / 24))
		if delayDays < 0 {
			delayDays = 0
		}

		contributors := Contributors{
			Severity:            features.Bounded(rec.PriorityScore),
			PopulationLoad:      features.BoundedIn(float64(schoolCount)*14, 0, 100),
			DelayPenalty:        features.BoundedIn(float64(delayDays)*9, 0, 100),
			EnvironmentalBurden: features.Bounded(blockRisk * 100),
		}

		actions = append(actions, RankedAction{
			RecommendationID: rec.ID,
			BlockName:        rec.BlockName,
			ActionType:       string(rec.ActionType),
			ActionLabel:      actionLabel(rec.ActionType),
			Status:           strings.ToLower(rec.Status),
			RecommendedDate:  rec.RecommendedDate,
			DelayDays:        delayDays,
			PriorityScore: features.Bounded(contributors.Severity*0.35 +
				contributors.PopulationLoad*0.25 +
				contributors.DelayPenalty*0.2 +
				contributors.EnvironmentalBurden*0.2),
			Contributors: contributors,
			Confidence:   features.Bounded(55 + float64(schoolCount)*4),
			Explanation:  rec.Explanation,
		})
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].PriorityScore > actions[j].PriorityScore
	})
	if len(actions) > limit {
		actions = actions[:limit]
	}

	return &Result{
		AnalysisID:       uuid.NewString(),
		District:         scope.Label(),
		GeneratedAt:      now,
		Actions:          actions,
		ModelVersion:     ModelVersion,
		GovernanceNotice: GovernanceNotice,
	}, nil
}

func actionLabel(actionType contracts.ActionType) string {
	switch actionType {
	case contracts.ActionInspection:
		return "inspection_team_deployment"
	case contracts.ActionWaterTesting:
		return "water_testing_priority"
	case contracts.ActionFumigation:
		return "fumigation_schedule"
	default:
		return "preventive_action"
	}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
