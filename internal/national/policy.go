package national

import (
	"context"
	"math"
	"time"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/district"
	"github.com/swasthyasetu/risk-engine/internal/features"
)

const policyMessage = "Scenario output estimates preventive impact from environmental improvements and supports policy prioritization."

// ScenarioSimulator projects a district vulnerability scenario. The
// district service satisfies it.
type ScenarioSimulator interface {
	SimulateScenario(ctx context.Context, scope contracts.Scope, req district.ScenarioRequest) (*district.ScenarioResult, error)
}

// PolicyRequest is a what-if environmental policy, in percent points.
type PolicyRequest struct {
	WaterQualityImprovementPct float64 `json:"waterQualityImprovementPct"`
	TreeCoverIncreasePct       float64 `json:"treeCoverIncreasePct"`
}

// PolicyResult extends the district scenario projection with the tree
// cover policy estimate.
type PolicyResult struct {
	AnalysisID                    string    `json:"analysisId"`
	District                      string    `json:"district"`
	GeneratedAt                   time.Time `json:"generatedAt"`
	BaselineVulnerabilityIndex    float64   `json:"baselineVulnerabilityIndex"`
	ProjectedVulnerabilityIndex   float64   `json:"projectedVulnerabilityIndex"`
	ProjectedReduction            float64   `json:"projectedReduction"`
	WaterQualityImprovementPct    float64   `json:"waterQualityImprovementPct"`
	WasteManagementImprovementPct float64   `json:"wasteManagementImprovementPct"`
	TreeCoverIncreasePct          float64   `json:"treeCoverIncreasePct"`
	ProjectedHeatRiskReductionPct float64   `json:"projectedHeatRiskReductionPct"`
	ModelVersion                  string    `json:"modelVersion"`
	Message                       string    `json:"message"`
	PolicyMessage                 string    `json:"policyMessage"`
	GovernanceNotice              string    `json:"governanceNotice"`
}

// SimulatePolicy maps the tree cover increase onto a waste management
// uplift, runs the district scenario with it, and layers the heat-risk
// reduction estimate on top. Tree cover effects are capped at 40 points.
func (s *Service) SimulatePolicy(ctx context.Context, scope contracts.Scope, req PolicyRequest) (*PolicyResult, error) {
	base, err := s.scenarios.SimulateScenario(ctx, scope, district.ScenarioRequest{
		WaterQualityLift:    req.WaterQualityImprovementPct,
		WasteManagementLift: math.Max(0, math.Round(req.TreeCoverIncreasePct*0.45)),
	})
	if err != nil {
		return nil, err
	}

	return &PolicyResult{
		AnalysisID:                    base.AnalysisID,
		District:                      base.District,
		GeneratedAt:                   base.GeneratedAt,
		BaselineVulnerabilityIndex:    base.BaselineVulnerabilityIndex,
		ProjectedVulnerabilityIndex:   base.ProjectedVulnerabilityIndex,
		ProjectedReduction:            base.ProjectedReduction,
		WaterQualityImprovementPct:    base.WaterQualityLift,
		WasteManagementImprovementPct: base.WasteManagementLift,
		TreeCoverIncreasePct:          features.BoundedIn(req.TreeCoverIncreasePct, 0, 40),
		ProjectedHeatRiskReductionPct: features.BoundedIn(req.TreeCoverIncreasePct*0.62, 0, 40),
		ModelVersion:                  base.ModelVersion,
		Message:                       base.Message,
		PolicyMessage:                 policyMessage,
		GovernanceNotice:              base.GovernanceNotice,
	}, nil
}
