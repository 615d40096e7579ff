package district

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/features"
)

// Scenario messaging, fixed per model version.
const (
	scenarioMessage          = "Projected reduction estimates preventive risk improvement from environmental score uplift, not medical diagnosis."
	scenarioGovernanceNotice = "Preventive scenario simulation only. Model outputs are planning aids and should be field-validated."
)

// ScenarioRequest is a what-if uplift to environmental scores, in points.
type ScenarioRequest struct {
	WaterQualityLift    float64 `json:"waterQualityLift"`
	WasteManagementLift float64 `json:"wasteManagementLift"`
}

// ScenarioResult projects the vulnerability index under the requested lift.
type ScenarioResult struct {
	AnalysisID                  string    `json:"analysisId"`
	District                    string    `json:"district"`
	GeneratedAt                 time.Time `json:"generatedAt"`
	BaselineVulnerabilityIndex  float64   `json:"baselineVulnerabilityIndex"`
	ProjectedVulnerabilityIndex float64   `json:"projectedVulnerabilityIndex"`
	ProjectedReduction          float64   `json:"projectedReduction"`
	WaterQualityLift            float64   `json:"waterQualityLift"`
	WasteManagementLift         float64   `json:"wasteManagementLift"`
	ModelVersion                string    `json:"modelVersion"`
	Message                     string    `json:"message"`
	GovernanceNotice            string    `json:"governanceNotice"`
}

// SimulateScenario projects the district vulnerability index after an
// environmental uplift. Lifts are capped at 40 points and the projected
// reduction at 35 index points.
func (s *Service) SimulateScenario(ctx context.Context, scope contracts.Scope, req ScenarioRequest) (*ScenarioResult, error) {
	overview, err := s.Overview(ctx, scope)
	if err != nil {
		return nil, err
	}

	waterLift := features.Clamp(req.WaterQualityLift, 0, 40)
	wasteLift := features.Clamp(req.WasteManagementLift, 0, 40)

	projectedReduction := features.BoundedIn(waterLift*0.42+wasteLift*0.33, 0, 35)
	projectedIndex := features.Bounded(overview.DistrictVulnerabilityIndex - projectedReduction)

	return &ScenarioResult{
		AnalysisID:                  uuid.NewString(),
		District:                    scope.Label(),
		GeneratedAt:                 time.Now().UTC(),
		BaselineVulnerabilityIndex:  overview.DistrictVulnerabilityIndex,
		ProjectedVulnerabilityIndex: projectedIndex,
		ProjectedReduction:          projectedReduction,
		WaterQualityLift:            waterLift,
		WasteManagementLift:         wasteLift,
		ModelVersion:                ModelVersion,
		Message:                     scenarioMessage,
		GovernanceNotice:            scenarioGovernanceNotice,
	}, nil
}
