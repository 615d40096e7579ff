package national

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/district"
	"github.com/swasthyasetu/risk-engine/internal/features"
)

// fakeScenarioSim records the forwarded request and applies the same
// clamps as the district simulator over a fixed baseline of 60.
type fakeScenarioSim struct {
	scope contracts.Scope
	req   district.ScenarioRequest
}

func (f *fakeScenarioSim) SimulateScenario(_ context.Context, scope contracts.Scope, req district.ScenarioRequest) (*district.ScenarioResult, error) {
	f.scope = scope
	f.req = req
	waterLift := features.Clamp(req.WaterQualityLift, 0, 40)
	wasteLift := features.Clamp(req.WasteManagementLift, 0, 40)
	reduction := features.BoundedIn(waterLift*0.42+wasteLift*0.33, 0, 35)
	return &district.ScenarioResult{
		AnalysisID:                  "scenario-1",
		District:                    scope.Label(),
		GeneratedAt:                 time.Now().UTC(),
		BaselineVulnerabilityIndex:  60,
		ProjectedVulnerabilityIndex: features.Bounded(60 - reduction),
		ProjectedReduction:          reduction,
		WaterQualityLift:            waterLift,
		WasteManagementLift:         wasteLift,
		ModelVersion:                district.ModelVersion,
		Message:                     "scenario message",
		GovernanceNotice:            "scenario notice",
	}, nil
}

func policyService(sim *fakeScenarioSim) *Service {
	return NewService(&fakeSchoolRepo{}, &fakeClimateRepo{}, &fakeSignalRepo{}, sim, testLogger())
}

func TestSimulatePolicyComposesDistrictScenario(t *testing.T) {
	sim := &fakeScenarioSim{}
	service := policyService(sim)

	result, err := service.SimulatePolicy(context.Background(), contracts.ParseScope("Pune"), PolicyRequest{
		WaterQualityImprovementPct: 10,
		TreeCoverIncreasePct:       80,
	})
	require.NoError(t, err)

	// Water passes through raw; tree cover maps to round(80*0.45) waste points.
	assert.Equal(t, 10.0, sim.req.WaterQualityLift)
	assert.Equal(t, 36.0, sim.req.WasteManagementLift)
	assert.Equal(t, "Pune", sim.scope.District)

	assert.Equal(t, "scenario-1", result.AnalysisID)
	assert.Equal(t, 60.0, result.BaselineVulnerabilityIndex)
	assert.InDelta(t, 16.08, result.ProjectedReduction, 0.001)
	assert.InDelta(t, 43.92, result.ProjectedVulnerabilityIndex, 0.001)
	assert.Equal(t, 10.0, result.WaterQualityImprovementPct)
	assert.Equal(t, 36.0, result.WasteManagementImprovementPct)
	assert.Equal(t, 40.0, result.TreeCoverIncreasePct)
	assert.Equal(t, 40.0, result.ProjectedHeatRiskReductionPct)
	assert.Equal(t, district.ModelVersion, result.ModelVersion)
	assert.Equal(t, "scenario message", result.Message)
	assert.Equal(t, policyMessage, result.PolicyMessage)
	assert.Equal(t, "scenario notice", result.GovernanceNotice)
}

func TestSimulatePolicyNegativeInput(t *testing.T) {
	sim := &fakeScenarioSim{}
	service := policyService(sim)

	result, err := service.SimulatePolicy(context.Background(), contracts.Scope{National: true}, PolicyRequest{
		TreeCoverIncreasePct: -10,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, sim.req.WasteManagementLift)
	assert.Equal(t, 0.0, result.TreeCoverIncreasePct)
	assert.Equal(t, 0.0, result.ProjectedHeatRiskReductionPct)
	assert.Equal(t, 0.0, result.ProjectedReduction)
	assert.Equal(t, 60.0, result.ProjectedVulnerabilityIndex)
}

func TestSimulatePolicyModestScenario(t *testing.T) {
	sim := &fakeScenarioSim{}
	service := policyService(sim)

	result, err := service.SimulatePolicy(context.Background(), contracts.Scope{National: true}, PolicyRequest{
		TreeCoverIncreasePct: 10,
	})
	require.NoError(t, err)

	// round(10 * 0.45) = 5 waste points feed the scenario.
	assert.Equal(t, 5.0, sim.req.WasteManagementLift)
	assert.Equal(t, 10.0, result.TreeCoverIncreasePct)
	assert.Equal(t, 6.2, result.ProjectedHeatRiskReductionPct)
	assert.InDelta(t, 1.65, result.ProjectedReduction, 0.001)
}
