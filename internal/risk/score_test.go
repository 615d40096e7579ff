package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLocalHighRisk(t *testing.T) {
	result := ComputeLocal(Input{
		BMI:               15.2,
		VaccinationStatus: "NONE",
		Temperature:       46,
		AQI:               320,
		AttendanceRatio:   0.5,
	})

	// All factors maxed: 0.3 + 0.2 + 0.25 + 0.15 + 0.05 = 0.95
	assert.InDelta(t, 0.95, result.Score, 0.0001)
	assert.Equal(t, "HIGH", result.Level)
	assert.Equal(t, ModelVersionFallback, result.ModelVersion)
	assert.Equal(t, SourceFallback, result.Source)

	assert.Contains(t, result.ReasonCodes, "BMI_OUT_OF_HEALTHY_RANGE")
	assert.Contains(t, result.ReasonCodes, "VACCINATION_DELAY_OR_INCOMPLETE")
	assert.Contains(t, result.ReasonCodes, "HEAT_STRESS_RISK")
	assert.Contains(t, result.ReasonCodes, "AIR_QUALITY_EXPOSURE")
	assert.Contains(t, result.ReasonCodes, "LOW_ATTENDANCE_PATTERN")
	assert.NotEmpty(t, result.RecommendedActions)
}

func TestComputeLocalLowRisk(t *testing.T) {
	result := ComputeLocal(Input{
		BMI:               21.0,
		VaccinationStatus: "COMPLETE",
		Temperature:       28,
		AQI:               60,
		AttendanceRatio:   0.98,
	})

	assert.Equal(t, "LOW", result.Level)
	assert.GreaterOrEqual(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 1.0)
	assert.Equal(t, []string{"BASELINE_LOW_RISK"}, result.ReasonCodes)

	// Baseline still carries a routine follow-up action.
	require.Len(t, result.RecommendedActions, 1)
	assert.Equal(t, "parent_counseling", result.RecommendedActions[0].Type)
	assert.Equal(t, "low", result.RecommendedActions[0].Priority)
}

func TestComputeLocalScoreAlwaysInRange(t *testing.T) {
	inputs := []Input{
		{BMI: 10, VaccinationStatus: "NONE", Temperature: 60, AQI: 500, AttendanceRatio: 0},
		{BMI: 50, VaccinationStatus: "garbage", Temperature: -10, AQI: 0, AttendanceRatio: 1},
		{},
	}
	for _, input := range inputs {
		result := ComputeLocal(input)
		assert.GreaterOrEqual(t, result.Score, 0.0)
		assert.LessOrEqual(t, result.Score, 1.0)
		assert.NotEmpty(t, result.Level)
		assert.NotEmpty(t, result.ReasonCodes)
	}
}

func TestMapReasonsToActionsHighLevelForcesCounseling(t *testing.T) {
	actions := mapReasonsToActions("HIGH", []string{"BMI_OUT_OF_HEALTHY_RANGE"})

	types := map[string]string{}
	for _, action := range actions {
		types[action.Type] = action.Priority
	}
	assert.Equal(t, "high", types["nutrition"])
	assert.Equal(t, "high", types["parent_counseling"])
}

func TestMapReasonsToActionsDeduplicatesByType(t *testing.T) {
	// Both reasons map to health_camp; the high priority wins.
	actions := mapReasonsToActions("MEDIUM", []string{
		"VACCINATION_DELAY_OR_INCOMPLETE",
		"AIR_QUALITY_EXPOSURE",
	})

	healthCamps := 0
	for _, action := range actions {
		if action.Type == "health_camp" {
			healthCamps++
			assert.Equal(t, "high", action.Priority)
		}
	}
	assert.Equal(t, 1, healthCamps)
}
