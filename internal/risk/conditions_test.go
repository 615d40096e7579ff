package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestInferLikelyConditionsDefaults(t *testing.T) {
	result := InferLikelyConditions(SignalInput{
		BMI:               20,
		VaccinationStatus: "COMPLETE",
		AttendanceRatio:   0.95,
	})

	require.Len(t, result.LikelyConditions, 4)
	assert.Equal(t, ModelVersionConditions, result.ModelVersion)
	assert.NotEmpty(t, result.PrimaryCondition)
	assert.GreaterOrEqual(t, result.TriageScore, 0.0)
	assert.LessOrEqual(t, result.TriageScore, 1.0)

	// Ranked descending by score.
	for i := 1; i < len(result.LikelyConditions); i++ {
		assert.GreaterOrEqual(t,
			result.LikelyConditions[i-1].Score,
			result.LikelyConditions[i].Score)
	}
	assert.Equal(t, result.LikelyConditions[0].Condition, result.PrimaryCondition)
	assert.Equal(t, result.LikelyConditions[0].Score, result.TriageScore)
}

func TestInferLikelyConditionsWaterSignals(t *testing.T) {
	result := InferLikelyConditions(SignalInput{
		BMI:                 18,
		VaccinationStatus:   "PARTIAL",
		AttendanceRatio:     0.7,
		WaterQualityScore:   f(42),
		SanitationScore:     f(45),
		RainfallMm:          f(220),
		SymptomClusterCount: f(4),
		HazardReports:       f(6),
	})

	assert.Equal(t, ConditionWaterBorne, result.PrimaryCondition)

	water := result.LikelyConditions[0]
	assert.Contains(t, water.Reasons, "LOW_WATER_QUALITY")
	assert.Contains(t, water.Reasons, "POOR_SANITATION")
	assert.Contains(t, water.Reasons, "RAINFALL_CONTAMINATION_RISK")
	assert.Equal(t, "HIGH", water.Level)
}

func TestInferLikelyConditionsAirSignals(t *testing.T) {
	result := InferLikelyConditions(SignalInput{
		BMI:               19,
		VaccinationStatus: "NONE",
		AttendanceRatio:   0.92,
		AQI:               f(340),
		Temperature:       f(30),
		Humidity:          f(50),
		RainfallMm:        f(10),
	})

	var air *ConditionScore
	for i := range result.LikelyConditions {
		if result.LikelyConditions[i].Condition == ConditionAirRespiratory {
			air = &result.LikelyConditions[i]
		}
	}
	require.NotNil(t, air)
	assert.Contains(t, air.Reasons, "POOR_AIR_QUALITY")
}

func TestConditionConfidenceBounds(t *testing.T) {
	inputs := []SignalInput{
		{BMI: 20, VaccinationStatus: "COMPLETE", AttendanceRatio: 1},
		{BMI: 14, VaccinationStatus: "NONE", AttendanceRatio: 0.4,
			Temperature: f(46), Humidity: f(90), RainfallMm: f(280),
			AQI: f(400), WaterQualityScore: f(40), SanitationScore: f(40),
			SymptomClusterCount: f(9), HazardReports: f(11), InspectionDelayDays: f(40)},
	}

	for _, input := range inputs {
		result := InferLikelyConditions(input)
		for _, condition := range result.LikelyConditions {
			assert.GreaterOrEqual(t, condition.Confidence, 0.45)
			assert.LessOrEqual(t, condition.Confidence, 0.96)
			assert.GreaterOrEqual(t, condition.Score, 0.0)
			assert.LessOrEqual(t, condition.Score, 1.0)
		}
	}
}

func TestConditionVaccinationFactor(t *testing.T) {
	tests := []struct {
		status string
		want   float64
	}{
		{"COMPLETE", 0.0},
		{"PARTIAL", 0.65},
		{"DELAYED", 0.85},
		{"NONE", 1.0},
		{"other", 0.7},
	}

	for _, tt := range tests {
		if got := conditionVaccinationFactor(tt.status); got != tt.want {
			t.Errorf("conditionVaccinationFactor(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestLogisticCalibration(t *testing.T) {
	assert.InDelta(t, 0.5, logisticCalibration(0.5), 0.0001)
	assert.Greater(t, logisticCalibration(0.9), 0.85)
	assert.Less(t, logisticCalibration(0.1), 0.15)
}
