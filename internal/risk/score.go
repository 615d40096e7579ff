package risk

import (
	"github.com/swasthyasetu/risk-engine/internal/features"
)

// Model version tags carried on every result so callers can tell which
// path produced a score.
const (
	ModelVersionRemote   = "risk-engine-rule-v2"
	ModelVersionFallback = "risk-engine-fallback-v1"
)

// Source values for the score provenance tag.
const (
	SourceAIService = "ai-service"
	SourceFallback  = "fallback"
)

// Input is the scoring request sent to the remote service and consumed by
// the local fallback. Field names are part of the wire contract.
type Input struct {
	BMI               float64 `json:"bmi"`
	VaccinationStatus string  `json:"vaccination_status"`
	Temperature       float64 `json:"temperature"`
	AQI               int     `json:"aqi"`
	AttendanceRatio   float64 `json:"attendance_ratio"`
}

// Contributions is the per-factor weighted contribution breakdown.
type Contributions struct {
	BMI         float64 `json:"bmi"`
	Vaccination float64 `json:"vaccination"`
	Temperature float64 `json:"temperature"`
	AQI         float64 `json:"aqi"`
	Attendance  float64 `json:"attendance"`
}

// Action is a preventive follow-up recommendation derived from reason codes.
type Action struct {
	Type           string   `json:"type"`
	Priority       string   `json:"priority"`
	Title          string   `json:"title"`
	Recommendation string   `json:"recommendation"`
	Tasks          []string `json:"tasks"`
	ParentScript   string   `json:"parentScript"`
}

// Result is the individual risk scoring result. The schema is identical for
// remote and fallback scores; only ModelVersion and Source differ.
type Result struct {
	Score              float64          `json:"score"`
	Level              string           `json:"level"`
	ModelVersion       string           `json:"model_version"`
	ReasonCodes        []string         `json:"reason_codes"`
	Contributions      Contributions    `json:"contributions"`
	RecommendedActions []Action         `json:"recommended_actions,omitempty"`
	Source             string           `json:"source"`
	ConditionSignals   *InferenceResult `json:"condition_signals,omitempty"`
}

// ComputeLocal runs the deterministic factor model. It is the fallback path
// and must stay semantically identical to the remote rule model.
func ComputeLocal(input Input) *Result {
	contributions := Contributions{
		BMI:         features.Round4(BMIFactor(input.BMI) * weightBMI),
		Vaccination: features.Round4(VaccinationFactor(input.VaccinationStatus) * weightVaccination),
		Temperature: features.Round4(HeatFactor(input.Temperature) * weightTemperature),
		AQI:         features.Round4(AQIFactor(input.AQI) * weightAQI),
		Attendance:  features.Round4(AttendanceFactor(input.AttendanceRatio) * weightAttendance),
	}

	sum := contributions.BMI + contributions.Vaccination + contributions.Temperature +
		contributions.AQI + contributions.Attendance
	score := features.Round4(features.Clamp(sum, 0, 1))

	level := ScoreLevel(score)
	reasons := buildReasonCodes(contributions)

	return &Result{
		Score:              score,
		Level:              level,
		ModelVersion:       ModelVersionFallback,
		ReasonCodes:        reasons,
		Contributions:      contributions,
		RecommendedActions: mapReasonsToActions(level, reasons),
		Source:             SourceFallback,
	}
}
