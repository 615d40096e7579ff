package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/swasthyasetu/risk-engine/internal/risk"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// RiskHandler serves ad hoc risk scoring and condition inference.
type RiskHandler struct {
	provider risk.ScoreProvider
	logger   *logger.Logger
}

// NewRiskHandler creates a new risk handler.
func NewRiskHandler(provider risk.ScoreProvider, log *logger.Logger) *RiskHandler {
	return &RiskHandler{provider: provider, logger: log}
}

// Score computes a composite risk score for one observation, including the
// ranked condition signals.
// POST /api/risk/score
func (h *RiskHandler) Score(w http.ResponseWriter, r *http.Request) {
	var input risk.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.provider.Score(r.Context(), input)
	if err != nil {
		h.logger.WithError(err).Error("Failed to score risk input")
		respondError(w, http.StatusInternalServerError, "Failed to score risk input")
		return
	}

	if result.ConditionSignals == nil {
		temperature := input.Temperature
		aqi := float64(input.AQI)
		result.ConditionSignals = risk.InferLikelyConditions(risk.SignalInput{
			BMI:               input.BMI,
			VaccinationStatus: input.VaccinationStatus,
			AttendanceRatio:   input.AttendanceRatio,
			Temperature:       &temperature,
			AQI:               &aqi,
		})
	}

	respondJSON(w, http.StatusOK, result)
}

// ConditionRequest is the richer condition-inference request body.
type ConditionRequest struct {
	BMI               float64 `json:"bmi"`
	VaccinationStatus string  `json:"vaccination_status"`
	AttendanceRatio   float64 `json:"attendance_ratio"`

	Temperature          *float64 `json:"temperature,omitempty"`
	Humidity             *float64 `json:"humidity,omitempty"`
	RainfallMm           *float64 `json:"rainfall_mm,omitempty"`
	HeatIndex            *float64 `json:"heat_index,omitempty"`
	AQI                  *float64 `json:"aqi,omitempty"`
	WaterQualityScore    *float64 `json:"water_quality_score,omitempty"`
	SanitationScore      *float64 `json:"sanitation_score,omitempty"`
	WasteManagementScore *float64 `json:"waste_management_score,omitempty"`

	AttendanceAnomalyPercent *float64 `json:"attendance_anomaly_percent,omitempty"`
	SymptomClusterCount      *float64 `json:"symptom_cluster_count,omitempty"`
	InspectionDelayDays      *float64 `json:"inspection_delay_days,omitempty"`
	HazardReports            *float64 `json:"hazard_reports,omitempty"`
}

// InferConditions ranks likely condition categories from the full signal
// set.
// POST /api/risk/conditions
func (h *RiskHandler) InferConditions(w http.ResponseWriter, r *http.Request) {
	var req ConditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result := risk.InferLikelyConditions(risk.SignalInput{
		BMI:                      req.BMI,
		VaccinationStatus:        req.VaccinationStatus,
		AttendanceRatio:          req.AttendanceRatio,
		Temperature:              req.Temperature,
		Humidity:                 req.Humidity,
		RainfallMm:               req.RainfallMm,
		HeatIndex:                req.HeatIndex,
		AQI:                      req.AQI,
		WaterQualityScore:        req.WaterQualityScore,
		SanitationScore:          req.SanitationScore,
		WasteManagementScore:     req.WasteManagementScore,
		AttendanceAnomalyPercent: req.AttendanceAnomalyPercent,
		SymptomClusterCount:      req.SymptomClusterCount,
		InspectionDelayDays:      req.InspectionDelayDays,
		HazardReports:            req.HazardReports,
	})

	respondJSON(w, http.StatusOK, result)
}
