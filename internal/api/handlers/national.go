package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/national"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// NationalHandler serves the multi-district rollup endpoints. The optional
// district query parameter narrows the scope; the default is all-india.
type NationalHandler struct {
	national *national.Service
	logger   *logger.Logger
}

// NewNationalHandler creates a new national handler.
func NewNationalHandler(svc *national.Service, log *logger.Logger) *NationalHandler {
	return &NationalHandler{national: svc, logger: log}
}

func nationalScope(r *http.Request) contracts.Scope {
	district := r.URL.Query().Get("district")
	if district == "" {
		return contracts.Scope{National: true}
	}
	return contracts.ParseScope(district)
}

// GetOverview returns the national climate-health rollup.
// GET /api/national/overview?district=
func (h *NationalHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.national.Overview(r.Context(), nationalScope(r))
	if err != nil {
		h.logger.WithError(err).Error("Failed to build national overview")
		respondError(w, http.StatusInternalServerError, "Failed to build national overview")
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

// GetTrends returns the climate-health correlation trends.
// GET /api/national/trends?district=
func (h *NationalHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.national.Trends(r.Context(), nationalScope(r))
	if err != nil {
		h.logger.WithError(err).Error("Failed to build trend correlations")
		respondError(w, http.StatusInternalServerError, "Failed to build trend correlations")
		return
	}
	respondJSON(w, http.StatusOK, trends)
}

// SimulatePolicy projects the preventive impact of a policy scenario.
// POST /api/national/policy-simulation?district=
func (h *NationalHandler) SimulatePolicy(w http.ResponseWriter, r *http.Request) {
	var req national.PolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	result, err := h.national.SimulatePolicy(r.Context(), nationalScope(r), req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to run policy simulation")
		respondError(w, http.StatusInternalServerError, "Failed to run policy simulation")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ScanReportingAnomalies flags unusual field-report volumes for audit.
// GET /api/national/fraud-scan?district=
func (h *NationalHandler) ScanReportingAnomalies(w http.ResponseWriter, r *http.Request) {
	scan, err := h.national.ScanReportingAnomalies(r.Context(), nationalScope(r))
	if err != nil {
		h.logger.WithError(err).Error("Failed to scan reporting anomalies")
		respondError(w, http.StatusInternalServerError, "Failed to scan reporting anomalies")
		return
	}
	respondJSON(w, http.StatusOK, scan)
}
