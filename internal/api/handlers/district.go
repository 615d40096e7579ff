package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/district"
	"github.com/swasthyasetu/risk-engine/internal/forecast"
	"github.com/swasthyasetu/risk-engine/internal/geo"
	"github.com/swasthyasetu/risk-engine/internal/outbreak"
	"github.com/swasthyasetu/risk-engine/internal/resources"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// DistrictHandler serves the district-scoped intelligence endpoints.
type DistrictHandler struct {
	districts *district.Service
	hotspots  *geo.Service
	outbreaks *outbreak.Detector
	resources *resources.Ranker
	forecasts *forecast.Service
	logger    *logger.Logger
}

// NewDistrictHandler creates a new district handler.
func NewDistrictHandler(
	districts *district.Service,
	hotspots *geo.Service,
	outbreaks *outbreak.Detector,
	resourceRanker *resources.Ranker,
	forecasts *forecast.Service,
	log *logger.Logger,
) *DistrictHandler {
	return &DistrictHandler{
		districts: districts,
		hotspots:  hotspots,
		outbreaks: outbreaks,
		resources: resourceRanker,
		forecasts: forecasts,
		logger:    log,
	}
}

func requestScope(r *http.Request) contracts.Scope {
	return contracts.ParseScope(mux.Vars(r)["district"])
}

// GetOverview returns the multi-layer district risk overview.
// GET /api/districts/{district}/overview
func (h *DistrictHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.districts.Overview(r.Context(), requestScope(r))
	if err != nil {
		h.logger.WithError(err).Error("Failed to build district overview")
		respondError(w, http.StatusInternalServerError, "Failed to build district overview")
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

// SimulateScenario projects the vulnerability index under an environmental
// uplift.
// POST /api/districts/{district}/scenario
func (h *DistrictHandler) SimulateScenario(w http.ResponseWriter, r *http.Request) {
	var req district.ScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.districts.SimulateScenario(r.Context(), requestScope(r), req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to simulate scenario")
		respondError(w, http.StatusInternalServerError, "Failed to simulate scenario")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetHotspots returns clustered geospatial priority zones.
// GET /api/districts/{district}/hotspots?windowDays=30
func (h *DistrictHandler) GetHotspots(w http.ResponseWriter, r *http.Request) {
	result, err := h.hotspots.Hotspots(r.Context(), requestScope(r), queryInt(r, "windowDays", 0))
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute hotspots")
		respondError(w, http.StatusInternalServerError, "Failed to compute hotspots")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetOutbreakSignals returns the block-level early-warning scan.
// GET /api/districts/{district}/outbreak?windowDays=7
func (h *DistrictHandler) GetOutbreakSignals(w http.ResponseWriter, r *http.Request) {
	result, err := h.outbreaks.Scan(r.Context(), requestScope(r), queryInt(r, "windowDays", 0))
	if err != nil {
		h.logger.WithError(err).Error("Failed to scan outbreak signals")
		respondError(w, http.StatusInternalServerError, "Failed to scan outbreak signals")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetResourcePlan returns the ranked preventive action plan.
// GET /api/districts/{district}/resources?limit=10
func (h *DistrictHandler) GetResourcePlan(w http.ResponseWriter, r *http.Request) {
	result, err := h.resources.Rank(r.Context(), requestScope(r), queryInt(r, "limit", 0))
	if err != nil {
		h.logger.WithError(err).Error("Failed to rank resource plan")
		respondError(w, http.StatusInternalServerError, "Failed to rank resource plan")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetForecast returns the seasonal risk forecast.
// GET /api/districts/{district}/forecast?months=6
func (h *DistrictHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	result, err := h.forecasts.Forecast(r.Context(), requestScope(r), queryInt(r, "months", 6))
	if err != nil {
		h.logger.WithError(err).Error("Failed to build seasonal forecast")
		respondError(w, http.StatusInternalServerError, "Failed to build seasonal forecast")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
