package handlers

import (
	"net/http"

	"github.com/swasthyasetu/risk-engine/internal/risk"
	"github.com/swasthyasetu/risk-engine/internal/scheduler"
	"github.com/swasthyasetu/risk-engine/pkg/database"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// SystemHandler serves operational endpoints: database health, scoring
// telemetry, and scheduled job status.
type SystemHandler struct {
	db        *database.DB
	telemetry *risk.Telemetry
	scheduler *scheduler.Scheduler
	logger    *logger.Logger
}

// NewSystemHandler creates a new system handler. scheduler may be nil when
// the API runs without background jobs.
func NewSystemHandler(db *database.DB, telemetry *risk.Telemetry, sched *scheduler.Scheduler, log *logger.Logger) *SystemHandler {
	return &SystemHandler{db: db, telemetry: telemetry, scheduler: sched, logger: log}
}

// GetHealth returns database pool health.
// GET /api/system/health
func (h *SystemHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status, err := h.db.HealthCheck(r.Context())
	if err != nil {
		respondJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// GetTelemetry returns the scoring source counters.
// GET /api/system/telemetry
func (h *SystemHandler) GetTelemetry(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.telemetry.Snapshot())
}

// ResetTelemetry zeroes the scoring counters.
// POST /api/system/telemetry/reset
func (h *SystemHandler) ResetTelemetry(w http.ResponseWriter, r *http.Request) {
	h.telemetry.Reset()
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// JobStatus is one scheduled job's recent execution summary.
type JobStatus struct {
	Name        string                `json:"name"`
	SuccessRate float64               `json:"successRate"`
	Recent      []scheduler.JobResult `json:"recent"`
}

// GetJobs returns scheduled job status.
// GET /api/system/jobs
func (h *SystemHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		respondJSON(w, http.StatusOK, []JobStatus{})
		return
	}

	names := h.scheduler.GetAllJobs()
	statuses := make([]JobStatus, 0, len(names))
	for _, name := range names {
		history, err := h.scheduler.GetJobHistory(name)
		if err != nil {
			continue
		}
		statuses = append(statuses, JobStatus{
			Name:        name,
			SuccessRate: history.GetSuccessRate(),
			Recent:      history.GetLatestResults(5),
		})
	}
	respondJSON(w, http.StatusOK, statuses)
}
