package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/swasthyasetu/risk-engine/internal/api/handlers"
	"github.com/swasthyasetu/risk-engine/internal/api/ws"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	districtHandler *handlers.DistrictHandler,
	nationalHandler *handlers.NationalHandler,
	riskHandler *handlers.RiskHandler,
	systemHandler *handlers.SystemHandler,
	hub *ws.Hub,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// District intelligence endpoints
	api.HandleFunc("/districts/{district}/overview", districtHandler.GetOverview).Methods("GET")
	api.HandleFunc("/districts/{district}/scenario", districtHandler.SimulateScenario).Methods("POST")
	api.HandleFunc("/districts/{district}/hotspots", districtHandler.GetHotspots).Methods("GET")
	api.HandleFunc("/districts/{district}/outbreak", districtHandler.GetOutbreakSignals).Methods("GET")
	api.HandleFunc("/districts/{district}/resources", districtHandler.GetResourcePlan).Methods("GET")
	api.HandleFunc("/districts/{district}/forecast", districtHandler.GetForecast).Methods("GET")

	// National rollup endpoints
	api.HandleFunc("/national/overview", nationalHandler.GetOverview).Methods("GET")
	api.HandleFunc("/national/trends", nationalHandler.GetTrends).Methods("GET")
	api.HandleFunc("/national/policy-simulation", nationalHandler.SimulatePolicy).Methods("POST")
	api.HandleFunc("/national/fraud-scan", nationalHandler.ScanReportingAnomalies).Methods("GET")

	// Individual scoring endpoints
	api.HandleFunc("/risk/score", riskHandler.Score).Methods("POST")
	api.HandleFunc("/risk/conditions", riskHandler.InferConditions).Methods("POST")

	// System endpoints
	api.HandleFunc("/system/health", systemHandler.GetHealth).Methods("GET")
	api.HandleFunc("/system/telemetry", systemHandler.GetTelemetry).Methods("GET")
	api.HandleFunc("/system/telemetry/reset", systemHandler.ResetTelemetry).Methods("POST")
	api.HandleFunc("/system/jobs", systemHandler.GetJobs).Methods("GET")

	// Live outbreak alert stream
	if hub != nil {
		r.HandleFunc("/ws/alerts", hub.ServeWS)
	}

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "risk-engine-api",
	})
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
