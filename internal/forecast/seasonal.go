// Package forecast projects monthly heat, vector, and air risk indices
// from the trailing climate history with a seasonal sine adjustment.
package forecast

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/features"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
	"github.com/swasthyasetu/risk-engine/pkg/redis"
)

// ModelVersion tags seasonal forecast responses.
const ModelVersion = "seasonal-forecast-basic-v1"

// GovernanceNotice is attached to every forecast response.
const GovernanceNotice = "Seasonal forecast is an early warning aid for prevention planning and does not provide clinical conclusions."

// historyLimit caps the climate rows feeding the baseline.
const historyLimit = 360

// Baselines used when the scope has no climate history.
const (
	defaultHeatBase   = 40.0
	defaultVectorBase = 35.0
	defaultAirBase    = 45.0
)

// trailingMonths is how many recent months anchor the baseline.
const trailingMonths = 4

// MonthForecast is one projected month.
type MonthForecast struct {
	Month      string  `json:"month"`
	HeatRisk   float64 `json:"heatRisk"`
	VectorRisk float64 `json:"vectorRisk"`
	AirRisk    float64 `json:"airRisk"`
	Confidence float64 `json:"confidence"`
}

// Result is the seasonal outbreak forecast response.
type Result struct {
	AnalysisID       string          `json:"analysisId"`
	District         string          `json:"district"`
	GeneratedAt      time.Time       `json:"generatedAt"`
	HorizonMonths    int             `json:"horizonMonths"`
	Forecast         []MonthForecast `json:"forecast"`
	Assumptions      []string        `json:"assumptions"`
	ModelVersion     string          `json:"modelVersion"`
	GovernanceNotice string          `json:"governanceNotice"`
}

// Service computes seasonal forecasts from climate history.
type Service struct {
	climate contracts.ClimateRepository
	cache   *redis.Cache
	logger  *logger.Logger
}

// NewService wires the forecast service.
func NewService(climate contracts.ClimateRepository, cache *redis.Cache, log *logger.Logger) *Service {
	return &Service{climate: climate, cache: cache, logger: log}
}

// Forecast projects horizon months of risk indices. The horizon is clamped
// to [1,12]; missing history degrades to fixed neutral baselines.
func (s *Service) Forecast(ctx context.Context, scope contracts.Scope, horizonMonths int) (*Result, error) {
	if horizonMonths < 1 {
		horizonMonths = 1
	}
	if horizonMonths > 12 {
		horizonMonths = 12
	}

	cacheKey := redis.ForecastKey(scope.Label(), horizonMonths)
	if s.cache != nil {
		var cached Result
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	history, err := s.climate.History(ctx, scope, historyLimit)
	if err != nil {
		return nil, err
	}

	heatBase, vectorBase, airBase := seasonalBaselines(history)

	// The horizon starts at the current month.
	now := time.Now().UTC()
	forecast := make([]MonthForecast, 0, horizonMonths)
	for i := 0; i < horizonMonths; i++ {
		target := monthStart(now).AddDate(0, i, 0)
		lift := math.Sin(float64(target.Month()-1) / 12 * 2 * math.Pi)

		forecast = append(forecast, MonthForecast{
			Month:      target.Format("2006-01"),
			HeatRisk:   features.Bounded(heatBase + lift*8 + float64(i)*0.9),
			VectorRisk: features.Bounded(vectorBase + lift*10 + float64(i%3)*1.3),
			AirRisk:    features.Bounded(airBase + (1-lift)*6 + float64(i)*0.7),
			Confidence: features.BoundedIn(85-float64(i)*4.5, 45, 90),
		})
	}

	result := &Result{
		AnalysisID:    uuid.NewString(),
		District:      scope.Label(),
		GeneratedAt:   now,
		HorizonMonths: horizonMonths,
		Forecast:      forecast,
		Assumptions: []string{
			"Forecast uses district historical climate trend with seasonal lift and basic regression slope.",
			"Confidence decreases for farther forecast months.",
			"Outputs are preventive planning signals and should be reviewed with field context.",
		},
		ModelVersion:     ModelVersion,
		GovernanceNotice: GovernanceNotice,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, redis.TTLDaily); err != nil {
			s.logger.WithError(err).Warn("Failed to cache seasonal forecast")
		}
	}
	return result, nil
}

// seasonalBaselines averages the trailing months of per-month risk indices.
// An empty history yields the fixed neutral baselines.
func seasonalBaselines(history []contracts.ClimateSample) (heat, vector, air float64) {
	type monthAccum struct {
		temps    []float64
		aqis     []float64
		heatRows int
	}
	byMonth := map[string]*monthAccum{}
	for _, row := range history {
		key := row.Date.UTC().Format("2006-01")
		accum, ok := byMonth[key]
		if !ok {
			accum = &monthAccum{}
			byMonth[key] = accum
		}
		accum.temps = append(accum.temps, row.Temperature)
		accum.aqis = append(accum.aqis, float64(row.AQI))
		if row.HeatAlertFlag {
			accum.heatRows++
		}
	}

	if len(byMonth) == 0 {
		return defaultHeatBase, defaultVectorBase, defaultAirBase
	}

	keys := make([]string, 0, len(byMonth))
	for key := range byMonth {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) > trailingMonths {
		keys = keys[len(keys)-trailingMonths:]
	}

	var heats, vectors, airs []float64
	for _, key := range keys {
		accum := byMonth[key]
		avgTemp := features.Mean(accum.temps)
		avgAqi := features.Mean(accum.aqis)
		heatRatio := float64(accum.heatRows) / float64(len(accum.temps))

		heats = append(heats, features.Bounded((avgTemp-28)*4+heatRatio*30))
		vectors = append(vectors, features.Bounded(heatRatio*35+math.Max(0, 45-avgTemp)*0.8))
		airs = append(airs, features.Bounded((avgAqi-70)*0.7))
	}
	return features.Mean(heats), features.Mean(vectors), features.Mean(airs)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
