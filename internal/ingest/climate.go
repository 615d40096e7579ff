package ingest

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
	"github.com/swasthyasetu/risk-engine/pkg/redis"
)

// heatAlertThreshold marks a reading as a heat alert.
const heatAlertThreshold = 40.0

// Ingestor appends one climate reading per district per cycle.
type Ingestor struct {
	schools  contracts.SchoolRepository
	climate  contracts.ClimateRepository
	bulletin *BulletinClient
	cache    *redis.Cache
	logger   *logger.Logger
	rng      *rand.Rand
}

// NewIngestor wires the climate ingestor. bulletin may be nil when no AQI
// feed is configured; AQI values are then simulated like temperature.
func NewIngestor(
	schools contracts.SchoolRepository,
	climate contracts.ClimateRepository,
	bulletin *BulletinClient,
	cache *redis.Cache,
	log *logger.Logger,
) *Ingestor {
	return &Ingestor{
		schools:  schools,
		climate:  climate,
		bulletin: bulletin,
		cache:    cache,
		logger:   log,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// IngestOnce appends a reading for every known district and invalidates
// each district's cached overview. Per-district failures are logged and
// skipped so one bad district cannot stall the cycle.
func (i *Ingestor) IngestOnce(ctx context.Context) error {
	districts, err := i.schools.Districts(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, district := range districts {
		temperature := math.Round((24+i.rng.Float64()*22)*100) / 100

		aqi := i.districtAQI(ctx, district)

		sample := contracts.ClimateSample{
			District:      district,
			Date:          now,
			Temperature:   temperature,
			AQI:           aqi,
			HeatAlertFlag: temperature >= heatAlertThreshold,
		}
		if err := i.climate.Append(ctx, sample); err != nil {
			i.logger.WithError(err).WithField("district", district).Error("Failed to append climate sample")
			continue
		}

		if i.cache != nil {
			if err := i.cache.Delete(ctx, redis.DistrictOverviewKey(district)); err != nil {
				i.logger.WithError(err).WithField("district", district).Warn("Failed to invalidate district cache")
			}
		}
	}

	i.logger.WithField("districts", len(districts)).Info("Climate ingestion cycle completed")
	return nil
}

// districtAQI prefers the scraped bulletin value and falls back to a
// simulated reading when the feed is absent or fails.
func (i *Ingestor) districtAQI(ctx context.Context, district string) int {
	if i.bulletin != nil {
		aqi, err := i.bulletin.DistrictAQI(ctx, district)
		if err == nil {
			return aqi
		}
		i.logger.WithError(err).WithField("district", district).Warn("AQI bulletin unavailable, simulating value")
	}
	return 60 + i.rng.Intn(290)
}
