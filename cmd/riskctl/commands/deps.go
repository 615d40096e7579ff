package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/swasthyasetu/risk-engine/internal/district"
	"github.com/swasthyasetu/risk-engine/internal/forecast"
	"github.com/swasthyasetu/risk-engine/internal/geo"
	"github.com/swasthyasetu/risk-engine/internal/ingest"
	"github.com/swasthyasetu/risk-engine/internal/national"
	"github.com/swasthyasetu/risk-engine/internal/outbreak"
	"github.com/swasthyasetu/risk-engine/internal/resources"
	"github.com/swasthyasetu/risk-engine/internal/risk"
	"github.com/swasthyasetu/risk-engine/internal/store"
	"github.com/swasthyasetu/risk-engine/pkg/config"
	"github.com/swasthyasetu/risk-engine/pkg/database"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
	"github.com/swasthyasetu/risk-engine/pkg/redis"
)

// deps bundles the wired services shared by all commands.
type deps struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	redis *redis.Client
	cache *redis.Cache
	store *store.Store

	telemetry *risk.Telemetry
	provider  risk.ScoreProvider

	districts    *district.Service
	hotspots     *geo.Service
	outbreaks    *outbreak.Detector
	resources    *resources.Ranker
	forecasts    *forecast.Service
	national     *national.Service
	ingestor     *ingest.Ingestor
	recalculator *ingest.Recalculator
}

// initDeps loads config and wires every service. The returned cleanup
// closes the database and Redis connections.
func initDeps() (*deps, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "risk-engine")

	st := store.New(db, log)

	telemetry := risk.NewTelemetry()
	provider := risk.NewFailoverProvider(
		risk.NewRemoteProvider(cfg, log),
		risk.LocalProvider{},
		telemetry,
		log,
	)

	bulletin := ingest.NewBulletinClient(cfg, log)

	districtSvc := district.NewService(st.Schools, st.Climate, st.Signals, st.Recommendations, cache, log)

	d := &deps{
		cfg:       cfg,
		log:       log,
		db:        db,
		redis:     redisClient,
		cache:     cache,
		store:     st,
		telemetry: telemetry,
		provider:  provider,

		districts:    districtSvc,
		hotspots:     geo.NewService(st.Schools, st.Climate, st.Signals, cache, log),
		outbreaks:    outbreak.NewDetector(st.Signals, log),
		resources:    resources.NewRanker(st.Schools, st.Recommendations, log),
		forecasts:    forecast.NewService(st.Climate, cache, log),
		national:     national.NewService(st.Schools, st.Climate, st.Signals, districtSvc, log),
		ingestor:     ingest.NewIngestor(st.Schools, st.Climate, bulletin, cache, log),
		recalculator: ingest.NewRecalculator(st.Schools, st.Students, st.Climate, provider, log),
	}

	cleanup := func() {
		redisClient.Close()
		db.Close()
	}
	return d, cleanup, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
