package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/statline/gameday/external/statsapi"
	"github.com/statline/gameday/internal/config"
	"github.com/statline/gameday/internal/domain/archive"
	"github.com/statline/gameday/internal/infrastructure/repository/postgres"
	"github.com/statline/gameday/internal/interfaces/httpapi"
	"github.com/statline/gameday/internal/platform/cache"
	idgen "github.com/statline/gameday/internal/platform/id"
	"github.com/statline/gameday/internal/platform/logging"
	"github.com/statline/gameday/internal/platform/resilience"
	"github.com/statline/gameday/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	svcLogger := logging.NewJSON(cfg.LogLevel)

	client := statsapi.NewClient(statsapi.ClientConfig{
		BaseURL:    cfg.StatsAPIBaseURL,
		Timeout:    cfg.StatsAPITimeout,
		MaxRetries: cfg.StatsAPIMaxRetries,
		Logger:     svcLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StatsAPICircuitEnabled,
			FailureThreshold: cfg.StatsAPICircuitFailureCount,
			OpenTimeout:      cfg.StatsAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StatsAPICircuitHalfOpenMaxReq,
		},
	})

	var archiveRepo archive.Repository
	if cfg.ArchiveEnabled {
		db, err := openArchiveDB(cfg)
		if err != nil {
			return nil, err
		}
		archiveRepo = postgres.NewArchiveRepository(db)
	}

	slateCache := cache.NewStore(cfg.SlateCacheIdleTTL)
	pitcherCache := cache.NewStore(cfg.PitcherStatsTTL)

	pitcherSvc := usecase.NewPitcherStatsService(client, pitcherCache, cfg.Season, archiveRepo, svcLogger)
	shaper := usecase.NewShaper(pitcherSvc, svcLogger)
	slateSvc := usecase.NewSlateService(
		client,
		shaper,
		slateCache,
		archiveRepo,
		usecase.SlateTTLs{
			Live:  cfg.SlateCacheLiveTTL,
			Idle:  cfg.SlateCacheIdleTTL,
			Error: cfg.SlateCacheErrorTTL,
		},
		svcLogger,
	)
	prewarmSvc := usecase.NewPrewarmService(slateSvc, idgen.NewRandomGenerator(), svcLogger)

	handler := httpapi.NewHandler(slateSvc, prewarmSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func openArchiveDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
