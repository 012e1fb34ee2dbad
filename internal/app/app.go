package app

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/umatomo/predict-api/internal/config"
	"github.com/umatomo/predict-api/internal/domain/points"
	"github.com/umatomo/predict-api/internal/domain/prediction"
	"github.com/umatomo/predict-api/internal/domain/race"
	"github.com/umatomo/predict-api/internal/domain/social"
	"github.com/umatomo/predict-api/internal/infrastructure/account"
	cacherepo "github.com/umatomo/predict-api/internal/infrastructure/repository/cache"
	"github.com/umatomo/predict-api/internal/infrastructure/repository/memory"
	"github.com/umatomo/predict-api/internal/infrastructure/repository/postgres"
	"github.com/umatomo/predict-api/internal/interfaces/httpapi"
	basecache "github.com/umatomo/predict-api/internal/platform/cache"
	idgen "github.com/umatomo/predict-api/internal/platform/id"
	"github.com/umatomo/predict-api/internal/platform/logging"
	"github.com/umatomo/predict-api/internal/platform/resilience"
	"github.com/umatomo/predict-api/internal/usecase"
)

// NewHTTPServer assembles repositories, services and the HTTP router. The
// returned cleanup closes the database pool and must run after Shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		raceRepo       race.Repository
		predictionRepo prediction.Repository
		pointsRepo     points.Repository
		socialRepo     social.Repository
	)
	cleanup := func() error { return nil }

	if strings.TrimSpace(cfg.DBURL) != "" {
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		raceRepo = postgres.NewRaceRepository(db)
		predictionRepo = postgres.NewPredictionRepository(db)
		pointsRepo = postgres.NewPointsRepository(db)
		socialRepo = postgres.NewSocialRepository(db)
		cleanup = db.Close
		logger.Info("repository backend selected", "backend", "postgres", "database", dbNameFromURL(cfg.DBURL))
	} else {
		raceRepo = memory.NewRaceRepository(memory.SeedRaces())
		predictionRepo = memory.NewPredictionRepository()
		pointsRepo = memory.NewPointsRepository()
		socialRepo = memory.NewSocialRepository()
		logger.Info("repository backend selected", "backend", "memory")
	}

	if cfg.CacheEnabled {
		raceRepo = cacherepo.NewRaceRepository(raceRepo, basecache.NewStore(cfg.CacheTTL))
		logger.Info("race repository cache enabled", "ttl", cfg.CacheTTL)
	}

	idGen := idgen.NewRandomGenerator()

	scoringSvc := usecase.NewScoringService(raceRepo, predictionRepo, pointsRepo)
	scoringSvc.SetEvaluateWorkers(cfg.EvaluateWorkers)
	raceSvc := usecase.NewRaceService(raceRepo, scoringSvc, idGen)
	predictionSvc := usecase.NewPredictionService(
		predictionRepo,
		raceRepo,
		socialRepo,
		idGen,
		cfg.PredictionAllowDuplicateSlots,
	)
	rankingSvc := usecase.NewRankingService(raceRepo, predictionRepo, pointsRepo)
	socialSvc := usecase.NewSocialService(socialRepo, predictionRepo, idGen)
	recomputeSvc := usecase.NewRecomputeService(raceRepo, predictionRepo, pointsRepo)

	var breaker *resilience.CircuitBreaker
	if cfg.AccountCircuitEnabled {
		breaker = resilience.NewCircuitBreaker(
			cfg.AccountCircuitFailureCount,
			cfg.AccountCircuitOpenTimeout,
			cfg.AccountCircuitHalfOpenMaxReq,
		)
	}
	accountClient := account.NewClient(
		cfg.AccountBaseURL,
		cfg.AccountIntrospectPath,
		cfg.AccountAdminKey,
		cfg.AccountTimeout,
		breaker,
		logger,
	)

	handler := httpapi.NewHandler(
		raceSvc,
		predictionSvc,
		scoringSvc,
		rankingSvc,
		socialSvc,
		recomputeSvc,
		httpapi.HandlerConfig{
			RankingLimit:          cfg.RankingLimit,
			RankingMinPredictions: cfg.RankingMinPredictions,
			RecomputeWorkers:      cfg.RecomputeWorkers,
		},
		logger,
	)
	router := httpapi.NewRouter(handler, accountClient, logger, httpapi.RouterConfig{
		SwaggerEnabled:      cfg.SwaggerEnabled,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		InternalJobToken:    cfg.InternalJobToken,
		CaptureRequestBody:  cfg.UptraceCaptureRequestBody,
		RequestBodyMaxBytes: cfg.UptraceRequestBodyMaxBytes,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
