package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/umatomo/predict-api/internal/platform/logging"
	"github.com/umatomo/predict-api/internal/usecase"
)

type Handler struct {
	raceService       *usecase.RaceService
	predictionService *usecase.PredictionService
	scoringService    *usecase.ScoringService
	rankingService    *usecase.RankingService
	socialService     *usecase.SocialService
	recomputeService  *usecase.RecomputeService
	rankingLimit      int
	minPredictions    int
	recomputeWorkers  int
	logger            *logging.Logger
	validator         *validator.Validate
}

type HandlerConfig struct {
	RankingLimit          int
	RankingMinPredictions int
	RecomputeWorkers      int
}

func NewHandler(
	raceService *usecase.RaceService,
	predictionService *usecase.PredictionService,
	scoringService *usecase.ScoringService,
	rankingService *usecase.RankingService,
	socialService *usecase.SocialService,
	recomputeService *usecase.RecomputeService,
	cfg HandlerConfig,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.RankingLimit < 1 {
		cfg.RankingLimit = usecase.DefaultRankingLimit
	}
	if cfg.RankingMinPredictions < 1 {
		cfg.RankingMinPredictions = usecase.DefaultMinPredictions
	}

	return &Handler{
		raceService:       raceService,
		predictionService: predictionService,
		scoringService:    scoringService,
		rankingService:    rankingService,
		socialService:     socialService,
		recomputeService:  recomputeService,
		rankingLimit:      cfg.RankingLimit,
		minPredictions:    cfg.RankingMinPredictions,
		recomputeWorkers:  cfg.RecomputeWorkers,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
