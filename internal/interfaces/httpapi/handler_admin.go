package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/umatomo/predict-api/internal/usecase"
)

// CreateRace registers a race card with its runners. Internal-only: the
// public API never mutates the catalog.
func (h *Handler) CreateRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRace")
	defer span.End()

	var req createRaceRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: starts_at must be RFC3339: %v", usecase.ErrInvalidInput, err))
		return
	}

	item, err := h.raceService.CreateRace(ctx, usecase.CreateRaceInput{
		Name:       req.Name,
		Location:   req.Location,
		StartsAt:   startsAt,
		HorseNames: req.HorseNames,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create race failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, raceToDTO(item))
}

// PublishRaceResult upserts the official top three and triggers scoring for
// everyone who predicted the race. Re-publishing corrects the result and
// recomputes affected ledgers.
func (h *Handler) PublishRaceResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PublishRaceResult")
	defer span.End()

	raceID := strings.TrimSpace(r.PathValue("raceID"))

	var req publishResultRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	result, err := h.raceService.PublishResult(ctx, usecase.PublishResultInput{
		RaceID:   raceID,
		FirstID:  req.FirstID,
		SecondID: req.SecondID,
		ThirdID:  req.ThirdID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "publish race result failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, raceResultToDTO(result))
}

// RunRecomputePointsJob rebuilds every user's ledger from scratch. Meant for
// the scheduled reconciliation job, not for request-path use.
func (h *Handler) RunRecomputePointsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecomputePointsJob")
	defer span.End()

	result, err := h.recomputeService.RecomputeAll(ctx, h.recomputeWorkers)
	if err != nil {
		h.logger.ErrorContext(ctx, "recompute points job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "recompute points job finished",
		"user_count", result.UserCount,
		"failed_count", result.FailedCount,
		"duration_ms", result.DurationMs,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}
