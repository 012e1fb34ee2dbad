package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/umatomo/predict-api/internal/usecase"
)

func (h *Handler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createPredictionRequest
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

	item, err := h.predictionService.Create(ctx, usecase.CreatePredictionInput{
		UserID:   principal.UserID,
		RaceID:   req.RaceID,
		FirstID:  req.FirstID,
		SecondID: req.SecondID,
		ThirdID:  req.ThirdID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create prediction failed", "user_id", principal.UserID, "race_id", req.RaceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, predictionToDTO(item))
}

func (h *Handler) ListMyPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPredictions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	predictions, err := h.predictionService.ListMine(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list my predictions failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]predictionDTO, 0, len(predictions))
	for _, item := range predictions {
		items = append(items, predictionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) DeletePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	predictionID := strings.TrimSpace(r.PathValue("predictionID"))

	if err := h.predictionService.Delete(ctx, principal.UserID, predictionID); err != nil {
		h.logger.WarnContext(ctx, "delete prediction failed", "user_id", principal.UserID, "prediction_id", predictionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

// GetPredictionTimeline returns the recent predictions of every user the
// caller follows, optionally narrowed to one race via ?race_id=.
func (h *Handler) GetPredictionTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPredictionTimeline")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	raceID := strings.TrimSpace(r.URL.Query().Get("race_id"))

	predictions, err := h.predictionService.Timeline(ctx, principal.UserID, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "prediction timeline failed", "user_id", principal.UserID, "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]predictionDTO, 0, len(predictions))
	for _, item := range predictions {
		items = append(items, predictionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMyResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyResults")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	outcomes, err := h.scoringService.ResultsForUser(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list my results failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]predictionOutcomeDTO, 0, len(outcomes))
	for _, item := range outcomes {
		items = append(items, outcomeToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMyPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyPoints")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	total, err := h.scoringService.Points(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get my points failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pointsDTO{UserID: principal.UserID, Points: total})
}

func (h *Handler) GetMySummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMySummary")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	summary, err := h.scoringService.Summary(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get my summary failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userSummaryDTO{
		UserID:          summary.UserID,
		Points:          summary.Points,
		HitRate:         summary.HitRate,
		PredictionCount: summary.PredictionCount,
	})
}
