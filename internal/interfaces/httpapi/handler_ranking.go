package httpapi

import (
	"net/http"
	"strconv"
	"strings"
)

// parseLimit reads ?limit= and clamps it to the configured maximum. Absent
// or malformed values fall back to the maximum.
func (h *Handler) parseLimit(r *http.Request) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return h.rankingLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > h.rankingLimit {
		return h.rankingLimit
	}
	return limit
}

func (h *Handler) GetPointsRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPointsRanking")
	defer span.End()

	entries, err := h.rankingService.PointsRanking(ctx, h.parseLimit(r))
	if err != nil {
		h.logger.WarnContext(ctx, "points ranking failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rankingEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, rankingEntryToDTO(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetHitRateRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHitRateRanking")
	defer span.End()

	entries, err := h.rankingService.HitRateRanking(ctx, h.minPredictions, h.parseLimit(r))
	if err != nil {
		h.logger.WarnContext(ctx, "hit-rate ranking failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rankingEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, rankingEntryToDTO(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
