package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListRaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRaces")
	defer span.End()

	races, err := h.raceService.ListRaces(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list races failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]raceDTO, 0, len(races))
	for _, item := range races {
		items = append(items, raceToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRace")
	defer span.End()

	raceID := strings.TrimSpace(r.PathValue("raceID"))

	item, err := h.raceService.GetRace(ctx, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "get race failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, raceToDTO(item))
}

func (h *Handler) ListRaceHorses(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRaceHorses")
	defer span.End()

	raceID := strings.TrimSpace(r.PathValue("raceID"))

	horses, err := h.raceService.ListHorses(ctx, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "list race horses failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]horseDTO, 0, len(horses))
	for _, horse := range horses {
		items = append(items, horseDTO{ID: horse.ID, Name: horse.Name})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
