package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/umatomo/predict-api/internal/domain/prediction"
)

type PredictionRepository struct {
	mu     sync.RWMutex
	items  map[string]prediction.Prediction
	orders []string
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{items: make(map[string]prediction.Prediction)}
}

func (r *PredictionRepository) GetByID(_ context.Context, predictionID string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[predictionID]
	if !ok {
		return prediction.Prediction{}, false, nil
	}

	return item, true, nil
}

func (r *PredictionRepository) Create(_ context.Context, item prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = item

	return nil
}

func (r *PredictionRepository) Delete(_ context.Context, predictionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[predictionID]; !ok {
		return nil
	}
	delete(r.items, predictionID)
	for i, id := range r.orders {
		if id == predictionID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}

	return nil
}

func (r *PredictionRepository) ListByUser(_ context.Context, userID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, id := range r.orders {
		if item := r.items[id]; item.UserID == userID {
			out = append(out, item)
		}
	}
	sortNewestFirst(out)

	return out, nil
}

func (r *PredictionRepository) ListByUsers(_ context.Context, userIDs []string, raceID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	out := make([]prediction.Prediction, 0)
	for _, id := range r.orders {
		item := r.items[id]
		if _, ok := wanted[item.UserID]; !ok {
			continue
		}
		if raceID != "" && item.RaceID != raceID {
			continue
		}
		out = append(out, item)
	}
	sortNewestFirst(out)

	return out, nil
}

func (r *PredictionRepository) ListByRace(_ context.Context, raceID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, id := range r.orders {
		if item := r.items[id]; item.RaceID == raceID {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *PredictionRepository) CountByUser(_ context.Context) (map[string]int, []string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	userOrder := make([]string, 0)
	for _, id := range r.orders {
		item := r.items[id]
		if _, seen := counts[item.UserID]; !seen {
			userOrder = append(userOrder, item.UserID)
		}
		counts[item.UserID]++
	}

	return counts, userOrder, nil
}

func sortNewestFirst(items []prediction.Prediction) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
