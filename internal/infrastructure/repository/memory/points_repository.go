package memory

import (
	"context"
	"sync"

	"github.com/umatomo/predict-api/internal/domain/points"
)

type PointsRepository struct {
	mu     sync.RWMutex
	items  map[string]points.Ledger
	orders []string
}

func NewPointsRepository() *PointsRepository {
	return &PointsRepository{items: make(map[string]points.Ledger)}
}

func (r *PointsRepository) Get(_ context.Context, userID string) (points.Ledger, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.items[userID]
	if !ok {
		return points.Ledger{}, false, nil
	}

	return entry, true, nil
}

func (r *PointsRepository) Upsert(_ context.Context, entry points.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[entry.UserID]; !exists {
		r.orders = append(r.orders, entry.UserID)
	}
	r.items[entry.UserID] = entry

	return nil
}

func (r *PointsRepository) List(_ context.Context) ([]points.Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]points.Ledger, 0, len(r.orders))
	for _, userID := range r.orders {
		out = append(out, r.items[userID])
	}

	return out, nil
}
