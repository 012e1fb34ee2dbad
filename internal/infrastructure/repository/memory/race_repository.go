package memory

import (
	"context"
	"sync"

	"github.com/umatomo/predict-api/internal/domain/race"
)

type RaceRepository struct {
	mu          sync.RWMutex
	items       map[string]race.Race
	results     map[string]race.Result
	orders      []string
	resultOrder []string
}

func NewRaceRepository(races []race.Race) *RaceRepository {
	items := make(map[string]race.Race, len(races))
	orders := make([]string, 0, len(races))

	for _, r := range races {
		items[r.ID] = cloneRace(r)
		orders = append(orders, r.ID)
	}

	return &RaceRepository{
		items:   items,
		results: make(map[string]race.Result),
		orders:  orders,
	}
}

func (r *RaceRepository) List(_ context.Context) ([]race.Race, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]race.Race, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneRace(r.items[id]))
	}

	return out, nil
}

func (r *RaceRepository) GetByID(_ context.Context, raceID string) (race.Race, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[raceID]
	if !ok {
		return race.Race{}, false, nil
	}

	return cloneRace(item), true, nil
}

func (r *RaceRepository) Create(_ context.Context, item race.Race) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = cloneRace(item)

	return nil
}

func (r *RaceRepository) GetResult(_ context.Context, raceID string) (race.Result, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.results[raceID]
	if !ok {
		return race.Result{}, false, nil
	}

	return cloneResult(result), true, nil
}

func (r *RaceRepository) ListResults(_ context.Context) ([]race.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]race.Result, 0, len(r.results))
	for _, id := range r.resultOrder {
		out = append(out, cloneResult(r.results[id]))
	}

	return out, nil
}

func (r *RaceRepository) UpsertResult(_ context.Context, result race.Result) (race.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneResult(result)
	if existing, ok := r.results[result.RaceID]; ok {
		stored.Revision = existing.Revision + 1
	} else {
		stored.Revision = 1
		r.resultOrder = append(r.resultOrder, result.RaceID)
	}
	r.results[result.RaceID] = stored

	return cloneResult(stored), nil
}

func cloneRace(r race.Race) race.Race {
	copied := r
	copied.Horses = append([]race.Horse(nil), r.Horses...)
	return copied
}

func cloneResult(r race.Result) race.Result {
	copied := r
	copied.FirstID = cloneStringPtr(r.FirstID)
	copied.SecondID = cloneStringPtr(r.SecondID)
	copied.ThirdID = cloneStringPtr(r.ThirdID)
	return copied
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}
