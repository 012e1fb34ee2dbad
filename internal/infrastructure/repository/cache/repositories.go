package cache

import (
	"context"

	"github.com/umatomo/predict-api/internal/domain/race"
	basecache "github.com/umatomo/predict-api/internal/platform/cache"
)

// RaceRepository caches race cards and results. Cards are immutable after
// creation, so only result upserts invalidate.
type RaceRepository struct {
	next  race.Repository
	cache *basecache.Store
}

func NewRaceRepository(next race.Repository, cache *basecache.Store) *RaceRepository {
	return &RaceRepository{next: next, cache: cache}
}

func (r *RaceRepository) List(ctx context.Context) ([]race.Race, error) {
	v, err := r.cache.GetOrLoad(ctx, "race:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]race.Race, 0, len(items))
		for _, item := range items {
			out = append(out, cloneRace(item))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]race.Race)
	out := make([]race.Race, 0, len(items))
	for _, item := range items {
		out = append(out, cloneRace(item))
	}
	return out, nil
}

func (r *RaceRepository) GetByID(ctx context.Context, raceID string) (race.Race, bool, error) {
	key := "race:id:" + raceID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, raceID)
		if err != nil {
			return nil, err
		}
		return cachedRaceByID{value: cloneRace(item), exists: exists}, nil
	})
	if err != nil {
		return race.Race{}, false, err
	}

	cached, _ := v.(cachedRaceByID)
	return cloneRace(cached.value), cached.exists, nil
}

func (r *RaceRepository) Create(ctx context.Context, item race.Race) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, "race:list")
	r.cache.Delete(ctx, "race:id:"+item.ID)
	return nil
}

func (r *RaceRepository) GetResult(ctx context.Context, raceID string) (race.Result, bool, error) {
	key := "race:result:" + raceID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		result, exists, err := r.next.GetResult(ctx, raceID)
		if err != nil {
			return nil, err
		}
		return cachedResultByRace{value: result, exists: exists}, nil
	})
	if err != nil {
		return race.Result{}, false, err
	}

	cached, _ := v.(cachedResultByRace)
	return cached.value, cached.exists, nil
}

func (r *RaceRepository) ListResults(ctx context.Context) ([]race.Result, error) {
	v, err := r.cache.GetOrLoad(ctx, "race:result-list", func(ctx context.Context) (any, error) {
		items, err := r.next.ListResults(ctx)
		if err != nil {
			return nil, err
		}
		return append([]race.Result(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]race.Result)
	return append([]race.Result(nil), items...), nil
}

func (r *RaceRepository) UpsertResult(ctx context.Context, result race.Result) (race.Result, error) {
	stored, err := r.next.UpsertResult(ctx, result)
	if err != nil {
		return race.Result{}, err
	}
	r.cache.Delete(ctx, "race:result:"+result.RaceID)
	r.cache.Delete(ctx, "race:result-list")
	return stored, nil
}

type cachedRaceByID struct {
	value  race.Race
	exists bool
}

type cachedResultByRace struct {
	value  race.Result
	exists bool
}

func cloneRace(item race.Race) race.Race {
	out := item
	out.Horses = append([]race.Horse(nil), item.Horses...)
	return out
}
