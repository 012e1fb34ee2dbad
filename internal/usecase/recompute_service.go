package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/umatomo/predict-api/internal/domain/points"
	"github.com/umatomo/predict-api/internal/domain/prediction"
	"github.com/umatomo/predict-api/internal/domain/race"
)

const defaultRecomputeWorkers = 4

// RecomputeService rebuilds every ledger row from scratch. Because the
// ledger is a pure function of (predictions x results), a full recompute
// repairs any drift regardless of how it was introduced.
type RecomputeService struct {
	raceRepo       race.Repository
	predictionRepo prediction.Repository
	pointsRepo     points.Repository
	now            func() time.Time
}

type RecomputeResult struct {
	UserCount   int   `json:"user_count"`
	FailedCount int   `json:"failed_count"`
	WorkerCount int   `json:"worker_count"`
	DurationMs  int64 `json:"duration_ms"`
}

func NewRecomputeService(
	raceRepo race.Repository,
	predictionRepo prediction.Repository,
	pointsRepo points.Repository,
) *RecomputeService {
	return &RecomputeService{
		raceRepo:       raceRepo,
		predictionRepo: predictionRepo,
		pointsRepo:     pointsRepo,
		now:            time.Now,
	}
}

// RecomputeAll recalculates every user's total on a worker pool and
// overwrites the ledger. Users without any results-backed prediction end up
// with an explicit zero row, which matches what Evaluate would produce.
func (s *RecomputeService) RecomputeAll(ctx context.Context, maxWorkers int) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecomputeService.RecomputeAll")
	defer span.End()

	started := s.now()

	_, userOrder, err := s.predictionRepo.CountByUser(ctx)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("count predictions by user: %w", err)
	}

	results, err := s.raceRepo.ListResults(ctx)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("list race results: %w", err)
	}
	resultByRace := make(map[string]race.Result, len(results))
	for _, r := range results {
		resultByRace[r.RaceID] = r
	}

	workers := maxWorkers
	if workers <= 0 {
		workers = defaultRecomputeWorkers
	}
	if workers > len(userOrder) && len(userOrder) > 0 {
		workers = len(userOrder)
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("create recompute pool: %w", err)
	}
	defer pool.Release()

	evaluatedAt := s.now().UTC()
	var wg sync.WaitGroup
	var failed atomic.Int64
	var firstErr atomic.Value

	for _, userID := range userOrder {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := s.recomputeUser(ctx, userID, resultByRace, evaluatedAt); err != nil {
				failed.Add(1)
				firstErr.CompareAndSwap(nil, err)
			}
		})
		if submitErr != nil {
			wg.Done()
			failed.Add(1)
			firstErr.CompareAndSwap(nil, fmt.Errorf("submit recompute task: %w", submitErr))
		}
	}
	wg.Wait()

	out := RecomputeResult{
		UserCount:   len(userOrder),
		FailedCount: int(failed.Load()),
		WorkerCount: workers,
		DurationMs:  time.Since(started).Milliseconds(),
	}
	if err, ok := firstErr.Load().(error); ok && err != nil {
		return out, err
	}
	return out, nil
}

func (s *RecomputeService) recomputeUser(
	ctx context.Context,
	userID string,
	resultByRace map[string]race.Result,
	evaluatedAt time.Time,
) error {
	userPredictions, err := s.predictionRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list predictions user=%s: %w", userID, err)
	}

	total := 0
	for _, item := range userPredictions {
		result, ok := resultByRace[item.RaceID]
		if !ok {
			continue
		}
		total += scorePrediction(item, result)
	}

	if err := s.pointsRepo.Upsert(ctx, points.Ledger{
		UserID:      userID,
		Points:      total,
		EvaluatedAt: evaluatedAt,
	}); err != nil {
		return fmt.Errorf("upsert ledger user=%s: %w", userID, err)
	}
	return nil
}
