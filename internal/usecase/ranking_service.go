package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/umatomo/predict-api/internal/domain/points"
	"github.com/umatomo/predict-api/internal/domain/prediction"
	"github.com/umatomo/predict-api/internal/domain/race"
)

const (
	DefaultRankingLimit   = 20
	DefaultMinPredictions = 3
)

type RankingService struct {
	raceRepo       race.Repository
	predictionRepo prediction.Repository
	pointsRepo     points.Repository
}

// RankingEntry is one row of either leaderboard. Ranks are 1-based and
// contiguous: ties are broken by user ID ascending, so the full order is
// deterministic and two identical ledger states rank identically.
type RankingEntry struct {
	Rank            int
	UserID          string
	Points          int
	HitRate         float64
	PredictionCount int
}

func NewRankingService(
	raceRepo race.Repository,
	predictionRepo prediction.Repository,
	pointsRepo points.Repository,
) *RankingService {
	return &RankingService{
		raceRepo:       raceRepo,
		predictionRepo: predictionRepo,
		pointsRepo:     pointsRepo,
	}
}

// PointsRanking lists users holding a ledger row, highest total first.
func (s *RankingService) PointsRanking(ctx context.Context, limit int) ([]RankingEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.PointsRanking")
	defer span.End()

	ledgers, err := s.pointsRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ledgers: %w", err)
	}
	if len(ledgers) == 0 {
		return []RankingEntry{}, nil
	}

	resultByRace, err := s.resultsByRace(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]RankingEntry, 0, len(ledgers))
	for _, entry := range ledgers {
		userPredictions, err := s.predictionRepo.ListByUser(ctx, entry.UserID)
		if err != nil {
			return nil, fmt.Errorf("list predictions user=%s: %w", entry.UserID, err)
		}
		entries = append(entries, RankingEntry{
			UserID:          entry.UserID,
			Points:          entry.Points,
			HitRate:         hitRate(userPredictions, resultByRace),
			PredictionCount: len(userPredictions),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})

	return assignRanks(entries, normalizeLimit(limit)), nil
}

// HitRateRanking lists users with at least minPredictions predictions in
// total, best hit-rate first. The eligibility count deliberately includes
// predictions without a result yet, matching the product's historical
// behavior: a perfect rate over two predictions still does not qualify
// when the minimum is three.
func (s *RankingService) HitRateRanking(ctx context.Context, minPredictions, limit int) ([]RankingEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.HitRateRanking")
	defer span.End()

	if minPredictions <= 0 {
		minPredictions = DefaultMinPredictions
	}

	countByUser, userOrder, err := s.predictionRepo.CountByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("count predictions by user: %w", err)
	}

	resultByRace, err := s.resultsByRace(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]RankingEntry, 0, len(userOrder))
	for _, userID := range userOrder {
		if countByUser[userID] < minPredictions {
			continue
		}

		userPredictions, err := s.predictionRepo.ListByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list predictions user=%s: %w", userID, err)
		}

		total := 0
		if ledger, exists, err := s.pointsRepo.Get(ctx, userID); err != nil {
			return nil, fmt.Errorf("get ledger user=%s: %w", userID, err)
		} else if exists {
			total = ledger.Points
		}

		entries = append(entries, RankingEntry{
			UserID:          userID,
			Points:          total,
			HitRate:         hitRate(userPredictions, resultByRace),
			PredictionCount: countByUser[userID],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].HitRate != entries[j].HitRate {
			return entries[i].HitRate > entries[j].HitRate
		}
		return entries[i].UserID < entries[j].UserID
	})

	return assignRanks(entries, normalizeLimit(limit)), nil
}

func (s *RankingService) resultsByRace(ctx context.Context) (map[string]race.Result, error) {
	results, err := s.raceRepo.ListResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("list race results: %w", err)
	}

	out := make(map[string]race.Result, len(results))
	for _, r := range results {
		out[r.RaceID] = r
	}
	return out, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultRankingLimit
	}
	return limit
}

func assignRanks(entries []RankingEntry, limit int) []RankingEntry {
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for idx := range entries {
		entries[idx].Rank = idx + 1
	}
	return entries
}
