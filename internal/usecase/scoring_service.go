package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/umatomo/predict-api/internal/domain/points"
	"github.com/umatomo/predict-api/internal/domain/prediction"
	"github.com/umatomo/predict-api/internal/domain/race"
	"github.com/umatomo/predict-api/internal/platform/resilience"
)

// Slot weights: first place 3, second 2, third 1. A fully correct
// prediction scores 6.
const (
	firstPlacePoints  = 3
	secondPlacePoints = 2
	thirdPlacePoints  = 1

	slotsPerPrediction = 3

	defaultEvaluateWorkers = 8
)

type ScoringService struct {
	raceRepo       race.Repository
	predictionRepo prediction.Repository
	pointsRepo     points.Repository
	now            func() time.Time
	evalFlight     resilience.SingleFlight
	evalWorkers    int
}

// PredictionOutcome is one row of the "my results" feed: what the user
// predicted against what actually happened, for a single race.
type PredictionOutcome struct {
	PredictionID string
	RaceID       string
	RaceName     string
	RaceLocation string
	RaceStartsAt time.Time
	Predicted    [3]string
	Actual       [3]string
	Score        int
	CreatedAt    time.Time
}

type UserSummary struct {
	UserID          string
	Points          int
	HitRate         float64
	PredictionCount int
}

func NewScoringService(
	raceRepo race.Repository,
	predictionRepo prediction.Repository,
	pointsRepo points.Repository,
) *ScoringService {
	return &ScoringService{
		raceRepo:       raceRepo,
		predictionRepo: predictionRepo,
		pointsRepo:     pointsRepo,
		now:            time.Now,
		evalWorkers:    defaultEvaluateWorkers,
	}
}

// SetEvaluateWorkers overrides the per-race evaluation concurrency.
// Non-positive values keep the default.
func (s *ScoringService) SetEvaluateWorkers(n int) {
	if n > 0 {
		s.evalWorkers = n
	}
}

// Evaluate re-derives the ledger rows of every user who predicted the given
// race. Recomputation is the only ledger mutator: each affected user's total
// is rebuilt from all of their results-backed predictions and overwritten,
// so repeated calls converge on the same totals and never double-count.
func (s *ScoringService) Evaluate(ctx context.Context, raceID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Evaluate")
	defer span.End()

	raceID = strings.TrimSpace(raceID)
	if raceID == "" {
		return fmt.Errorf("%w: race id is required", ErrInvalidInput)
	}

	for {
		evaluated, err, shared := s.evalFlight.Do("evaluate:"+raceID, func() (any, error) {
			return s.evaluateOnce(ctx, raceID)
		})
		if err != nil || !shared {
			return err
		}

		// Joined a flight another caller started, possibly before the
		// result revision this caller saw was published. Re-run when the
		// stored revision has moved past the one that flight evaluated.
		current, exists, err := s.raceRepo.GetResult(ctx, raceID)
		if err != nil {
			return fmt.Errorf("recheck race result after evaluation: %w", err)
		}
		if !exists || current.Revision == evaluated.(int) {
			return nil
		}
	}
}

// evaluateOnce returns the revision of the result it scored against, zero
// when no result is published yet.
func (s *ScoringService) evaluateOnce(ctx context.Context, raceID string) (int, error) {
	_, exists, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		return 0, fmt.Errorf("get race for evaluation: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: race=%s", ErrNotFound, raceID)
	}

	// No result published yet: predictions stay unscored rather than
	// scoring as zero.
	result, resultExists, err := s.raceRepo.GetResult(ctx, raceID)
	if err != nil {
		return 0, fmt.Errorf("get race result for evaluation: %w", err)
	}
	if !resultExists {
		return 0, nil
	}

	predictions, err := s.predictionRepo.ListByRace(ctx, raceID)
	if err != nil {
		return 0, fmt.Errorf("list predictions by race: %w", err)
	}
	if len(predictions) == 0 {
		return result.Revision, nil
	}

	resultByRace, err := s.resultsByRace(ctx)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(predictions))
	userIDs := make([]string, 0, len(predictions))
	for _, item := range predictions {
		if _, ok := seen[item.UserID]; ok {
			continue
		}
		seen[item.UserID] = struct{}{}
		userIDs = append(userIDs, item.UserID)
	}

	evaluatedAt := s.now().UTC()
	workers := s.evalWorkers
	if workers <= 0 {
		workers = 1
	}

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(workers)
	for _, userID := range userIDs {
		p.Go(func(ctx context.Context) error {
			return s.recomputeUserLedger(ctx, userID, resultByRace, evaluatedAt)
		})
	}
	return result.Revision, p.Wait()
}

func (s *ScoringService) recomputeUserLedger(
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

// Points returns the user's running total; users without a ledger row have
// zero points.
func (s *ScoringService) Points(ctx context.Context, userID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Points")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	entry, exists, err := s.pointsRepo.Get(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get ledger: %w", err)
	}
	if !exists {
		return 0, nil
	}
	return entry.Points, nil
}

// HitRate is the percentage of the user's predicted slots that matched the
// official result, across every results-backed prediction, rounded to one
// decimal. Zero scored predictions yield exactly 0.
func (s *ScoringService) HitRate(ctx context.Context, userID string) (float64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.HitRate")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	userPredictions, err := s.predictionRepo.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list predictions: %w", err)
	}

	resultByRace, err := s.resultsByRace(ctx)
	if err != nil {
		return 0, err
	}

	return hitRate(userPredictions, resultByRace), nil
}

// ResultsForUser builds the detail feed of every prediction of the user
// that has a published result, newest first. Predictions on unresolved
// races are excluded entirely.
func (s *ScoringService) ResultsForUser(ctx context.Context, userID string) ([]PredictionOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ResultsForUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	userPredictions, err := s.predictionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	resultByRace, err := s.resultsByRace(ctx)
	if err != nil {
		return nil, err
	}

	raceByID := make(map[string]race.Race)
	out := make([]PredictionOutcome, 0, len(userPredictions))
	for _, item := range userPredictions {
		result, ok := resultByRace[item.RaceID]
		if !ok {
			continue
		}

		r, ok := raceByID[item.RaceID]
		if !ok {
			loaded, exists, err := s.raceRepo.GetByID(ctx, item.RaceID)
			if err != nil {
				return nil, fmt.Errorf("get race %s: %w", item.RaceID, err)
			}
			if !exists {
				continue
			}
			raceByID[item.RaceID] = loaded
			r = loaded
		}

		out = append(out, PredictionOutcome{
			PredictionID: item.ID,
			RaceID:       r.ID,
			RaceName:     r.Name,
			RaceLocation: r.Location,
			RaceStartsAt: r.StartsAt,
			Predicted:    horseNames(r, item.FirstID, item.SecondID, item.ThirdID),
			Actual:       placedHorseNames(r, result),
			Score:        scorePrediction(item, result),
			CreatedAt:    item.CreatedAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Summary aggregates the profile-view numbers for one user.
func (s *ScoringService) Summary(ctx context.Context, userID string) (UserSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Summary")
	defer span.End()

	total, err := s.Points(ctx, userID)
	if err != nil {
		return UserSummary{}, err
	}

	userPredictions, err := s.predictionRepo.ListByUser(ctx, userID)
	if err != nil {
		return UserSummary{}, fmt.Errorf("list predictions: %w", err)
	}

	resultByRace, err := s.resultsByRace(ctx)
	if err != nil {
		return UserSummary{}, err
	}

	return UserSummary{
		UserID:          userID,
		Points:          total,
		HitRate:         hitRate(userPredictions, resultByRace),
		PredictionCount: len(userPredictions),
	}, nil
}

func (s *ScoringService) resultsByRace(ctx context.Context) (map[string]race.Result, error) {
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

// scorePrediction awards 3/2/1 points for a correct first/second/third
// guess. A nil result placing never matches.
func scorePrediction(p prediction.Prediction, r race.Result) int {
	score := 0
	if slotMatches(r.FirstID, p.FirstID) {
		score += firstPlacePoints
	}
	if slotMatches(r.SecondID, p.SecondID) {
		score += secondPlacePoints
	}
	if slotMatches(r.ThirdID, p.ThirdID) {
		score += thirdPlacePoints
	}
	return score
}

func matchedSlots(p prediction.Prediction, r race.Result) int {
	matched := 0
	if slotMatches(r.FirstID, p.FirstID) {
		matched++
	}
	if slotMatches(r.SecondID, p.SecondID) {
		matched++
	}
	if slotMatches(r.ThirdID, p.ThirdID) {
		matched++
	}
	return matched
}

func slotMatches(actual *string, predicted string) bool {
	return actual != nil && *actual == predicted
}

// hitRate divides matched slots by 3x the count of results-backed
// predictions. Null placings still occupy the denominator, they just can
// never hit.
func hitRate(predictions []prediction.Prediction, resultByRace map[string]race.Result) float64 {
	matched := 0
	scored := 0
	for _, item := range predictions {
		result, ok := resultByRace[item.RaceID]
		if !ok {
			continue
		}
		scored++
		matched += matchedSlots(item, result)
	}
	if scored == 0 {
		return 0
	}

	rate := float64(matched) / float64(scored*slotsPerPrediction) * 100
	return math.Round(rate*10) / 10
}

func horseNames(r race.Race, horseIDs ...string) [3]string {
	var out [3]string
	for i, id := range horseIDs {
		if i >= len(out) {
			break
		}
		if h, ok := r.HorseByID(id); ok {
			out[i] = h.Name
		}
	}
	return out
}

func placedHorseNames(r race.Race, result race.Result) [3]string {
	var out [3]string
	for i, id := range []*string{result.FirstID, result.SecondID, result.ThirdID} {
		if id == nil {
			continue
		}
		if h, ok := r.HorseByID(*id); ok {
			out[i] = h.Name
		}
	}
	return out
}
