package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/umatomo/predict-api/internal/domain/prediction"
	"github.com/umatomo/predict-api/internal/domain/race"
	"github.com/umatomo/predict-api/internal/domain/social"
	idgen "github.com/umatomo/predict-api/internal/platform/id"
)

type PredictionService struct {
	predictionRepo prediction.Repository
	raceRepo       race.Repository
	socialRepo     social.Repository
	idGen          idgen.Generator
	now            func() time.Time

	// allowDuplicateSlots permits the same horse in two slots, which the
	// legacy data model tolerated. Off by default.
	allowDuplicateSlots bool
}

type CreatePredictionInput struct {
	UserID   string
	RaceID   string
	FirstID  string
	SecondID string
	ThirdID  string
}

func NewPredictionService(
	predictionRepo prediction.Repository,
	raceRepo race.Repository,
	socialRepo social.Repository,
	idGen idgen.Generator,
	allowDuplicateSlots bool,
) *PredictionService {
	return &PredictionService{
		predictionRepo:      predictionRepo,
		raceRepo:            raceRepo,
		socialRepo:          socialRepo,
		idGen:               idGen,
		now:                 time.Now,
		allowDuplicateSlots: allowDuplicateSlots,
	}
}

// Create validates the cross-entity invariant in one place: every predicted
// horse must run in the predicted race. Duplicate slots are rejected unless
// the service was configured to allow them.
func (s *PredictionService) Create(ctx context.Context, input CreatePredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Create")
	defer span.End()

	userID := strings.TrimSpace(input.UserID)
	raceID := strings.TrimSpace(input.RaceID)
	if userID == "" || raceID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: user id and race id are required", ErrInvalidInput)
	}

	slots := []string{
		strings.TrimSpace(input.FirstID),
		strings.TrimSpace(input.SecondID),
		strings.TrimSpace(input.ThirdID),
	}
	for _, slot := range slots {
		if slot == "" {
			return prediction.Prediction{}, fmt.Errorf("%w: all three placings must be set", ErrInvalidInput)
		}
	}

	if !s.allowDuplicateSlots {
		if slots[0] == slots[1] || slots[0] == slots[2] || slots[1] == slots[2] {
			return prediction.Prediction{}, fmt.Errorf("%w: %s", ErrInvalidInput, prediction.ErrDuplicateSlots)
		}
	}

	item, exists, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get race: %w", err)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: race=%s", ErrNotFound, raceID)
	}

	for _, slot := range slots {
		if _, ok := item.HorseByID(slot); !ok {
			return prediction.Prediction{}, fmt.Errorf("%w: %s (horse=%s race=%s)",
				ErrInvalidInput, prediction.ErrInvalidPrediction, slot, raceID)
		}
	}

	predictionID, err := s.idGen.NewID()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("generate prediction id: %w", err)
	}

	created := prediction.Prediction{
		ID:        predictionID,
		UserID:    userID,
		RaceID:    raceID,
		FirstID:   slots[0],
		SecondID:  slots[1],
		ThirdID:   slots[2],
		CreatedAt: s.now().UTC(),
	}
	if err := s.predictionRepo.Create(ctx, created); err != nil {
		return prediction.Prediction{}, fmt.Errorf("create prediction: %w", err)
	}
	return created, nil
}

func (s *PredictionService) ListMine(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListMine")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.predictionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return items, nil
}

// Delete removes a prediction. Only the owner may delete their own.
func (s *PredictionService) Delete(ctx context.Context, userID, predictionID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Delete")
	defer span.End()

	predictionID = strings.TrimSpace(predictionID)
	if predictionID == "" {
		return fmt.Errorf("%w: prediction id is required", ErrInvalidInput)
	}

	item, exists, err := s.predictionRepo.GetByID(ctx, predictionID)
	if err != nil {
		return fmt.Errorf("get prediction: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: prediction=%s", ErrNotFound, predictionID)
	}
	if item.UserID != strings.TrimSpace(userID) {
		return fmt.Errorf("%w: only the owner can delete a prediction", ErrForbidden)
	}

	if err := s.predictionRepo.Delete(ctx, predictionID); err != nil {
		return fmt.Errorf("delete prediction: %w", err)
	}
	return nil
}

// Timeline joins the predictions of everyone the user follows, plus the
// user's own, newest first. raceID optionally narrows to a single race.
func (s *PredictionService) Timeline(ctx context.Context, userID, raceID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Timeline")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	following, err := s.socialRepo.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}

	userIDs := append(following, userID)
	items, err := s.predictionRepo.ListByUsers(ctx, userIDs, strings.TrimSpace(raceID))
	if err != nil {
		return nil, fmt.Errorf("list timeline predictions: %w", err)
	}
	return items, nil
}
