package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/umatomo/predict-api/internal/domain/race"
	idgen "github.com/umatomo/predict-api/internal/platform/id"
)

const minHorsesPerRace = 3

type RaceService struct {
	raceRepo race.Repository
	scoring  *ScoringService
	idGen    idgen.Generator
	now      func() time.Time
}

type CreateRaceInput struct {
	Name       string
	Location   string
	StartsAt   time.Time
	HorseNames []string
}

type PublishResultInput struct {
	RaceID   string
	FirstID  *string
	SecondID *string
	ThirdID  *string
}

func NewRaceService(raceRepo race.Repository, scoring *ScoringService, idGen idgen.Generator) *RaceService {
	return &RaceService{
		raceRepo: raceRepo,
		scoring:  scoring,
		idGen:    idGen,
		now:      time.Now,
	}
}

func (s *RaceService) ListRaces(ctx context.Context) ([]race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.ListRaces")
	defer span.End()

	items, err := s.raceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}
	return items, nil
}

func (s *RaceService) GetRace(ctx context.Context, raceID string) (race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.GetRace")
	defer span.End()

	raceID = strings.TrimSpace(raceID)
	if raceID == "" {
		return race.Race{}, fmt.Errorf("%w: race id is required", ErrInvalidInput)
	}

	item, exists, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		return race.Race{}, fmt.Errorf("get race: %w", err)
	}
	if !exists {
		return race.Race{}, fmt.Errorf("%w: race=%s", ErrNotFound, raceID)
	}
	return item, nil
}

func (s *RaceService) ListHorses(ctx context.Context, raceID string) ([]race.Horse, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.ListHorses")
	defer span.End()

	item, err := s.GetRace(ctx, raceID)
	if err != nil {
		return nil, err
	}
	return item.Horses, nil
}

// CreateRace registers a race with its full card. Races are immutable once
// created; there is deliberately no update operation.
func (s *RaceService) CreateRace(ctx context.Context, input CreateRaceInput) (race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.CreateRace")
	defer span.End()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return race.Race{}, fmt.Errorf("%w: race name is required", ErrInvalidInput)
	}
	if len(input.HorseNames) < minHorsesPerRace {
		return race.Race{}, fmt.Errorf("%w: a race needs at least %d horses", ErrInvalidInput, minHorsesPerRace)
	}

	raceID, err := s.idGen.NewID()
	if err != nil {
		return race.Race{}, fmt.Errorf("generate race id: %w", err)
	}

	horses := make([]race.Horse, 0, len(input.HorseNames))
	for _, horseName := range input.HorseNames {
		horseName = strings.TrimSpace(horseName)
		if horseName == "" {
			return race.Race{}, fmt.Errorf("%w: horse name cannot be empty", ErrInvalidInput)
		}
		horseID, err := s.idGen.NewID()
		if err != nil {
			return race.Race{}, fmt.Errorf("generate horse id: %w", err)
		}
		horses = append(horses, race.Horse{
			ID:     horseID,
			RaceID: raceID,
			Name:   horseName,
		})
	}

	item := race.Race{
		ID:       raceID,
		Name:     name,
		Location: strings.TrimSpace(input.Location),
		StartsAt: input.StartsAt,
		Horses:   horses,
	}
	if err := s.raceRepo.Create(ctx, item); err != nil {
		return race.Race{}, fmt.Errorf("create race: %w", err)
	}
	return item, nil
}

// PublishResult upserts the official result and immediately re-evaluates
// the ledger for the race. Posting a second result for the same race is an
// update: the revision bumps and every affected total is recomputed, never
// a silent no-op.
func (s *RaceService) PublishResult(ctx context.Context, input PublishResultInput) (race.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.PublishResult")
	defer span.End()

	raceID := strings.TrimSpace(input.RaceID)
	if raceID == "" {
		return race.Result{}, fmt.Errorf("%w: race id is required", ErrInvalidInput)
	}

	item, exists, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		return race.Result{}, fmt.Errorf("get race: %w", err)
	}
	if !exists {
		return race.Result{}, fmt.Errorf("%w: race=%s", ErrNotFound, raceID)
	}

	for _, placing := range []*string{input.FirstID, input.SecondID, input.ThirdID} {
		if placing == nil {
			continue
		}
		if _, ok := item.HorseByID(*placing); !ok {
			return race.Result{}, fmt.Errorf("%w: horse %s does not run in race %s", ErrInvalidInput, *placing, raceID)
		}
	}

	stored, err := s.raceRepo.UpsertResult(ctx, race.Result{
		RaceID:    raceID,
		FirstID:   input.FirstID,
		SecondID:  input.SecondID,
		ThirdID:   input.ThirdID,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return race.Result{}, fmt.Errorf("upsert race result: %w", err)
	}

	// Explicit call instead of a persistence-side hook: result publication
	// is the one place ledger evaluation is triggered from.
	if err := s.scoring.Evaluate(ctx, raceID); err != nil {
		return race.Result{}, fmt.Errorf("evaluate race after result: %w", err)
	}
	return stored, nil
}
