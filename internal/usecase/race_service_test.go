package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/umatomo/predict-api/internal/domain/race"
	"github.com/umatomo/predict-api/internal/infrastructure/repository/memory"
)

func newRaceService(raceRepo *memory.RaceRepository, predictionRepo *memory.PredictionRepository, pointsRepo *memory.PointsRepository) *RaceService {
	scoring := NewScoringService(raceRepo, predictionRepo, pointsRepo)
	return NewRaceService(raceRepo, scoring, &seqIDGen{prefix: "race"})
}

func TestRaceService_CreateRace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	raceRepo := memory.NewRaceRepository(nil)
	svc := newRaceService(raceRepo, memory.NewPredictionRepository(), memory.NewPointsRepository())

	created, err := svc.CreateRace(ctx, CreateRaceInput{
		Name:       "  Winter Classic  ",
		Location:   "Nakayama",
		StartsAt:   time.Date(2026, time.December, 20, 15, 25, 0, 0, time.UTC),
		HorseNames: []string{"First Frost", "Second Snow", "Third Gale"},
	})
	if err != nil {
		t.Fatalf("create race: %v", err)
	}

	if created.Name != "Winter Classic" {
		t.Fatalf("race name not trimmed: %q", created.Name)
	}
	if len(created.Horses) != 3 {
		t.Fatalf("unexpected horse count: got=%d want=3", len(created.Horses))
	}
	for _, h := range created.Horses {
		if h.ID == "" {
			t.Fatal("expected generated horse ids")
		}
		if h.RaceID != created.ID {
			t.Fatalf("horse %s bound to race %s, want %s", h.ID, h.RaceID, created.ID)
		}
	}

	stored, exists, err := raceRepo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get race: %v", err)
	}
	if !exists {
		t.Fatal("race was not persisted")
	}
	if stored.Location != "Nakayama" {
		t.Fatalf("unexpected location: %q", stored.Location)
	}
}

func TestRaceService_CreateRace_RejectsShortCard(t *testing.T) {
	t.Parallel()

	svc := newRaceService(memory.NewRaceRepository(nil), memory.NewPredictionRepository(), memory.NewPointsRepository())

	_, err := svc.CreateRace(context.Background(), CreateRaceInput{
		Name:       "Two Horse Town",
		HorseNames: []string{"Lonely", "Almost"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRaceService_GetRace_NotFound(t *testing.T) {
	t.Parallel()

	svc := newRaceService(memory.NewRaceRepository(nil), memory.NewPredictionRepository(), memory.NewPointsRepository())

	if _, err := svc.GetRace(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRaceService_PublishResult_RejectsForeignHorse(t *testing.T) {
	t.Parallel()

	svc := newRaceService(memory.NewRaceRepository([]race.Race{derbyRace()}), memory.NewPredictionRepository(), memory.NewPointsRepository())

	_, err := svc.PublishResult(context.Background(), PublishResultInput{
		RaceID:  derbyRaceID,
		FirstID: strptr(horseEbony),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRaceService_PublishResult_EvaluatesLedger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	raceRepo := memory.NewRaceRepository([]race.Race{derbyRace()})
	predictionRepo := memory.NewPredictionRepository()
	pointsRepo := memory.NewPointsRepository()
	svc := newRaceService(raceRepo, predictionRepo, pointsRepo)

	if err := storePrediction(ctx, predictionRepo, "p-aoi", userAoi, derbyRaceID,
		horseAkira, horseBoreas, horseCyclone, time.Now().UTC()); err != nil {
		t.Fatalf("store prediction: %v", err)
	}

	if _, err := svc.PublishResult(ctx, PublishResultInput{
		RaceID:   derbyRaceID,
		FirstID:  strptr(horseAkira),
		SecondID: strptr(horseBoreas),
		ThirdID:  strptr(horseCyclone),
	}); err != nil {
		t.Fatalf("publish result: %v", err)
	}

	ledger, exists, err := pointsRepo.Get(ctx, userAoi)
	if err != nil {
		t.Fatalf("get ledger: %v", err)
	}
	if !exists {
		t.Fatal("expected a ledger row after publishing a result")
	}
	if ledger.Points != 6 {
		t.Fatalf("ledger points: got=%d want=6", ledger.Points)
	}

	// A corrected result is an update, and the ledger follows it.
	if _, err := svc.PublishResult(ctx, PublishResultInput{
		RaceID:   derbyRaceID,
		FirstID:  strptr(horseDrift),
		SecondID: strptr(horseBoreas),
		ThirdID:  strptr(horseCyclone),
	}); err != nil {
		t.Fatalf("republish result: %v", err)
	}

	ledger, _, err = pointsRepo.Get(ctx, userAoi)
	if err != nil {
		t.Fatalf("get ledger after correction: %v", err)
	}
	if ledger.Points != 3 {
		t.Fatalf("ledger points after correction: got=%d want=3", ledger.Points)
	}
}
