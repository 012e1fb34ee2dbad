package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/umatomo/predict-api/internal/domain/points"
	"github.com/umatomo/predict-api/internal/domain/race"
	"github.com/umatomo/predict-api/internal/infrastructure/repository/memory"
)

func TestRecomputeService_RecomputeAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	raceRepo := memory.NewRaceRepository([]race.Race{derbyRace(), harborRace()})
	predictionRepo := memory.NewPredictionRepository()
	pointsRepo := memory.NewPointsRepository()

	base := time.Date(2026, time.July, 1, 10, 0, 0, 0, time.UTC)
	if err := storePrediction(ctx, predictionRepo, "p-aoi", userAoi, derbyRaceID,
		horseAkira, horseBoreas, horseDrift, base); err != nil {
		t.Fatalf("store prediction: %v", err)
	}
	if err := storePrediction(ctx, predictionRepo, "p-bunta", userBunta, derbyRaceID,
		horseAkira, horseBoreas, horseCyclone, base.Add(time.Minute)); err != nil {
		t.Fatalf("store prediction: %v", err)
	}
	// Chika only predicted the unresolved harbor race.
	if err := storePrediction(ctx, predictionRepo, "p-chika", userChika, harborRaceID,
		horseEbony, horseFjord, horseGlint, base.Add(2*time.Minute)); err != nil {
		t.Fatalf("store prediction: %v", err)
	}
	if err := publishDerbyResult(ctx, raceRepo); err != nil {
		t.Fatalf("publish result: %v", err)
	}

	// Pre-seed a drifted total that the recompute must overwrite.
	if err := pointsRepo.Upsert(ctx, points.Ledger{UserID: userAoi, Points: 999}); err != nil {
		t.Fatalf("seed drifted ledger: %v", err)
	}

	svc := NewRecomputeService(raceRepo, predictionRepo, pointsRepo)
	result, err := svc.RecomputeAll(ctx, 2)
	if err != nil {
		t.Fatalf("recompute all: %v", err)
	}

	if result.UserCount != 3 {
		t.Fatalf("user count: got=%d want=3", result.UserCount)
	}
	if result.FailedCount != 0 {
		t.Fatalf("failed count: got=%d want=0", result.FailedCount)
	}
	if result.WorkerCount != 2 {
		t.Fatalf("worker count: got=%d want=2", result.WorkerCount)
	}

	for _, tc := range []struct {
		userID string
		want   int
	}{
		{userAoi, 5},
		{userBunta, 6},
		{userChika, 0},
	} {
		ledger, exists, err := pointsRepo.Get(ctx, tc.userID)
		if err != nil {
			t.Fatalf("get ledger for %s: %v", tc.userID, err)
		}
		if !exists {
			t.Fatalf("expected a ledger row for %s", tc.userID)
		}
		if ledger.Points != tc.want {
			t.Fatalf("ledger for %s: got=%d want=%d", tc.userID, ledger.Points, tc.want)
		}
	}
}

func TestRecomputeService_RecomputeAll_ClampsWorkersToUsers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	raceRepo := memory.NewRaceRepository([]race.Race{derbyRace()})
	predictionRepo := memory.NewPredictionRepository()
	pointsRepo := memory.NewPointsRepository()

	if err := storePrediction(ctx, predictionRepo, "p-aoi", userAoi, derbyRaceID,
		horseAkira, horseBoreas, horseCyclone, time.Now().UTC()); err != nil {
		t.Fatalf("store prediction: %v", err)
	}
	if err := publishDerbyResult(ctx, raceRepo); err != nil {
		t.Fatalf("publish result: %v", err)
	}

	svc := NewRecomputeService(raceRepo, predictionRepo, pointsRepo)
	result, err := svc.RecomputeAll(ctx, 16)
	if err != nil {
		t.Fatalf("recompute all: %v", err)
	}
	if result.WorkerCount != 1 {
		t.Fatalf("worker count with one user: got=%d want=1", result.WorkerCount)
	}
}

func TestRecomputeService_RecomputeAll_EmptyRepo(t *testing.T) {
	t.Parallel()

	svc := NewRecomputeService(
		memory.NewRaceRepository(nil),
		memory.NewPredictionRepository(),
		memory.NewPointsRepository(),
	)

	result, err := svc.RecomputeAll(context.Background(), 0)
	if err != nil {
		t.Fatalf("recompute all: %v", err)
	}
	if result.UserCount != 0 || result.FailedCount != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}
