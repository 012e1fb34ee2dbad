package usecase

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/umatomo/predict-api/internal/domain/points"
	"github.com/umatomo/predict-api/internal/domain/race"
	"github.com/umatomo/predict-api/internal/infrastructure/repository/memory"
)

func TestRankingService_PointsRanking(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	raceRepo := memory.NewRaceRepository([]race.Race{derbyRace()})
	predictionRepo := memory.NewPredictionRepository()
	pointsRepo := memory.NewPointsRepository()

	evaluatedAt := time.Date(2026, time.July, 5, 16, 5, 0, 0, time.UTC)
	for _, entry := range []points.Ledger{
		{UserID: userAoi, Points: 5, EvaluatedAt: evaluatedAt},
		{UserID: userBunta, Points: 9, EvaluatedAt: evaluatedAt},
		{UserID: userChika, Points: 5, EvaluatedAt: evaluatedAt},
	} {
		if err := pointsRepo.Upsert(ctx, entry); err != nil {
			t.Fatalf("upsert ledger: %v", err)
		}
	}

	svc := NewRankingService(raceRepo, predictionRepo, pointsRepo)
	entries, err := svc.PointsRanking(ctx, 20)
	if err != nil {
		t.Fatalf("points ranking: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("unexpected entry count: got=%d want=3", len(entries))
	}
	// Bunta leads; the 5-point tie breaks by user ID ascending.
	wantOrder := []string{userBunta, userAoi, userChika}
	for idx, want := range wantOrder {
		if entries[idx].UserID != want {
			t.Fatalf("rank %d: got=%s want=%s", idx+1, entries[idx].UserID, want)
		}
		if entries[idx].Rank != idx+1 {
			t.Fatalf("rank value at %d: got=%d want=%d", idx, entries[idx].Rank, idx+1)
		}
	}
}

func TestRankingService_PointsRanking_AppliesLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pointsRepo := memory.NewPointsRepository()
	for _, entry := range []points.Ledger{
		{UserID: userAoi, Points: 3},
		{UserID: userBunta, Points: 6},
		{UserID: userChika, Points: 1},
	} {
		if err := pointsRepo.Upsert(ctx, entry); err != nil {
			t.Fatalf("upsert ledger: %v", err)
		}
	}

	svc := NewRankingService(memory.NewRaceRepository(nil), memory.NewPredictionRepository(), pointsRepo)
	entries, err := svc.PointsRanking(ctx, 2)
	if err != nil {
		t.Fatalf("points ranking: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("unexpected entry count: got=%d want=2", len(entries))
	}
	if entries[0].UserID != userBunta || entries[1].UserID != userAoi {
		t.Fatalf("unexpected top two: %s, %s", entries[0].UserID, entries[1].UserID)
	}
}

func TestRankingService_HitRateRanking(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	raceRepo := memory.NewRaceRepository([]race.Race{derbyRace(), harborRace()})
	predictionRepo := memory.NewPredictionRepository()
	pointsRepo := memory.NewPointsRepository()

	base := time.Date(2026, time.July, 1, 10, 0, 0, 0, time.UTC)

	// Aoi: three derby-or-harbor predictions, one fully correct. Eligible.
	if err := storePrediction(ctx, predictionRepo, "p-aoi-1", userAoi, derbyRaceID,
		horseAkira, horseBoreas, horseCyclone, base); err != nil {
		t.Fatalf("store prediction: %v", err)
	}
	if err := storePrediction(ctx, predictionRepo, "p-aoi-2", userAoi, derbyRaceID,
		horseDrift, horseCyclone, horseBoreas, base.Add(time.Minute)); err != nil {
		t.Fatalf("store prediction: %v", err)
	}
	if err := storePrediction(ctx, predictionRepo, "p-aoi-3", userAoi, harborRaceID,
		horseEbony, horseFjord, horseGlint, base.Add(2*time.Minute)); err != nil {
		t.Fatalf("store prediction: %v", err)
	}

	// Bunta: a perfect record over only two predictions. Not eligible.
	if err := storePrediction(ctx, predictionRepo, "p-bunta-1", userBunta, derbyRaceID,
		horseAkira, horseBoreas, horseCyclone, base); err != nil {
		t.Fatalf("store prediction: %v", err)
	}
	if err := storePrediction(ctx, predictionRepo, "p-bunta-2", userBunta, derbyRaceID,
		horseAkira, horseBoreas, horseCyclone, base.Add(time.Minute)); err != nil {
		t.Fatalf("store prediction: %v", err)
	}

	if err := publishDerbyResult(ctx, raceRepo); err != nil {
		t.Fatalf("publish result: %v", err)
	}
	if err := pointsRepo.Upsert(ctx, points.Ledger{UserID: userAoi, Points: 6}); err != nil {
		t.Fatalf("upsert ledger: %v", err)
	}

	svc := NewRankingService(raceRepo, predictionRepo, pointsRepo)
	entries, err := svc.HitRateRanking(ctx, 3, 20)
	if err != nil {
		t.Fatalf("hit rate ranking: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("unexpected entry count: got=%d want=1", len(entries))
	}
	entry := entries[0]
	if entry.UserID != userAoi {
		t.Fatalf("entry user: got=%s want=%s", entry.UserID, userAoi)
	}
	// Two scored derby predictions, 3 of 6 slots hit. The unresolved harbor
	// prediction counts toward eligibility, not the rate.
	if entry.HitRate != 50.0 {
		t.Fatalf("entry hit rate: got=%v want=50", entry.HitRate)
	}
	if entry.Points != 6 {
		t.Fatalf("entry points: got=%d want=6", entry.Points)
	}
	if entry.PredictionCount != 3 {
		t.Fatalf("entry prediction count: got=%d want=3", entry.PredictionCount)
	}
}

func TestRankingService_Rankings_Deterministic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	raceRepo := memory.NewRaceRepository([]race.Race{derbyRace()})
	predictionRepo := memory.NewPredictionRepository()
	pointsRepo := memory.NewPointsRepository()

	base := time.Date(2026, time.July, 1, 10, 0, 0, 0, time.UTC)
	for i, userID := range []string{userBunta, userAoi, userChika} {
		for j := 0; j < 3; j++ {
			id := userID + "-p-" + string(rune('a'+j))
			if err := storePrediction(ctx, predictionRepo, id, userID, derbyRaceID,
				horseAkira, horseBoreas, horseCyclone, base.Add(time.Duration(i*3+j)*time.Minute)); err != nil {
				t.Fatalf("store prediction: %v", err)
			}
		}
	}
	if err := publishDerbyResult(ctx, raceRepo); err != nil {
		t.Fatalf("publish result: %v", err)
	}
	for _, entry := range []points.Ledger{
		{UserID: userAoi, Points: 18},
		{UserID: userBunta, Points: 18},
		{UserID: userChika, Points: 18},
	} {
		if err := pointsRepo.Upsert(ctx, entry); err != nil {
			t.Fatalf("upsert ledger: %v", err)
		}
	}

	svc := NewRankingService(raceRepo, predictionRepo, pointsRepo)

	firstPoints, err := svc.PointsRanking(ctx, 20)
	if err != nil {
		t.Fatalf("points ranking: %v", err)
	}
	secondPoints, err := svc.PointsRanking(ctx, 20)
	if err != nil {
		t.Fatalf("points ranking again: %v", err)
	}
	if !reflect.DeepEqual(firstPoints, secondPoints) {
		t.Fatalf("points ranking not deterministic:\nfirst=%+v\nsecond=%+v", firstPoints, secondPoints)
	}

	firstRate, err := svc.HitRateRanking(ctx, 3, 20)
	if err != nil {
		t.Fatalf("hit rate ranking: %v", err)
	}
	secondRate, err := svc.HitRateRanking(ctx, 3, 20)
	if err != nil {
		t.Fatalf("hit rate ranking again: %v", err)
	}
	if !reflect.DeepEqual(firstRate, secondRate) {
		t.Fatalf("hit rate ranking not deterministic:\nfirst=%+v\nsecond=%+v", firstRate, secondRate)
	}
}

func TestRankingService_HitRateRanking_TieBreaksByUserID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	raceRepo := memory.NewRaceRepository([]race.Race{derbyRace()})
	predictionRepo := memory.NewPredictionRepository()
	pointsRepo := memory.NewPointsRepository()

	base := time.Date(2026, time.July, 1, 10, 0, 0, 0, time.UTC)
	for _, userID := range []string{userChika, userAoi} {
		for i := 0; i < 3; i++ {
			id := userID + "-p-" + string(rune('a'+i))
			if err := storePrediction(ctx, predictionRepo, id, userID, derbyRaceID,
				horseAkira, horseBoreas, horseCyclone, base.Add(time.Duration(i)*time.Minute)); err != nil {
				t.Fatalf("store prediction: %v", err)
			}
		}
	}
	if err := publishDerbyResult(ctx, raceRepo); err != nil {
		t.Fatalf("publish result: %v", err)
	}

	svc := NewRankingService(raceRepo, predictionRepo, pointsRepo)
	entries, err := svc.HitRateRanking(ctx, 3, 20)
	if err != nil {
		t.Fatalf("hit rate ranking: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("unexpected entry count: got=%d want=2", len(entries))
	}
	if entries[0].UserID != userAoi || entries[1].UserID != userChika {
		t.Fatalf("unexpected tie order: %s then %s", entries[0].UserID, entries[1].UserID)
	}
}
