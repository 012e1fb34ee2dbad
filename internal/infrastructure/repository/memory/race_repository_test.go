package memory

import (
	"context"
	"testing"

	"github.com/umatomo/predict-api/internal/domain/race"
)

func TestRaceRepository_ListResults_KeepsOrphanResults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRaceRepository([]race.Race{{ID: "race-a", Name: "Race A"}})

	first := "horse-1"
	if _, err := repo.UpsertResult(ctx, race.Result{RaceID: "race-a", FirstID: &first}); err != nil {
		t.Fatalf("upsert result: %v", err)
	}
	// A result for a race the repo never saw must still be listed.
	if _, err := repo.UpsertResult(ctx, race.Result{RaceID: "race-ghost", FirstID: &first}); err != nil {
		t.Fatalf("upsert orphan result: %v", err)
	}

	results, err := repo.ListResults(ctx)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("result count: got=%d want=2", len(results))
	}
	if results[0].RaceID != "race-a" || results[1].RaceID != "race-ghost" {
		t.Fatalf("unexpected order: %s then %s", results[0].RaceID, results[1].RaceID)
	}
}

func TestRaceRepository_UpsertResult_BumpsRevision(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRaceRepository([]race.Race{{ID: "race-a", Name: "Race A"}})

	first := "horse-1"
	stored, err := repo.UpsertResult(ctx, race.Result{RaceID: "race-a", FirstID: &first})
	if err != nil {
		t.Fatalf("upsert result: %v", err)
	}
	if stored.Revision != 1 {
		t.Fatalf("initial revision: got=%d want=1", stored.Revision)
	}

	second := "horse-2"
	stored, err = repo.UpsertResult(ctx, race.Result{RaceID: "race-a", FirstID: &second})
	if err != nil {
		t.Fatalf("upsert corrected result: %v", err)
	}
	if stored.Revision != 2 {
		t.Fatalf("corrected revision: got=%d want=2", stored.Revision)
	}

	results, err := repo.ListResults(ctx)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("result count after correction: got=%d want=1", len(results))
	}
}
