package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/umatomo/predict-api/internal/domain/prediction"
	"github.com/umatomo/predict-api/internal/domain/race"
	"github.com/umatomo/predict-api/internal/domain/social"
	"github.com/umatomo/predict-api/internal/infrastructure/repository/memory"
)

const (
	derbyRaceID  = "summer-derby-2026"
	harborRaceID = "harbor-mile-2026"

	horseAkira   = "derby-akira"
	horseBoreas  = "derby-boreas"
	horseCyclone = "derby-cyclone"
	horseDrift   = "derby-drift"

	horseEbony  = "harbor-ebony"
	horseFjord  = "harbor-fjord"
	horseGlint  = "harbor-glint"
	horseHalcyn = "harbor-halcyon"

	userAoi    = "user-aoi"
	userBunta  = "user-bunta"
	userChika  = "user-chika"
	userDaichi = "user-daichi"
)

// seqIDGen hands out deterministic IDs so assertions can name them.
type seqIDGen struct {
	prefix string
	n      atomic.Int64
}

func (g *seqIDGen) NewID() (string, error) {
	return fmt.Sprintf("%s-%03d", g.prefix, g.n.Add(1)), nil
}

func derbyRace() race.Race {
	return race.Race{
		ID:       derbyRaceID,
		Name:     "Summer Derby",
		Location: "Tokyo",
		StartsAt: time.Date(2026, time.July, 5, 15, 40, 0, 0, time.UTC),
		Horses: []race.Horse{
			{ID: horseAkira, RaceID: derbyRaceID, Name: "Akira Flash"},
			{ID: horseBoreas, RaceID: derbyRaceID, Name: "Boreas Wind"},
			{ID: horseCyclone, RaceID: derbyRaceID, Name: "Cyclone Heart"},
			{ID: horseDrift, RaceID: derbyRaceID, Name: "Drift King"},
		},
	}
}

func harborRace() race.Race {
	return race.Race{
		ID:       harborRaceID,
		Name:     "Harbor Mile",
		Location: "Yokohama",
		StartsAt: time.Date(2026, time.August, 2, 16, 10, 0, 0, time.UTC),
		Horses: []race.Horse{
			{ID: horseEbony, RaceID: harborRaceID, Name: "Ebony Tide"},
			{ID: horseFjord, RaceID: harborRaceID, Name: "Fjord Runner"},
			{ID: horseGlint, RaceID: harborRaceID, Name: "Glint of Dawn"},
			{ID: horseHalcyn, RaceID: harborRaceID, Name: "Halcyon Days"},
		},
	}
}

func strptr(s string) *string {
	return &s
}

func followEdge(followerID, followedID string) social.Follow {
	return social.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC),
	}
}

// publishDerbyResult stores the official derby order Akira, Boreas, Cyclone.
func publishDerbyResult(ctx context.Context, raceRepo *memory.RaceRepository) error {
	_, err := raceRepo.UpsertResult(ctx, race.Result{
		RaceID:    derbyRaceID,
		FirstID:   strptr(horseAkira),
		SecondID:  strptr(horseBoreas),
		ThirdID:   strptr(horseCyclone),
		UpdatedAt: time.Date(2026, time.July, 5, 16, 0, 0, 0, time.UTC),
	})
	return err
}

func storePrediction(
	ctx context.Context,
	repo *memory.PredictionRepository,
	id, userID, raceID, first, second, third string,
	createdAt time.Time,
) error {
	return repo.Create(ctx, prediction.Prediction{
		ID:        id,
		UserID:    userID,
		RaceID:    raceID,
		FirstID:   first,
		SecondID:  second,
		ThirdID:   third,
		CreatedAt: createdAt,
	})
}
