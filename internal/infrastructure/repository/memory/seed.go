package memory

import (
	"time"

	"github.com/umatomo/predict-api/internal/domain/race"
)

const (
	RaceIDSpringStakes = "tokyo-spring-stakes-2026"
	RaceIDHarborCup    = "yokohama-harbor-cup-2026"
)

func SeedRaces() []race.Race {
	return []race.Race{
		{
			ID:       RaceIDSpringStakes,
			Name:     "Spring Stakes",
			Location: "Tokyo",
			StartsAt: time.Date(2026, time.April, 12, 15, 40, 0, 0, time.UTC),
			Horses: []race.Horse{
				{ID: "spring-01", RaceID: RaceIDSpringStakes, Name: "Northern Light"},
				{ID: "spring-02", RaceID: RaceIDSpringStakes, Name: "Silent Thunder"},
				{ID: "spring-03", RaceID: RaceIDSpringStakes, Name: "Golden Arrow"},
				{ID: "spring-04", RaceID: RaceIDSpringStakes, Name: "Midnight Run"},
				{ID: "spring-05", RaceID: RaceIDSpringStakes, Name: "Ocean Breeze"},
			},
		},
		{
			ID:       RaceIDHarborCup,
			Name:     "Harbor Cup",
			Location: "Yokohama",
			StartsAt: time.Date(2026, time.May, 3, 16, 10, 0, 0, time.UTC),
			Horses: []race.Horse{
				{ID: "harbor-01", RaceID: RaceIDHarborCup, Name: "Crimson Gale"},
				{ID: "harbor-02", RaceID: RaceIDHarborCup, Name: "Steady Ember"},
				{ID: "harbor-03", RaceID: RaceIDHarborCup, Name: "Windward Song"},
				{ID: "harbor-04", RaceID: RaceIDHarborCup, Name: "Iron Meadow"},
			},
		},
	}
}
