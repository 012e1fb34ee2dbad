package race

import "time"

// Race is an immutable event: once horses are attached the card does not
// change, only the result may be published afterwards.
type Race struct {
	ID       string
	Name     string
	Location string
	StartsAt time.Time
	Horses   []Horse
}

// Horse belongs to exactly one race. Deleting a race cascades to its horses.
type Horse struct {
	ID     string
	RaceID string
	Name   string
}

// Result holds the official top-three finishers. A placing is nil when the
// horse scratched; a nil placing never matches any predicted slot. Revision
// increments on every upsert so derived caches can key off it.
type Result struct {
	RaceID    string
	FirstID   *string
	SecondID  *string
	ThirdID   *string
	Revision  int
	UpdatedAt time.Time
}

// HorseByID returns the named horse of this race, if any.
func (r Race) HorseByID(horseID string) (Horse, bool) {
	for _, h := range r.Horses {
		if h.ID == horseID {
			return h, true
		}
	}
	return Horse{}, false
}
