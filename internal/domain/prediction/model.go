package prediction

import (
	"errors"
	"time"
)

var (
	// ErrInvalidPrediction marks a prediction whose horse slots do not all
	// belong to the predicted race.
	ErrInvalidPrediction = errors.New("prediction horses must belong to the predicted race")
	// ErrDuplicateSlots marks a prediction naming the same horse twice.
	ErrDuplicateSlots = errors.New("prediction names the same horse in multiple slots")
)

// Prediction is a user's guess of the top-three finishers of one race.
// Immutable after creation except for owner deletion.
type Prediction struct {
	ID        string
	UserID    string
	RaceID    string
	FirstID   string
	SecondID  string
	ThirdID   string
	CreatedAt time.Time
}

// SlotIDs returns the three predicted horse IDs in finishing order.
func (p Prediction) SlotIDs() [3]string {
	return [3]string{p.FirstID, p.SecondID, p.ThirdID}
}
