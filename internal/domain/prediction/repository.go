package prediction

import "context"

type Repository interface {
	GetByID(ctx context.Context, predictionID string) (Prediction, bool, error)
	Create(ctx context.Context, item Prediction) error
	Delete(ctx context.Context, predictionID string) error

	// ListByUser returns the user's predictions newest first.
	ListByUser(ctx context.Context, userID string) ([]Prediction, error)
	// ListByUsers returns predictions of all given users newest first,
	// optionally narrowed to one race. Used by the timeline assembler.
	ListByUsers(ctx context.Context, userIDs []string, raceID string) ([]Prediction, error)
	ListByRace(ctx context.Context, raceID string) ([]Prediction, error)
	// CountByUser returns total prediction counts keyed by user ID,
	// in first-prediction order for deterministic iteration downstream.
	CountByUser(ctx context.Context) (map[string]int, []string, error)
}
