package race

import "context"

type Repository interface {
	List(ctx context.Context) ([]Race, error)
	GetByID(ctx context.Context, raceID string) (Race, bool, error)
	Create(ctx context.Context, item Race) error

	GetResult(ctx context.Context, raceID string) (Result, bool, error)
	ListResults(ctx context.Context) ([]Result, error)
	UpsertResult(ctx context.Context, result Result) (Result, error)
}
