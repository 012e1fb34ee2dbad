package points

import "context"

type Repository interface {
	// Get returns the ledger row for a user. A missing row is not an error;
	// callers treat it as zero points.
	Get(ctx context.Context, userID string) (Ledger, bool, error)
	Upsert(ctx context.Context, entry Ledger) error
	// List returns all ledger rows in insertion order.
	List(ctx context.Context) ([]Ledger, error)
}
