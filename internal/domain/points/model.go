package points

import "time"

// Ledger is the per-user running point total. It is a derived value:
// recomputation from (predictions x results) is the only mutator, so
// concurrent recomputes converge on the same total.
type Ledger struct {
	UserID      string
	Points      int
	EvaluatedAt time.Time
}
