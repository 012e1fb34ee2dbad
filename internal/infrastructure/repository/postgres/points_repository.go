package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umatomo/predict-api/internal/domain/points"
	qb "github.com/umatomo/predict-api/internal/platform/querybuilder"
)

type pointLedgerTableModel struct {
	ID          int64      `db:"id"`
	UserID      string     `db:"user_id"`
	Points      int        `db:"points"`
	EvaluatedAt int64      `db:"evaluated_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type pointLedgerInsertModel struct {
	UserID      string `db:"user_id"`
	Points      int    `db:"points"`
	EvaluatedAt int64  `db:"evaluated_at"`
}

type PointsRepository struct {
	db *sqlx.DB
}

func NewPointsRepository(db *sqlx.DB) *PointsRepository {
	return &PointsRepository{db: db}
}

func (r *PointsRepository) Get(ctx context.Context, userID string) (points.Ledger, bool, error) {
	query, args, err := qb.Select("*").
		From("point_ledgers").
		Where(
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return points.Ledger{}, false, fmt.Errorf("build get point ledger query: %w", err)
	}

	var row pointLedgerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return points.Ledger{}, false, nil
		}
		return points.Ledger{}, false, fmt.Errorf("get point ledger: %w", err)
	}

	return ledgerFromRow(row), true, nil
}

func (r *PointsRepository) Upsert(ctx context.Context, entry points.Ledger) error {
	query, args, err := qb.InsertModel("point_ledgers", pointLedgerInsertModel{
		UserID:      entry.UserID,
		Points:      entry.Points,
		EvaluatedAt: timeToUnix(entry.EvaluatedAt),
	}, `ON CONFLICT (user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    points = EXCLUDED.points,
    evaluated_at = EXCLUDED.evaluated_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert point ledger query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert point ledger: %w", err)
	}
	return nil
}

func (r *PointsRepository) List(ctx context.Context) ([]points.Ledger, error) {
	query, args, err := qb.Select("*").
		From("point_ledgers").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list point ledgers query: %w", err)
	}

	var rows []pointLedgerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list point ledgers: %w", err)
	}

	out := make([]points.Ledger, 0, len(rows))
	for _, row := range rows {
		out = append(out, ledgerFromRow(row))
	}
	return out, nil
}

func ledgerFromRow(row pointLedgerTableModel) points.Ledger {
	return points.Ledger{
		UserID:      row.UserID,
		Points:      row.Points,
		EvaluatedAt: unixToTime(row.EvaluatedAt),
	}
}
