package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/umatomo/predict-api/internal/domain/prediction"
	qb "github.com/umatomo/predict-api/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) GetByID(ctx context.Context, predictionID string) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").
		From("predictions").
		Where(
			qb.Eq("public_id", predictionID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction: %w", err)
	}

	return predictionFromRow(row), true, nil
}

func (r *PredictionRepository) Create(ctx context.Context, item prediction.Prediction) error {
	query, args, err := qb.InsertModel("predictions", predictionInsertModel{
		PublicID:      item.ID,
		UserID:        item.UserID,
		RacePublicID:  item.RaceID,
		FirstHorseID:  item.FirstID,
		SecondHorseID: item.SecondID,
		ThirdHorseID:  item.ThirdID,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert prediction query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

func (r *PredictionRepository) Delete(ctx context.Context, predictionID string) error {
	query, args, err := qb.Update("predictions").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", predictionID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete prediction query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete prediction: %w", err)
	}
	return nil
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").
		From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by user query: %w", err)
	}

	return r.selectPredictions(ctx, query, args)
}

func (r *PredictionRepository) ListByUsers(ctx context.Context, userIDs []string, raceID string) ([]prediction.Prediction, error) {
	values := make([]any, 0, len(userIDs))
	for _, id := range userIDs {
		values = append(values, id)
	}

	conditions := []qb.Condition{
		qb.In("user_id", values),
		qb.IsNull("deleted_at"),
	}
	if raceID != "" {
		conditions = append(conditions, qb.Eq("race_public_id", raceID))
	}

	query, args, err := qb.Select("*").
		From("predictions").
		Where(conditions...).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by users query: %w", err)
	}

	return r.selectPredictions(ctx, query, args)
}

func (r *PredictionRepository) ListByRace(ctx context.Context, raceID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").
		From("predictions").
		Where(
			qb.Eq("race_public_id", raceID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by race query: %w", err)
	}

	return r.selectPredictions(ctx, query, args)
}

func (r *PredictionRepository) CountByUser(ctx context.Context) (map[string]int, []string, error) {
	query, args, err := qb.Select("user_id", "COUNT(*) AS total").
		From("predictions").
		Where(qb.IsNull("deleted_at")).
		GroupBy("user_id").
		OrderBy("MIN(id)").
		ToSQL()
	if err != nil {
		return nil, nil, fmt.Errorf("build count predictions query: %w", err)
	}

	var rows []struct {
		UserID string `db:"user_id"`
		Total  int    `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, nil, fmt.Errorf("count predictions: %w", err)
	}

	counts := make(map[string]int, len(rows))
	userOrder := make([]string, 0, len(rows))
	for _, row := range rows {
		counts[row.UserID] = row.Total
		userOrder = append(userOrder, row.UserID)
	}
	return counts, userOrder, nil
}

func (r *PredictionRepository) selectPredictions(ctx context.Context, query string, args []any) ([]prediction.Prediction, error) {
	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionFromRow(row))
	}
	return out, nil
}

func predictionFromRow(row predictionTableModel) prediction.Prediction {
	return prediction.Prediction{
		ID:        row.PublicID,
		UserID:    row.UserID,
		RaceID:    row.RacePublicID,
		FirstID:   row.FirstHorseID,
		SecondID:  row.SecondHorseID,
		ThirdID:   row.ThirdHorseID,
		CreatedAt: row.CreatedAt,
	}
}
