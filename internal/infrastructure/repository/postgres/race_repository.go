package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/umatomo/predict-api/internal/domain/race"
	qb "github.com/umatomo/predict-api/internal/platform/querybuilder"
)

type RaceRepository struct {
	db *sqlx.DB
}

func NewRaceRepository(db *sqlx.DB) *RaceRepository {
	return &RaceRepository{db: db}
}

func (r *RaceRepository) List(ctx context.Context) ([]race.Race, error) {
	query, args, err := qb.Select("*").
		From("races").
		Where(qb.IsNull("deleted_at")).
		OrderBy("starts_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list races query: %w", err)
	}

	var rows []raceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}

	out := make([]race.Race, 0, len(rows))
	for _, row := range rows {
		item, err := r.hydrateRace(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *RaceRepository) GetByID(ctx context.Context, raceID string) (race.Race, bool, error) {
	query, args, err := qb.Select("*").
		From("races").
		Where(
			qb.Eq("public_id", raceID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return race.Race{}, false, fmt.Errorf("build get race query: %w", err)
	}

	var row raceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return race.Race{}, false, nil
		}
		return race.Race{}, false, fmt.Errorf("get race: %w", err)
	}

	item, err := r.hydrateRace(ctx, row)
	if err != nil {
		return race.Race{}, false, err
	}
	return item, true, nil
}

func (r *RaceRepository) Create(ctx context.Context, item race.Race) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create race tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	raceQuery, raceArgs, err := qb.InsertModel("races", raceInsertModel{
		PublicID: item.ID,
		Name:     item.Name,
		Location: item.Location,
		StartsAt: timeToUnix(item.StartsAt),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert race query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, raceQuery, raceArgs...); err != nil {
		return fmt.Errorf("insert race: %w", err)
	}

	for _, horse := range item.Horses {
		horseQuery, horseArgs, err := qb.InsertModel("horses", horseInsertModel{
			PublicID:     horse.ID,
			RacePublicID: item.ID,
			Name:         horse.Name,
		}, "")
		if err != nil {
			return fmt.Errorf("build insert horse query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, horseQuery, horseArgs...); err != nil {
			return fmt.Errorf("insert horse: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create race tx: %w", err)
	}
	return nil
}

func (r *RaceRepository) GetResult(ctx context.Context, raceID string) (race.Result, bool, error) {
	query, args, err := qb.Select("*").
		From("race_results").
		Where(
			qb.Eq("race_public_id", raceID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return race.Result{}, false, fmt.Errorf("build get race result query: %w", err)
	}

	var row raceResultTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return race.Result{}, false, nil
		}
		return race.Result{}, false, fmt.Errorf("get race result: %w", err)
	}

	return resultFromRow(row), true, nil
}

func (r *RaceRepository) ListResults(ctx context.Context) ([]race.Result, error) {
	query, args, err := qb.Select("*").
		From("race_results").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list race results query: %w", err)
	}

	var rows []raceResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list race results: %w", err)
	}

	out := make([]race.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, resultFromRow(row))
	}
	return out, nil
}

func (r *RaceRepository) UpsertResult(ctx context.Context, result race.Result) (race.Result, error) {
	query, args, err := qb.InsertModel("race_results", raceResultInsertModel{
		RacePublicID:  result.RaceID,
		FirstHorseID:  result.FirstID,
		SecondHorseID: result.SecondID,
		ThirdHorseID:  result.ThirdID,
	}, `ON CONFLICT (race_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    first_horse_public_id = EXCLUDED.first_horse_public_id,
    second_horse_public_id = EXCLUDED.second_horse_public_id,
    third_horse_public_id = EXCLUDED.third_horse_public_id,
    revision = race_results.revision + 1,
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return race.Result{}, fmt.Errorf("build upsert race result query: %w", err)
	}

	var row raceResultTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return race.Result{}, fmt.Errorf("upsert race result: %w", err)
	}

	return resultFromRow(row), nil
}

func (r *RaceRepository) hydrateRace(ctx context.Context, row raceTableModel) (race.Race, error) {
	query, args, err := qb.Select("*").
		From("horses").
		Where(
			qb.Eq("race_public_id", row.PublicID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return race.Race{}, fmt.Errorf("build list horses query: %w", err)
	}

	var horseRows []horseTableModel
	if err := r.db.SelectContext(ctx, &horseRows, query, args...); err != nil {
		return race.Race{}, fmt.Errorf("list horses: %w", err)
	}

	horses := make([]race.Horse, 0, len(horseRows))
	for _, horseRow := range horseRows {
		horses = append(horses, race.Horse{
			ID:     horseRow.PublicID,
			RaceID: horseRow.RacePublicID,
			Name:   horseRow.Name,
		})
	}

	return race.Race{
		ID:       row.PublicID,
		Name:     row.Name,
		Location: row.Location,
		StartsAt: unixToTime(row.StartsAt),
		Horses:   horses,
	}, nil
}

func resultFromRow(row raceResultTableModel) race.Result {
	return race.Result{
		RaceID:    row.RacePublicID,
		FirstID:   nullStringToPtr(row.FirstHorseID),
		SecondID:  nullStringToPtr(row.SecondHorseID),
		ThirdID:   nullStringToPtr(row.ThirdHorseID),
		Revision:  row.Revision,
		UpdatedAt: row.UpdatedAt,
	}
}
