package postgres

import (
	"database/sql"
	"time"
)

type raceTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	Location  string     `db:"location"`
	StartsAt  int64      `db:"starts_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type raceInsertModel struct {
	PublicID string `db:"public_id"`
	Name     string `db:"name"`
	Location string `db:"location"`
	StartsAt int64  `db:"starts_at"`
}

type horseTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	RacePublicID string     `db:"race_public_id"`
	Name         string     `db:"name"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type horseInsertModel struct {
	PublicID     string `db:"public_id"`
	RacePublicID string `db:"race_public_id"`
	Name         string `db:"name"`
}

type raceResultTableModel struct {
	ID            int64          `db:"id"`
	RacePublicID  string         `db:"race_public_id"`
	FirstHorseID  sql.NullString `db:"first_horse_public_id"`
	SecondHorseID sql.NullString `db:"second_horse_public_id"`
	ThirdHorseID  sql.NullString `db:"third_horse_public_id"`
	Revision      int            `db:"revision"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	DeletedAt     *time.Time     `db:"deleted_at"`
}

type raceResultInsertModel struct {
	RacePublicID  string  `db:"race_public_id"`
	FirstHorseID  *string `db:"first_horse_public_id"`
	SecondHorseID *string `db:"second_horse_public_id"`
	ThirdHorseID  *string `db:"third_horse_public_id"`
}

func unixToTime(v int64) time.Time {
	return time.Unix(v, 0).UTC()
}

func timeToUnix(v time.Time) int64 {
	return v.Unix()
}

func nullStringToPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	value := v.String
	return &value
}
