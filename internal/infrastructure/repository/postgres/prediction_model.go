package postgres

import "time"

type predictionTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	UserID        string     `db:"user_id"`
	RacePublicID  string     `db:"race_public_id"`
	FirstHorseID  string     `db:"first_horse_public_id"`
	SecondHorseID string     `db:"second_horse_public_id"`
	ThirdHorseID  string     `db:"third_horse_public_id"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type predictionInsertModel struct {
	PublicID      string `db:"public_id"`
	UserID        string `db:"user_id"`
	RacePublicID  string `db:"race_public_id"`
	FirstHorseID  string `db:"first_horse_public_id"`
	SecondHorseID string `db:"second_horse_public_id"`
	ThirdHorseID  string `db:"third_horse_public_id"`
}
