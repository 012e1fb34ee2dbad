package postgres

import "time"

type followTableModel struct {
	ID         int64     `db:"id"`
	FollowerID string    `db:"follower_id"`
	FollowedID string    `db:"followed_id"`
	CreatedAt  time.Time `db:"created_at"`
}

type followInsertModel struct {
	FollowerID string `db:"follower_id"`
	FollowedID string `db:"followed_id"`
}

type groupTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type groupInsertModel struct {
	PublicID string `db:"public_id"`
	Name     string `db:"name"`
}

type membershipTableModel struct {
	ID            int64     `db:"id"`
	GroupPublicID string    `db:"group_public_id"`
	UserID        string    `db:"user_id"`
	CreatedAt     time.Time `db:"created_at"`
}

type membershipInsertModel struct {
	GroupPublicID string `db:"group_public_id"`
	UserID        string `db:"user_id"`
}

type messageTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	GroupPublicID string    `db:"group_public_id"`
	SenderID      string    `db:"sender_id"`
	Content       string    `db:"content"`
	CreatedAt     time.Time `db:"created_at"`
}

type messageInsertModel struct {
	PublicID      string `db:"public_id"`
	GroupPublicID string `db:"group_public_id"`
	SenderID      string `db:"sender_id"`
	Content       string `db:"content"`
}

type sharedPredictionTableModel struct {
	ID                 int64     `db:"id"`
	PublicID           string    `db:"public_id"`
	GroupPublicID      string    `db:"group_public_id"`
	UserID             string    `db:"user_id"`
	PredictionPublicID string    `db:"prediction_public_id"`
	CreatedAt          time.Time `db:"created_at"`
}

type sharedPredictionInsertModel struct {
	PublicID           string `db:"public_id"`
	GroupPublicID      string `db:"group_public_id"`
	UserID             string `db:"user_id"`
	PredictionPublicID string `db:"prediction_public_id"`
}
