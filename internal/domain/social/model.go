package social

import "time"

// Follow is a directed edge, unique per ordered (follower, followed) pair.
type Follow struct {
	FollowerID string
	FollowedID string
	CreatedAt  time.Time
}

// Group is a named container users join to share predictions and messages.
// The scoring engine never reads groups.
type Group struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Membership struct {
	GroupID  string
	UserID   string
	JoinedAt time.Time
}

type Message struct {
	ID       string
	GroupID  string
	SenderID string
	Content  string
	SentAt   time.Time
}

// SharedPrediction is a prediction the owner re-posted into a group.
type SharedPrediction struct {
	ID           string
	GroupID      string
	UserID       string
	PredictionID string
	SharedAt     time.Time
}
