package social

import "context"

type Repository interface {
	// UpsertFollow records a follow edge; repeating an existing pair is a no-op.
	UpsertFollow(ctx context.Context, follow Follow) error
	DeleteFollow(ctx context.Context, followerID, followedID string) error
	// ListFollowing returns user IDs the given user follows, oldest edge first.
	ListFollowing(ctx context.Context, followerID string) ([]string, error)
	ListFollowers(ctx context.Context, followedID string) ([]string, error)

	CreateGroup(ctx context.Context, group Group) error
	GetGroup(ctx context.Context, groupID string) (Group, bool, error)
	ListGroupsByUser(ctx context.Context, userID string) ([]Group, error)
	UpsertMembership(ctx context.Context, membership Membership) error
	IsMember(ctx context.Context, groupID, userID string) (bool, error)

	CreateMessage(ctx context.Context, message Message) error
	ListMessages(ctx context.Context, groupID string) ([]Message, error)

	CreateSharedPrediction(ctx context.Context, shared SharedPrediction) error
	ListSharedPredictions(ctx context.Context, groupID string) ([]SharedPrediction, error)
}
