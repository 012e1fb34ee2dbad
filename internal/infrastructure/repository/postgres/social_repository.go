package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/umatomo/predict-api/internal/domain/social"
	qb "github.com/umatomo/predict-api/internal/platform/querybuilder"
)

type SocialRepository struct {
	db *sqlx.DB
}

func NewSocialRepository(db *sqlx.DB) *SocialRepository {
	return &SocialRepository{db: db}
}

func (r *SocialRepository) UpsertFollow(ctx context.Context, follow social.Follow) error {
	query, args, err := qb.InsertModel("follows", followInsertModel{
		FollowerID: follow.FollowerID,
		FollowedID: follow.FollowedID,
	}, "ON CONFLICT (follower_id, followed_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build upsert follow query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert follow: %w", err)
	}
	return nil
}

func (r *SocialRepository) DeleteFollow(ctx context.Context, followerID, followedID string) error {
	query, args, err := qb.DeleteFrom("follows").
		Where(
			qb.Eq("follower_id", followerID),
			qb.Eq("followed_id", followedID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete follow query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

func (r *SocialRepository) ListFollowing(ctx context.Context, followerID string) ([]string, error) {
	query, args, err := qb.Select("followed_id").
		From("follows").
		Where(qb.Eq("follower_id", followerID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list following query: %w", err)
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return out, nil
}

func (r *SocialRepository) ListFollowers(ctx context.Context, followedID string) ([]string, error) {
	query, args, err := qb.Select("follower_id").
		From("follows").
		Where(qb.Eq("followed_id", followedID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list followers query: %w", err)
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return out, nil
}

func (r *SocialRepository) CreateGroup(ctx context.Context, group social.Group) error {
	query, args, err := qb.InsertModel("social_groups", groupInsertModel{
		PublicID: group.ID,
		Name:     group.Name,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert group query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

func (r *SocialRepository) GetGroup(ctx context.Context, groupID string) (social.Group, bool, error) {
	query, args, err := qb.Select("*").
		From("social_groups").
		Where(
			qb.Eq("public_id", groupID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return social.Group{}, false, fmt.Errorf("build get group query: %w", err)
	}

	var row groupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return social.Group{}, false, nil
		}
		return social.Group{}, false, fmt.Errorf("get group: %w", err)
	}

	return social.Group{ID: row.PublicID, Name: row.Name, CreatedAt: row.CreatedAt}, true, nil
}

func (r *SocialRepository) ListGroupsByUser(ctx context.Context, userID string) ([]social.Group, error) {
	query := `SELECT g.* FROM social_groups g
JOIN group_memberships m ON m.group_public_id = g.public_id
WHERE m.user_id = $1 AND g.deleted_at IS NULL
ORDER BY g.id`

	var rows []groupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list groups by user: %w", err)
	}

	out := make([]social.Group, 0, len(rows))
	for _, row := range rows {
		out = append(out, social.Group{ID: row.PublicID, Name: row.Name, CreatedAt: row.CreatedAt})
	}
	return out, nil
}

func (r *SocialRepository) UpsertMembership(ctx context.Context, membership social.Membership) error {
	query, args, err := qb.InsertModel("group_memberships", membershipInsertModel{
		GroupPublicID: membership.GroupID,
		UserID:        membership.UserID,
	}, "ON CONFLICT (group_public_id, user_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build upsert membership query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}
	return nil
}

func (r *SocialRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	query, args, err := qb.Select("COUNT(*)").
		From("group_memberships").
		Where(
			qb.Eq("group_public_id", groupID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build is member query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return false, fmt.Errorf("is member: %w", err)
	}
	return total > 0, nil
}

func (r *SocialRepository) CreateMessage(ctx context.Context, message social.Message) error {
	query, args, err := qb.InsertModel("group_messages", messageInsertModel{
		PublicID:      message.ID,
		GroupPublicID: message.GroupID,
		SenderID:      message.SenderID,
		Content:       message.Content,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert message query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *SocialRepository) ListMessages(ctx context.Context, groupID string) ([]social.Message, error) {
	query, args, err := qb.Select("*").
		From("group_messages").
		Where(qb.Eq("group_public_id", groupID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list messages query: %w", err)
	}

	var rows []messageTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	out := make([]social.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, social.Message{
			ID:       row.PublicID,
			GroupID:  row.GroupPublicID,
			SenderID: row.SenderID,
			Content:  row.Content,
			SentAt:   row.CreatedAt,
		})
	}
	return out, nil
}

func (r *SocialRepository) CreateSharedPrediction(ctx context.Context, shared social.SharedPrediction) error {
	query, args, err := qb.InsertModel("shared_predictions", sharedPredictionInsertModel{
		PublicID:           shared.ID,
		GroupPublicID:      shared.GroupID,
		UserID:             shared.UserID,
		PredictionPublicID: shared.PredictionID,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert shared prediction query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert shared prediction: %w", err)
	}
	return nil
}

func (r *SocialRepository) ListSharedPredictions(ctx context.Context, groupID string) ([]social.SharedPrediction, error) {
	query, args, err := qb.Select("*").
		From("shared_predictions").
		Where(qb.Eq("group_public_id", groupID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list shared predictions query: %w", err)
	}

	var rows []sharedPredictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list shared predictions: %w", err)
	}

	out := make([]social.SharedPrediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, social.SharedPrediction{
			ID:           row.PublicID,
			GroupID:      row.GroupPublicID,
			UserID:       row.UserID,
			PredictionID: row.PredictionPublicID,
			SharedAt:     row.CreatedAt,
		})
	}
	return out, nil
}
