package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/umatomo/predict-api/internal/domain/prediction"
	"github.com/umatomo/predict-api/internal/domain/social"
	idgen "github.com/umatomo/predict-api/internal/platform/id"
)

type SocialService struct {
	socialRepo     social.Repository
	predictionRepo prediction.Repository
	idGen          idgen.Generator
	now            func() time.Time
}

func NewSocialService(
	socialRepo social.Repository,
	predictionRepo prediction.Repository,
	idGen idgen.Generator,
) *SocialService {
	return &SocialService{
		socialRepo:     socialRepo,
		predictionRepo: predictionRepo,
		idGen:          idGen,
		now:            time.Now,
	}
}

// Follow records a follow edge. Following yourself is rejected here, at the
// boundary; following someone twice is idempotent.
func (s *SocialService) Follow(ctx context.Context, followerID, followedID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.Follow")
	defer span.End()

	followerID = strings.TrimSpace(followerID)
	followedID = strings.TrimSpace(followedID)
	if followerID == "" || followedID == "" {
		return fmt.Errorf("%w: follower and followed ids are required", ErrInvalidInput)
	}
	if followerID == followedID {
		return fmt.Errorf("%w: cannot follow yourself", ErrInvalidInput)
	}

	if err := s.socialRepo.UpsertFollow(ctx, social.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  s.now().UTC(),
	}); err != nil {
		return fmt.Errorf("upsert follow: %w", err)
	}
	return nil
}

func (s *SocialService) Unfollow(ctx context.Context, followerID, followedID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.Unfollow")
	defer span.End()

	if err := s.socialRepo.DeleteFollow(ctx, strings.TrimSpace(followerID), strings.TrimSpace(followedID)); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

func (s *SocialService) ListFollowing(ctx context.Context, userID string) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.ListFollowing")
	defer span.End()

	out, err := s.socialRepo.ListFollowing(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return out, nil
}

func (s *SocialService) ListFollowers(ctx context.Context, userID string) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.ListFollowers")
	defer span.End()

	out, err := s.socialRepo.ListFollowers(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return out, nil
}

// CreateGroup creates a group with the creator as its first member.
func (s *SocialService) CreateGroup(ctx context.Context, userID, name string) (social.Group, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.CreateGroup")
	defer span.End()

	userID = strings.TrimSpace(userID)
	name = strings.TrimSpace(name)
	if userID == "" || name == "" {
		return social.Group{}, fmt.Errorf("%w: user id and group name are required", ErrInvalidInput)
	}

	groupID, err := s.idGen.NewID()
	if err != nil {
		return social.Group{}, fmt.Errorf("generate group id: %w", err)
	}

	now := s.now().UTC()
	group := social.Group{ID: groupID, Name: name, CreatedAt: now}
	if err := s.socialRepo.CreateGroup(ctx, group); err != nil {
		return social.Group{}, fmt.Errorf("create group: %w", err)
	}
	if err := s.socialRepo.UpsertMembership(ctx, social.Membership{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: now,
	}); err != nil {
		return social.Group{}, fmt.Errorf("add creator membership: %w", err)
	}
	return group, nil
}

func (s *SocialService) JoinGroup(ctx context.Context, userID, groupID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.JoinGroup")
	defer span.End()

	userID = strings.TrimSpace(userID)
	groupID = strings.TrimSpace(groupID)
	if userID == "" || groupID == "" {
		return fmt.Errorf("%w: user id and group id are required", ErrInvalidInput)
	}

	if _, exists, err := s.socialRepo.GetGroup(ctx, groupID); err != nil {
		return fmt.Errorf("get group: %w", err)
	} else if !exists {
		return fmt.Errorf("%w: group=%s", ErrNotFound, groupID)
	}

	if err := s.socialRepo.UpsertMembership(ctx, social.Membership{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: s.now().UTC(),
	}); err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}
	return nil
}

func (s *SocialService) ListMyGroups(ctx context.Context, userID string) ([]social.Group, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.ListMyGroups")
	defer span.End()

	out, err := s.socialRepo.ListGroupsByUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, fmt.Errorf("list groups by user: %w", err)
	}
	return out, nil
}

// PostMessage appends a message to a group's log. Members only.
func (s *SocialService) PostMessage(ctx context.Context, userID, groupID, content string) (social.Message, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.PostMessage")
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		return social.Message{}, fmt.Errorf("%w: message content is required", ErrInvalidInput)
	}
	if err := s.requireMembership(ctx, groupID, userID); err != nil {
		return social.Message{}, err
	}

	messageID, err := s.idGen.NewID()
	if err != nil {
		return social.Message{}, fmt.Errorf("generate message id: %w", err)
	}

	message := social.Message{
		ID:       messageID,
		GroupID:  strings.TrimSpace(groupID),
		SenderID: strings.TrimSpace(userID),
		Content:  content,
		SentAt:   s.now().UTC(),
	}
	if err := s.socialRepo.CreateMessage(ctx, message); err != nil {
		return social.Message{}, fmt.Errorf("create message: %w", err)
	}
	return message, nil
}

func (s *SocialService) ListMessages(ctx context.Context, userID, groupID string) ([]social.Message, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.ListMessages")
	defer span.End()

	if err := s.requireMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	out, err := s.socialRepo.ListMessages(ctx, strings.TrimSpace(groupID))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return out, nil
}

// SharePrediction re-posts one of the caller's own predictions into a group.
func (s *SocialService) SharePrediction(ctx context.Context, userID, groupID, predictionID string) (social.SharedPrediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.SharePrediction")
	defer span.End()

	if err := s.requireMembership(ctx, groupID, userID); err != nil {
		return social.SharedPrediction{}, err
	}

	item, exists, err := s.predictionRepo.GetByID(ctx, strings.TrimSpace(predictionID))
	if err != nil {
		return social.SharedPrediction{}, fmt.Errorf("get prediction: %w", err)
	}
	if !exists {
		return social.SharedPrediction{}, fmt.Errorf("%w: prediction=%s", ErrNotFound, predictionID)
	}
	if item.UserID != strings.TrimSpace(userID) {
		return social.SharedPrediction{}, fmt.Errorf("%w: only the owner can share a prediction", ErrForbidden)
	}

	sharedID, err := s.idGen.NewID()
	if err != nil {
		return social.SharedPrediction{}, fmt.Errorf("generate shared prediction id: %w", err)
	}

	shared := social.SharedPrediction{
		ID:           sharedID,
		GroupID:      strings.TrimSpace(groupID),
		UserID:       item.UserID,
		PredictionID: item.ID,
		SharedAt:     s.now().UTC(),
	}
	if err := s.socialRepo.CreateSharedPrediction(ctx, shared); err != nil {
		return social.SharedPrediction{}, fmt.Errorf("create shared prediction: %w", err)
	}
	return shared, nil
}

func (s *SocialService) ListSharedPredictions(ctx context.Context, userID, groupID string) ([]social.SharedPrediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.ListSharedPredictions")
	defer span.End()

	if err := s.requireMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	out, err := s.socialRepo.ListSharedPredictions(ctx, strings.TrimSpace(groupID))
	if err != nil {
		return nil, fmt.Errorf("list shared predictions: %w", err)
	}
	return out, nil
}

func (s *SocialService) requireMembership(ctx context.Context, groupID, userID string) error {
	groupID = strings.TrimSpace(groupID)
	userID = strings.TrimSpace(userID)
	if groupID == "" || userID == "" {
		return fmt.Errorf("%w: user id and group id are required", ErrInvalidInput)
	}

	if _, exists, err := s.socialRepo.GetGroup(ctx, groupID); err != nil {
		return fmt.Errorf("get group: %w", err)
	} else if !exists {
		return fmt.Errorf("%w: group=%s", ErrNotFound, groupID)
	}

	member, err := s.socialRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return fmt.Errorf("%w: group members only", ErrForbidden)
	}
	return nil
}
