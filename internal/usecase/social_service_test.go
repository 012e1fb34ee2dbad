package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/umatomo/predict-api/internal/infrastructure/repository/memory"
)

func newSocialService() (*SocialService, *memory.SocialRepository, *memory.PredictionRepository) {
	socialRepo := memory.NewSocialRepository()
	predictionRepo := memory.NewPredictionRepository()
	svc := NewSocialService(socialRepo, predictionRepo, &seqIDGen{prefix: "soc"})
	return svc, socialRepo, predictionRepo
}

func TestSocialService_Follow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := newSocialService()

	if err := svc.Follow(ctx, userAoi, userAoi); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self-follow, got %v", err)
	}

	if err := svc.Follow(ctx, userAoi, userBunta); err != nil {
		t.Fatalf("follow: %v", err)
	}
	// Following twice is a no-op, not an error.
	if err := svc.Follow(ctx, userAoi, userBunta); err != nil {
		t.Fatalf("repeat follow: %v", err)
	}

	following, err := svc.ListFollowing(ctx, userAoi)
	if err != nil {
		t.Fatalf("list following: %v", err)
	}
	if len(following) != 1 || following[0] != userBunta {
		t.Fatalf("unexpected following list: %v", following)
	}

	followers, err := svc.ListFollowers(ctx, userBunta)
	if err != nil {
		t.Fatalf("list followers: %v", err)
	}
	if len(followers) != 1 || followers[0] != userAoi {
		t.Fatalf("unexpected followers list: %v", followers)
	}

	if err := svc.Unfollow(ctx, userAoi, userBunta); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	following, err = svc.ListFollowing(ctx, userAoi)
	if err != nil {
		t.Fatalf("list following after unfollow: %v", err)
	}
	if len(following) != 0 {
		t.Fatalf("expected empty following list, got %v", following)
	}
}

func TestSocialService_CreateGroup_AddsCreatorMembership(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, socialRepo, _ := newSocialService()

	group, err := svc.CreateGroup(ctx, userAoi, "Derby Watchers")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if group.ID == "" || group.Name != "Derby Watchers" {
		t.Fatalf("unexpected group: %+v", group)
	}

	member, err := socialRepo.IsMember(ctx, group.ID, userAoi)
	if err != nil {
		t.Fatalf("is member: %v", err)
	}
	if !member {
		t.Fatal("creator should be a member of the new group")
	}

	groups, err := svc.ListMyGroups(ctx, userAoi)
	if err != nil {
		t.Fatalf("list my groups: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != group.ID {
		t.Fatalf("unexpected groups: %+v", groups)
	}
}

func TestSocialService_JoinGroup_UnknownGroup(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSocialService()

	if err := svc.JoinGroup(context.Background(), userAoi, "no-such-group"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSocialService_Messages_MembersOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := newSocialService()

	group, err := svc.CreateGroup(ctx, userAoi, "Paddock Talk")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	if _, err := svc.PostMessage(ctx, userBunta, group.ID, "hello"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a non-member, got %v", err)
	}
	if _, err := svc.ListMessages(ctx, userBunta, group.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a non-member, got %v", err)
	}

	if err := svc.JoinGroup(ctx, userBunta, group.ID); err != nil {
		t.Fatalf("join group: %v", err)
	}
	posted, err := svc.PostMessage(ctx, userBunta, group.ID, "  who do you like for the derby?  ")
	if err != nil {
		t.Fatalf("post message: %v", err)
	}
	if posted.Content != "who do you like for the derby?" {
		t.Fatalf("message content not trimmed: %q", posted.Content)
	}

	messages, err := svc.ListMessages(ctx, userAoi, group.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 1 || messages[0].SenderID != userBunta {
		t.Fatalf("unexpected messages: %+v", messages)
	}
}

func TestSocialService_SharePrediction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, predictionRepo := newSocialService()

	group, err := svc.CreateGroup(ctx, userAoi, "Tipsters")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if err := svc.JoinGroup(ctx, userBunta, group.ID); err != nil {
		t.Fatalf("join group: %v", err)
	}

	if err := storePrediction(ctx, predictionRepo, "p-aoi", userAoi, derbyRaceID,
		horseAkira, horseBoreas, horseCyclone, time.Now().UTC()); err != nil {
		t.Fatalf("store prediction: %v", err)
	}

	// Bunta cannot share Aoi's prediction.
	if _, err := svc.SharePrediction(ctx, userBunta, group.ID, "p-aoi"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a non-owner, got %v", err)
	}
	if _, err := svc.SharePrediction(ctx, userAoi, group.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	shared, err := svc.SharePrediction(ctx, userAoi, group.ID, "p-aoi")
	if err != nil {
		t.Fatalf("share prediction: %v", err)
	}
	if shared.PredictionID != "p-aoi" || shared.UserID != userAoi || shared.GroupID != group.ID {
		t.Fatalf("unexpected shared prediction: %+v", shared)
	}

	listed, err := svc.ListSharedPredictions(ctx, userBunta, group.ID)
	if err != nil {
		t.Fatalf("list shared predictions: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != shared.ID {
		t.Fatalf("unexpected shared list: %+v", listed)
	}

	// Non-members cannot read the share feed either.
	if _, err := svc.ListSharedPredictions(ctx, userChika, group.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a non-member, got %v", err)
	}
}
