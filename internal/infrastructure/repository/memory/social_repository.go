package memory

import (
	"context"
	"sync"

	"github.com/umatomo/predict-api/internal/domain/social"
)

type SocialRepository struct {
	mu          sync.RWMutex
	follows     map[string]social.Follow
	followOrder []string
	groups      map[string]social.Group
	groupOrder  []string
	memberships map[string][]social.Membership
	messages    map[string][]social.Message
	shared      map[string][]social.SharedPrediction
}

func NewSocialRepository() *SocialRepository {
	return &SocialRepository{
		follows:     make(map[string]social.Follow),
		groups:      make(map[string]social.Group),
		memberships: make(map[string][]social.Membership),
		messages:    make(map[string][]social.Message),
		shared:      make(map[string][]social.SharedPrediction),
	}
}

func (r *SocialRepository) UpsertFollow(_ context.Context, follow social.Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := followKey(follow.FollowerID, follow.FollowedID)
	if _, exists := r.follows[key]; exists {
		return nil
	}
	r.follows[key] = follow
	r.followOrder = append(r.followOrder, key)

	return nil
}

func (r *SocialRepository) DeleteFollow(_ context.Context, followerID, followedID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := followKey(followerID, followedID)
	if _, ok := r.follows[key]; !ok {
		return nil
	}
	delete(r.follows, key)
	for i, k := range r.followOrder {
		if k == key {
			r.followOrder = append(r.followOrder[:i], r.followOrder[i+1:]...)
			break
		}
	}

	return nil
}

func (r *SocialRepository) ListFollowing(_ context.Context, followerID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for _, key := range r.followOrder {
		if follow := r.follows[key]; follow.FollowerID == followerID {
			out = append(out, follow.FollowedID)
		}
	}

	return out, nil
}

func (r *SocialRepository) ListFollowers(_ context.Context, followedID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for _, key := range r.followOrder {
		if follow := r.follows[key]; follow.FollowedID == followedID {
			out = append(out, follow.FollowerID)
		}
	}

	return out, nil
}

func (r *SocialRepository) CreateGroup(_ context.Context, group social.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.groups[group.ID]; !exists {
		r.groupOrder = append(r.groupOrder, group.ID)
	}
	r.groups[group.ID] = group

	return nil
}

func (r *SocialRepository) GetGroup(_ context.Context, groupID string) (social.Group, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group, ok := r.groups[groupID]
	if !ok {
		return social.Group{}, false, nil
	}

	return group, true, nil
}

func (r *SocialRepository) ListGroupsByUser(_ context.Context, userID string) ([]social.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]social.Group, 0)
	for _, groupID := range r.groupOrder {
		for _, m := range r.memberships[groupID] {
			if m.UserID == userID {
				out = append(out, r.groups[groupID])
				break
			}
		}
	}

	return out, nil
}

func (r *SocialRepository) UpsertMembership(_ context.Context, membership social.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.memberships[membership.GroupID] {
		if m.UserID == membership.UserID {
			return nil
		}
	}
	r.memberships[membership.GroupID] = append(r.memberships[membership.GroupID], membership)

	return nil
}

func (r *SocialRepository) IsMember(_ context.Context, groupID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.memberships[groupID] {
		if m.UserID == userID {
			return true, nil
		}
	}

	return false, nil
}

func (r *SocialRepository) CreateMessage(_ context.Context, message social.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages[message.GroupID] = append(r.messages[message.GroupID], message)

	return nil
}

func (r *SocialRepository) ListMessages(_ context.Context, groupID string) ([]social.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]social.Message(nil), r.messages[groupID]...), nil
}

func (r *SocialRepository) CreateSharedPrediction(_ context.Context, shared social.SharedPrediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.shared[shared.GroupID] = append(r.shared[shared.GroupID], shared)

	return nil
}

func (r *SocialRepository) ListSharedPredictions(_ context.Context, groupID string) ([]social.SharedPrediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]social.SharedPrediction(nil), r.shared[groupID]...), nil
}

func followKey(followerID, followedID string) string {
	return followerID + "::" + followedID
}
