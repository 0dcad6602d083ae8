package service

import (
	"context"

	"plume/internal/cache"
	"plume/internal/models"
	"plume/internal/repository"
)

// ErrSelfFollow is returned when a user tries to follow themselves. The
// handler layer treats it as a soft failure and bounces the client back to
// the timeline instead of surfacing an error page.
var ErrSelfFollow = models.NewValidationError("You cannot follow yourself")

// FollowService manages follow edges between users.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	cache      *cache.Cache
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, pageCache *cache.Cache) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		cache:      pageCache,
	}
}

// Follow subscribes the user to the author's posts. Repeating an existing
// follow is a no-op, not an error; following yourself is rejected before the
// author lookup result matters. Returns whether this call created the edge.
func (s *FollowService) Follow(ctx context.Context, userID uint, authorUsername string) (bool, error) {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return false, err
	}
	if author.ID == userID {
		return false, ErrSelfFollow
	}

	_, created, err := s.followRepo.GetOrCreate(ctx, userID, author.ID)
	if err != nil {
		return false, err
	}
	if created {
		s.cache.InvalidateFollowFeed(ctx, userID)
	}
	return created, nil
}

// Unfollow removes the user's subscription to the author. Unfollowing someone
// never followed is a NOT_FOUND error, mirroring the asymmetry with Follow.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, authorUsername string) error {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	if err := s.followRepo.Delete(ctx, userID, author.ID); err != nil {
		return err
	}
	s.cache.InvalidateFollowFeed(ctx, userID)
	return nil
}

// IsFollowing reports whether the user currently follows the author.
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, userID, authorID)
}
