package service

import (
	"context"
	"testing"

	"plume/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowService_Follow_Self(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		return &models.User{ID: 7, Username: username}, nil
	}

	followRepo := noopFollowRepo()
	called := false
	followRepo.getOrCreateFn = func(_ context.Context, _, _ uint) (*models.Follow, bool, error) {
		called = true
		return nil, false, nil
	}

	svc := NewFollowService(followRepo, userRepo, nil)

	_, err := svc.Follow(context.Background(), 7, "me")
	assert.ErrorIs(t, err, ErrSelfFollow)
	assert.False(t, called, "self-follow must never reach the repository")
}

func TestFollowService_Follow_UnknownAuthor(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		return nil, models.NewNotFoundError("User", username)
	}

	svc := NewFollowService(noopFollowRepo(), userRepo, nil)

	_, err := svc.Follow(context.Background(), 1, "nobody")
	assertNotFoundError(t, err)
}

func TestFollowService_Follow_Idempotent(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		return &models.User{ID: 2, Username: username}, nil
	}

	followRepo := noopFollowRepo()
	calls := 0
	followRepo.getOrCreateFn = func(_ context.Context, userID, authorID uint) (*models.Follow, bool, error) {
		calls++
		return &models.Follow{ID: 1, UserID: userID, AuthorID: authorID}, calls == 1, nil
	}

	svc := NewFollowService(followRepo, userRepo, nil)
	ctx := context.Background()

	created, err := svc.Follow(ctx, 1, "sphinx")
	require.NoError(t, err)
	assert.True(t, created)

	// Following again succeeds but creates nothing.
	created, err = svc.Follow(ctx, 1, "sphinx")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 2, calls)
}

func TestFollowService_Unfollow(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		return &models.User{ID: 2, Username: username}, nil
	}

	t.Run("success", func(t *testing.T) {
		followRepo := noopFollowRepo()
		var deletedUser, deletedAuthor uint
		followRepo.deleteFn = func(_ context.Context, userID, authorID uint) error {
			deletedUser, deletedAuthor = userID, authorID
			return nil
		}
		svc := NewFollowService(followRepo, userRepo, nil)

		require.NoError(t, svc.Unfollow(context.Background(), 1, "sphinx"))
		assert.Equal(t, uint(1), deletedUser)
		assert.Equal(t, uint(2), deletedAuthor)
	})

	t.Run("not following", func(t *testing.T) {
		followRepo := noopFollowRepo()
		followRepo.deleteFn = func(_ context.Context, _, authorID uint) error {
			return models.NewNotFoundError("Follow", authorID)
		}
		svc := NewFollowService(followRepo, userRepo, nil)

		err := svc.Unfollow(context.Background(), 1, "sphinx")
		assertNotFoundError(t, err)
	})
}
