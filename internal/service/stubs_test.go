package service

import (
	"context"
	"testing"

	"plume/internal/models"

	"github.com/stretchr/testify/assert"
)

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assert.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeValidation), "expected validation error, got %v", err)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assert.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeNotFound), "expected not-found error, got %v", err)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	deleteFn        func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "leo"}, nil
		},
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 2, Username: username}, nil
		},
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: 2, Email: email}, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// groupRepoStub is a stub for repository.GroupRepository.
type groupRepoStub struct {
	createFn    func(context.Context, *models.Group) error
	getByIDFn   func(context.Context, uint) (*models.Group, error)
	getBySlugFn func(context.Context, string) (*models.Group, error)
	listFn      func(context.Context) ([]*models.Group, error)
	deleteFn    func(context.Context, uint) error
}

func (s *groupRepoStub) Create(ctx context.Context, group *models.Group) error {
	return s.createFn(ctx, group)
}
func (s *groupRepoStub) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	return s.getByIDFn(ctx, id)
}
func (s *groupRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *groupRepoStub) List(ctx context.Context) ([]*models.Group, error) {
	return s.listFn(ctx)
}
func (s *groupRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopGroupRepo() *groupRepoStub {
	return &groupRepoStub{
		createFn: func(_ context.Context, _ *models.Group) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Group, error) {
			return &models.Group{ID: id, Title: "Cats", Slug: "cats"}, nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.Group, error) {
			return &models.Group{ID: 3, Title: "Cats", Slug: slug}, nil
		},
		listFn:   func(_ context.Context) ([]*models.Group, error) { return nil, nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint) (*models.Post, error)
	updateFn          func(context.Context, *models.Post) error
	deleteFn          func(context.Context, uint) error
	listFn            func(context.Context, int, int) ([]*models.Post, error)
	countFn           func(context.Context) (int64, error)
	listByAuthorFn    func(context.Context, uint, int, int) ([]*models.Post, error)
	countByAuthorFn   func(context.Context, uint) (int64, error)
	listGroupWindowFn func(context.Context, uint, int, int, int) ([]*models.Post, int64, error)
	listFollowingFn   func(context.Context, uint, int, int) ([]*models.Post, error)
	countFollowingFn  func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) ListGroupWindow(ctx context.Context, groupID uint, window, limit, offset int) ([]*models.Post, int64, error) {
	return s.listGroupWindowFn(ctx, groupID, window, limit, offset)
}
func (s *postRepoStub) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.listFollowingFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, Text: "hello", AuthorID: 1, Author: models.User{ID: 1, Username: "leo"}}, nil
		},
		updateFn: func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		listFn:   func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		countFn:  func(_ context.Context) (int64, error) { return 0, nil },
		listByAuthorFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		countByAuthorFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		listGroupWindowFn: func(_ context.Context, _ uint, _, _, _ int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listFollowingFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		countFollowingFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	getOrCreateFn    func(context.Context, uint, uint) (*models.Follow, bool, error)
	getFn            func(context.Context, uint, uint) (*models.Follow, error)
	deleteFn         func(context.Context, uint, uint) error
	isFollowingFn     func(context.Context, uint, uint) (bool, error)
	countFollowersFn  func(context.Context, uint) (int64, error)
	listFollowerIDsFn func(context.Context, uint) ([]uint, error)
}

func (s *followRepoStub) GetOrCreate(ctx context.Context, userID, authorID uint) (*models.Follow, bool, error) {
	return s.getOrCreateFn(ctx, userID, authorID)
}
func (s *followRepoStub) Get(ctx context.Context, userID, authorID uint) (*models.Follow, error) {
	return s.getFn(ctx, userID, authorID)
}
func (s *followRepoStub) Delete(ctx context.Context, userID, authorID uint) error {
	return s.deleteFn(ctx, userID, authorID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	return s.isFollowingFn(ctx, userID, authorID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, authorID uint) (int64, error) {
	return s.countFollowersFn(ctx, authorID)
}
func (s *followRepoStub) ListFollowerIDs(ctx context.Context, authorID uint) ([]uint, error) {
	return s.listFollowerIDsFn(ctx, authorID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		getOrCreateFn: func(_ context.Context, userID, authorID uint) (*models.Follow, bool, error) {
			return &models.Follow{ID: 1, UserID: userID, AuthorID: authorID}, true, nil
		},
		getFn: func(_ context.Context, userID, authorID uint) (*models.Follow, error) {
			return &models.Follow{ID: 1, UserID: userID, AuthorID: authorID}, nil
		},
		deleteFn:          func(_ context.Context, _, _ uint) error { return nil },
		isFollowingFn:     func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		countFollowersFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		listFollowerIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
	}
}
