package service

import (
	"context"
	"strings"

	"plume/internal/cache"
	"plume/internal/models"
	"plume/internal/repository"
)

// PostService owns the write pipeline for posts and the post detail read.
type PostService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository
	images      *ImageService
	cache       *cache.Cache
}

type CreatePostInput struct {
	AuthorID  uint
	Text      string
	GroupID   *uint
	Image     []byte
	ImageType string
}

// UpdatePostInput carries an edit. GroupID reflects the submitted form state:
// nil clears the group, non-nil reassigns it.
type UpdatePostInput struct {
	EditorID  uint
	PostID    uint
	Text      string
	GroupID   *uint
	Image     []byte
	ImageType string
}

// PostDetail is the post page payload: the post, its full comment thread and
// the author's total post count.
type PostDetail struct {
	Post             *models.Post      `json:"post"`
	Comments         []*models.Comment `json:"comments"`
	AuthorPostsCount int64             `json:"author_posts_count"`
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	followRepo repository.FollowRepository,
	images *ImageService,
	pageCache *cache.Cache,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		followRepo:  followRepo,
		images:      images,
		cache:       pageCache,
	}
}

// CreatePost validates and persists a new post. Validation runs front to
// back before anything is written: empty text or a bad image means no post
// row and no orphaned rows anywhere.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	var group *models.Group
	if in.GroupID != nil {
		group, err = s.groupRepo.GetByID(ctx, *in.GroupID)
		if err != nil {
			return nil, err
		}
	}

	var imagePath string
	if len(in.Image) > 0 {
		imagePath, err = s.images.Save(in.Image, in.ImageType)
		if err != nil {
			return nil, err
		}
	}

	post := &models.Post{
		Text:      text,
		AuthorID:  author.ID,
		GroupID:   in.GroupID,
		ImagePath: imagePath,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		// The image landed on disk ahead of the row; take it back out so a
		// failed insert leaves nothing behind.
		s.images.Remove(imagePath)
		return nil, err
	}

	groupSlug := ""
	if group != nil {
		groupSlug = group.Slug
	}
	s.cache.InvalidatePostViews(ctx, post.ID, author.Username, groupSlug)
	s.invalidateFollowerFeeds(ctx, author.ID)

	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost edits an existing post. Only the author may edit; anyone else
// gets an AuthorizationError and the post is untouched. The publication
// timestamp survives the edit, so the post keeps its timeline position.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.EditorID {
		return nil, models.NewAuthorizationError("Only the author can edit this post")
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}

	oldSlug := ""
	if post.Group != nil {
		oldSlug = post.Group.Slug
	}

	newSlug := ""
	if in.GroupID != nil {
		group, err := s.groupRepo.GetByID(ctx, *in.GroupID)
		if err != nil {
			return nil, err
		}
		newSlug = group.Slug
	}

	oldImagePath := post.ImagePath
	if len(in.Image) > 0 {
		imagePath, err := s.images.Save(in.Image, in.ImageType)
		if err != nil {
			return nil, err
		}
		post.ImagePath = imagePath
	}

	post.Text = text
	post.GroupID = in.GroupID
	post.Group = nil
	if err := s.postRepo.Update(ctx, post); err != nil {
		if post.ImagePath != oldImagePath {
			s.images.Remove(post.ImagePath)
		}
		return nil, err
	}

	// A replaced image's directory has no remaining referrer.
	if oldImagePath != "" && post.ImagePath != oldImagePath {
		s.images.Remove(oldImagePath)
	}

	s.cache.InvalidatePostViews(ctx, post.ID, post.Author.Username, oldSlug)
	if newSlug != "" && newSlug != oldSlug {
		s.cache.Invalidate(ctx, cache.GroupKey(newSlug))
	}
	s.invalidateFollowerFeeds(ctx, post.AuthorID)

	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes the post. Same ownership rule as editing.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return models.NewAuthorizationError("Only the author can delete this post")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	s.images.Remove(post.ImagePath)

	groupSlug := ""
	if post.Group != nil {
		groupSlug = post.Group.Slug
	}
	s.cache.InvalidatePostViews(ctx, postID, post.Author.Username, groupSlug)
	s.invalidateFollowerFeeds(ctx, post.AuthorID)
	return nil
}

// invalidateFollowerFeeds drops the cached feed page of everyone following
// the author, so a new or changed post shows up on the next feed read.
// Best-effort like all invalidation: the write has already committed.
func (s *PostService) invalidateFollowerFeeds(ctx context.Context, authorID uint) {
	if !s.cache.Enabled() {
		return
	}
	followerIDs, err := s.followRepo.ListFollowerIDs(ctx, authorID)
	if err != nil {
		return
	}
	s.cache.InvalidateFollowFeeds(ctx, followerIDs)
}

// GetPost assembles the post detail page. Anonymous reads are served
// cache-aside; comment writes and post edits invalidate the key.
func (s *PostService) GetPost(ctx context.Context, postID uint, authenticated bool) (*PostDetail, error) {
	fetch := func(dest *PostDetail) func() error {
		return func() error {
			post, err := s.postRepo.GetByID(ctx, postID)
			if err != nil {
				return err
			}
			comments, err := s.commentRepo.ListByPost(ctx, postID)
			if err != nil {
				return err
			}
			count, err := s.postRepo.CountByAuthor(ctx, post.AuthorID)
			if err != nil {
				return err
			}
			dest.Post = post
			dest.Comments = comments
			dest.AuthorPostsCount = count
			return nil
		}
	}

	var result PostDetail
	if !authenticated {
		if err := s.cache.Aside(ctx, cache.PostKey(postID), &result, cache.PostTTL, fetch(&result)); err != nil {
			return nil, err
		}
		return &result, nil
	}
	if err := fetch(&result)(); err != nil {
		return nil, err
	}
	return &result, nil
}
