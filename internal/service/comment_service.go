package service

import (
	"context"
	"strings"

	"plume/internal/cache"
	"plume/internal/models"
	"plume/internal/repository"
)

// CommentService handles adding comments to posts.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	cache       *cache.Cache
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, pageCache *cache.Cache) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		cache:       pageCache,
	}
}

// AddComment attaches a comment to an existing post. Commenting on a missing
// post is NOT_FOUND, not a silent create.
func (s *CommentService) AddComment(ctx context.Context, userID, postID uint, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: userID,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// The comment thread renders on the post detail page.
	s.cache.Invalidate(ctx, cache.PostKey(postID))

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns the post's full comment thread, newest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}
