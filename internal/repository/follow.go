// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"plume/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow edge operations
type FollowRepository interface {
	GetOrCreate(ctx context.Context, userID, authorID uint) (*models.Follow, bool, error)
	Get(ctx context.Context, userID, authorID uint) (*models.Follow, error)
	Delete(ctx context.Context, userID, authorID uint) error
	IsFollowing(ctx context.Context, userID, authorID uint) (bool, error)
	CountFollowers(ctx context.Context, authorID uint) (int64, error)
	ListFollowerIDs(ctx context.Context, authorID uint) ([]uint, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// GetOrCreate inserts the (user, author) edge if absent and returns the edge
// together with whether this call created it. The insert rides on the unique
// pair index with ON CONFLICT DO NOTHING, so two concurrent calls cannot
// produce duplicate rows; the loser simply reads back the winner's edge.
func (r *followRepository) GetOrCreate(ctx context.Context, userID, authorID uint) (*models.Follow, bool, error) {
	follow := &models.Follow{UserID: userID, AuthorID: authorID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).
		Create(follow)
	if result.Error != nil {
		return nil, false, translateError(result.Error, "Follow", authorID)
	}
	if result.RowsAffected > 0 {
		return follow, true, nil
	}

	existing, err := r.Get(ctx, userID, authorID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *followRepository) Get(ctx context.Context, userID, authorID uint) (*models.Follow, error) {
	var follow models.Follow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		First(&follow).Error
	if err != nil {
		return nil, translateError(err, "Follow", authorID)
	}
	return &follow, nil
}

// Delete removes the edge, reporting NOT_FOUND when it never existed.
func (r *followRepository) Delete(ctx context.Context, userID, authorID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return translateError(result.Error, "Follow", authorID)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Follow", authorID)
	}
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// ListFollowerIDs returns the IDs of every user following the author. Used
// to drop followers' cached feed pages when the author's posts change.
func (r *followRepository) ListFollowerIDs(ctx context.Context, authorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("author_id = ?", authorID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
