// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"plume/internal/models"
	"plume/internal/validation"

	"gorm.io/gorm"
)

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
	Delete(ctx context.Context, id uint) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// Create persists a new group. The slug is validated first: it becomes a URL
// path segment, so malformed or reserved slugs never reach the table.
func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	if err := validation.ValidateGroupSlug(group.Slug); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		return translateError(err, "Group", group.Slug)
	}
	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, translateError(err, "Group", id)
	}
	return &group, nil
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, translateError(err, "Group", slug)
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]*models.Group, error) {
	var groups []*models.Group
	if err := r.db.WithContext(ctx).Order("title").Find(&groups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return groups, nil
}

// Delete removes the group row. The schema nulls out group_id on referencing
// posts rather than deleting them.
func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Group{}, id)
	if result.Error != nil {
		return translateError(result.Error, "Group", id)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Group", id)
	}
	return nil
}
