// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post is a published entry in a user's blog.
//
// PublishedAt is set once at creation and indexed; the default ordering for
// every collection fetch is newest-first on this column. Deleting the author
// cascades to their posts; deleting the group nulls out GroupID instead.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	PublishedAt time.Time `gorm:"autoCreateTime;index" json:"published_at"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID     *uint     `gorm:"index" json:"group_id,omitempty"`
	Group       *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	ImagePath   string    `json:"image_path,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
