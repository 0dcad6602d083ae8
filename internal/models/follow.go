// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Follow is a subscription edge: UserID follows AuthorID.
//
// Uniqueness is on the (user_id, author_id) pair. The schema this was ported
// from declared uniqueness on the follower alone, which would stop a user
// from following more than one author; that is treated as a defect and
// corrected here. Deleting the follower removes their edges; deleting the
// followed author deliberately does not cascade.
type Follow struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_follows_user_author" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	AuthorID     uint      `gorm:"not null;uniqueIndex:idx_follows_user_author" json:"author_id"`
	Author       User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:NO ACTION" json:"author,omitempty"`
	SubscribedAt time.Time `gorm:"autoCreateTime;index" json:"subscribed_at"`
	Following    bool      `gorm:"default:false" json:"following"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
