// Package models contains data structures for the application's domain models.
package models

// Group is a topical community that posts can be filed under.
// Groups are created administratively and rarely change; the slug is the
// stable external-facing key.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Slug        string `gorm:"size:200;uniqueIndex;not null" json:"slug"`

	Posts []Post `gorm:"foreignKey:GroupID" json:"posts,omitempty"`
}
