// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"plume/internal/models"
	"plume/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateGroup persists a group with the given title, deriving the slug from
// it. Existing groups with the same slug are reused.
func (f *Factory) CreateGroup(title string, overrides ...func(*models.Group)) (*models.Group, error) {
	group := &models.Group{
		Title:       title,
		Slug:        slugify(title),
		Description: gofakeit.Sentence(12),
	}

	for _, override := range overrides {
		override(group)
	}

	if err := validation.ValidateGroupSlug(group.Slug); err != nil {
		return nil, fmt.Errorf("group slug %q: %w", group.Slug, err)
	}

	if err := f.db.Where(models.Group{Slug: group.Slug}).
		Attrs(models.Group{Title: group.Title, Description: group.Description}).
		FirstOrCreate(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// CreatePost constructs and persists a post for the given user, spreading
// PublishedAt over the configured history window so timelines look lived-in.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(user, overrides...)
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// BuildPost constructs a post struct like CreatePost but does not persist it.
// Useful for batching.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Text:     gofakeit.Paragraph(1, 3, 8, "\n"),
		AuthorID: user.ID,
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	post.PublishedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(hoursBack)*time.Hour -
			time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateComment constructs and persists a comment on the provided post
// authored by the provided user.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Text:     gofakeit.Sentence(8),
		AuthorID: user.ID,
		PostID:   post.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateFollow persists a follow edge from follower to author. Duplicate
// edges are silently skipped, matching the idempotent follow semantics.
func (f *Factory) CreateFollow(follower, author *models.User) error {
	follow := &models.Follow{
		UserID:    follower.ID,
		AuthorID:  author.ID,
		Following: true,
	}
	return f.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
		DoNothing: true,
	}).Create(follow).Error
}

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
