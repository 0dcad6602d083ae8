package service

import (
	"context"
	"testing"

	"plume/internal/cache"
	"plume/internal/database"
	"plume/internal/models"
	"plume/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type feedCacheFixture struct {
	db    *gorm.DB
	mr    *miniredis.Miniredis
	feed  *FeedService
	posts *PostService
	// follows drives the subscription edges under test.
	follows *FollowService
}

func setupFeedCacheTest(t *testing.T) *feedCacheFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	pageCache := cache.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	return &feedCacheFixture{
		db:      db,
		mr:      mr,
		feed:    NewFeedService(postRepo, groupRepo, userRepo, followRepo, 10, pageCache),
		posts:   NewPostService(postRepo, groupRepo, userRepo, commentRepo, followRepo, testImageService(t), pageCache),
		follows: NewFollowService(followRepo, userRepo, pageCache),
	}
}

func (f *feedCacheFixture) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func TestFollowingFeed_NewPostVisibleThroughCache(t *testing.T) {
	f := setupFeedCacheTest(t)
	ctx := context.Background()

	reader := f.createUser(t, "reader")
	author := f.createUser(t, "author")

	_, err := f.follows.Follow(ctx, reader.ID, author.Username)
	require.NoError(t, err)

	// First read caches the (empty) page 1.
	page, err := f.feed.Following(ctx, reader.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	require.True(t, f.mr.Exists(cache.FollowFeedKey(reader.ID)))

	_, err = f.posts.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Text: "fresh"})
	require.NoError(t, err)

	// The publish must have dropped the follower's cached page: the next
	// read goes back to storage and sees the new post.
	page, err = f.feed.Following(ctx, reader.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "fresh", page.Items[0].Text)
}

func TestFollowingFeed_EditAndDeleteDropFollowerCache(t *testing.T) {
	f := setupFeedCacheTest(t)
	ctx := context.Background()

	reader := f.createUser(t, "reader")
	author := f.createUser(t, "author")

	_, err := f.follows.Follow(ctx, reader.ID, author.Username)
	require.NoError(t, err)

	post, err := f.posts.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Text: "first draft"})
	require.NoError(t, err)

	page, err := f.feed.Following(ctx, reader.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	_, err = f.posts.UpdatePost(ctx, UpdatePostInput{
		EditorID: author.ID,
		PostID:   post.ID,
		Text:     "second draft",
	})
	require.NoError(t, err)

	page, err = f.feed.Following(ctx, reader.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "second draft", page.Items[0].Text)

	require.NoError(t, f.posts.DeletePost(ctx, author.ID, post.ID))

	page, err = f.feed.Following(ctx, reader.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestFollowingFeed_UnrelatedFollowerCacheSurvives(t *testing.T) {
	f := setupFeedCacheTest(t)
	ctx := context.Background()

	reader := f.createUser(t, "reader")
	bystander := f.createUser(t, "bystander")
	author := f.createUser(t, "author")
	other := f.createUser(t, "other")

	_, err := f.follows.Follow(ctx, reader.ID, author.Username)
	require.NoError(t, err)
	_, err = f.follows.Follow(ctx, bystander.ID, other.Username)
	require.NoError(t, err)

	_, err = f.feed.Following(ctx, bystander.ID, 1)
	require.NoError(t, err)
	require.True(t, f.mr.Exists(cache.FollowFeedKey(bystander.ID)))

	// A post by an author the bystander does not follow leaves their
	// cached page alone.
	_, err = f.posts.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Text: "irrelevant"})
	require.NoError(t, err)
	assert.True(t, f.mr.Exists(cache.FollowFeedKey(bystander.ID)))
	assert.False(t, f.mr.Exists(cache.FollowFeedKey(reader.ID)))
}
