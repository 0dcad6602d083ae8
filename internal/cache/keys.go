package cache

import (
	"context"
	"fmt"
	"time"
)

// IndexPageKey caches the first page of the global timeline. Every
// successful post create or edit invalidates it; the TTL is a safety net
// against missed invalidations.
const IndexPageKey = "index_page"

const (
	postKeyPrefix    = "post:%d"
	groupKeyPrefix   = "group:%s"
	profileKeyPrefix = "profile:%s"
	followFeedKeyFmt = "follow_index:%d"
)

const (
	IndexTTL      = 20 * time.Second
	PostTTL       = 30 * time.Minute
	GroupTTL      = 5 * time.Minute
	ProfileTTL    = 5 * time.Minute
	FollowFeedTTL = time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

func GroupKey(slug string) string {
	return fmt.Sprintf(groupKeyPrefix, slug)
}

func ProfileKey(username string) string {
	return fmt.Sprintf(profileKeyPrefix, username)
}

func FollowFeedKey(userID uint) string {
	return fmt.Sprintf(followFeedKeyFmt, userID)
}

func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c.Enabled() {
		c.client.Del(ctx, key)
	}
}

// InvalidateIndex drops the cached global timeline page.
func (c *Cache) InvalidateIndex(ctx context.Context) {
	c.Invalidate(ctx, IndexPageKey)
}

// InvalidatePostViews drops every cached view that can contain the post:
// the global timeline, the post detail page, the author's profile page and
// the post's group page. Followers' feed pages are keyed per user and are
// dropped separately via InvalidateFollowFeeds.
func (c *Cache) InvalidatePostViews(ctx context.Context, postID uint, username, groupSlug string) {
	c.Invalidate(ctx, IndexPageKey)
	c.Invalidate(ctx, PostKey(postID))
	if username != "" {
		c.Invalidate(ctx, ProfileKey(username))
	}
	if groupSlug != "" {
		c.Invalidate(ctx, GroupKey(groupSlug))
	}
}

// InvalidateFollowFeed drops the cached following feed for the user.
func (c *Cache) InvalidateFollowFeed(ctx context.Context, userID uint) {
	c.Invalidate(ctx, FollowFeedKey(userID))
}

// InvalidateFollowFeeds drops the cached following feed of every listed
// user. Used when an author's posts change: each follower's cached page 1
// can contain that author's posts.
func (c *Cache) InvalidateFollowFeeds(ctx context.Context, userIDs []uint) {
	if !c.Enabled() || len(userIDs) == 0 {
		return
	}
	pipe := c.client.Pipeline()
	for _, id := range userIDs {
		pipe.Del(ctx, FollowFeedKey(id))
	}
	_, _ = pipe.Exec(ctx)
}
