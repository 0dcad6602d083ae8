package service

import (
	"context"

	"plume/internal/cache"
	"plume/internal/models"
	"plume/internal/repository"
)

// GroupTimelineWindow caps the group timeline at the most recent posts.
// Pagination operates inside this window, so older posts are unreachable
// from the group page no matter how far a client pages.
const GroupTimelineWindow = 12

// Page is one page of a timeline. TotalPages reflects the view the page was
// drawn from (for the group timeline that is the truncated window, not the
// group's full history).
type Page struct {
	Items      []*models.Post `json:"items"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Total      int64          `json:"total"`
}

// GroupTimeline is the group page payload: the group itself plus its
// windowed timeline.
type GroupTimeline struct {
	Group *models.Group `json:"group"`
	Page
}

// ProfileTimeline is the profile page payload. PostsCount is the author's
// full post count and IsFollowing reports the viewer's follow edge; both are
// computed fresh on every uncached render.
type ProfileTimeline struct {
	Author      *models.User `json:"author"`
	PostsCount  int64        `json:"posts_count"`
	IsFollowing bool         `json:"is_following"`
	Page
}

// FeedService assembles the read-side timelines: global, group, profile and
// the authenticated following feed.
type FeedService struct {
	postRepo   repository.PostRepository
	groupRepo  repository.GroupRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	pageSize   int
	cache      *cache.Cache
}

func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	pageSize int,
	pageCache *cache.Cache,
) *FeedService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &FeedService{
		postRepo:   postRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		pageSize:   pageSize,
		cache:      pageCache,
	}
}

// Timeline returns one page of the global timeline, newest first. The first
// page for anonymous readers is served cache-aside under a short TTL; writes
// invalidate the key, the TTL bounds staleness if an invalidation is missed.
func (s *FeedService) Timeline(ctx context.Context, page int, authenticated bool) (*Page, error) {
	page = normalizePage(page)

	fetch := func(dest *Page) func() error {
		return func() error {
			total, err := s.postRepo.Count(ctx)
			if err != nil {
				return err
			}
			posts, err := s.postRepo.List(ctx, s.pageSize, (page-1)*s.pageSize)
			if err != nil {
				return err
			}
			*dest = s.buildPage(posts, page, total)
			return nil
		}
	}

	var result Page
	if !authenticated && page == 1 {
		if err := s.cache.Aside(ctx, cache.IndexPageKey, &result, cache.IndexTTL, fetch(&result)); err != nil {
			return nil, err
		}
		return &result, nil
	}
	if err := fetch(&result)(); err != nil {
		return nil, err
	}
	return &result, nil
}

// Group returns the group page: the group plus one page of its windowed
// timeline. A missing slug is a NOT_FOUND error, never an empty timeline.
func (s *FeedService) Group(ctx context.Context, slug string, page int, authenticated bool) (*GroupTimeline, error) {
	page = normalizePage(page)

	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	fetch := func(dest *GroupTimeline) func() error {
		return func() error {
			posts, total, err := s.postRepo.ListGroupWindow(ctx, group.ID, GroupTimelineWindow, s.pageSize, (page-1)*s.pageSize)
			if err != nil {
				return err
			}
			dest.Group = group
			dest.Page = s.buildPage(posts, page, total)
			return nil
		}
	}

	var result GroupTimeline
	if !authenticated && page == 1 {
		if err := s.cache.Aside(ctx, cache.GroupKey(slug), &result, cache.GroupTTL, fetch(&result)); err != nil {
			return nil, err
		}
		return &result, nil
	}
	if err := fetch(&result)(); err != nil {
		return nil, err
	}
	return &result, nil
}

// Profile returns the author's profile page. viewerID is zero for anonymous
// readers; IsFollowing is only ever true for a signed-in viewer with an
// existing follow edge.
func (s *FeedService) Profile(ctx context.Context, username string, page int, viewerID uint) (*ProfileTimeline, error) {
	page = normalizePage(page)

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	fetch := func(dest *ProfileTimeline) func() error {
		return func() error {
			total, err := s.postRepo.CountByAuthor(ctx, author.ID)
			if err != nil {
				return err
			}
			posts, err := s.postRepo.ListByAuthor(ctx, author.ID, s.pageSize, (page-1)*s.pageSize)
			if err != nil {
				return err
			}
			dest.Author = author
			dest.PostsCount = total
			dest.Page = s.buildPage(posts, page, total)
			return nil
		}
	}

	var result ProfileTimeline
	if viewerID == 0 && page == 1 {
		if err := s.cache.Aside(ctx, cache.ProfileKey(username), &result, cache.ProfileTTL, fetch(&result)); err != nil {
			return nil, err
		}
		return &result, nil
	}
	if err := fetch(&result)(); err != nil {
		return nil, err
	}

	if viewerID != 0 && viewerID != author.ID {
		following, err := s.followRepo.IsFollowing(ctx, viewerID, author.ID)
		if err != nil {
			return nil, err
		}
		result.IsFollowing = following
	}
	return &result, nil
}

// Following returns one page of posts by authors the user follows, merged
// newest first. The first page is cached per user with a short TTL; follow
// and unfollow invalidate it so feed membership changes show up immediately.
func (s *FeedService) Following(ctx context.Context, userID uint, page int) (*Page, error) {
	page = normalizePage(page)

	fetch := func(dest *Page) func() error {
		return func() error {
			total, err := s.postRepo.CountFollowing(ctx, userID)
			if err != nil {
				return err
			}
			posts, err := s.postRepo.ListFollowing(ctx, userID, s.pageSize, (page-1)*s.pageSize)
			if err != nil {
				return err
			}
			*dest = s.buildPage(posts, page, total)
			return nil
		}
	}

	var result Page
	if page == 1 {
		if err := s.cache.Aside(ctx, cache.FollowFeedKey(userID), &result, cache.FollowFeedTTL, fetch(&result)); err != nil {
			return nil, err
		}
		return &result, nil
	}
	if err := fetch(&result)(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *FeedService) buildPage(posts []*models.Post, page int, total int64) Page {
	if posts == nil {
		posts = []*models.Post{}
	}
	return Page{
		Items:      posts,
		Page:       page,
		TotalPages: totalPages(total, s.pageSize),
		Total:      total,
	}
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// totalPages never reports fewer than one page; an empty timeline still
// renders page 1.
func totalPages(total int64, pageSize int) int {
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}
