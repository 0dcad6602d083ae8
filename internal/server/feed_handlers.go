// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetTimeline handles GET /api/posts, the global timeline.
func (s *Server) GetTimeline(c *fiber.Ctx) error {
	page := parsePage(c)
	_, authenticated := s.optionalUserID(c)

	result, err := s.feedService.Timeline(c.Context(), page, authenticated)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(result)
}

// GetGroups handles GET /api/groups.
func (s *Server) GetGroups(c *fiber.Ctx) error {
	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"groups": groups})
}

// GetGroupTimeline handles GET /api/groups/:slug/posts. The timeline is
// windowed to the group's most recent posts; see FeedService.Group.
func (s *Server) GetGroupTimeline(c *fiber.Ctx) error {
	slug := c.Params("slug")
	page := parsePage(c)
	_, authenticated := s.optionalUserID(c)

	result, err := s.feedService.Group(c.Context(), slug, page, authenticated)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(result)
}

// GetProfile handles GET /api/users/:username/posts.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	page := parsePage(c)
	viewerID, _ := s.optionalUserID(c)

	result, err := s.feedService.Profile(c.Context(), username, page, viewerID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(result)
}

// GetFollowingFeed handles GET /api/feed, the authenticated following feed.
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePage(c)

	result, err := s.feedService.Following(c.Context(), userID, page)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(result)
}
