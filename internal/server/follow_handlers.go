// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"errors"

	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

const feedPath = "/api/feed"

// FollowUser handles POST /api/users/:username/follow. Following is
// idempotent: repeating it succeeds without creating a second edge. A
// self-follow attempt is bounced to the timeline rather than rejected with
// an error page.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	if _, err := s.followService.Follow(c.Context(), userID, username); err != nil {
		if errors.Is(err, service.ErrSelfFollow) {
			return c.Redirect("/api/posts", fiber.StatusSeeOther)
		}
		return respondAppError(c, err)
	}

	return c.Redirect(feedPath, fiber.StatusSeeOther)
}

// UnfollowUser handles POST /api/users/:username/unfollow. Unfollowing
// someone never followed is a 404, unlike the idempotent follow direction.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	if err := s.followService.Unfollow(c.Context(), userID, username); err != nil {
		return respondAppError(c, err)
	}

	return c.Redirect(feedPath, fiber.StatusSeeOther)
}
