// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"plume/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:id/comments.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.Context(), postID)
	if err != nil {
		return respondAppError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// AddComment handles POST /api/posts/:id/comments. Commenting on a missing
// post is a 404; a successful comment bounces back to the post detail page.
func (s *Server) AddComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var form struct {
		Text string `json:"text" form:"text"`
	}
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if _, err := s.commentService.AddComment(c.Context(), userID, postID, form.Text); err != nil {
		return respondAppError(c, err)
	}

	return c.Redirect(postDetailPath(postID), fiber.StatusSeeOther)
}
