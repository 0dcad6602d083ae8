// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"strconv"
	"strings"

	"plume/internal/models"
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postForm struct {
	Text  string `json:"text" form:"text"`
	Group string `json:"group" form:"group"`
}

// groupID converts the submitted group field. An empty field means no group;
// anything else must be a valid group ID.
func (f postForm) groupID() (*uint, error) {
	g := strings.TrimSpace(f.Group)
	if g == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(g, 10, 32)
	if err != nil || id == 0 {
		return nil, models.NewValidationError("Invalid group")
	}
	groupID := uint(id)
	return &groupID, nil
}

// GetPost handles GET /api/posts/:id, the post detail page.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	_, authenticated := s.optionalUserID(c)

	detail, err := s.postService.GetPost(c.Context(), postID, authenticated)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(detail)
}

// CreatePost handles POST /api/posts. A valid submission lands the post and
// bounces the client to the timeline; a rejected one (empty text, bad image)
// is a 400 with nothing written.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var form postForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	groupID, err := form.groupID()
	if err != nil {
		return respondAppError(c, err)
	}

	image, imageType, err := formFileBytes(c, "image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded image"))
	}

	_, err = s.postService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID:  userID,
		Text:      form.Text,
		GroupID:   groupID,
		Image:     image,
		ImageType: imageType,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Redirect("/api/posts", fiber.StatusSeeOther)
}

// UpdatePost handles POST /api/posts/:id. Edits by anyone but the author are
// not an error page: the client is bounced to the read-only detail view.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var form postForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	groupID, err := form.groupID()
	if err != nil {
		return respondAppError(c, err)
	}

	image, imageType, err := formFileBytes(c, "image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded image"))
	}

	_, err = s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		EditorID:  userID,
		PostID:    postID,
		Text:      form.Text,
		GroupID:   groupID,
		Image:     image,
		ImageType: imageType,
	})
	if err != nil {
		if models.HasCode(err, models.CodeForbidden) {
			return c.Redirect(postDetailPath(postID), fiber.StatusSeeOther)
		}
		return respondAppError(c, err)
	}

	return c.Redirect(postDetailPath(postID), fiber.StatusSeeOther)
}

// DeletePost handles POST /api/posts/:id/delete.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), userID, postID); err != nil {
		if models.HasCode(err, models.CodeForbidden) {
			return c.Redirect(postDetailPath(postID), fiber.StatusSeeOther)
		}
		return respondAppError(c, err)
	}

	return c.Redirect("/api/posts", fiber.StatusSeeOther)
}

// ServeImage handles GET /api/media/images/*, serving stored post images.
func (s *Server) ServeImage(c *fiber.Ctx) error {
	fullPath, err := s.imageService.Resolve(c.Params("*"))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.SendFile(fullPath)
}
