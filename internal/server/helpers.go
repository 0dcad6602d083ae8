// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"errors"
	"fmt"
	"io"

	"plume/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parsePage extracts the page query parameter. Timelines are page-numbered,
// not offset-based; anything unparseable falls back to the first page.
func parsePage(c *fiber.Ctx) int {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return page
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// statusForError maps an application error onto an HTTP status code.
func statusForError(err error) int {
	switch {
	case models.HasCode(err, models.CodeNotFound):
		return fiber.StatusNotFound
	case models.HasCode(err, models.CodeValidation):
		return fiber.StatusBadRequest
	case models.HasCode(err, models.CodeForbidden):
		return fiber.StatusForbidden
	case models.HasCode(err, models.CodeConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondAppError writes the JSON error response for an application error.
func respondAppError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForError(err), err)
}

// formFileBytes reads an optional uploaded file from the multipart form.
// A missing file is not an error; the content type comes from the part header.
func formFileBytes(c *fiber.Ctx, field string) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil || fileHeader == nil {
		return nil, "", nil
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("read uploaded file: %w", err)
	}
	return content, fileHeader.Header.Get("Content-Type"), nil
}

// postDetailPath builds the canonical detail location for a post.
func postDetailPath(postID uint) string {
	return fmt.Sprintf("/api/posts/%d", postID)
}
