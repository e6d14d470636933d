package handlers

import (
	"net/http"

	"github.com/anonto42/chirp/backend/internal/middleware"
	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// CommentOnPost appends a comment to :id and returns the updated post
func (h *PostHandler) CommentOnPost(c echo.Context) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	postID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.postService.Comment(c.Request().Context(), current.ID, postID, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}
