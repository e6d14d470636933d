package handlers

import (
	"net/http"

	"github.com/anonto42/chirp/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// LikeUnlikePost toggles the caller's like on :id
func (h *PostHandler) LikeUnlikePost(c echo.Context) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	postID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	liked, err := h.postService.ToggleLike(c.Request().Context(), current.ID, postID)
	if err != nil {
		return err
	}

	message := "Post liked successfully"
	if !liked {
		message = "Post unliked successfully"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": message, "liked": liked})
}

// GetLikedPosts lists the posts liked by user :id
func (h *PostHandler) GetLikedPosts(c echo.Context) error {
	userID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	posts, err := h.postService.ListLikedBy(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}
