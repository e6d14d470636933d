package handlers

import (
	"net/http"

	"github.com/anonto42/chirp/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// GetAllPosts returns every post, newest first
func (h *PostHandler) GetAllPosts(c echo.Context) error {
	posts, err := h.postService.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// GetFollowingPosts returns posts by the users the caller follows
func (h *PostHandler) GetFollowingPosts(c echo.Context) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	posts, err := h.postService.ListFollowing(c.Request().Context(), current.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetUserPosts(c echo.Context) error {
	posts, err := h.postService.ListByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}
