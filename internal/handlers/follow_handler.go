package handlers

import (
	"net/http"

	"github.com/anonto42/chirp/backend/internal/middleware"
	"github.com/anonto42/chirp/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowUnfollowUser toggles the follow edge from the caller to :id
func (h *UserHandler) FollowUnfollowUser(c echo.Context) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	targetID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	state, err := h.userService.ToggleFollow(c.Request().Context(), current.ID, targetID)
	if err != nil {
		return err
	}

	message := "User followed successfully"
	if state == services.Unfollowed {
		message = "User unfollowed successfully"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": message, "state": state})
}
