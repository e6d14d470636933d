package handlers

import (
	"net/http"

	"github.com/anonto42/chirp/backend/internal/apperror"
	"github.com/anonto42/chirp/backend/internal/middleware"
	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterUserRoutes registers user directory routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/profile/:username", h.GetProfile)
	g.GET("/getallusers", h.GetAllUsers)
	g.GET("/suggested", h.GetSuggestedUsers)
	g.POST("/follow/:id", h.FollowUnfollowUser)
	g.POST("/update", h.UpdateProfile)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userService.GetProfile(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetAllUsers(c echo.Context) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	users, err := h.userService.ListAll(c.Request().Context(), current.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetSuggestedUsers(c echo.Context) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	users, err := h.userService.Suggest(c.Request().Context(), current.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateProfile applies a partial update, or only checks the current
// password when verifyPassword is set
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if req.VerifyPassword {
		ok, err := h.userService.VerifyPassword(c.Request().Context(), current.ID, req.CurrentPassword)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.InvalidInput("Current password is incorrect")
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password verified"})
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), current.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
