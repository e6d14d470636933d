package handlers

import (
	"net/http"

	"github.com/anonto42/chirp/backend/internal/auth"
	"github.com/anonto42/chirp/backend/internal/middleware"
	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles signup, login and the session cookie
type AuthHandler struct {
	authService *services.AuthService
	cookies     auth.CookieConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, cookies auth.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
	}
}

// RegisterAuthRoutes registers authentication routes. Only /me goes
// through requireSession.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, requireSession echo.MiddlewareFunc) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me, requireSession)
}

// Signup registers a new user and logs them in
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}

	c.SetCookie(h.cookies.SessionCookie(session.Token, h.authService.SessionTTL()))
	return c.JSON(http.StatusCreated, session.User)
}

// Login checks credentials and sets the session cookie
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}

	c.SetCookie(h.cookies.SessionCookie(session.Token, h.authService.SessionTTL()))
	return c.JSON(http.StatusOK, session.User)
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.cookies.ClearCookie())
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c echo.Context) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), current.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
