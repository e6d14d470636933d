package handlers

import (
	"net/http"

	"github.com/anonto42/chirp/backend/internal/middleware"
	"github.com/anonto42/chirp/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.GetNotifications)
	g.GET("/unread-count", h.GetUnreadCount)
	g.DELETE("", h.DeleteNotifications)
	g.DELETE("/:id", h.DeleteNotification)
}

// GetNotifications lists the caller's notifications and marks them read
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	notifications, err := h.notificationService.List(c.Request().Context(), current.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	count, err := h.notificationService.UnreadCount(c.Request().Context(), current.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

func (h *NotificationHandler) DeleteNotifications(c echo.Context) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	if _, err := h.notificationService.DeleteAll(c.Request().Context(), current.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notifications deleted successfully"})
}

func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.notificationService.DeleteOne(c.Request().Context(), current.ID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted successfully"})
}
