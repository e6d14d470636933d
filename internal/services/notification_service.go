package services

import (
	"context"
	"errors"

	"github.com/anonto42/chirp/backend/internal/apperror"
	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

func NewNotificationService(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationService {
	return &NotificationService{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// List returns the caller's notifications newest first, then marks them all
// read. The returned rows carry the read flags from before the update.
func (s *NotificationService) List(ctx context.Context, callerID primitive.ObjectID) ([]models.NotificationView, error) {
	recipient := callerID.Hex()
	notifications, err := s.notificationRepository.GetByRecipientID(ctx, recipient)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch notifications", err)
	}

	views := make([]models.NotificationView, 0, len(notifications))
	if len(notifications) == 0 {
		return views, nil
	}

	var ids []primitive.ObjectID
	for _, n := range notifications {
		if id, err := primitive.ObjectIDFromHex(n.FromID); err == nil {
			ids = append(ids, id)
		}
	}
	actors, err := usersByID(ctx, s.userRepository, ids)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch notifications", err)
	}

	for _, n := range notifications {
		view := models.NotificationView{
			ID:        n.ID,
			To:        n.ToID,
			Type:      n.Type,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
		if id, err := primitive.ObjectIDFromHex(n.FromID); err == nil {
			if actor, ok := actors[id]; ok {
				compact := actor.ToCompact()
				view.From = &compact
			}
		}
		views = append(views, view)
	}

	if err := s.notificationRepository.MarkAllAsRead(ctx, recipient); err != nil {
		return nil, apperror.Internal("Failed to update notifications", err)
	}
	return views, nil
}

// DeleteAll removes every notification addressed to the caller
func (s *NotificationService) DeleteAll(ctx context.Context, callerID primitive.ObjectID) (int64, error) {
	deleted, err := s.notificationRepository.DeleteByRecipientID(ctx, callerID.Hex())
	if err != nil {
		return 0, apperror.Internal("Failed to delete notifications", err)
	}
	return deleted, nil
}

// DeleteOne removes a single notification addressed to the caller
func (s *NotificationService) DeleteOne(ctx context.Context, callerID primitive.ObjectID, id uint) error {
	notification, err := s.notificationRepository.GetNotificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("Notification not found")
		}
		return apperror.Internal("Failed to fetch notification", err)
	}
	if notification.ToID != callerID.Hex() {
		return apperror.Forbidden("You are not allowed to delete this notification")
	}

	if err := s.notificationRepository.DeleteNotification(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("Notification not found")
		}
		return apperror.Internal("Failed to delete notification", err)
	}
	return nil
}

// UnreadCount counts the caller's unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context, callerID primitive.ObjectID) (int64, error) {
	count, err := s.notificationRepository.GetUnreadCount(ctx, callerID.Hex())
	if err != nil {
		return 0, apperror.Internal("Failed to count notifications", err)
	}
	return count, nil
}
