package services

import (
	"context"
	"errors"

	"github.com/anonto42/chirp/backend/internal/apperror"
	"github.com/anonto42/chirp/backend/internal/media"
	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"github.com/labstack/gommon/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaResolver turns uploaded image payloads into stable URLs and releases
// them again. Implemented by the Firebase storage bucket.
type MediaResolver interface {
	Upload(ctx context.Context, payload, folder string) (string, error)
	Release(ctx context.Context, url string) error
}

// notifier records follow/like notifications. Rows are best effort: a failed
// insert is logged and never fails the action that triggered it.
type notifier struct {
	notifications repositories.NotificationRepository
}

func (n notifier) notify(ctx context.Context, kind string, from, to primitive.ObjectID) {
	notification := &models.Notification{
		FromID: from.Hex(),
		ToID:   to.Hex(),
		Type:   kind,
	}
	if err := n.notifications.CreateNotification(ctx, notification); err != nil {
		log.Warnf("recording %s notification from %s to %s: %v", kind, from.Hex(), to.Hex(), err)
	}
}

// loadUser fetches a user and translates a missing record into NotFound
func loadUser(ctx context.Context, users repositories.UserRepository, id primitive.ObjectID) (*models.User, error) {
	user, err := users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal("Failed to fetch user", err)
	}
	return user, nil
}

// usersByID resolves ids in one query and indexes the result
func usersByID(ctx context.Context, users repositories.UserRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	found, err := users.GetUsersByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*models.User, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	return byID, nil
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// mediaError separates payloads the client got wrong from resolver outages
func mediaError(err error) error {
	switch {
	case errors.Is(err, media.ErrMalformed), errors.Is(err, media.ErrNotImage):
		return apperror.InvalidInput("Image must be a valid image data URL")
	case errors.Is(err, media.ErrTooLarge):
		return apperror.InvalidInput("Image is too large")
	}
	return apperror.Internal("Failed to upload image", err)
}
