package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/chirp/backend/internal/apperror"
	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"github.com/labstack/gommon/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	suggestionSample = 10
	suggestionLimit  = 4
	minPasswordLen   = 6
)

// FollowState is the outcome of a follow toggle
type FollowState string

const (
	Followed   FollowState = "followed"
	Unfollowed FollowState = "unfollowed"
)

type UserService struct {
	userRepository repositories.UserRepository
	media          MediaResolver
	notifier       notifier
	bcryptCost     int
}

func NewUserService(userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository, media MediaResolver, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		userRepository: userRepo,
		media:          media,
		notifier:       notifier{notifications: notifRepo},
		bcryptCost:     bcryptCost,
	}
}

// GetProfile returns the public projection of username
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepository.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal("Failed to fetch user profile", err)
	}
	return user, nil
}

// ListAll returns every user except the caller, newest first
func (s *UserService) ListAll(ctx context.Context, callerID primitive.ObjectID) ([]models.User, error) {
	users, err := s.userRepository.GetUsersExcept(ctx, callerID)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch users", err)
	}
	return users, nil
}

// Suggest samples users the caller does not follow yet
func (s *UserService) Suggest(ctx context.Context, callerID primitive.ObjectID) ([]models.User, error) {
	caller, err := loadUser(ctx, s.userRepository, callerID)
	if err != nil {
		return nil, err
	}

	exclude := append([]primitive.ObjectID{callerID}, caller.Following...)
	users, err := s.userRepository.SampleUsers(ctx, exclude, suggestionSample)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch suggested users", err)
	}
	if len(users) > suggestionLimit {
		users = users[:suggestionLimit]
	}
	return users, nil
}

// ToggleFollow follows target if the caller does not follow it yet and
// unfollows it otherwise. The caller's record decides the state atomically;
// the mirror edge on the target is reverted on the caller's side if it fails.
func (s *UserService) ToggleFollow(ctx context.Context, callerID, targetID primitive.ObjectID) (FollowState, error) {
	if callerID == targetID {
		return "", apperror.InvalidInput("You can't follow/unfollow yourself")
	}
	if _, err := loadUser(ctx, s.userRepository, targetID); err != nil {
		return "", err
	}

	followed, err := s.userRepository.AddFollowing(ctx, callerID, targetID)
	if err != nil {
		return "", apperror.Internal("Failed to follow user", err)
	}

	if followed {
		if err := s.userRepository.AddFollower(ctx, targetID, callerID); err != nil {
			if _, cerr := s.userRepository.RemoveFollowing(ctx, callerID, targetID); cerr != nil {
				log.Errorf("reverting follow edge %s -> %s: %v", callerID.Hex(), targetID.Hex(), cerr)
			}
			return "", apperror.Internal("Failed to follow user", err)
		}
		s.notifier.notify(ctx, models.NotificationFollow, callerID, targetID)
		return Followed, nil
	}

	if _, err := s.userRepository.RemoveFollowing(ctx, callerID, targetID); err != nil {
		return "", apperror.Internal("Failed to unfollow user", err)
	}
	if err := s.userRepository.RemoveFollower(ctx, targetID, callerID); err != nil {
		if _, cerr := s.userRepository.AddFollowing(ctx, callerID, targetID); cerr != nil {
			log.Errorf("reverting unfollow edge %s -> %s: %v", callerID.Hex(), targetID.Hex(), cerr)
		}
		return "", apperror.Internal("Failed to unfollow user", err)
	}
	return Unfollowed, nil
}

// VerifyPassword checks currentPassword without changing anything
func (s *UserService) VerifyPassword(ctx context.Context, callerID primitive.ObjectID, currentPassword string) (bool, error) {
	user, err := loadUser(ctx, s.userRepository, callerID)
	if err != nil {
		return false, err
	}
	return passwordMatches(user, currentPassword), nil
}

// UpdateProfile applies a partial profile update. Every check runs before any
// image is uploaded so a rejected request leaves no orphaned media behind.
func (s *UserService) UpdateProfile(ctx context.Context, callerID primitive.ObjectID, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := loadUser(ctx, s.userRepository, callerID)
	if err != nil {
		return nil, err
	}

	var patch models.UserPatch

	if req.Fullname != nil {
		fullname := strings.TrimSpace(*req.Fullname)
		if fullname == "" {
			return nil, apperror.InvalidInput("Full name cannot be empty")
		}
		patch.Fullname = &fullname
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, apperror.InvalidInput("Email cannot be empty")
		}
		if email != user.Email {
			if _, err := s.userRepository.GetUserByEmail(ctx, email); err == nil {
				return nil, apperror.Conflict("Email already exists")
			} else if !errors.Is(err, repositories.ErrNotFound) {
				return nil, apperror.Internal("Failed to update profile", err)
			}
		}
		patch.Email = &email
	}
	if req.Bio != nil {
		bio := strings.TrimSpace(*req.Bio)
		patch.Bio = &bio
	}
	if req.Link != nil {
		link := strings.TrimSpace(*req.Link)
		patch.Link = &link
	}

	if (req.CurrentPassword == "") != (req.NewPassword == "") {
		return nil, apperror.InvalidInput("Please provide both current password and new password")
	}
	if req.CurrentPassword != "" {
		if !passwordMatches(user, req.CurrentPassword) {
			return nil, apperror.InvalidInput("Current password is incorrect")
		}
		if len(req.NewPassword) < minPasswordLen {
			return nil, apperror.InvalidInput("New password must be at least 6 characters long")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
		if err != nil {
			return nil, apperror.Internal("Failed to hash password", err)
		}
		password := string(hashed)
		patch.Password = &password
	}

	// released holds the references being replaced, uploaded the new ones
	// that must go again if the update does not land
	var released, uploaded []string
	if req.ProfileImg != nil {
		ref, err := s.replaceImage(ctx, user.ProfileImg, *req.ProfileImg, "profiles")
		if err != nil {
			return nil, err
		}
		patch.ProfileImg = &ref
		if ref != user.ProfileImg {
			if ref != "" {
				uploaded = append(uploaded, ref)
			}
			if user.ProfileImg != "" {
				released = append(released, user.ProfileImg)
			}
		}
	}
	if req.CoverImg != nil {
		ref, err := s.replaceImage(ctx, user.CoverImg, *req.CoverImg, "covers")
		if err != nil {
			s.releaseAll(ctx, callerID, uploaded)
			return nil, err
		}
		patch.CoverImg = &ref
		if ref != user.CoverImg {
			if ref != "" {
				uploaded = append(uploaded, ref)
			}
			if user.CoverImg != "" {
				released = append(released, user.CoverImg)
			}
		}
	}

	if patch.Empty() {
		return user, nil
	}

	updated, err := s.userRepository.UpdateUser(ctx, callerID, patch)
	if err != nil {
		s.releaseAll(ctx, callerID, uploaded)
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, apperror.Conflict("Email already exists")
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal("Failed to update profile", err)
	}

	s.releaseAll(ctx, callerID, released)
	return updated, nil
}

func (s *UserService) releaseAll(ctx context.Context, userID primitive.ObjectID, refs []string) {
	for _, ref := range refs {
		if err := s.media.Release(ctx, ref); err != nil {
			log.Warnf("releasing image %s of user %s: %v", ref, userID.Hex(), err)
		}
	}
}

// replaceImage resolves the new reference for an image field. An empty
// payload clears the field, the current reference is kept as is, anything
// else is uploaded.
func (s *UserService) replaceImage(ctx context.Context, current, payload, folder string) (string, error) {
	switch payload {
	case "":
		return "", nil
	case current:
		return current, nil
	}
	ref, err := s.media.Upload(ctx, payload, folder)
	if err != nil {
		return "", mediaError(err)
	}
	return ref, nil
}

func passwordMatches(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}
