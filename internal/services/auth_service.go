package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anonto42/chirp/backend/internal/apperror"
	"github.com/anonto42/chirp/backend/internal/auth"
	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	invalidCredentials = "Invalid username or password"
	minUsernameLen     = 3
	maxUsernameLen     = 30
)

type AuthService struct {
	userRepository repositories.UserRepository
	tokens         *auth.TokenManager
	bcryptCost     int
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepository: userRepo,
		tokens:         tokens,
		bcryptCost:     bcryptCost,
	}
}

// Session is an authenticated user plus the token to hand to the client
type Session struct {
	User  *models.User
	Token string
}

// Register creates a user and opens a session for it
func (s *AuthService) Register(ctx context.Context, req models.SignupRequest) (*Session, error) {
	username := strings.TrimSpace(req.Username)
	fullname := strings.TrimSpace(req.Fullname)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || fullname == "" || email == "" || req.Password == "" {
		return nil, apperror.InvalidInput("All fields are required")
	}
	if n := utf8.RuneCountInString(username); n < minUsernameLen {
		return nil, apperror.InvalidInput(fmt.Sprintf("username must be at least %d characters long", minUsernameLen))
	} else if n > maxUsernameLen {
		return nil, apperror.InvalidInput(fmt.Sprintf("username must be at most %d characters long", maxUsernameLen))
	}

	if _, err := s.userRepository.GetUserByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("Username is already taken")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.Internal("Failed to register user", err)
	}
	if _, err := s.userRepository.GetUserByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("Email already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.Internal("Failed to register user", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperror.Internal("Failed to hash password", err)
	}

	user := &models.User{
		Username: username,
		Fullname: fullname,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("Username or email is already taken")
		}
		return nil, apperror.Internal("Failed to register user", err)
	}

	return s.open(user)
}

// Login checks credentials. Unknown usernames and wrong passwords are
// reported identically.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*Session, error) {
	user, err := s.userRepository.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.Unauthenticated(invalidCredentials)
		}
		return nil, apperror.Internal("Failed to log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthenticated(invalidCredentials)
	}

	return s.open(user)
}

// Authenticate resolves a session token to its user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperror.Unauthenticated("Unauthorized, please login")
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apperror.Unauthenticated("Invalid token")
	}
	return loadUser(ctx, s.userRepository, userID)
}

// Me re-reads the authenticated user so the response reflects the store
func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return loadUser(ctx, s.userRepository, userID)
}

// SessionTTL is how long an issued token stays valid
func (s *AuthService) SessionTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *AuthService) open(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.Internal("Failed to generate token", fmt.Errorf("user %s: %w", user.ID.Hex(), err))
	}
	return &Session{User: user, Token: token}, nil
}
