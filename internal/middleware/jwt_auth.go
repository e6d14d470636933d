package middleware

import (
	"context"

	"github.com/anonto42/chirp/backend/internal/apperror"
	"github.com/anonto42/chirp/backend/internal/auth"
	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/labstack/echo/v4"
)

type contextKey string

const userKey contextKey = "user"

// Authenticator resolves a session token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// JWTAuthMiddleware reads the session cookie, resolves its user and stores it
// in the request context.
func JWTAuthMiddleware(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var token string
			if cookie, err := c.Cookie(auth.CookieName); err == nil {
				token = cookie.Value
			}

			user, err := authn.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			ctx := WithUser(c.Request().Context(), user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// WithUser returns a copy of ctx carrying user
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext extracts the authenticated user from ctx
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// CurrentUser returns the user resolved by JWTAuthMiddleware. Handlers behind
// the middleware can rely on it being present.
func CurrentUser(c echo.Context) (*models.User, error) {
	user, ok := UserFromContext(c.Request().Context())
	if !ok {
		return nil, apperror.Unauthenticated("Unauthorized, please login")
	}
	return user, nil
}
