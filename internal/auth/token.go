package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionTTL is how long an issued session token stays valid
const SessionTTL = 15 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid session token")

// TokenManager signs and verifies session tokens. Expiry is enforced at
// verification; the server keeps no session state.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager signing with secret
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: SessionTTL, now: time.Now}
}

// TTL returns the lifetime of issued tokens
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue generates a token bound to userID
func (m *TokenManager) Issue(userID primitive.ObjectID) (string, error) {
	now := m.now()
	claims := &models.SessionClaims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the bound user id
func (m *TokenManager) Verify(tokenString string) (primitive.ObjectID, error) {
	claims := &models.SessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, ErrInvalidToken
	}
	// RegisteredClaims treats a missing exp as valid; sessions must expire
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(m.now()) {
		return primitive.NilObjectID, ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	return userID, nil
}
