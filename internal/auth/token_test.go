package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIssueVerify(t *testing.T) {
	tm := NewTokenManager("test-secret")
	userID := primitive.NewObjectID()

	token, err := tm.Issue(userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != userID {
		t.Fatalf("Verify returned %s, want %s", got.Hex(), userID.Hex())
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a").Issue(primitive.NewObjectID())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenManager("secret-b").Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret")
	tm.now = func() time.Time { return time.Now().Add(-SessionTTL - time.Hour) }
	token, err := tm.Issue(primitive.NewObjectID())
	if err != nil {
		t.Fatal(err)
	}

	tm.now = time.Now
	if _, err := tm.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestVerifyRejectsMissingExpiry(t *testing.T) {
	claims := &models.SessionClaims{UserID: primitive.NewObjectID().Hex()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenManager("test-secret").Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected token without exp to be rejected, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret")
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := tm.Verify(tok); err != ErrInvalidToken {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestVerifyRejectsBadUserID(t *testing.T) {
	claims := &models.SessionClaims{
		UserID: "not-an-object-id",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenManager("test-secret").Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCookieAttributes(t *testing.T) {
	c := CookieConfig{}.SessionCookie("tok", SessionTTL)
	if !c.HttpOnly || c.Name != CookieName || c.SameSite != http.SameSiteLaxMode || c.Secure {
		t.Fatalf("unexpected development cookie: %+v", c)
	}
	if c.MaxAge != int(SessionTTL/time.Second) {
		t.Fatalf("MaxAge = %d", c.MaxAge)
	}

	c = CookieConfig{Secure: true}.SessionCookie("tok", SessionTTL)
	if !c.Secure || c.SameSite != http.SameSiteNoneMode {
		t.Fatalf("unexpected production cookie: %+v", c)
	}

	cleared := CookieConfig{}.ClearCookie()
	if cleared.MaxAge != -1 || cleared.Value != "" {
		t.Fatalf("unexpected cleared cookie: %+v", cleared)
	}
}
