package auth

import (
	"net/http"
	"time"
)

// CookieName is the name of the HTTP-only session cookie
const CookieName = "jwt"

// CookieConfig controls the attributes of the session cookie
type CookieConfig struct {
	// Secure marks the cookie Secure with SameSite=None so a separately
	// hosted client can send it; otherwise SameSite=Lax is used.
	Secure bool
}

// SessionCookie builds the cookie carrying token
func (c CookieConfig) SessionCookie(token string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(ttl / time.Second),
		Expires:  time.Now().Add(ttl),
		SameSite: http.SameSiteLaxMode,
	}
	if c.Secure {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}

// ClearCookie instructs the client to discard the session cookie
func (c CookieConfig) ClearCookie() *http.Cookie {
	cookie := c.SessionCookie("", 0)
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	return cookie
}
