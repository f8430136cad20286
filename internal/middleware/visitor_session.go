package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shabadpapers/shabad-api/internal/models"
)

// VisitorSessionContextKey is the key used to store the session in context
const VisitorSessionContextKey = "visitor_session"

var (
	ErrSessionNotFound = errors.New("session not found in context")
	ErrInvalidSession  = errors.New("invalid session type")
)

// SessionValidator validates an anonymous session token
type SessionValidator interface {
	Validate(token string) (*models.AnonymousSession, error)
}

// CookieSettings describe the anonymous session cookie
type CookieSettings struct {
	Name   string
	Domain string
	Secure bool
}

// VisitorSessionMiddleware attaches the anonymous session when the request
// carries a valid cookie. Visitors without one are let through; an invalid
// cookie is cleared.
func VisitorSessionMiddleware(validator SessionValidator, cookie CookieSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookie.Name)
		if err != nil || token == "" {
			c.Next()
			return
		}

		session, err := validator.Validate(token)
		if err != nil {
			_ = c.Error(fmt.Errorf("invalid visitor session: %w", err)) //nolint:errcheck
			ClearSessionCookie(c, cookie)
			c.Next()
			return
		}

		c.Set(VisitorSessionContextKey, session)
		c.Next()
	}
}

// GetVisitorSession extracts the session from context
func GetVisitorSession(c *gin.Context) (*models.AnonymousSession, error) {
	val, exists := c.Get(VisitorSessionContextKey)
	if !exists {
		return nil, ErrSessionNotFound
	}

	session, ok := val.(*models.AnonymousSession)
	if !ok {
		return nil, ErrInvalidSession
	}

	return session, nil
}

// SetSessionCookie sets the anonymous session cookie
func SetSessionCookie(c *gin.Context, cookie CookieSettings, token string, ttlSeconds int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, token, ttlSeconds, "/", cookie.Domain, cookie.Secure, true)
}

// ClearSessionCookie expires the anonymous session cookie
func ClearSessionCookie(c *gin.Context, cookie CookieSettings) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, "", -1, "/", cookie.Domain, cookie.Secure, true)
}
