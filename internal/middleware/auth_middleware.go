package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/k-krishaa/Books/internal/auth"
	"github.com/k-krishaa/Books/internal/models"
)

const (
	SessionCookie = "session_token"

	userKey    = "currentUser"
	sessionKey = "sessionID"
)

// Authenticator resolves a session token to its user and session id.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, string, error)
}

// LoadUser resolves the session cookie once per request and stores the user
// in the gin context. Anonymous requests pass through with no user.
// A stale or forged cookie is cleared. Any other lookup error is a 500.
func LoadUser(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, sessionID, err := a.Authenticate(c.Request.Context(), token)
		if errors.Is(err, auth.ErrInvalidToken) {
			ClearSessionCookie(c, false)
			c.Next()
			return
		}
		if err != nil {
			// The cookie may still be valid; keep it and fail this request.
			log.Printf("ERROR: %s %s: session lookup: %v", c.Request.Method, c.Request.URL.Path, err)
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{
				"Title":   "Error",
				"Status":  http.StatusInternalServerError,
				"Message": "Something went wrong on our side. Please try again.",
			})
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Set(sessionKey, sessionID)
		c.Next()
	}
}

// CurrentUser returns the logged-in user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// SessionID returns the current session id, or "".
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

// RequireLogin sends anonymous visitors to the login page.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			AddFlash(c, FlashInfo, "Please log in to continue.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin must run after LoadUser. Non-admins are turned away before any
// handler runs.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			AddFlash(c, FlashInfo, "Please log in to continue.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if !u.IsAdmin {
			log.Printf("Denied admin access to user %d for %s", u.ID, c.Request.URL.Path)
			AddFlash(c, FlashDanger, "Access denied. Administrators only.")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetSessionCookie stores the signed session token.
func SetSessionCookie(c *gin.Context, token string, expiresAt time.Time, secure bool) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}
