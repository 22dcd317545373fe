package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rincondelcarmen/hotel-booking/internal/auth"
	"github.com/rincondelcarmen/hotel-booking/internal/errors"
	"github.com/rincondelcarmen/hotel-booking/internal/models"
	"github.com/rincondelcarmen/hotel-booking/internal/services"
)

// SessionCookie carries the session token in browsers
const SessionCookie = "hotel_session"

const sessionKey = "session"

// SessionMiddleware restores the caller's session from the cookie or a
// bearer token. Invalid tokens leave an empty session; the route gates
// decide whether that matters. A store failure while resolving the token
// aborts with 500 so callers don't mistake an outage for a logout.
func SessionMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authService.Resume(c.Request.Context(), SessionToken(c))
		if err != nil && errors.CodeOf(err) != errors.ErrCodeUnauthorized {
			_ = c.Error(err)
			abortWithCode(c, http.StatusInternalServerError, errors.CodeOf(err), "internal server error")
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// SessionToken extracts the raw token from the request
func SessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentSession returns the session attached by SessionMiddleware
func CurrentSession(c *gin.Context) *auth.Session {
	if value, ok := c.Get(sessionKey); ok {
		if session, ok := value.(*auth.Session); ok {
			return session
		}
	}
	return nil
}

// CurrentUser returns the authenticated user or nil
func CurrentUser(c *gin.Context) *models.User {
	if session := CurrentSession(c); session != nil {
		return session.Current()
	}
	return nil
}

// RequireAuth rejects requests without an authenticated session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.RequireAuthenticated(CurrentUser(c)); err != nil {
			abortWithCode(c, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "authentication required")
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests unless the session belongs to an administrator
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := auth.RequireAdmin(CurrentUser(c))
		switch errors.CodeOf(err) {
		case errors.ErrCodeUnauthorized:
			abortWithCode(c, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "authentication required")
			return
		case errors.ErrCodeForbidden:
			abortWithCode(c, http.StatusForbidden, errors.ErrCodeForbidden, "admin privileges required")
			return
		}
		c.Next()
	}
}
