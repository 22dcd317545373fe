package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rincondelcarmen/hotel-booking/internal/auth"
	"github.com/rincondelcarmen/hotel-booking/internal/middleware"
	"github.com/rincondelcarmen/hotel-booking/internal/models"
	"github.com/rincondelcarmen/hotel-booking/internal/services"
)

// AuthHandler handles session operations
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// AuthResponse is returned by login and registration
type AuthResponse struct {
	User      models.PublicUser `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// setSecureCookie sets a secure HTTP-only cookie
func setSecureCookie(c *gin.Context, name, value string, maxAge int) {
	secure := c.Request.Header.Get("X-Forwarded-Proto") == "https" || c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}

// clearCookie clears a cookie by setting it to empty with past expiration
func clearCookie(c *gin.Context, name string) {
	setSecureCookie(c, name, "", -1)
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session := h.sessionFor(c)
	if _, err := h.authService.Login(c.Request.Context(), session, req); err != nil {
		respondError(c, err)
		return
	}
	h.respondWithSession(c, http.StatusOK, session)
}

// Register creates a guest account and logs it in
func (h *AuthHandler) Register(c *gin.Context) {
	var draft models.UserDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondBindError(c, err)
		return
	}

	session := h.sessionFor(c)
	if _, err := h.authService.Register(c.Request.Context(), session, draft); err != nil {
		respondError(c, err)
		return
	}
	h.respondWithSession(c, http.StatusCreated, session)
}

// Logout clears the session cookie. It succeeds without a session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if session := middleware.CurrentSession(c); session != nil {
		h.authService.Logout(session)
	}
	clearCookie(c, middleware.SessionCookie)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the current identity
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentUser(c).Public()})
}

func (h *AuthHandler) sessionFor(c *gin.Context) *auth.Session {
	if session := middleware.CurrentSession(c); session != nil {
		return session
	}
	return h.authService.NewSession()
}

func (h *AuthHandler) respondWithSession(c *gin.Context, status int, session *auth.Session) {
	token, expiresAt, err := session.Token()
	if err != nil {
		respondError(c, err)
		return
	}

	setSecureCookie(c, middleware.SessionCookie, token, int(time.Until(expiresAt).Seconds()))
	c.JSON(status, AuthResponse{
		User:      session.Current().Public(),
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
