package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rincondelcarmen/hotel-booking/internal/errors"
)

// statusFor maps an application error code to its HTTP status
func statusFor(code string) int {
	switch code {
	case errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized, errors.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeNotFound, errors.ErrCodeRoomNotFound, errors.ErrCodeUserNotFound:
		return http.StatusNotFound
	case errors.ErrCodeEmailTaken, errors.ErrCodeDuplicateEmail, errors.ErrCodeRoomUnavailable:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": {"code", "message"}}. Store and
// internal failures never leak their cause to the client.
func respondError(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	status := statusFor(code)

	message := "internal server error"
	var appErr *errors.AppError
	if status < http.StatusInternalServerError && errors.As(err, &appErr) {
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	c.JSON(status, gin.H{
		"error": gin.H{"code": code, "message": message},
	})
}

// respondBindError reports a request body or query that failed to parse
func respondBindError(c *gin.Context, err error) {
	respondError(c, errors.InvalidInput("invalid request: "+err.Error(), err))
}
