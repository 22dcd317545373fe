package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
)

// AppError represents an application-specific error
type AppError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Cause     error  `json:"-"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
	Operation string `json:"operation,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError carrying the same code.
// This lets callers compare against the sentinel values below with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewAppError creates a new application error
func NewAppError(code, message string, cause error) *AppError {
	_, file, line, _ := runtime.Caller(2)
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
		File:    file,
		Line:    line,
	}
}

// WithOperation adds operation context to the error
func (e *AppError) WithOperation(operation string) *AppError {
	e.Operation = operation
	return e
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// Error codes
const (
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeRoomNotFound       = "ROOM_NOT_FOUND"
	ErrCodeRoomUnavailable    = "ROOM_UNAVAILABLE"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Sentinels for errors.Is comparisons.
var (
	ErrDuplicateEmail     = &AppError{Code: ErrCodeDuplicateEmail}
	ErrEmailTaken         = &AppError{Code: ErrCodeEmailTaken}
	ErrUserNotFound       = &AppError{Code: ErrCodeUserNotFound}
	ErrInvalidCredentials = &AppError{Code: ErrCodeInvalidCredentials}
	ErrRoomNotFound       = &AppError{Code: ErrCodeRoomNotFound}
	ErrRoomUnavailable    = &AppError{Code: ErrCodeRoomUnavailable}
	ErrNotFound           = &AppError{Code: ErrCodeNotFound}
	ErrInvalidInput       = &AppError{Code: ErrCodeInvalidInput}
	ErrUnauthorized       = &AppError{Code: ErrCodeUnauthorized}
	ErrForbidden          = &AppError{Code: ErrCodeForbidden}
	ErrDatabase           = &AppError{Code: ErrCodeDatabaseError}
)

func DuplicateEmail(message string, cause error) *AppError {
	return NewAppError(ErrCodeDuplicateEmail, message, cause)
}

func EmailTaken(message string, cause error) *AppError {
	return NewAppError(ErrCodeEmailTaken, message, cause)
}

func UserNotFound(message string, cause error) *AppError {
	return NewAppError(ErrCodeUserNotFound, message, cause)
}

func InvalidCredentials(message string, cause error) *AppError {
	return NewAppError(ErrCodeInvalidCredentials, message, cause)
}

func RoomNotFound(message string, cause error) *AppError {
	return NewAppError(ErrCodeRoomNotFound, message, cause)
}

func RoomUnavailable(message string, cause error) *AppError {
	return NewAppError(ErrCodeRoomUnavailable, message, cause)
}

func NotFound(message string, cause error) *AppError {
	return NewAppError(ErrCodeNotFound, message, cause)
}

func InvalidInput(message string, cause error) *AppError {
	return NewAppError(ErrCodeInvalidInput, message, cause)
}

func Unauthorized(message string, cause error) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, cause)
}

func Forbidden(message string, cause error) *AppError {
	return NewAppError(ErrCodeForbidden, message, cause)
}

func DatabaseError(message string, cause error) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, cause)
}

func InternalError(message string, cause error) *AppError {
	return NewAppError(ErrCodeInternalError, message, cause)
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrCodeInternalError when there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// Is forwards to the standard library so callers only import this package.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As forwards to the standard library.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
