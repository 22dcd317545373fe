package auth

import (
	"context"
	"strings"
	"time"

	"github.com/rincondelcarmen/hotel-booking/internal/errors"
	"github.com/rincondelcarmen/hotel-booking/internal/models"
	"github.com/rincondelcarmen/hotel-booking/internal/repository"
)

// Session holds at most one authenticated identity for one browsing
// session. It starts empty unless Resume restores a persisted token.
// A Session is not safe for concurrent use; create one per request.
type Session struct {
	users     repository.UserRepository
	passwords PasswordMatcher
	tokens    *TokenService
	current   *models.User
}

// NewSession creates an empty session
func NewSession(users repository.UserRepository, passwords PasswordMatcher, tokens *TokenService) *Session {
	return &Session{users: users, passwords: passwords, tokens: tokens}
}

// Login establishes the session for the user with email
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if !s.passwords.Matches(user.Password, password) {
		return nil, errors.InvalidCredentials("incorrect password", nil).WithOperation("Login")
	}
	s.current = user
	return user, nil
}

// Register creates a guest account and establishes the session for it
func (s *Session) Register(ctx context.Context, draft models.UserDraft) (*models.User, error) {
	draft.Email = strings.TrimSpace(draft.Email)
	if draft.Email == "" || draft.Password == "" {
		return nil, errors.InvalidInput("email and password are required", nil).WithOperation("Register")
	}

	if _, err := s.users.GetByEmail(ctx, draft.Email); err == nil {
		return nil, errors.EmailTaken("email "+draft.Email+" is already registered", nil).WithOperation("Register")
	} else if !errors.Is(err, errors.ErrUserNotFound) {
		return nil, err
	}

	encoded, err := s.passwords.Encode(draft.Password)
	if err != nil {
		return nil, errors.InternalError("failed to encode password", err)
	}
	draft.Password = encoded

	user, err := s.users.Create(ctx, draft)
	if errors.Is(err, errors.ErrDuplicateEmail) {
		return nil, errors.EmailTaken("email "+draft.Email+" is already registered", err).WithOperation("Register")
	}
	if err != nil {
		return nil, err
	}
	s.current = user
	return user, nil
}

// Logout clears the session unconditionally
func (s *Session) Logout() {
	s.current = nil
}

// Resume restores the identity persisted in token. The user is re-read
// from the store so a stale role in the token is never trusted.
func (s *Session) Resume(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.current = nil
		return nil, errors.Unauthorized("invalid session token", err)
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		s.current = nil
		if errors.Is(err, errors.ErrUserNotFound) {
			return nil, errors.Unauthorized("session user no longer exists", err)
		}
		return nil, err
	}
	s.current = user
	return user, nil
}

// Token returns the persisted form of the current identity
func (s *Session) Token() (string, time.Time, error) {
	if s.current == nil {
		return "", time.Time{}, errors.Unauthorized("no active session", nil)
	}
	return s.tokens.Issue(s.current)
}

// Current returns the authenticated user or nil
func (s *Session) Current() *models.User {
	return s.current
}

func (s *Session) IsAuthenticated() bool {
	return s.current != nil
}

func (s *Session) IsAdmin() bool {
	return s.current != nil && s.current.IsAdmin()
}

// RequireAuthenticated fails with UNAUTHORIZED for an absent identity
func RequireAuthenticated(identity *models.User) error {
	if identity == nil {
		return errors.Unauthorized("authentication required", nil)
	}
	return nil
}

// RequireAdmin fails unless identity is an administrator
func RequireAdmin(identity *models.User) error {
	if err := RequireAuthenticated(identity); err != nil {
		return err
	}
	if !identity.IsAdmin() {
		return errors.Forbidden("admin privileges required", nil)
	}
	return nil
}
