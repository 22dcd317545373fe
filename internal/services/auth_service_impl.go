package services

import (
	"context"

	"github.com/rincondelcarmen/hotel-booking/internal/auth"
	"github.com/rincondelcarmen/hotel-booking/internal/errors"
	"github.com/rincondelcarmen/hotel-booking/internal/logger"
	"github.com/rincondelcarmen/hotel-booking/internal/metrics"
	"github.com/rincondelcarmen/hotel-booking/internal/models"
	"github.com/rincondelcarmen/hotel-booking/internal/repository"
)

// authServiceImpl implements AuthService
type authServiceImpl struct {
	repos     *repository.Repositories
	passwords auth.PasswordMatcher
	tokens    *auth.TokenService
	logger    logger.Logger
	metrics   *metrics.Metrics
}

// newAuthService creates a new auth service implementation
func newAuthService(deps Dependencies, passwords auth.PasswordMatcher, tokens *auth.TokenService) AuthService {
	return &authServiceImpl{
		repos:     deps.Repos,
		passwords: passwords,
		tokens:    tokens,
		logger:    deps.Logger.With("component", "auth"),
		metrics:   deps.Metrics,
	}
}

func (s *authServiceImpl) NewSession() *auth.Session {
	return auth.NewSession(s.repos.User, s.passwords, s.tokens)
}

func (s *authServiceImpl) Resume(ctx context.Context, token string) (*auth.Session, error) {
	session := s.NewSession()
	if token == "" {
		return session, nil
	}
	if _, err := session.Resume(ctx, token); err != nil {
		if errors.CodeOf(err) == errors.ErrCodeUnauthorized {
			s.logger.Debug("Session token rejected", "error", err)
			return session, err
		}
		s.metrics.RecordStoreError("resume")
		s.logger.Error("Failed to resume session", err)
		return session, err
	}
	return session, nil
}

// Login authenticates a user and establishes the session
func (s *authServiceImpl) Login(ctx context.Context, session *auth.Session, req models.LoginRequest) (*models.User, error) {
	user, err := session.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.metrics.RecordLogin(resultLabel(err))
		s.logger.Warn("Login failed", "email", req.Email, "code", errors.CodeOf(err))
		return nil, err
	}

	s.metrics.RecordLogin("success")
	s.logger.Info("User logged in", "user_id", user.ID, "role", string(user.Role))
	return user, nil
}

// Register creates a new guest account and establishes the session
func (s *authServiceImpl) Register(ctx context.Context, session *auth.Session, draft models.UserDraft) (*models.User, error) {
	user, err := session.Register(ctx, draft)
	if err != nil {
		s.metrics.RecordRegistration(resultLabel(err))
		if errors.Is(err, errors.ErrDatabase) {
			s.metrics.RecordStoreError("register")
			s.logger.Error("Failed to register user", err, "email", draft.Email)
		} else {
			s.logger.Warn("Registration rejected", "email", draft.Email, "code", errors.CodeOf(err))
		}
		return nil, err
	}

	s.metrics.RecordRegistration("success")
	s.logger.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (s *authServiceImpl) Logout(session *auth.Session) {
	if user := session.Current(); user != nil {
		s.logger.Info("User logged out", "user_id", user.ID)
	}
	session.Logout()
}

// GetUser looks a user up by id
func (s *authServiceImpl) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repos.User.GetByID(ctx, id)
}
