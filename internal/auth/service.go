// Package auth ties the credential forms, the API client and the session
// store together.
package auth

import (
	"context"
	"errors"
	"fmt"

	"skinanalyze/internal/forms"
	"skinanalyze/internal/models"
	"skinanalyze/internal/route"
	"skinanalyze/internal/utils"
)

var (
	// ErrLoginFailed is returned when the backend refuses the credentials or
	// cannot be reached.
	ErrLoginFailed = errors.New("login failed")
	// ErrRegistrationFailed is returned when the backend does not create the
	// account.
	ErrRegistrationFailed = errors.New("registration failed")
)

// User-facing texts for failed attempts.
const (
	MsgLoginFailed        = "Invalid email or password. Please try again."
	MsgRegistrationFailed = "There was an error creating your account. Please try again."
)

type API interface {
	Login(ctx context.Context, in models.LoginRequest) (models.LoginResponse, error)
	Register(ctx context.Context, in models.RegisterRequest) (models.User, error)
	Logout(ctx context.Context) (models.Ack, error)
}

type SessionStore interface {
	Set(token string, role models.Role) error
	Current() (models.Session, bool)
	Clear() error
}

type Service struct {
	api    API
	store  SessionStore
	logger *utils.Logger
}

func NewService(api API, store SessionStore, logger *utils.Logger) *Service {
	if logger == nil {
		logger = utils.Discard()
	}
	return &Service{api: api, store: store, logger: logger}
}

// Login validates f, authenticates and stores the session. The returned
// landing path is only produced after the session has been persisted.
func (s *Service) Login(ctx context.Context, f *forms.LoginForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	req := f.Request()
	resp, err := s.api.Login(ctx, req)
	if err != nil {
		s.logger.Info("login rejected", "role", req.Role, "error", err)
		return "", fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	role := req.Role
	if resp.User != nil && resp.User.Role.Valid() {
		role = resp.User.Role
	}
	if err := s.store.Set(resp.Token, role); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	s.logger.Info("logged in", "role", role)
	return route.Landing(role), nil
}

// Register creates the account and sends the user to the login page. It does
// not start a session.
func (s *Service) Register(ctx context.Context, f *forms.RegisterForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	req := f.Request()
	u, err := s.api.Register(ctx, req)
	if err != nil {
		s.logger.Info("registration rejected", "role", req.Role, "error", err)
		return "", fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}
	s.logger.Info("registered", "user_id", u.ID, "role", u.Role)
	return route.Login, nil
}

// Logout tells the backend (best effort) and always clears the local
// session, even when the call fails.
func (s *Service) Logout(ctx context.Context) error {
	if _, ok := s.store.Current(); ok {
		if _, err := s.api.Logout(ctx); err != nil {
			s.logger.Warn("logout call failed, clearing local session anyway", "error", err)
		}
	}
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current returns the stored session, if any.
func (s *Service) Current() (models.Session, bool) {
	return s.store.Current()
}
