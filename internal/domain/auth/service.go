// Package auth drives the login lifecycle: authenticate against the
// backend, cache the identity in the session store, and restore it on the
// next run.
package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/platform/api"
	"github.com/hospreg/hospreg/internal/platform/session"
)

// Role values the backend issues.
const (
	RoleAdmin   = "ADMIN"
	RoleDoctor  = "DOCTOR"
	RolePatient = "PATIENT"
)

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the patient self-registration request. Role is always
// PATIENT; staff accounts are provisioned by the admin.
type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Gender   string `json:"gender"`
	Age      int    `json:"age"`
	IDCard   string `json:"idCard"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Account is the server's view of a registered account.
type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Service authenticates and keeps the session store in sync with the
// backend. The auth surface is blocking throughout: there is no meaningful
// placeholder for "who you are".
type Service struct {
	client  *api.Client
	session *session.Store
	logger  zerolog.Logger
}

func NewService(client *api.Client, sess *session.Store, logger zerolog.Logger) *Service {
	return &Service{
		client:  client,
		session: sess,
		logger:  logger.With().Str("component", "auth").Logger(),
	}
}

// Restore loads a persisted session and re-arms the auth cookie so the next
// request authenticates without a fresh login.
func (s *Service) Restore() error {
	if err := s.session.Init(); err != nil {
		return err
	}
	if id, ok := s.session.Current(); ok && id.Token != "" {
		s.client.SetCookie(&http.Cookie{Name: session.CookieName, Value: id.Token, Path: "/"})
	}
	return nil
}

// Login authenticates and caches the identity. The backend sets the auth
// cookie on the response; the client's jar keeps it for subsequent calls.
func (s *Service) Login(ctx context.Context, creds Credentials) (session.Identity, error) {
	return s.loginAt(ctx, "/api/auth/login", creds)
}

// DebugLogin uses the backend's development bypass endpoint.
func (s *Service) DebugLogin(ctx context.Context, creds Credentials) (session.Identity, error) {
	return s.loginAt(ctx, "/api/debug/login", creds)
}

func (s *Service) loginAt(ctx context.Context, path string, creds Credentials) (session.Identity, error) {
	data, err := s.client.Post(ctx, path, creds)
	if err != nil {
		return session.Identity{}, err
	}
	id, err := api.Decode[session.Identity](data)
	if err != nil {
		return session.Identity{}, err
	}
	if err := s.session.Save(id); err != nil {
		return session.Identity{}, err
	}
	s.logger.Info().Str("username", id.Username).Str("role", id.Role).Msg("logged in")
	return id, nil
}

// Register creates a patient account. Does not log in.
func (s *Service) Register(ctx context.Context, reg Registration) (*Account, error) {
	reg.Role = RolePatient
	data, err := s.client.Post(ctx, "/api/auth/register", reg)
	if err != nil {
		return nil, err
	}
	acct, err := api.Decode[Account](data)
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// SendResetCode mails a password-reset code to the account's address.
func (s *Service) SendResetCode(ctx context.Context, username, email string) error {
	_, err := s.client.Post(ctx, "/api/auth/password/send-code", map[string]string{
		"username": username,
		"email":    email,
	})
	return err
}

// ResetPassword redeems a reset code for a new password.
func (s *Service) ResetPassword(ctx context.Context, username, email, code, newPassword string) error {
	_, err := s.client.Post(ctx, "/api/auth/password/reset", map[string]string{
		"username":    username,
		"email":       email,
		"code":        code,
		"newPassword": newPassword,
	})
	return err
}

// Me asks the backend who the current cookie belongs to.
func (s *Service) Me(ctx context.Context) (session.Identity, error) {
	return api.FetchInto[session.Identity](ctx, s.client, "/api/auth/me")
}

// Logout invalidates the server session and drops the local cache. The
// local cache is cleared even when the server call fails; a dead backend
// must not pin a stale login.
func (s *Service) Logout(ctx context.Context) error {
	_, err := s.client.Post(ctx, "/api/auth/logout", nil)
	if clearErr := s.session.Clear(); clearErr != nil {
		return clearErr
	}
	return err
}

// LandingPath maps a role onto its home surface.
func LandingPath(role string) string {
	switch role {
	case RoleAdmin:
		return "/admin"
	case RoleDoctor:
		return "/doctor"
	case RolePatient:
		return "/patient/home"
	default:
		return "/login"
	}
}
