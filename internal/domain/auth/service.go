package auth

import (
	"context"
	"strings"

	"hrportal/internal/domain/identity"
	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
)

const (
	MsgMissingCredentials = "Please enter email and password"
	MsgLoginFailed        = "Login failed. Please try again."
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Backend interface {
	Login(ctx context.Context, creds Credentials) (string, identity.Identity, error)
}

// Sessions is the part of the session store login and logout need.
type Sessions interface {
	Login(ctx context.Context, token string, user identity.Identity) (session.Session, error)
	Logout(ctx context.Context, id string) error
}

type Service struct {
	backend  Backend
	sessions Sessions
}

func NewService(backend Backend, sessions Sessions) *Service {
	return &Service{backend: backend, sessions: sessions}
}

// Login exchanges credentials for a session. Backend rejections come back as a
// WriteError carrying the backend detail so the form can show it inline.
func (s *Service) Login(ctx context.Context, creds Credentials) (session.Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return session.Session{}, workflow.Invalid(MsgMissingCredentials)
	}
	token, user, err := s.backend.Login(ctx, creds)
	if err != nil {
		return session.Session{}, workflow.WriteFailure(err, MsgLoginFailed)
	}
	return s.Start(ctx, token, user)
}

// Start opens a session from a token and identity issued by the backend.
func (s *Service) Start(ctx context.Context, token string, user identity.Identity) (session.Session, error) {
	if _, err := identity.ParseRole(string(user.Role)); err != nil {
		return session.Session{}, err
	}
	return s.sessions.Login(ctx, token, user)
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Logout(ctx, sessionID)
}
