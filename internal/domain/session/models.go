package session

import (
	"errors"
	"strings"
	"time"

	"hrportal/internal/domain/identity"
)

var (
	ErrPartialSession = errors.New("session requires both token and identity")
	ErrNotFound       = errors.New("session not found")
)

// Session is the unit of being logged in. Token is present iff Identity is.
type Session struct {
	ID        string            `json:"id"`
	Token     string            `json:"-"`
	Identity  identity.Identity `json:"identity"`
	CreatedAt time.Time         `json:"createdAt"`
}

func New(id, token string, user identity.Identity, createdAt time.Time) (Session, error) {
	if strings.TrimSpace(token) == "" || !user.Valid() {
		return Session{}, ErrPartialSession
	}
	return Session{ID: id, Token: token, Identity: user, CreatedAt: createdAt}, nil
}

// Record is the persisted form of a session. The token is sealed before it reaches a Persister.
type Record struct {
	ID          string    `json:"id"`
	SealedToken []byte    `json:"token"`
	Identity    []byte    `json:"identity"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}
