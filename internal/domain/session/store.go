package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hrportal/internal/domain/identity"
)

// TokenSealer protects bearer tokens before they are handed to a Persister.
type TokenSealer interface {
	SealString(value string) ([]byte, error)
	OpenString(value []byte) (string, error)
}

type EventRecorder interface {
	RecordSessionEvent(event string)
}

const (
	EventLogin       = "login"
	EventLogout      = "logout"
	EventResolved    = "resolved"
	EventInvalidated = "invalidated"
)

// Store is the only writer of sessions. Every read goes to the Persister so a restart
// or a second replica sees the same state.
type Store struct {
	persister Persister
	sealer    TokenSealer
	ttl       time.Duration
	events    EventRecorder
	now       func() time.Time
	newID     func() string
}

func NewStore(persister Persister, sealer TokenSealer, ttl time.Duration, events EventRecorder) *Store {
	return &Store{
		persister: persister,
		sealer:    sealer,
		ttl:       ttl,
		events:    events,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Store) Login(ctx context.Context, token string, user identity.Identity) (Session, error) {
	created := s.now().UTC()
	sess, err := New(s.newID(), token, user, created)
	if err != nil {
		return Session{}, err
	}
	sealed, err := s.sealer.SealString(token)
	if err != nil {
		return Session{}, fmt.Errorf("seal token: %w", err)
	}
	identityJSON, err := json.Marshal(user)
	if err != nil {
		return Session{}, fmt.Errorf("encode identity: %w", err)
	}
	record := Record{
		ID:          sess.ID,
		SealedToken: sealed,
		Identity:    identityJSON,
		CreatedAt:   created,
		ExpiresAt:   created.Add(s.ttl),
	}
	if err := s.persister.Save(ctx, record); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}
	s.record(EventLogin)
	return sess, nil
}

func (s *Store) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.persister.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.record(EventLogout)
	return nil
}

// Invalidate drops a session after the backend rejected its token.
func (s *Store) Invalidate(ctx context.Context, id string) error {
	if err := s.persister.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.record(EventInvalidated)
	return nil
}

// Current resolves a session by id. A missing, expired or unreadable record reads as no session.
func (s *Store) Current(ctx context.Context, id string) (Session, bool) {
	if id == "" {
		return Session{}, false
	}
	record, err := s.persister.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("session load failed", "err", err)
		}
		return Session{}, false
	}
	token, err := s.sealer.OpenString(record.SealedToken)
	if err != nil {
		slog.Warn("session token unreadable", "err", err)
		return Session{}, false
	}
	var user identity.Identity
	if err := json.Unmarshal(record.Identity, &user); err != nil {
		slog.Warn("session identity unreadable", "err", err)
		return Session{}, false
	}
	sess, err := New(record.ID, token, user, record.CreatedAt)
	if err != nil {
		return Session{}, false
	}
	s.record(EventResolved)
	return sess, true
}

func (s *Store) CurrentIdentity(ctx context.Context, id string) (identity.Identity, bool) {
	sess, ok := s.Current(ctx, id)
	return sess.Identity, ok
}

func (s *Store) CurrentToken(ctx context.Context, id string) (string, bool) {
	sess, ok := s.Current(ctx, id)
	return sess.Token, ok
}

// PurgeExpired removes expired records when the persister does not expire them itself.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	purger, ok := s.persister.(Purger)
	if !ok {
		return 0, nil
	}
	return purger.PurgeExpired(ctx)
}

func (s *Store) record(event string) {
	if s.events != nil {
		s.events.RecordSessionEvent(event)
	}
}
