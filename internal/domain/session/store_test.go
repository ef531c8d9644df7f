package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/identity"
	"hrportal/internal/platform/crypto"
	"hrportal/internal/platform/db"
)

func testSealer(t *testing.T) *crypto.Sealer {
	t.Helper()
	sealer, err := crypto.New("session-store-test-secret", "session-token")
	require.NoError(t, err)
	return sealer
}

func testIdentity() identity.Identity {
	picture := "/uploads/u-1.png"
	return identity.Identity{
		ID:                     "u-1",
		FullName:               "Asha Rao",
		Email:                  "asha@example.com",
		PhoneNumber:            "555-0100",
		Role:                   identity.RoleIntern,
		ProfilePicture:         &picture,
		EducationalInstitution: "State University",
	}
}

type countingEvents struct {
	events map[string]int
}

func (c *countingEvents) RecordSessionEvent(event string) {
	if c.events == nil {
		c.events = map[string]int{}
	}
	c.events[event]++
}

func TestNewRejectsPartialSession(t *testing.T) {
	_, err := New("s-1", "", testIdentity(), time.Now())
	require.ErrorIs(t, err, ErrPartialSession)

	_, err = New("s-1", "token", identity.Identity{FullName: "No ID"}, time.Now())
	require.ErrorIs(t, err, ErrPartialSession)
}

func TestLoginSurvivesReload(t *testing.T) {
	ctx := context.Background()
	persister := NewMemoryPersister()
	sealer := testSealer(t)
	events := &countingEvents{}

	first := NewStore(persister, sealer, time.Hour, events)
	sess, err := first.Login(ctx, "bearer-abc", testIdentity())
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	stored, err := persister.Load(ctx, sess.ID)
	require.NoError(t, err)
	require.NotContains(t, string(stored.SealedToken), "bearer-abc")

	reloaded := NewStore(persister, sealer, time.Hour, nil)
	token, ok := reloaded.CurrentToken(ctx, sess.ID)
	require.True(t, ok)
	require.Equal(t, "bearer-abc", token)
	user, ok := reloaded.CurrentIdentity(ctx, sess.ID)
	require.True(t, ok)
	require.Equal(t, testIdentity(), user)
	require.Equal(t, 1, events.events[EventLogin])
}

func TestCurrentCountsResolutions(t *testing.T) {
	ctx := context.Background()
	events := &countingEvents{}
	store := NewStore(NewMemoryPersister(), testSealer(t), time.Hour, events)
	sess, err := store.Login(ctx, "bearer-abc", testIdentity())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, ok := store.Current(ctx, sess.ID)
		require.True(t, ok)
	}
	_, ok := store.Current(ctx, "missing")
	require.False(t, ok)

	require.Equal(t, 3, events.events[EventResolved])
	require.Equal(t, 1, events.events[EventLogin])
}

func TestLogoutClearsSession(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryPersister(), testSealer(t), time.Hour, nil)
	sess, err := store.Login(ctx, "bearer-abc", testIdentity())
	require.NoError(t, err)

	require.NoError(t, store.Logout(ctx, sess.ID))
	_, ok := store.Current(ctx, sess.ID)
	require.False(t, ok)
}

func TestLoginRejectsPartialIdentity(t *testing.T) {
	store := NewStore(NewMemoryPersister(), testSealer(t), time.Hour, nil)
	_, err := store.Login(context.Background(), "bearer-abc", identity.Identity{})
	require.ErrorIs(t, err, ErrPartialSession)
}

func TestExpiredSessionReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	persister := NewMemoryPersister()
	store := NewStore(persister, testSealer(t), time.Minute, nil)
	sess, err := store.Login(ctx, "bearer-abc", testIdentity())
	require.NoError(t, err)

	persister.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, ok := store.Current(ctx, sess.ID)
	require.False(t, ok)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), purged)
}

func TestForeignKeyCannotOpenToken(t *testing.T) {
	ctx := context.Background()
	persister := NewMemoryPersister()
	sess, err := NewStore(persister, testSealer(t), time.Hour, nil).Login(ctx, "bearer-abc", testIdentity())
	require.NoError(t, err)

	other, err := crypto.New("a-completely-different-secret", "session-token")
	require.NoError(t, err)
	_, ok := NewStore(persister, other, time.Hour, nil).Current(ctx, sess.ID)
	require.False(t, ok)
}

func TestRedisPersisterRoundTrip(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	ctx := context.Background()
	store := NewStore(NewRedisPersister(client), testSealer(t), time.Minute, nil)
	sess, err := store.Login(ctx, "bearer-redis", testIdentity())
	require.NoError(t, err)
	defer func() { _ = store.Logout(ctx, sess.ID) }()

	ttl, err := client.TTL(ctx, redisKey(sess.ID)).Result()
	require.NoError(t, err)
	require.True(t, ttl > 0 && ttl <= time.Minute)

	restored, ok := store.Current(ctx, sess.ID)
	require.True(t, ok)
	require.Equal(t, "bearer-redis", restored.Token)
	require.Equal(t, testIdentity(), restored.Identity)
}

func TestPostgresPersisterRoundTrip(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, dbURL)
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, db.Migrate(ctx, pool))

	persister := NewPostgresPersister(pool)
	store := NewStore(persister, testSealer(t), time.Minute, nil)
	sess, err := store.Login(ctx, "bearer-pg", testIdentity())
	require.NoError(t, err)

	restored, ok := NewStore(persister, testSealer(t), time.Minute, nil).Current(ctx, sess.ID)
	require.True(t, ok)
	require.Equal(t, "bearer-pg", restored.Token)

	require.NoError(t, store.Logout(ctx, sess.ID))
	_, err = persister.Load(ctx, sess.ID)
	require.True(t, errors.Is(err, ErrNotFound))
}
