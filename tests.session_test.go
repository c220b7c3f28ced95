package main

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// signedTestToken builds a real token with the given expiry so the
// restore path exercises the same parsing as production.
func signedTestToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// TestSessionStore_Login ensures login stores and persists both fields
// and notifies subscribers.
func TestSessionStore_Login(t *testing.T) {
	storage := &MockSessionStorage{}
	store := newTestSessionStore(storage)

	var seen []Session
	store.Subscribe(func(s Session) { seen = append(seen, s) })

	user := User{ID: "u1", Name: "Ada", Email: "ada@example.com"}
	store.Login("tok-1", user)

	current := store.Current()
	assert.Equal(t, AuthStateAuthorized, current.State)
	assert.Equal(t, "tok-1", current.Token)
	assert.Equal(t, user, current.User)

	require.Len(t, storage.Saved, 1)
	assert.Equal(t, SessionRecord{Token: "tok-1", User: user}, storage.Saved[0])

	require.Len(t, seen, 1)
	assert.Equal(t, AuthStateAuthorized, seen[0].State)
}

// TestSessionStore_Logout ensures logout clears both fields, clears the
// durable record and stays a no-op when already logged out.
func TestSessionStore_Logout(t *testing.T) {
	t.Run("should pass: clears an authorized session", func(t *testing.T) {
		storage := &MockSessionStorage{}
		store := newTestSessionStore(storage)
		store.Login("tok-1", User{ID: "u1"})

		store.Logout()

		current := store.Current()
		assert.Equal(t, AuthStateUnauthorized, current.State)
		assert.Empty(t, current.Token)
		assert.Empty(t, current.User.ID)
		assert.Equal(t, 1, storage.Cleared)
	})

	t.Run("should pass: idempotent without a session", func(t *testing.T) {
		storage := &MockSessionStorage{}
		store := newTestSessionStore(storage)
		store.Restore() // resolves to unauthorized, no record exists.

		notified := 0
		store.Subscribe(func(Session) { notified++ })
		store.Logout()

		current := store.Current()
		assert.Equal(t, AuthStateUnauthorized, current.State)
		assert.Empty(t, current.Token)
		assert.Zero(t, notified)
		assert.Zero(t, storage.Cleared)
	})
}

// TestSessionStore_Restore covers the resolution out of the Unknown state.
func TestSessionStore_Restore(t *testing.T) {
	t.Run("should pass: restores a valid record", func(t *testing.T) {
		user := User{ID: "u1", Name: "Ada"}
		token := signedTestToken(t, time.Now().Add(time.Hour))
		storage := &MockSessionStorage{
			LoadFunc: func() (SessionRecord, error) {
				return SessionRecord{Token: token, User: user}, nil
			},
		}
		store := newTestSessionStore(storage)
		assert.Equal(t, AuthStateUnknown, store.State())

		store.Restore()

		current := store.Current()
		assert.Equal(t, AuthStateAuthorized, current.State)
		assert.Equal(t, token, current.Token)
		assert.Equal(t, user, current.User)
	})

	t.Run("should pass: no record resolves unauthorized", func(t *testing.T) {
		store := newTestSessionStore(&MockSessionStorage{})
		store.Restore()
		assert.Equal(t, AuthStateUnauthorized, store.State())
	})

	t.Run("should pass: storage failure resolves unauthorized", func(t *testing.T) {
		storage := &MockSessionStorage{
			LoadFunc: func() (SessionRecord, error) {
				return SessionRecord{}, errors.New("disk on fire")
			},
		}
		store := newTestSessionStore(storage)
		store.Restore()
		assert.Equal(t, AuthStateUnauthorized, store.State())
	})

	t.Run("should pass: expired token resolves unauthorized", func(t *testing.T) {
		token := signedTestToken(t, time.Now().Add(-time.Hour))
		storage := &MockSessionStorage{
			LoadFunc: func() (SessionRecord, error) {
				return SessionRecord{Token: token, User: User{ID: "u1"}}, nil
			},
		}
		store := newTestSessionStore(storage)
		store.Restore()
		assert.Equal(t, AuthStateUnauthorized, store.State())
		assert.Equal(t, 1, storage.Cleared)
	})

	t.Run("should pass: opaque token is kept", func(t *testing.T) {
		storage := &MockSessionStorage{
			LoadFunc: func() (SessionRecord, error) {
				return SessionRecord{Token: "opaque-token", User: User{ID: "u1"}}, nil
			},
		}
		store := newTestSessionStore(storage)
		store.Restore()
		assert.Equal(t, AuthStateAuthorized, store.State())
	})

	t.Run("should pass: runs at most once", func(t *testing.T) {
		loads := 0
		storage := &MockSessionStorage{
			LoadFunc: func() (SessionRecord, error) {
				loads++
				return SessionRecord{}, ErrNoSession
			},
		}
		store := newTestSessionStore(storage)
		store.Restore()
		store.Restore()
		assert.Equal(t, 1, loads)
	})
}

// TestSessionStore_TokenExpiry pins the clock-driven expiry comparison.
func TestSessionStore_TokenExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(zap.NewNop(), &MockSessionStorage{}, &MockClock{Time: now})

	assert.False(t, store.tokenExpired(signedTestToken(t, now.Add(time.Minute))))
	assert.True(t, store.tokenExpired(signedTestToken(t, now.Add(-time.Minute))))
	assert.False(t, store.tokenExpired("not-a-jwt"))
}

// TestClock_Now ensures the real clock reads in UTC so expiry claims are
// compared against absolute instants.
func TestClock_Now(t *testing.T) {
	assert.Equal(t, time.UTC, NewClock().Now().Location())
}
