package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestRouteGuard_Decisions pins the decision per session state: never a
// redirect while the session is unknown, always a redirect once resolved
// unauthorized, always render once authorized.
func TestRouteGuard_Decisions(t *testing.T) {
	t.Run("should pass: unknown session renders loading", func(t *testing.T) {
		store := newTestSessionStore(&MockSessionStorage{})
		guard := NewRouteGuard(zap.NewNop(), store)

		assert.Equal(t, RenderLoading, guard.Evaluate("add-book"))
		assert.NotEqual(t, RedirectToLogin, guard.Evaluate("edit-book"))
	})

	t.Run("should pass: unauthorized session redirects", func(t *testing.T) {
		store := newTestSessionStore(&MockSessionStorage{})
		store.Restore() // no record, resolves unauthorized.
		guard := NewRouteGuard(zap.NewNop(), store)

		assert.Equal(t, RedirectToLogin, guard.Evaluate("add-book"))
	})

	t.Run("should pass: authorized session renders destination", func(t *testing.T) {
		store := authorizedSessionStore(User{ID: "u1"})
		guard := NewRouteGuard(zap.NewNop(), store)

		assert.Equal(t, RenderDestination, guard.Evaluate("add-book"))
	})
}

// TestRouteGuard_ResolvesOnce ensures the guard flips exactly once when
// the restore resolves and immediately redirects after a logout.
func TestRouteGuard_ResolvesOnce(t *testing.T) {
	user := User{ID: "u1", Name: "Ada"}
	token := "opaque-token"
	storage := &MockSessionStorage{
		LoadFunc: func() (SessionRecord, error) {
			return SessionRecord{Token: token, User: user}, nil
		},
	}
	store := newTestSessionStore(storage)
	guard := NewRouteGuard(zap.NewNop(), store)

	assert.Equal(t, RenderLoading, guard.Evaluate("add-book"))

	store.Restore()
	assert.Equal(t, RenderDestination, guard.Evaluate("add-book"))

	// logout from the protected view must force a redirect right away.
	store.Logout()
	assert.Equal(t, RedirectToLogin, guard.Evaluate("add-book"))
}
