package main

import (
	"errors"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// AuthState is the resolved authentication state of the session.
// Unknown exists so consumers can tell "still restoring" apart from
// "restored and not logged in" and avoid acting too early.
type AuthState int

const (
	AuthStateUnknown AuthState = iota
	AuthStateAuthorized
	AuthStateUnauthorized
)

// String provides a readable form of the state for logging.
func (s AuthState) String() string {
	switch s {
	case AuthStateAuthorized:
		return "authorized"
	case AuthStateUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Session is an immutable snapshot of the session state. Token and User
// are both set when State is Authorized and both empty otherwise.
type Session struct {
	State AuthState
	Token string
	User  User
}

// SessionWatcher is notified with a fresh snapshot each time the session changes.
type SessionWatcher func(Session)

// SessionStore is the single writer of the session fields. All consumers
// receive it through explicit wiring and observe changes via Subscribe.
type SessionStore struct {
	logger  *zap.Logger
	storage SessionStorage
	clock   Clocker

	mu       sync.RWMutex
	session  Session
	watchers []SessionWatcher

	restoreOnce sync.Once
}

// NewSessionStore provides a session store in the Unknown state. Restore
// must run before any consumer relies on the resolved state.
func NewSessionStore(logger *zap.Logger, storage SessionStorage, clock Clocker) *SessionStore {
	return &SessionStore{
		logger:  logger,
		storage: storage,
		clock:   clock,
		session: Session{State: AuthStateUnknown},
	}
}

// Current returns a snapshot of the session.
func (ss *SessionStore) Current() Session {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.session
}

// State returns the resolved authentication state.
func (ss *SessionStore) State() AuthState {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.session.State
}

// Subscribe registers a watcher which is called synchronously with a
// snapshot after each session change.
func (ss *SessionStore) Subscribe(w SessionWatcher) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.watchers = append(ss.watchers, w)
}

// Login stores the token and the user profile, persists the record and
// notifies all watchers. A persistence failure is logged but does not
// block the in-memory session: the user stays logged in for this run.
func (ss *SessionStore) Login(token string, user User) {
	ss.mu.Lock()
	ss.session = Session{State: AuthStateAuthorized, Token: token, User: user}
	snapshot := ss.session
	ss.mu.Unlock()

	if err := ss.storage.Save(SessionRecord{Token: token, User: user}); err != nil {
		ss.logger.Error("session: failed to persist record", zap.Error(err))
	}
	ss.logger.Info("session: logged in", zap.String("user.id", user.ID))
	ss.notify(snapshot)
}

// Logout clears the session fields and the durable record then notifies
// watchers. Calling it when already logged out is a no-op.
func (ss *SessionStore) Logout() {
	ss.mu.Lock()
	if ss.session.State == AuthStateUnauthorized {
		ss.mu.Unlock()
		return
	}
	ss.session = Session{State: AuthStateUnauthorized}
	snapshot := ss.session
	ss.mu.Unlock()

	if err := ss.storage.Clear(); err != nil {
		ss.logger.Error("session: failed to clear record", zap.Error(err))
	}
	ss.logger.Info("session: logged out")
	ss.notify(snapshot)
}

// Restore reads the durable record and resolves the session out of the
// Unknown state. It runs at most once per process lifetime; later calls
// are no-ops. A record with a locally-expired token counts as absent.
func (ss *SessionStore) Restore() {
	ss.restoreOnce.Do(func() {
		record, err := ss.storage.Load()
		switch {
		case errors.Is(err, ErrNoSession):
			ss.resolve(Session{State: AuthStateUnauthorized})
		case err != nil:
			ss.logger.Error("session: failed to load record", zap.Error(err))
			ss.resolve(Session{State: AuthStateUnauthorized})
		case record.Token == "" || ss.tokenExpired(record.Token):
			ss.logger.Info("session: stored token absent or expired")
			if cerr := ss.storage.Clear(); cerr != nil {
				ss.logger.Error("session: failed to clear stale record", zap.Error(cerr))
			}
			ss.resolve(Session{State: AuthStateUnauthorized})
		default:
			ss.logger.Info("session: restored", zap.String("user.id", record.User.ID))
			ss.resolve(Session{State: AuthStateAuthorized, Token: record.Token, User: record.User})
		}
	})
}

// resolve installs the restored session and notifies watchers.
func (ss *SessionStore) resolve(session Session) {
	ss.mu.Lock()
	ss.session = session
	ss.mu.Unlock()
	ss.notify(session)
}

// tokenExpired inspects the bearer token expiry claim without verifying
// its signature. The server remains the authority on token validity; this
// only avoids restoring a session the next call would reject anyway.
// A token without expiry claim or in an unknown format is kept as is.
func (ss *SessionStore) tokenExpired(token string) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return ss.clock.Now().After(claims.ExpiresAt.Time)
}

func (ss *SessionStore) notify(snapshot Session) {
	ss.mu.RLock()
	watchers := make([]SessionWatcher, len(ss.watchers))
	copy(watchers, ss.watchers)
	ss.mu.RUnlock()
	for _, w := range watchers {
		w(snapshot)
	}
}
