package main

import (
	"go.uber.org/zap"
)

// GuardDecision is the outcome of evaluating a protected destination.
type GuardDecision int

const (
	// RenderDestination lets the protected view render.
	RenderDestination GuardDecision = iota
	// RenderLoading shows a waiting placeholder while the session is
	// still restoring. Never a redirect: redirecting before the restore
	// resolves would bounce a logged-in user to the login view.
	RenderLoading
	// RedirectToLogin sends the user to the login view.
	RedirectToLogin
)

// String provides a readable form of the decision for logging.
func (d GuardDecision) String() string {
	switch d {
	case RenderDestination:
		return "render-destination"
	case RenderLoading:
		return "render-loading"
	default:
		return "redirect-to-login"
	}
}

// RouteGuard gates protected destinations on the session state. It holds
// no state of its own besides the wired session store, so a logout is
// reflected by the very next evaluation.
type RouteGuard struct {
	logger  *zap.Logger
	session *SessionStore
}

// NewRouteGuard provides a guard wired to the given session store.
func NewRouteGuard(logger *zap.Logger, session *SessionStore) *RouteGuard {
	return &RouteGuard{logger: logger, session: session}
}

// Evaluate decides what to do with a protected destination given the
// current session state.
func (g *RouteGuard) Evaluate(destination string) GuardDecision {
	decision := decideFromState(g.session.State())
	g.logger.Info("guard: evaluated destination",
		zap.String("destination", destination),
		zap.String("decision", decision.String()),
	)
	return decision
}

func decideFromState(state AuthState) GuardDecision {
	switch state {
	case AuthStateUnknown:
		return RenderLoading
	case AuthStateAuthorized:
		return RenderDestination
	default:
		return RedirectToLogin
	}
}
