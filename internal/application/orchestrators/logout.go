package orchestrators

import (
	"context"
	"log/slog"

	"mectofit/internal/adapters/api"
	"mectofit/internal/application/session"
)

// AuthAPIForLogout defines the API surface Logout needs to invalidate the
// server-side session.
type AuthAPIForLogout interface {
	Logout(ctx context.Context) error
}

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	Auth      AuthAPIForLogout
	Sessions  *session.Store
	Navigator api.Navigator
}

// ExecuteLogout ends the session. The server-side invalidation is best
// effort: whatever the server says, local state is cleared and the user
// lands on the login page. Idempotent.
// PRE: deps.Sessions is non-nil
// POST: Local session state is cleared and the login navigation has run
func ExecuteLogout(ctx context.Context, deps LogoutDeps) error {
	if deps.Auth != nil {
		if err := deps.Auth.Logout(ctx); err != nil {
			slog.Warn("auth_event", "event", "server_logout_failed", "error", err.Error())
		}
	}

	err := deps.Sessions.Logout(ctx)
	if deps.Navigator != nil {
		deps.Navigator.NavigateToLogin()
	}
	slog.Info("auth_event", "event", "logout")
	return err
}
