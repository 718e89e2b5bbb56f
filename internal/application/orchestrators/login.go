package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"mectofit/internal/application/session"
	"mectofit/internal/domain/identity"
)

// AuthAPIForLogin defines the API surface Login needs to establish a
// server session.
type AuthAPIForLogin interface {
	Login(ctx context.Context, username, password string) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Auth         AuthAPIForLogin
	Identity     IdentityAPIForBootstrap
	Organization OrganizationAPIForBootstrap
	Sessions     *session.Store
}

// ExecuteLogin establishes a server session and records the resulting
// identity in the session store. The credential check itself is the
// server's job; this orchestrator only sequences the calls.
// PRE: deps.Sessions is non-nil
// POST: On success IsAuthenticated is true and the state is persisted
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (session.State, error) {
	store := deps.Sessions
	store.SetLoading(true)

	if err := deps.Auth.Login(ctx, input.Username, input.Password); err != nil {
		store.SetLoading(false)
		return store.Snapshot(), err
	}

	// The session cookie is now in the gateway's jar; read back who the
	// server thinks we are rather than trusting the submitted username.
	user, err := deps.Identity.GetProfile(ctx)
	if err != nil {
		store.SetLoading(false)
		slog.Warn("auth_event", "event", "post_login_profile_failed", "error", err.Error())
		return store.Snapshot(), fmt.Errorf("failed to load profile after login: %w", err)
	}

	var org *identity.Organization
	if deps.Organization != nil {
		o, orgErr := deps.Organization.Get(ctx)
		if orgErr != nil {
			slog.Warn("auth_event", "event", "login_org_unavailable", "error", orgErr.Error())
		} else {
			org = &o
		}
	}

	if err := store.SetAuth(ctx, &user, org, ""); err != nil {
		return store.Snapshot(), err
	}

	slog.Info("auth_event", "event", "login_success", "user_id", user.ID, "role", user.Role)
	return store.Snapshot(), nil
}
