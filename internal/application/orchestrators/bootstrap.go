package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"mectofit/internal/adapters/api"
	"mectofit/internal/application/session"
	"mectofit/internal/domain/identity"
)

// ErrNotAuthenticated is returned by Bootstrap when the server denies the
// ambient credential. The gateway has already cleared local state and
// redirected to login; callers only need to stop rendering.
var ErrNotAuthenticated = errors.New("not authenticated")

// IdentityAPIForBootstrap defines the API surface Bootstrap needs to
// establish who the ambient credential belongs to.
type IdentityAPIForBootstrap interface {
	GetProfile(ctx context.Context) (identity.User, error)
}

// OrganizationAPIForBootstrap defines the API surface Bootstrap needs to
// enrich the session with organization context.
type OrganizationAPIForBootstrap interface {
	Get(ctx context.Context) (identity.Organization, error)
}

// BootstrapDeps holds dependencies for Bootstrap.
type BootstrapDeps struct {
	Identity     IdentityAPIForBootstrap
	Organization OrganizationAPIForBootstrap
	Sessions     *session.Store

	// Backoff overrides the retry policy for transient identity-check
	// failures. Nil means the default bounded exponential policy.
	Backoff backoff.BackOff
}

// defaultBootstrapBackoff bounds the identity check to a few quick retries:
// the app is blocked on Loading while this runs, so giving up fast beats
// spinning forever.
func defaultBootstrapBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return backoff.WithMaxRetries(b, 3)
}

// ExecuteBootstrap reconciles the session store with the server on startup.
// It asks the server who the ambient credential belongs to, enriches the
// answer with organization context on a best-effort basis, and applies the
// result — unless a logout or newer login happened while the check was in
// flight, in which case the stale result is discarded.
// PRE: deps.Sessions is non-nil
// POST: Loading is false; IsAuthenticated reflects the server's answer
func ExecuteBootstrap(ctx context.Context, deps BootstrapDeps) (session.State, error) {
	store := deps.Sessions
	observed := store.Epoch()
	token := store.Snapshot().Token
	store.SetLoading(true)

	policy := deps.Backoff
	if policy == nil {
		policy = defaultBootstrapBackoff()
	}

	var user identity.User
	err := backoff.Retry(func() error {
		u, err := deps.Identity.GetProfile(ctx)
		if err != nil {
			// Only transport failures are worth retrying. A denial or any
			// other server verdict is final.
			if errors.Is(err, api.ErrAuthDenied) {
				return backoff.Permanent(err)
			}
			var apiErr *api.APIError
			if errors.As(err, &apiErr) {
				return backoff.Permanent(err)
			}
			slog.Warn("auth_event", "event", "bootstrap_retry", "error", err.Error())
			return err
		}
		user = u
		return nil
	}, backoff.WithContext(policy, ctx))

	if err != nil {
		store.SetLoading(false)
		if errors.Is(err, api.ErrAuthDenied) {
			slog.Info("auth_event", "event", "bootstrap_denied")
			return store.Snapshot(), ErrNotAuthenticated
		}
		slog.Warn("auth_event", "event", "bootstrap_failed", "error", err.Error())
		return store.Snapshot(), fmt.Errorf("failed to verify session: %w", err)
	}

	// Organization context is an enrichment, not a requirement: identity
	// alone is enough to be signed in.
	var org *identity.Organization
	if deps.Organization != nil {
		o, orgErr := deps.Organization.Get(ctx)
		if orgErr != nil {
			slog.Warn("auth_event", "event", "bootstrap_org_unavailable", "error", orgErr.Error())
		} else {
			org = &o
		}
	}

	applied, err := store.SetAuthAt(ctx, observed, &user, org, token)
	if err != nil {
		return store.Snapshot(), err
	}
	if !applied {
		// A logout or a newer login won the race; its state stands.
		store.SetLoading(false)
		return store.Snapshot(), nil
	}

	slog.Info("auth_event", "event", "bootstrap_success", "user_id", user.ID, "has_org", org != nil)
	return store.Snapshot(), nil
}
