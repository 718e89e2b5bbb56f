// Package session holds the client-side source of truth for "who is logged
// in". The store caches the server's session state; the server always wins,
// and the API gateway invalidates this cache whenever the server denies a
// credential.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"mectofit/internal/adapters/storage/authcache"
	"mectofit/internal/domain/identity"
)

// ErrNilUser is returned by SetAuth when called without a user.
var ErrNilUser = errors.New("cannot authenticate a nil user")

// State is an immutable snapshot of the session store. User and Organization
// are copies; mutating them does not affect the store.
type State struct {
	User            *identity.User
	Organization    *identity.Organization
	Token           string
	IsAuthenticated bool
	Loading         bool
}

type subscriber struct {
	id int
	fn func(State)
}

// Store is the session state container. It serializes mutations and holds
// the mutation lock across the durable write, so the cache receives writes
// in mutation order; subscribers are notified outside the lock. An epoch
// counter lets stale asynchronous results be detected and discarded.
//
// INVARIANT: IsAuthenticated implies User != nil
type Store struct {
	mu    sync.Mutex
	state State
	epoch uint64
	cache authcache.Store

	subs   []subscriber
	nextID int
}

// New creates a session store backed by the given durable cache. Previously
// persisted state is restored as the optimistic initial value, but Loading
// starts true: cached identity is a guess until the bootstrap reconciles it
// with the server. A corrupt payload is discarded and the store starts
// fresh; the cache is an optimization, never a reason to refuse startup.
// PRE: cache is non-nil
// POST: Store is ready; Loading is true
func New(ctx context.Context, cache authcache.Store) (*Store, error) {
	s := &Store{
		cache: cache,
		state: State{Loading: true},
	}

	rec, err := cache.Load(ctx)
	switch {
	case err == nil:
		s.state.User = copyUser(rec.User)
		s.state.Organization = copyOrg(rec.Organization)
		s.state.Token = rec.Token
		s.state.IsAuthenticated = rec.IsAuthenticated && rec.User != nil
	case errors.Is(err, authcache.ErrNotFound):
		// First run on this machine.
	case errors.Is(err, authcache.ErrCorrupt):
		slog.Warn("session_event", "event", "cache_corrupt_discarded", "error", err.Error())
		if clearErr := cache.Clear(ctx); clearErr != nil {
			slog.Error("session_event", "event", "cache_clear_failed", "error", clearErr.Error())
		}
	default:
		return nil, fmt.Errorf("failed to restore session cache: %w", err)
	}

	return s, nil
}

// Snapshot returns a copy of the current state.
// INVARIANT: Store state is not mutated
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Epoch returns the current mutation epoch. SetAuth and Logout advance it;
// callers performing asynchronous work capture the epoch first and apply
// results through SetAuthAt so a logout in the interim wins.
func (s *Store) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Subscribe registers a function called synchronously after every mutation.
// Returns an unsubscribe function.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// SetAuth records a successful authentication.
// PRE: user is non-nil
// POST: IsAuthenticated is true, Loading is false, state is persisted
func (s *Store) SetAuth(ctx context.Context, user *identity.User, org *identity.Organization, token string) error {
	if user == nil {
		return ErrNilUser
	}

	s.mu.Lock()
	s.applyAuthLocked(user, org, token)
	state := s.state.clone()
	err := s.persistLocked(ctx)
	subs := s.subsLocked()
	s.mu.Unlock()

	notify(subs, state)
	if err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	return nil
}

// SetAuthAt applies SetAuth only if the store's epoch still matches the
// observed value. It returns false when the result arrived too late: a
// logout or a newer authentication has happened since, and the stale
// response is discarded.
// PRE: user is non-nil
// POST: Either the state is applied as in SetAuth, or nothing changes
func (s *Store) SetAuthAt(ctx context.Context, observed uint64, user *identity.User, org *identity.Organization, token string) (bool, error) {
	if user == nil {
		return false, ErrNilUser
	}

	s.mu.Lock()
	if s.epoch != observed {
		s.mu.Unlock()
		slog.Info("session_event", "event", "stale_auth_discarded", "observed_epoch", observed)
		return false, nil
	}
	s.applyAuthLocked(user, org, token)
	state := s.state.clone()
	err := s.persistLocked(ctx)
	subs := s.subsLocked()
	s.mu.Unlock()

	notify(subs, state)
	if err != nil {
		return true, fmt.Errorf("failed to persist session state: %w", err)
	}
	return true, nil
}

// Logout clears the session. Idempotent: a second call leaves the same
// observable state as the first. The durable clear happens under the same
// lock as the memory clear, so a slower authentication write can never land
// after it.
// POST: User and Organization are nil, IsAuthenticated is false, cache is cleared
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.epoch++
	s.state = State{}
	state := s.state
	err := s.cache.Clear(ctx)
	if err != nil {
		slog.Error("session_event", "event", "cache_clear_failed", "error", err.Error())
	}
	subs := s.subsLocked()
	s.mu.Unlock()

	notify(subs, state)
	if err != nil {
		return fmt.Errorf("failed to clear session cache: %w", err)
	}
	return nil
}

// UpdateUser shallow-merges the patch into the current user. Calling it with
// no authenticated user is a no-op; the caller is expected to have
// established identity first.
// POST: Non-nil patch fields overwrite the user; IsAuthenticated is unchanged
func (s *Store) UpdateUser(ctx context.Context, patch identity.UserPatch) error {
	s.mu.Lock()
	if s.state.User == nil {
		s.mu.Unlock()
		slog.Warn("session_event", "event", "update_user_without_user")
		return nil
	}
	patch.Apply(s.state.User)
	state := s.state.clone()
	err := s.persistLocked(ctx)
	subs := s.subsLocked()
	s.mu.Unlock()

	notify(subs, state)
	if err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	return nil
}

// UpdateOrganization shallow-merges the patch into the current organization.
// A no-op when no organization is set.
// POST: Non-nil patch fields overwrite the organization; IsAuthenticated is unchanged
func (s *Store) UpdateOrganization(ctx context.Context, patch identity.OrganizationPatch) error {
	s.mu.Lock()
	if s.state.Organization == nil {
		s.mu.Unlock()
		slog.Warn("session_event", "event", "update_org_without_org")
		return nil
	}
	patch.Apply(s.state.Organization)
	state := s.state.clone()
	err := s.persistLocked(ctx)
	subs := s.subsLocked()
	s.mu.Unlock()

	notify(subs, state)
	if err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	return nil
}

// SetLoading flips the bootstrap-in-flight flag. Loading is a process-local
// concern and is not persisted.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.state.Loading = loading
	state := s.state.clone()
	subs := s.subsLocked()
	s.mu.Unlock()

	notify(subs, state)
}

// applyAuthLocked sets the authenticated state. Caller holds the lock.
func (s *Store) applyAuthLocked(user *identity.User, org *identity.Organization, token string) {
	s.epoch++
	s.state.User = copyUser(user)
	s.state.Organization = copyOrg(org)
	s.state.Token = token
	s.state.IsAuthenticated = true
	s.state.Loading = false
}

// persistLocked writes the current state through to the durable cache.
// Caller holds the lock: keeping it held across the write means the cache
// receives mutations in the order they were applied, so a logout's clear
// can never be overwritten by an earlier authentication still flushing.
// The in-memory state stands even if persistence fails; the error is
// surfaced so the caller can react.
func (s *Store) persistLocked(ctx context.Context) error {
	err := s.cache.Save(ctx, authcache.Record{
		User:            copyUser(s.state.User),
		Organization:    copyOrg(s.state.Organization),
		IsAuthenticated: s.state.IsAuthenticated,
		Token:           s.state.Token,
	})
	if err != nil {
		slog.Error("session_event", "event", "cache_save_failed", "error", err.Error())
	}
	return err
}

// subsLocked snapshots the subscriber list. Caller holds the lock.
func (s *Store) subsLocked() []subscriber {
	return append([]subscriber(nil), s.subs...)
}

func notify(subs []subscriber, state State) {
	for _, sub := range subs {
		sub.fn(state)
	}
}

func (st State) clone() State {
	out := st
	out.User = copyUser(st.User)
	out.Organization = copyOrg(st.Organization)
	return out
}

func copyUser(u *identity.User) *identity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func copyOrg(o *identity.Organization) *identity.Organization {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}
