package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"mectofit/internal/adapters/storage/authcache"
	"mectofit/internal/application/session"
	"mectofit/internal/domain/identity"
)

// fakeCache is an in-memory authcache.Store for tests.
type fakeCache struct {
	rec     authcache.Record
	hasRec  bool
	loadErr error
	saveErr error
	saves   int
	clears  int
}

func (f *fakeCache) Load(ctx context.Context) (authcache.Record, error) {
	if f.loadErr != nil {
		return authcache.Record{}, f.loadErr
	}
	if !f.hasRec {
		return authcache.Record{}, authcache.ErrNotFound
	}
	return f.rec, nil
}

func (f *fakeCache) Save(ctx context.Context, rec authcache.Record) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.rec = rec
	f.hasRec = true
	return nil
}

func (f *fakeCache) Clear(ctx context.Context) error {
	f.clears++
	f.rec = authcache.Record{}
	f.hasRec = false
	return nil
}

// gatedCache blocks the first Save until released, simulating a slow disk
// write that is still in flight when the next mutation arrives.
type gatedCache struct {
	fakeCache
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedCache) Save(ctx context.Context, rec authcache.Record) error {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.fakeCache.Save(ctx, rec)
}

func testUser() *identity.User {
	return &identity.User{ID: 1, Username: "sean", Email: "a@b.com", Role: identity.RoleOwner}
}

func testOrg() *identity.Organization {
	return &identity.Organization{ID: 5, Name: "Gym", SubscriptionTier: identity.TierPro}
}

func newStore(t *testing.T, cache authcache.Store) *session.Store {
	t.Helper()
	s, err := session.New(context.Background(), cache)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

// TestStore_InitialState tests that a fresh store starts empty with Loading true.
func TestStore_InitialState(t *testing.T) {
	s := newStore(t, &fakeCache{})

	st := s.Snapshot()
	if st.User != nil || st.Organization != nil || st.IsAuthenticated {
		t.Errorf("fresh store not empty: %+v", st)
	}
	if !st.Loading {
		t.Error("Loading must start true")
	}
}

// TestStore_RestoresPersistedState tests that cached identity is restored as
// an optimistic guess while Loading stays true until reconciled.
func TestStore_RestoresPersistedState(t *testing.T) {
	cache := &fakeCache{
		rec: authcache.Record{
			User:            testUser(),
			Organization:    testOrg(),
			IsAuthenticated: true,
			Token:           "tok",
		},
		hasRec: true,
	}
	s := newStore(t, cache)

	st := s.Snapshot()
	if st.User == nil || st.User.Email != "a@b.com" {
		t.Errorf("User = %+v, want restored user", st.User)
	}
	if !st.IsAuthenticated || st.Token != "tok" {
		t.Errorf("IsAuthenticated=%v Token=%q", st.IsAuthenticated, st.Token)
	}
	if !st.Loading {
		t.Error("restored state must still be Loading until bootstrap settles")
	}
}

// TestStore_SetAuth tests the authenticated transition and write-through.
func TestStore_SetAuth(t *testing.T) {
	cache := &fakeCache{}
	s := newStore(t, cache)
	ctx := context.Background()

	if err := s.SetAuth(ctx, testUser(), testOrg(), "tok"); err != nil {
		t.Fatalf("SetAuth() error = %v", err)
	}

	st := s.Snapshot()
	if !st.IsAuthenticated || st.User == nil || st.Organization == nil || st.Loading {
		t.Errorf("unexpected state after SetAuth: %+v", st)
	}
	if cache.saves != 1 {
		t.Errorf("saves = %d, want 1 (write-through)", cache.saves)
	}
	if !cache.rec.IsAuthenticated || cache.rec.User == nil {
		t.Errorf("persisted record = %+v", cache.rec)
	}
}

// TestStore_SetAuthNilUser tests that authentication requires a user; the
// isAuthenticated => user != nil invariant can never be broken.
func TestStore_SetAuthNilUser(t *testing.T) {
	s := newStore(t, &fakeCache{})

	if err := s.SetAuth(context.Background(), nil, testOrg(), ""); err != session.ErrNilUser {
		t.Errorf("SetAuth(nil user) = %v, want ErrNilUser", err)
	}
	if st := s.Snapshot(); st.IsAuthenticated {
		t.Error("store must not become authenticated without a user")
	}
}

// TestStore_LogoutIdempotent tests that a second logout is observably
// identical to the first.
func TestStore_LogoutIdempotent(t *testing.T) {
	cache := &fakeCache{}
	s := newStore(t, cache)
	ctx := context.Background()

	if err := s.SetAuth(ctx, testUser(), nil, ""); err != nil {
		t.Fatalf("SetAuth() error = %v", err)
	}
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	first := s.Snapshot()

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("second Logout() error = %v", err)
	}
	second := s.Snapshot()

	if first.IsAuthenticated || first.User != nil || first.Loading {
		t.Errorf("state after logout: %+v", first)
	}
	if second != first {
		t.Errorf("second logout state %+v differs from first %+v", second, first)
	}
	if cache.hasRec {
		t.Error("cache must be cleared on logout")
	}
}

// TestStore_LogoutOutlivesSlowAuthWrite tests that a logout's durable clear
// is never overwritten by an earlier authentication whose cache write is
// still in flight. The cache write happens in mutation order, so after the
// slow write drains the cache must stay empty and a reload must come up
// unauthenticated.
func TestStore_LogoutOutlivesSlowAuthWrite(t *testing.T) {
	cache := &gatedCache{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newStore(t, cache)
	ctx := context.Background()

	setAuthDone := make(chan error, 1)
	go func() {
		setAuthDone <- s.SetAuth(ctx, testUser(), nil, "tok")
	}()
	<-cache.entered

	logoutDone := make(chan error, 1)
	go func() {
		logoutDone <- s.Logout(ctx)
	}()

	close(cache.release)
	if err := <-setAuthDone; err != nil {
		t.Fatalf("SetAuth() error = %v", err)
	}
	if err := <-logoutDone; err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if cache.hasRec {
		t.Fatalf("cache still holds credentials after logout: %+v", cache.rec)
	}
	reloaded := newStore(t, cache)
	if st := reloaded.Snapshot(); st.IsAuthenticated || st.User != nil || st.Token != "" {
		t.Errorf("reload after logout restored a session: %+v", st)
	}
}

// TestStore_CorruptCacheStartsFresh tests that an undecodable persisted
// payload is discarded instead of failing store construction.
func TestStore_CorruptCacheStartsFresh(t *testing.T) {
	cache := &fakeCache{
		loadErr: fmt.Errorf("%w: invalid character 'n'", authcache.ErrCorrupt),
	}
	s := newStore(t, cache)

	st := s.Snapshot()
	if st.User != nil || st.IsAuthenticated {
		t.Errorf("store not empty after corrupt cache: %+v", st)
	}
	if !st.Loading {
		t.Error("Loading must start true")
	}
	if cache.clears != 1 {
		t.Errorf("clears = %d, want the corrupt payload dropped", cache.clears)
	}
}

// TestStore_UpdateUser tests shallow merging into an existing user.
func TestStore_UpdateUser(t *testing.T) {
	s := newStore(t, &fakeCache{})
	ctx := context.Background()
	if err := s.SetAuth(ctx, testUser(), nil, ""); err != nil {
		t.Fatalf("SetAuth() error = %v", err)
	}

	phone := "555-0100"
	if err := s.UpdateUser(ctx, identity.UserPatch{Phone: &phone}); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}

	st := s.Snapshot()
	if st.User.Phone != phone {
		t.Errorf("Phone = %q, want %q", st.User.Phone, phone)
	}
	if st.User.Email != "a@b.com" {
		t.Errorf("Email was clobbered: %q", st.User.Email)
	}
	if !st.IsAuthenticated {
		t.Error("UpdateUser must not affect IsAuthenticated")
	}
}

// TestStore_UpdateUserWithoutUser tests the documented no-op behavior.
func TestStore_UpdateUserWithoutUser(t *testing.T) {
	cache := &fakeCache{}
	s := newStore(t, cache)

	phone := "555-0100"
	if err := s.UpdateUser(context.Background(), identity.UserPatch{Phone: &phone}); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}
	if st := s.Snapshot(); st.User != nil {
		t.Errorf("no-op merge created a user: %+v", st.User)
	}
	if cache.saves != 0 {
		t.Errorf("no-op must not write through, saves = %d", cache.saves)
	}
}

// TestStore_UpdateOrganization verifies that patching the name preserves
// the other fields.
func TestStore_UpdateOrganization(t *testing.T) {
	s := newStore(t, &fakeCache{})
	ctx := context.Background()
	if err := s.SetAuth(ctx, &identity.User{ID: 2, Email: "a@b.com", Role: identity.RoleOwner}, testOrg(), ""); err != nil {
		t.Fatalf("SetAuth() error = %v", err)
	}

	name := "New Gym"
	if err := s.UpdateOrganization(ctx, identity.OrganizationPatch{Name: &name}); err != nil {
		t.Fatalf("UpdateOrganization() error = %v", err)
	}

	st := s.Snapshot()
	if st.Organization.ID != 5 || st.Organization.Name != "New Gym" || st.Organization.SubscriptionTier != identity.TierPro {
		t.Errorf("Organization = %+v", st.Organization)
	}
}

// TestStore_Subscribe tests synchronous notification and unsubscribe.
func TestStore_Subscribe(t *testing.T) {
	s := newStore(t, &fakeCache{})
	ctx := context.Background()

	var events []session.State
	unsubscribe := s.Subscribe(func(st session.State) {
		events = append(events, st)
	})

	if err := s.SetAuth(ctx, testUser(), nil, ""); err != nil {
		t.Fatalf("SetAuth() error = %v", err)
	}
	if len(events) != 1 || !events[0].IsAuthenticated {
		t.Fatalf("events = %+v, want one authenticated event", events)
	}

	s.SetLoading(true)
	if len(events) != 2 || !events[1].Loading {
		t.Fatalf("events = %d, want loading event", len(events))
	}

	unsubscribe()
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if len(events) != 2 {
		t.Errorf("received event after unsubscribe, events = %d", len(events))
	}
}

// TestStore_SetAuthAt tests the stale-response guard: a logout between
// capture and apply discards the late authentication.
func TestStore_SetAuthAt(t *testing.T) {
	s := newStore(t, &fakeCache{})
	ctx := context.Background()

	epoch := s.Epoch()

	// A logout happens while the identity response is in flight.
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	applied, err := s.SetAuthAt(ctx, epoch, testUser(), nil, "")
	if err != nil {
		t.Fatalf("SetAuthAt() error = %v", err)
	}
	if applied {
		t.Error("stale authentication must be discarded")
	}
	if st := s.Snapshot(); st.IsAuthenticated {
		t.Errorf("stale response overwrote logout: %+v", st)
	}

	// With a current epoch the result applies normally.
	applied, err = s.SetAuthAt(ctx, s.Epoch(), testUser(), nil, "")
	if err != nil {
		t.Fatalf("SetAuthAt() error = %v", err)
	}
	if !applied || !s.Snapshot().IsAuthenticated {
		t.Error("current-epoch authentication must apply")
	}
}

// TestStore_PersistFailureSurfaces tests that a cache write failure is
// reported while the in-memory transition still holds.
func TestStore_PersistFailureSurfaces(t *testing.T) {
	cache := &fakeCache{saveErr: errors.New("disk full")}
	s := newStore(t, cache)

	err := s.SetAuth(context.Background(), testUser(), nil, "")
	if err == nil {
		t.Fatal("SetAuth() must surface the persistence error")
	}
	if st := s.Snapshot(); !st.IsAuthenticated {
		t.Error("in-memory state must still transition")
	}
}

// TestStore_SnapshotIsolation tests that mutating a snapshot does not leak
// into the store.
func TestStore_SnapshotIsolation(t *testing.T) {
	s := newStore(t, &fakeCache{})
	ctx := context.Background()
	if err := s.SetAuth(ctx, testUser(), testOrg(), ""); err != nil {
		t.Fatalf("SetAuth() error = %v", err)
	}

	st := s.Snapshot()
	st.User.Email = "mutated@example.com"
	st.Organization.Name = "Mutated"

	fresh := s.Snapshot()
	if fresh.User.Email != "a@b.com" || fresh.Organization.Name != "Gym" {
		t.Errorf("snapshot mutation leaked into store: %+v %+v", fresh.User, fresh.Organization)
	}
}
