package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mkamau56/tutorhub/models"
	"github.com/mkamau56/tutorhub/notifications"
)

type fakeGateway struct {
	mu sync.Mutex

	profiles map[uuid.UUID]*models.User
	fetchErr error

	signInCred *Credential
	signInErr  error

	signOutErr error

	updateErr   error
	updateCalls int
	fetchCalls  int

	events chan CredentialEvent
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		profiles: make(map[uuid.UUID]*models.User),
		events:   make(chan CredentialEvent, 16),
	}
}

func (g *fakeGateway) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	return nil, errors.New("not used in these tests")
}

func (g *fakeGateway) SignIn(ctx context.Context, email, password string) (*Credential, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.signInErr != nil {
		return nil, g.signInErr
	}
	return g.signInCred, nil
}

func (g *fakeGateway) SignOut(ctx context.Context, cred *Credential) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.signOutErr
}

func (g *fakeGateway) ParseCredential(ctx context.Context, token string) (*Credential, error) {
	return nil, errors.New("not used in these tests")
}

func (g *fakeGateway) FetchProfile(ctx context.Context, identityID uuid.UUID) (*models.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetchCalls++
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	p, ok := g.profiles[identityID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (g *fakeGateway) UpdateProfile(ctx context.Context, identityID uuid.UUID, data models.JSONMap) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updateCalls++
	if g.updateErr != nil {
		return g.updateErr
	}
	if p, ok := g.profiles[identityID]; ok {
		p.ProfileData = data
	}
	return nil
}

func (g *fakeGateway) Changes() <-chan CredentialEvent { return g.events }

func (g *fakeGateway) Close() error {
	close(g.events)
	return nil
}

func (g *fakeGateway) setProfile(u *models.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.profiles[u.ID] = u
}

func (g *fakeGateway) calls() (fetch, update int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fetchCalls, g.updateCalls
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notifications.Notification
}

func (n *recordingNotifier) Notify(msg notifications.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *recordingNotifier) last() notifications.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return notifications.Notification{}
	}
	return n.sent[len(n.sent)-1]
}

func testUser(role models.Role) *models.User {
	return &models.User{
		ID:          uuid.New(),
		Email:       "user@example.com",
		Role:        role,
		ProfileData: models.JSONMap{"first_name": "Amina"},
	}
}

func testCredential(identityID uuid.UUID, role models.Role) *Credential {
	return &Credential{
		Token:      "token",
		TokenID:    uuid.NewString(),
		IdentityID: identityID,
		Role:       role,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestSignedInEventResolvesProfile(t *testing.T) {
	gw := newFakeGateway()
	user := testUser(models.RoleStudent)
	gw.setProfile(user)

	s := NewStore(gw, &recordingNotifier{})
	ctx := context.Background()

	s.apply(ctx, CredentialEvent{
		Kind:       EventSignedIn,
		IdentityID: user.ID,
		Credential: testCredential(user.ID, user.Role),
	})

	st := s.State(user.ID)
	if st.IdentityID != user.ID {
		t.Fatalf("identity not tracked after sign-in event")
	}

	waitFor(t, func() bool { return !s.State(user.ID).Loading })

	st = s.State(user.ID)
	if !st.Authenticated() {
		t.Fatalf("state not authenticated after fetch: %+v", st)
	}
	if st.Profile.Email != user.Email {
		t.Fatalf("profile email %q, want %q", st.Profile.Email, user.Email)
	}
}

func TestFetchFailureClearsLoading(t *testing.T) {
	gw := newFakeGateway()
	gw.fetchErr = errors.New("backend down")

	s := NewStore(gw, &recordingNotifier{})
	id := uuid.New()

	s.apply(context.Background(), CredentialEvent{
		Kind:       EventSignedIn,
		IdentityID: id,
		Credential: testCredential(id, models.RoleStudent),
	})

	waitFor(t, func() bool { return !s.State(id).Loading })

	st := s.State(id)
	if st.Authenticated() {
		t.Fatalf("failed fetch must not authenticate")
	}
	if st.IdentityID != id {
		t.Fatalf("identity should stay tracked for retry")
	}
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	gw := newFakeGateway()
	first := testUser(models.RoleStudent)
	gw.setProfile(first)

	s := NewStore(gw, &recordingNotifier{})
	ctx := context.Background()

	s.apply(ctx, CredentialEvent{
		Kind:       EventSignedIn,
		IdentityID: first.ID,
		Credential: testCredential(first.ID, first.Role),
	})
	waitFor(t, func() bool { return !s.State(first.ID).Loading })

	// A second sign-in bumps the generation and resolves a fresh copy.
	fresh := &models.User{ID: first.ID, Email: "fresh@example.com", Role: first.Role, ProfileData: first.ProfileData}
	gw.setProfile(fresh)

	s.apply(ctx, CredentialEvent{
		Kind:       EventSignedIn,
		IdentityID: first.ID,
		Credential: testCredential(first.ID, first.Role),
	})
	waitFor(t, func() bool { return !s.State(first.ID).Loading })

	if got := s.State(first.ID).Profile.Email; got != "fresh@example.com" {
		t.Fatalf("profile email %q, want fresh@example.com", got)
	}

	// Replay a fetch stamped with the superseded generation. Its result
	// must not land.
	stale := &models.User{ID: first.ID, Email: "stale@example.com", Role: first.Role}
	gw.setProfile(stale)
	s.fetchProfile(ctx, first.ID, 1)

	if got := s.State(first.ID).Profile.Email; got != "fresh@example.com" {
		t.Fatalf("stale fetch overwrote state: email %q", got)
	}
}

func TestSignedOutEventDropsEntry(t *testing.T) {
	gw := newFakeGateway()
	user := testUser(models.RoleTutor)
	gw.setProfile(user)

	s := NewStore(gw, &recordingNotifier{})
	ctx := context.Background()

	s.apply(ctx, CredentialEvent{
		Kind:       EventSignedIn,
		IdentityID: user.ID,
		Credential: testCredential(user.ID, user.Role),
	})
	waitFor(t, func() bool { return s.State(user.ID).Authenticated() })

	s.apply(ctx, CredentialEvent{Kind: EventSignedOut, IdentityID: user.ID})

	if st := s.State(user.ID); st.IdentityID != uuid.Nil || st.Profile != nil {
		t.Fatalf("entry survived sign-out: %+v", st)
	}
}

func TestSignInNotifiesOncePerOutcome(t *testing.T) {
	gw := newFakeGateway()
	notifier := &recordingNotifier{}
	s := NewStore(gw, notifier)
	ctx := context.Background()

	id := uuid.New()
	gw.signInCred = testCredential(id, models.RoleStudent)

	if _, err := s.SignIn(ctx, "user@example.com", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if notifier.count() != 1 {
		t.Fatalf("%d notifications after success, want 1", notifier.count())
	}
	if got := notifier.last(); got.Severity != notifications.SeverityInfo {
		t.Fatalf("success severity %q, want info", got.Severity)
	}

	gw.mu.Lock()
	gw.signInErr = ErrInvalidCredentials
	gw.mu.Unlock()

	if _, err := s.SignIn(ctx, "user@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
	if notifier.count() != 2 {
		t.Fatalf("%d notifications after failure, want 2", notifier.count())
	}
	if got := notifier.last(); got.Severity != notifications.SeverityError {
		t.Fatalf("failure severity %q, want error", got.Severity)
	}
}

func TestUpdateProfileWithoutIdentity(t *testing.T) {
	gw := newFakeGateway()
	notifier := &recordingNotifier{}
	s := NewStore(gw, notifier)

	err := s.UpdateProfile(context.Background(), uuid.New(), models.JSONMap{"first_name": "B"})
	if !errors.Is(err, ErrNoActiveIdentity) {
		t.Fatalf("got %v, want ErrNoActiveIdentity", err)
	}

	fetch, update := gw.calls()
	if fetch != 0 || update != 0 {
		t.Fatalf("gateway touched without an active identity: fetch=%d update=%d", fetch, update)
	}
	if notifier.count() != 1 {
		t.Fatalf("%d notifications, want exactly 1", notifier.count())
	}
}

func TestUpdateProfileMergesAndRefetches(t *testing.T) {
	gw := newFakeGateway()
	user := testUser(models.RoleStudent)
	gw.setProfile(user)

	notifier := &recordingNotifier{}
	s := NewStore(gw, notifier)
	ctx := context.Background()

	s.apply(ctx, CredentialEvent{
		Kind:       EventSignedIn,
		IdentityID: user.ID,
		Credential: testCredential(user.ID, user.Role),
	})
	waitFor(t, func() bool { return s.State(user.ID).Authenticated() })
	before := notifier.count()

	err := s.UpdateProfile(ctx, user.ID, models.JSONMap{"grade_level": "11"})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}

	st := s.State(user.ID)
	if st.Profile.ProfileData["grade_level"] != "11" {
		t.Fatalf("patch not applied: %v", st.Profile.ProfileData)
	}
	if st.Profile.ProfileData["first_name"] != "Amina" {
		t.Fatalf("merge dropped existing key: %v", st.Profile.ProfileData)
	}
	if notifier.count() != before+1 {
		t.Fatalf("%d notifications for one update, want 1", notifier.count()-before)
	}
}

func TestUpdateProfileRejectsForeignFields(t *testing.T) {
	gw := newFakeGateway()
	user := testUser(models.RoleStudent)
	gw.setProfile(user)

	notifier := &recordingNotifier{}
	s := NewStore(gw, notifier)
	ctx := context.Background()

	s.apply(ctx, CredentialEvent{
		Kind:       EventSignedIn,
		IdentityID: user.ID,
		Credential: testCredential(user.ID, user.Role),
	})
	waitFor(t, func() bool { return s.State(user.ID).Authenticated() })
	_, updatesBefore := gw.calls()

	err := s.UpdateProfile(ctx, user.ID, models.JSONMap{"hourly_rate": 40.0})
	if err == nil {
		t.Fatalf("a student patch with tutor fields must be rejected")
	}

	if _, updates := gw.calls(); updates != updatesBefore {
		t.Fatalf("invalid patch reached the gateway")
	}
}

func TestResolveCachesRestoredCredential(t *testing.T) {
	gw := newFakeGateway()
	user := testUser(models.RoleTutor)
	gw.setProfile(user)

	s := NewStore(gw, &recordingNotifier{})
	ctx := context.Background()
	cred := testCredential(user.ID, user.Role)

	st := s.Resolve(ctx, cred)
	if !st.Authenticated() {
		t.Fatalf("resolve did not restore state: %+v", st)
	}

	fetchesAfterFirst, _ := gw.calls()
	if st2 := s.Resolve(ctx, cred); !st2.Authenticated() {
		t.Fatalf("second resolve lost state")
	}
	if fetches, _ := gw.calls(); fetches != fetchesAfterFirst {
		t.Fatalf("second resolve refetched instead of using the cache")
	}
}

func TestResolveExpiredCredential(t *testing.T) {
	gw := newFakeGateway()
	user := testUser(models.RoleStudent)
	gw.setProfile(user)

	s := NewStore(gw, &recordingNotifier{})

	cred := testCredential(user.ID, user.Role)
	cred.ExpiresAt = time.Now().Add(-time.Minute)

	if st := s.Resolve(context.Background(), cred); st.IdentityID != uuid.Nil {
		t.Fatalf("expired credential resolved to %+v", st)
	}
	if fetches, _ := gw.calls(); fetches != 0 {
		t.Fatalf("expired credential reached the gateway")
	}
}

func TestResolveMissingProfile(t *testing.T) {
	gw := newFakeGateway()
	s := NewStore(gw, &recordingNotifier{})

	cred := testCredential(uuid.New(), models.RoleStudent)
	st := s.Resolve(context.Background(), cred)

	if st.Authenticated() {
		t.Fatalf("missing profile must not authenticate")
	}
	if st.Loading {
		t.Fatalf("resolve is synchronous, state must not be loading")
	}
}

func TestRunConsumesUntilClose(t *testing.T) {
	gw := newFakeGateway()
	user := testUser(models.RoleStudent)
	gw.setProfile(user)

	s := NewStore(gw, &recordingNotifier{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	gw.events <- CredentialEvent{
		Kind:       EventSignedIn,
		IdentityID: user.ID,
		Credential: testCredential(user.ID, user.Role),
	}
	waitFor(t, func() bool { return s.State(user.ID).Authenticated() })

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after Close")
	}
}
