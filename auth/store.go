package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mkamau56/tutorhub/models"
	"github.com/mkamau56/tutorhub/notifications"
)

// Notifier delivers the single user-facing notification each store
// operation emits per outcome.
type Notifier interface {
	Notify(n notifications.Notification)
}

// State is the snapshot the role guard evaluates: who is signed in, in
// what role, and whether the profile is still being resolved.
type State struct {
	Loading    bool
	IdentityID uuid.UUID
	Profile    *models.User
}

func (s State) Authenticated() bool {
	return s.IdentityID != uuid.Nil && s.Profile != nil
}

type entry struct {
	cred    *Credential
	profile *models.User
	loading bool
	gen     uint64
}

// Store is the single source of truth for who is signed in. It owns
// the gateway: every sign-up, sign-in, sign-out and profile update
// goes through it, and it is the sole consumer of the gateway's
// credential-change stream.
//
// Profile fetches are stamped with a per-identity generation; a result
// arriving after a newer credential event for the same identity is
// discarded, so a slow fetch can never overwrite fresher state.
type Store struct {
	gw       Gateway
	notifier Notifier

	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

func NewStore(gw Gateway, notifier Notifier) *Store {
	return &Store{
		gw:       gw,
		notifier: notifier,
		entries:  make(map[uuid.UUID]*entry),
	}
}

// Run consumes the gateway's credential-change stream until ctx is
// cancelled or the gateway is closed. It must be running for sign-ins
// to resolve their profiles.
func (s *Store) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.gw.Changes():
			if !ok {
				return
			}
			s.apply(ctx, ev)
		}
	}
}

func (s *Store) apply(ctx context.Context, ev CredentialEvent) {
	switch ev.Kind {
	case EventSignedIn:
		s.mu.Lock()
		e, ok := s.entries[ev.IdentityID]
		if !ok {
			e = &entry{}
			s.entries[ev.IdentityID] = e
		}
		e.cred = ev.Credential
		e.loading = true
		e.gen++
		gen := e.gen
		s.mu.Unlock()

		go s.fetchProfile(ctx, ev.IdentityID, gen)
	case EventSignedOut:
		s.mu.Lock()
		delete(s.entries, ev.IdentityID)
		s.mu.Unlock()
	}
}

// fetchProfile resolves the profile for one credential generation.
// Whatever happens, the loading flag for that generation ends up false.
func (s *Store) fetchProfile(ctx context.Context, identityID uuid.UUID, gen uint64) {
	profile, err := s.gw.FetchProfile(ctx, identityID)

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[identityID]
	if !ok || e.gen != gen {
		// A newer credential event superseded this fetch.
		return
	}
	if err == nil {
		e.profile = profile
	}
	e.loading = false
}

// SignUp registers a new account. Success does not sign the user in:
// the gateway sends a verification email and sign-in is gated on it.
func (s *Store) SignUp(ctx context.Context, in SignUpInput) error {
	_, err := s.gw.SignUp(ctx, in)
	if err != nil {
		s.notifier.Notify(notifications.Notification{
			Title:       "Registration Failed",
			Description: err.Error(),
			Severity:    notifications.SeverityError,
		})
		return err
	}

	s.notifier.Notify(notifications.Notification{
		Title:       "Registration Successful",
		Description: "Please check your email to verify your account.",
		Severity:    notifications.SeverityInfo,
	})
	return nil
}

func (s *Store) SignIn(ctx context.Context, email, password string) (*Credential, error) {
	cred, err := s.gw.SignIn(ctx, email, password)
	if err != nil {
		s.notifier.Notify(notifications.Notification{
			Title:       "Login Failed",
			Description: err.Error(),
			Severity:    notifications.SeverityError,
		})
		return nil, err
	}

	s.notifier.Notify(notifications.Notification{
		UserID:      cred.IdentityID,
		Title:       "Signed In",
		Description: "Welcome back.",
		Severity:    notifications.SeverityInfo,
	})
	return cred, nil
}

func (s *Store) SignOut(ctx context.Context, cred *Credential) error {
	if cred == nil {
		s.notifier.Notify(notifications.Notification{
			Title:       "Sign Out Failed",
			Description: ErrNoActiveIdentity.Error(),
			Severity:    notifications.SeverityError,
		})
		return ErrNoActiveIdentity
	}

	if err := s.gw.SignOut(ctx, cred); err != nil {
		s.notifier.Notify(notifications.Notification{
			UserID:      cred.IdentityID,
			Title:       "Sign Out Failed",
			Description: err.Error(),
			Severity:    notifications.SeverityError,
		})
		return err
	}

	s.notifier.Notify(notifications.Notification{
		UserID:      cred.IdentityID,
		Title:       "Signed Out",
		Description: "You have been successfully signed out.",
		Severity:    notifications.SeverityInfo,
	})
	return nil
}

// UpdateProfile shallow-merges patch into the identity's profile data,
// persists it, then refetches so local state stays authoritative. With
// no active identity it fails before any gateway call.
func (s *Store) UpdateProfile(ctx context.Context, identityID uuid.UUID, patch models.JSONMap) error {
	s.mu.Lock()
	e, ok := s.entries[identityID]
	if identityID == uuid.Nil || !ok {
		s.mu.Unlock()
		s.notifier.Notify(notifications.Notification{
			Title:       "Profile Update Failed",
			Description: ErrNoActiveIdentity.Error(),
			Severity:    notifications.SeverityError,
		})
		return ErrNoActiveIdentity
	}

	role := e.cred.Role
	var base models.JSONMap
	if e.profile != nil {
		role = e.profile.Role
		base = e.profile.ProfileData
	}
	gen := e.gen
	s.mu.Unlock()

	merged := models.MergeProfileData(base, patch)
	if _, err := models.DecodeProfileData(role, merged); err != nil {
		s.notifyUpdateFailed(identityID, err)
		return err
	}

	if err := s.gw.UpdateProfile(ctx, identityID, merged); err != nil {
		s.notifyUpdateFailed(identityID, err)
		return err
	}

	profile, err := s.gw.FetchProfile(ctx, identityID)
	if err != nil {
		s.notifyUpdateFailed(identityID, err)
		return err
	}

	s.mu.Lock()
	if e, ok := s.entries[identityID]; ok && e.gen == gen {
		e.profile = profile
	}
	s.mu.Unlock()

	s.notifier.Notify(notifications.Notification{
		UserID:      identityID,
		Title:       "Profile Updated",
		Description: "Your profile changes have been saved.",
		Severity:    notifications.SeverityInfo,
	})
	return nil
}

func (s *Store) notifyUpdateFailed(identityID uuid.UUID, err error) {
	s.notifier.Notify(notifications.Notification{
		UserID:      identityID,
		Title:       "Profile Update Failed",
		Description: err.Error(),
		Severity:    notifications.SeverityError,
	})
}

// State returns the tracked snapshot for an identity. Unknown
// identities come back unauthenticated, not as an error.
func (s *Store) State(identityID uuid.UUID) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(identityID)
}

func (s *Store) snapshotLocked(identityID uuid.UUID) State {
	e, ok := s.entries[identityID]
	if !ok {
		return State{}
	}
	return State{
		Loading:    e.loading,
		IdentityID: identityID,
		Profile:    e.profile,
	}
}

// Resolve restores state for a credential that is valid but not yet
// tracked, e.g. after a process restart. The fetched profile is cached
// so later requests hit the tracked entry.
func (s *Store) Resolve(ctx context.Context, cred *Credential) State {
	if cred == nil {
		return State{}
	}

	s.mu.Lock()
	if e, ok := s.entries[cred.IdentityID]; ok {
		if e.cred != nil && e.cred.Expired(time.Now()) {
			delete(s.entries, cred.IdentityID)
			s.mu.Unlock()
			return State{}
		}
		st := s.snapshotLocked(cred.IdentityID)
		s.mu.Unlock()
		return st
	}
	s.mu.Unlock()

	if cred.Expired(time.Now()) {
		return State{}
	}

	profile, err := s.gw.FetchProfile(ctx, cred.IdentityID)
	if err != nil {
		// Missing profile renders as unauthenticated downstream.
		return State{IdentityID: cred.IdentityID}
	}

	s.mu.Lock()
	if _, ok := s.entries[cred.IdentityID]; !ok {
		s.entries[cred.IdentityID] = &entry{cred: cred, profile: profile}
	}
	st := s.snapshotLocked(cred.IdentityID)
	s.mu.Unlock()
	return st
}

// ParseCredential restores a credential from a bearer token. The
// gateway stays private to the store; callers that only hold a token
// go through here.
func (s *Store) ParseCredential(ctx context.Context, token string) (*Credential, error) {
	return s.gw.ParseCredential(ctx, token)
}

// Close releases the gateway subscription.
func (s *Store) Close() error {
	return s.gw.Close()
}
