package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mkamau56/tutorhub/models"
)

// Credential is a live sign-in: a signed token plus what the store
// needs to track it without re-parsing.
type Credential struct {
	Token     string
	TokenID   string
	IdentityID uuid.UUID
	Role      models.Role
	ExpiresAt time.Time
}

func (c *Credential) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

// CredentialEvent is emitted by the gateway whenever a credential is
// established or invalidated. Events are delivered in emission order.
type CredentialEvent struct {
	Kind       EventKind
	IdentityID uuid.UUID
	Credential *Credential // nil for signed_out
}

type SignUpInput struct {
	Email       string
	Password    string
	Role        models.Role
	ProfileData models.JSONMap
}

// Gateway is the adapter to the identity backend. It is owned by the
// session store; nothing else should call it directly.
//
// Changes returns the credential-change stream. There must be exactly
// one consumer; Close ends the stream and drops the subscription.
type Gateway interface {
	SignUp(ctx context.Context, in SignUpInput) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*Credential, error)
	SignOut(ctx context.Context, cred *Credential) error
	ParseCredential(ctx context.Context, token string) (*Credential, error)
	FetchProfile(ctx context.Context, identityID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, identityID uuid.UUID, data models.JSONMap) error
	Changes() <-chan CredentialEvent
	Close() error
}
