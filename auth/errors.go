package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers both a missing account and a wrong
	// password so the two cases are indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrInvalidToken       = errors.New("invalid or expired credential")

	// ErrNoActiveIdentity is returned when a profile update is attempted
	// with no signed-in identity. No gateway call is made in that case.
	ErrNoActiveIdentity = errors.New("no active identity")

	ErrProfileNotFound = errors.New("profile not found")
)

// GatewayError wraps a failed RPC against the identity service so the
// operation that failed stays visible to the caller.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("auth gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
