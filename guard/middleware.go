package guard

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mkamau56/tutorhub/auth"
	"github.com/mkamau56/tutorhub/models"
)

// Locals keys populated when a request is authorized.
const (
	LocalIdentity = "identity"
	LocalProfile  = "profile"
)

const tokenCookie = "tutorhub_token"

// CredentialParser restores a credential from a bearer token.
type CredentialParser interface {
	ParseCredential(ctx context.Context, token string) (*auth.Credential, error)
}

// SessionSource resolves a credential into session state.
type SessionSource interface {
	Resolve(ctx context.Context, cred *auth.Credential) auth.State
}

// Middleware applies Evaluate at a route boundary, issuing redirects
// instead of JSON errors: these are the page-level gates of the app.
type Middleware struct {
	parser   CredentialParser
	sessions SessionSource
}

func New(parser CredentialParser, sessions SessionSource) *Middleware {
	return &Middleware{parser: parser, sessions: sessions}
}

// Require guards a route group with an optional required role and the
// default login redirect.
func (m *Middleware) Require(requiredRole models.Role) fiber.Handler {
	return m.RequireWithRedirect(requiredRole, "")
}

func (m *Middleware) RequireWithRedirect(requiredRole models.Role, redirectTo string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := m.sessions.Resolve(c.Context(), m.credential(c))

		d := Evaluate(st, requiredRole, redirectTo)
		switch d.Outcome {
		case OutcomeLoading:
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "loading"})
		case OutcomeAuthorized:
			c.Locals(LocalIdentity, st.IdentityID)
			c.Locals(LocalProfile, st.Profile)
			return c.Next()
		default:
			return c.Redirect(d.Redirect, fiber.StatusFound)
		}
	}
}

// credential pulls the bearer token from the Authorization header or
// the session cookie. Any parse failure means no credential: the guard
// treats that as unauthenticated rather than an error.
func (m *Middleware) credential(c *fiber.Ctx) *auth.Credential {
	token := ""
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
	} else if v := c.Cookies(tokenCookie); v != "" {
		token = v
	}
	if token == "" {
		return nil
	}

	cred, err := m.parser.ParseCredential(c.Context(), token)
	if err != nil {
		return nil
	}
	return cred
}
