package auth

import (
	"context"
	"errors"
	"net/http"
)

// AuthDecision represents the three possible outcomes of authentication.
type AuthDecision int

const (
	// Yes means credentials are valid. The chain stops and the identity is used.
	Yes AuthDecision = iota

	// No means credentials are present but invalid. The chain stops and the
	// request is rejected.
	No

	// Abstain means this authenticator cannot handle the credentials. The
	// chain continues with the next authenticator.
	Abstain
)

// AuthResult carries the outcome of an authentication attempt.
type AuthResult struct {
	Decision AuthDecision
	Identity *Identity // only when Decision == Yes
	Err      error     // only when Decision == No
}

// Identity is an authenticated caller.
type Identity struct {
	// Subject is the unique, non-empty caller identifier (the username).
	Subject string

	// DisplayName is shown in the client UI.
	DisplayName string

	// ServiceTier selects the rate limit.
	ServiceTier string

	// TenantID scopes storage. Empty means the shared tenant.
	TenantID string
}

// Authenticator examines request credentials and returns a vote.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) AuthResult
}

// Sentinel errors.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrTooManyRequests = errors.New("rate limit exceeded")
)

// anonymous is the identity admitted when every authenticator abstains and
// the default decision is Yes.
var anonymous = Identity{Subject: "anonymous", DisplayName: "Anonymous", ServiceTier: "default"}

// AuthChain evaluates authenticators in order.
type AuthChain struct {
	Authenticators []Authenticator

	// DefaultDecision applies when all authenticators abstain. Yes admits
	// the anonymous identity; anything else rejects.
	DefaultDecision AuthDecision
}

// Authenticate runs the chain, stopping on the first Yes or No.
func (c *AuthChain) Authenticate(ctx context.Context, r *http.Request) AuthResult {
	for _, authn := range c.Authenticators {
		if result := authn.Authenticate(ctx, r); result.Decision != Abstain {
			return result
		}
	}

	if c.DefaultDecision == Yes {
		id := anonymous
		return AuthResult{Decision: Yes, Identity: &id}
	}
	return AuthResult{Decision: No, Err: ErrUnauthenticated}
}
