package auth

import (
	"context"
)

type contextKey struct{}

var identityKey contextKey

// WithIdentity attaches the authenticated shopper to the context.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the shopper set by the session
// middleware, or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityKey).(*Identity)
	return identity
}

// ContextChecker adapts the request context to the checkout flow's
// auth collaborator: the token is whatever the session middleware
// authenticated for this request.
type ContextChecker struct{}

func (ContextChecker) AccessToken(ctx context.Context) (string, error) {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		// Anonymous is a verdict, not a failure.
		return "", nil
	}
	return identity.Token, nil
}
