// Package authctx carries the authenticated principal through a
// request's context.
//
// A Principal is derived from validated token claims by the
// authentication middleware and lives exactly as long as the request.
// Absence of a principal means the request is anonymous; that is a
// normal state, not an error — route policies decide whether anonymous
// is acceptable.
package authctx

import "context"

// Principal is the request-scoped representation of who is making the
// request.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var principalKey = contextKey{}

// Set stores the principal in the context.
func Set(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Get retrieves the principal from the context. The second return value
// is false for anonymous requests.
func Get(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// MustGet retrieves the principal and panics if the request is
// anonymous. Use only in handlers behind a policy that requires
// authentication.
func MustGet(ctx context.Context) Principal {
	p, ok := Get(ctx)
	if !ok {
		panic("authctx: no principal in context")
	}
	return p
}
