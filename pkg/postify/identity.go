package postify

import (
	"context"

	"github.com/google/uuid"
)

type principalKey struct{}

// WithPrincipal returns a context that carries the given user as the caller.
func WithPrincipal(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, principalKey{}, userID)
}

// PrincipalFromContext returns the caller stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(principalKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// ContextIdentity resolves the caller from the request context.
type ContextIdentity struct{}

// NewContextIdentity creates an Identity backed by WithPrincipal
func NewContextIdentity() Identity {
	return ContextIdentity{}
}

// CurrentUser implements Identity
func (ContextIdentity) CurrentUser(ctx context.Context) (uuid.UUID, bool) {
	return PrincipalFromContext(ctx)
}
