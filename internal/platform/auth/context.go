package auth

import (
	"context"

	"github.com/google/uuid"
)

// RequestContext is the authenticated caller, as carried by a verified token.
// It is attached to the request's context.Context by Middleware and passed by
// value from handlers into services; nothing mutates it after verification.
type RequestContext struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Admin  bool
}

// IsSelf reports whether the caller is the given user.
func (rc RequestContext) IsSelf(userID uuid.UUID) bool {
	return rc.UserID != uuid.Nil && rc.UserID == userID
}

type requestContextKey struct{}

// WithRequestContext returns a copy of ctx carrying rc.
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// FromContext returns the caller attached by Middleware.
func FromContext(ctx context.Context) (RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey{}).(RequestContext)
	return rc, ok
}
