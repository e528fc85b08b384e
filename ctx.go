package auth

import (
	"context"

	"github.com/goliatone/go-router"
)

var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// GetRouterUser extracts the authenticated user from the router context
func GetRouterUser(ctx router.Context, key string) (*User, bool) {
	if key == "" {
		key = "user"
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	user, ok := raw.(*User)
	return user, ok
}

// Can is a convenience function to check a capability grant directly from
// the standard context.
func Can(ctx context.Context, permission Permission) bool {
	user, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return tokenAllows(user, permission)
}

// CanFromRouter is a convenience function to check a capability grant from
// the router context.
func CanFromRouter(ctx router.Context, permission Permission) bool {
	user, ok := GetRouterUser(ctx, "")
	if !ok {
		return false
	}
	return tokenAllows(user, permission)
}
