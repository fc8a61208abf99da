package auth

import (
	"context"
	"errors"
)

// UserContext carries the authenticated user through a request.
type UserContext struct {
	UserID   string
	Username string
}

type userContextKey struct{}

// ErrNoUserInContext is returned when a request carries no authenticated user.
var ErrNoUserInContext = errors.New("no user in context")

// SetUserInContext attaches the authenticated user to the context.
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUserFromContext extracts the authenticated user from the context.
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey{}).(*UserContext)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}
