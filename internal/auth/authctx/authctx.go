// Package authctx carries the authenticated caller identity through request contexts.
package authctx

import "context"

type userIDKey struct{}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if userID <= 0 {
		return ctx
	}
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID returns the authenticated user id from the context, if present.
func UserID(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	userID, ok := ctx.Value(userIDKey{}).(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}
