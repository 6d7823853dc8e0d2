package middleware

import "context"

type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxRole      contextKey = "actor_role"
	ctxAccessID  contextKey = "access_id"
	ctxCartToken contextKey = "cart_token"
)

func stringFrom(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func UserIDFromContext(ctx context.Context) string {
	return stringFrom(ctx, ctxUserID)
}

func RoleFromContext(ctx context.Context) string {
	return stringFrom(ctx, ctxRole)
}

// AccessIDFromContext returns the session identifier carried by the bearer token.
func AccessIDFromContext(ctx context.Context) string {
	return stringFrom(ctx, ctxAccessID)
}

// CartTokenFromContext returns the browsing-session token resolved by CartToken.
func CartTokenFromContext(ctx context.Context) string {
	return stringFrom(ctx, ctxCartToken)
}

// WithSession stores what Auth resolves from a bearer token.
func WithSession(ctx context.Context, userID, role, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxRole, role)
	return context.WithValue(ctx, ctxAccessID, accessID)
}

// WithCartToken injects the cart token.
func WithCartToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartToken, token)
}
