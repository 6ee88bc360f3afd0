package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextOperatorKey ctxKey = "operatorEmail"

// OperatorFromContext returns the email of the logged in operator attached by
// the session gate, or "" when the request is anonymous.
func OperatorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if email, ok := ctx.Value(ContextOperatorKey).(string); ok {
		return email
	}
	return ""
}

func ContextWithOperator(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ContextOperatorKey, email)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
