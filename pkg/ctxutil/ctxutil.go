package ctxutil

import "context"

type ctxKey string

const (
	operatorKey  ctxKey = "operator"
	requestIDKey ctxKey = "request_id"
)

// WithOperator stores the authenticated admin operator in the context.
func WithOperator(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operatorKey, name)
}

// OperatorFromCtx extracts the admin operator from the context.
// Returns "" and false if the value is missing or empty.
func OperatorFromCtx(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(operatorKey).(string)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// IsAdmin reports whether the request was authenticated with an admin token.
func IsAdmin(ctx context.Context) bool {
	_, ok := OperatorFromCtx(ctx)
	return ok
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
