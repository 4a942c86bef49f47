package obs

import "context"

// HeaderRequestID is echoed to clients and forwarded to the catalog API.
const HeaderRequestID = "X-Request-Id"

type ctxKey int

const ctxKeyRequestID ctxKey = iota

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}
