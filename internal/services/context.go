package services

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	endpointKey  contextKey = "endpoint"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithEndpoint annotates context with the stdl endpoint being contacted.
func WithEndpoint(ctx context.Context, endpoint string) context.Context {
	if endpoint == "" {
		return ctx
	}
	return context.WithValue(ctx, endpointKey, endpoint)
}

// EndpointFromContext returns the endpoint if present.
func EndpointFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(endpointKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
