// Package kit holds transport-neutral plumbing shared by the HTTP and MCP
// surfaces: the Endpoint signature, per-request context values, and
// request id generation.
package kit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// Endpoint is a transport-agnostic operation: decoded request in, response
// out. Both HTTP handlers and MCP tools terminate in an Endpoint.
type Endpoint func(ctx context.Context, req any) (any, error)

type contextKey string

const (
	// RequestIDKey carries the per-request identifier set by guard.RequestID.
	RequestIDKey contextKey = "kit_request_id"

	// TransportKey carries the inbound transport name ("http", "mcp").
	TransportKey contextKey = "kit_transport"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDKey).(string)
	return v
}

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}

// GetTransport returns the inbound transport name, defaulting to "http".
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return "http"
}

// NewRequestID returns a short random identifier, 8 hex characters. Both
// the HTTP middleware and the MCP tool wrapper mint one per request.
func NewRequestID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}
