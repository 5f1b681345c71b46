// context.go propagates the client through context.Context so handler code
// can report errors without threading the client explicitly.

package sentry

import "context"

// Context key type (unexported to avoid collisions)
type clientKey struct{}

// WithClientContext returns a context carrying the client. The context
// carries only the client handle, never event data, so attribute precedence
// is unaffected.
func WithClientContext(ctx context.Context, client *Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// ClientFromContext extracts the client from context.
// Returns nil and false if none is attached.
func ClientFromContext(ctx context.Context) (*Client, bool) {
	client, ok := ctx.Value(clientKey{}).(*Client)
	return client, ok && client != nil
}
