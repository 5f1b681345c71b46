// recover.go provides deferred panic capture for goroutines and handlers.

package sentry

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Recover captures an in-flight panic, submits it as a fatal event, and
// returns the recovered value. Recover does NOT re-panic after capturing.
//
// Recover must itself be the deferred function; the runtime only lets
// recover stop the unwinding when it is called directly from a deferred
// call:
//
//	func worker(ctx context.Context) {
//	    defer client.Recover(ctx)
//	    // code that might panic
//	}
//
// To convert the panic into an error instead, recover in your own deferred
// function and hand the value to CapturePanic:
//
//	func worker(ctx context.Context) (err error) {
//	    defer func() {
//	        if r := recover(); r != nil {
//	            client.CapturePanic(ctx, r)
//	            err = fmt.Errorf("panic: %v", r)
//	        }
//	    }()
//	    // code that might panic
//	}
//
// Submission failures are logged through the client's logger, never
// propagated: panic capture must not introduce a second failure path.
func (c *Client) Recover(ctx context.Context) any {
	r := recover()
	if r == nil {
		return nil
	}
	if _, err := c.CapturePanic(ctx, r); err != nil && c.logger != nil {
		c.logger.Warn("sentry: failed to capture panic", "error", err)
	}
	return r
}

// CapturePanic reports an already-recovered panic value as a fatal event
// with the current stack. Call it from inside a deferred function that has
// just called recover; at that point the stack still includes the panic
// site.
func (c *Client) CapturePanic(ctx context.Context, recovered any) (string, error) {
	return c.Capture(ctx, Event{
		Level:         SeverityFatal,
		Message:       formatRecovered(recovered),
		Exception:     ExceptionFrom(recovered),
		RawStacktrace: string(debug.Stack()),
	})
}

// formatRecovered formats a recovered panic value as a string.
func formatRecovered(recovered any) string {
	if recovered == nil {
		return "<nil>"
	}
	if err, ok := recovered.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", recovered)
}
