// middleware.go implements net/http integration: client propagation into
// request contexts and panic capture around handlers.

// Package nethttp integrates crash reporting with net/http servers.
//
// Middleware wraps a handler chain so that every request carries the client
// in its context and every handler panic is captured as a fatal event tagged
// with the request's route, method, and caller details. Captured panics are
// answered with a 500 unless WithRepanic restores the panic for an outer
// recovery layer.
package nethttp

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/kmastore-id/sentry/pkg/sentry"
)

// Option configures the middleware.
type Option func(*config)

type config struct {
	repanic bool
	logger  *slog.Logger
}

// WithRepanic re-raises captured panics after submission so an outer
// recovery layer (or the net/http server itself) still sees them. Without
// it the middleware answers the request with a 500.
func WithRepanic() Option {
	return func(c *config) {
		c.repanic = true
	}
}

// WithLogger sets the logger for submission failures. Nil means silent.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Middleware returns a middleware that injects client into every request
// context and captures handler panics.
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/checkout", handleCheckout)
//	http.ListenAndServe(addr, nethttp.Middleware(client)(mux))
//
// Handlers reach the client through sentry.ClientFromContext to capture
// their own non-fatal errors.
func Middleware(client *sentry.Client, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		h := &handler{
			next:    next,
			client:  client,
			repanic: cfg.repanic,
			logger:  cfg.logger,
		}
		return h
	}
}

// handler wraps one downstream handler with panic capture.
type handler struct {
	next    http.Handler
	client  *sentry.Client
	repanic bool
	logger  *slog.Logger
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r = r.WithContext(sentry.WithClientContext(r.Context(), h.client))

	defer h.capturePanic(w, r)
	h.next.ServeHTTP(w, r)
}

// capturePanic recovers from a handler panic, submits it, and either
// answers with a 500 or re-panics. It must be deferred directly so that
// recover stops the unwinding.
func (h *handler) capturePanic(w http.ResponseWriter, r *http.Request) {
	rec := recover()
	if rec == nil {
		return
	}
	if rec == http.ErrAbortHandler {
		// The server uses this sentinel to abort a response; it is not a
		// crash and must keep propagating.
		panic(rec)
	}

	h.safeCapture(r, rec)

	if h.repanic {
		panic(rec)
	}
	w.WriteHeader(http.StatusInternalServerError)
}

// safeCapture submits the panic event, logging failures rather than
// propagating them into the response path.
func (h *handler) safeCapture(r *http.Request, rec any) {
	event := sentry.Event{
		Level:         sentry.SeverityFatal,
		Message:       fmt.Sprintf("%v", rec),
		Exception:     sentry.ExceptionFrom(rec),
		RawStacktrace: string(debug.Stack()),
		Transaction:   r.Method + " " + r.URL.Path,
		Tags: map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
		},
		Extra: map[string]any{
			"url":         r.URL.String(),
			"remote_addr": r.RemoteAddr,
			"user_agent":  r.UserAgent(),
		},
	}

	if _, err := h.client.Capture(r.Context(), event); err != nil && h.logger != nil {
		h.logger.Warn("sentry: failed to capture handler panic", "error", err)
	}
}
