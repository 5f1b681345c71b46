// client.go implements the Client: configuration, the capture pipeline, and
// response classification.

package sentry

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Client identity and protocol constants.
const (
	sdkName         = "sentry-go"
	sdkVersion      = "1.0.0"
	protocolVersion = "7"
	userAgent       = sdkName + "/" + sdkVersion
	platformName    = "go"

	// defaultLoggerName is backfilled into the client defaults so that even
	// an empty Event serializes with a logger.
	defaultLoggerName = "root"
)

// ErrEventDropped is returned by Capture when a BeforeSend callback drops
// the event by returning nil.
var ErrEventDropped = errors.New("sentry: event dropped by BeforeSend")

// ServerError reports a non-200 response from the ingest endpoint. It
// carries the status code and, when the server supplied one, the reason
// from the X-Sentry-Error header. It is returned as an ordinary error
// value, never a panic.
type ServerError struct {
	StatusCode int
	Reason     string
}

func (e *ServerError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("sentry: server responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("sentry: server responded with status %d: %s", e.StatusCode, e.Reason)
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	transport   Transport
	defaults    Event
	scrubber    *Scrubber
	beforeSend  func(*Event) *Event
	frameFilter FrameFilter
	compress    bool
	logger      *slog.Logger
	now         func() time.Time
	newEventID  func() string
	traceSource func() *Stacktrace
}

// WithTransport sets the transport used for submission. The default is an
// HTTPTransport with a 30 second timeout.
func WithTransport(transport Transport) ClientOption {
	return func(c *clientConfig) {
		c.transport = transport
	}
}

// WithDefaults sets the client's default event attributes: the
// slow-changing fields (Logger, ServerName, Release, Environment, ...)
// merged under every capture. A captured event's own fields win key by key.
func WithDefaults(defaults Event) ClientOption {
	return func(c *clientConfig) {
		c.defaults = defaults
	}
}

// WithCompression enables gzip compression of the payload. The matching
// Content-Encoding header is set automatically.
func WithCompression() ClientOption {
	return func(c *clientConfig) {
		c.compress = true
	}
}

// WithFrameFilter sets a filter applied to every outgoing stack trace's
// frame sequence before encoding. The filter may reorder, drop, or rewrite
// frames; it runs exactly once per capture.
func WithFrameFilter(filter FrameFilter) ClientOption {
	return func(c *clientConfig) {
		c.frameFilter = filter
	}
}

// WithBeforeSend sets a callback invoked on the event as captured, before
// defaults are merged or anything is serialized. Returning a modified event
// substitutes it; returning nil drops the event and Capture reports
// ErrEventDropped.
func WithBeforeSend(fn func(*Event) *Event) ClientOption {
	return func(c *clientConfig) {
		c.beforeSend = fn
	}
}

// WithScrubber configures the client with a custom scrubbing configuration.
func WithScrubber(cfg ScrubConfig) ClientOption {
	return func(c *clientConfig) {
		c.scrubber = NewScrubber(cfg)
	}
}

// WithDefaultScrubbing enables scrubbing with production-safe defaults.
func WithDefaultScrubbing() ClientOption {
	return func(c *clientConfig) {
		c.scrubber = NewScrubber(DefaultScrubConfig())
	}
}

// WithLogger sets the logger for internal diagnostics (unparsable stack
// traces, capture failures inside Recover). Nil means silent.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithClock sets the time source used to stamp events and the auth header.
// The default is time.Now. One reading per capture feeds both.
func WithClock(now func() time.Time) ClientOption {
	return func(c *clientConfig) {
		c.now = now
	}
}

// WithEventIDGenerator sets the event id source. Generated ids must be 32
// hex characters with no separators. The default derives them from random
// UUIDs.
func WithEventIDGenerator(fn func() string) ClientOption {
	return func(c *clientConfig) {
		c.newEventID = fn
	}
}

// WithTraceSource sets the stack trace source used by CaptureError. The
// source is invoked from inside CaptureError; the default captures the
// caller's stack.
func WithTraceSource(fn func() *Stacktrace) ClientOption {
	return func(c *clientConfig) {
		c.traceSource = fn
	}
}

// Client submits events to a Sentry-compatible endpoint. Captures are
// independent of each other; the only shared mutable state is the ambient
// user, which SetUser may replace at any time.
type Client struct {
	dsn         *DSN
	transport   Transport
	defaults    Event
	scrubber    *Scrubber
	beforeSend  func(*Event) *Event
	frameFilter FrameFilter
	compress    bool
	logger      *slog.Logger
	now         func() time.Time
	newEventID  func() string
	traceSource func() *Stacktrace

	mu          sync.RWMutex
	ambientUser *User
}

// NewClient creates a Client for the given connection string. A malformed
// connection string fails here, never at capture time.
func NewClient(dsn string, opts ...ClientOption) (*Client, error) {
	parsed, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	cfg := &clientConfig{
		now:        time.Now,
		newEventID: newEventID,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.transport == nil {
		cfg.transport = NewHTTPTransport()
	}
	if cfg.defaults.Logger == "" {
		cfg.defaults.Logger = defaultLoggerName
	}

	c := &Client{
		dsn:         parsed,
		transport:   cfg.transport,
		defaults:    cfg.defaults,
		scrubber:    cfg.scrubber,
		beforeSend:  cfg.beforeSend,
		frameFilter: cfg.frameFilter,
		compress:    cfg.compress,
		logger:      cfg.logger,
		now:         cfg.now,
		newEventID:  cfg.newEventID,
		traceSource: cfg.traceSource,
	}
	if c.traceSource == nil {
		c.traceSource = func() *Stacktrace {
			return CaptureStacktrace(2, nil)
		}
	}
	return c, nil
}

// DSN returns the client's parsed connection descriptor.
func (c *Client) DSN() *DSN {
	return c.dsn
}

// SetUser replaces the ambient user attached to subsequent events. Pass nil
// to clear it. Last write wins; captures in flight use whichever value they
// read.
func (c *Client) SetUser(user *User) {
	c.mu.Lock()
	c.ambientUser = user
	c.mu.Unlock()
}

// Capture submits one event and returns the server-assigned event id.
//
// The payload is assembled by merging, in increasing precedence: the fixed
// protocol fields, the client defaults, the ambient user (under "user"),
// and the event's own fields. A per-event user replaces the ambient user as
// a whole object. One clock reading stamps both the payload timestamp and
// the auth header.
//
// Exactly one outbound request is made; there is no retry or queuing. A
// non-200 response comes back as a *ServerError.
func (c *Client) Capture(ctx context.Context, event Event) (string, error) {
	if c.beforeSend != nil {
		modified := c.beforeSend(&event)
		if modified == nil {
			return "", ErrEventDropped
		}
		event = *modified
	}

	if c.scrubber != nil {
		c.scrubEvent(&event)
	}

	event.Stacktrace = c.resolveStacktrace(&event)
	event.RawStacktrace = ""

	attrs := mergeAttributes(
		protocolAttributes(),
		c.defaults.attributes(),
		c.ambientUserAttributes(),
		event.attributes(),
	)

	now := c.now()
	attrs["event_id"] = c.newEventID()
	attrs["timestamp"] = now.UTC().Format(timestampLayout)

	body, err := encodePayload(attrs, c.compress)
	if err != nil {
		return "", err
	}

	header := make(http.Header)
	header.Set("User-Agent", userAgent)
	header.Set("Content-Type", "application/json")
	header.Set("X-Sentry-Auth", authHeader(now, c.dsn.PublicKey(), c.dsn.SecretKey()))
	if c.compress {
		header.Set("Content-Encoding", "gzip")
	}

	resp, err := c.transport.Send(ctx, c.dsn.StoreEndpoint(), header, body)
	if err != nil {
		return "", fmt.Errorf("sentry: send event: %w", err)
	}
	return eventIDFromResponse(resp)
}

// CaptureMessage reports a free-text message at info level.
func (c *Client) CaptureMessage(ctx context.Context, message string) (string, error) {
	return c.Capture(ctx, Event{
		Message: message,
		Level:   SeverityInfo,
	})
}

// CaptureError reports err at error level with an exception descriptor and
// a stack trace from the configured trace source.
func (c *Client) CaptureError(ctx context.Context, err error) (string, error) {
	if err == nil {
		return "", errors.New("sentry: cannot capture nil error")
	}
	return c.Capture(ctx, Event{
		Message:    err.Error(),
		Level:      SeverityError,
		Exception:  ExceptionFrom(err),
		Stacktrace: c.traceSource(),
	})
}

// Close releases the transport. The client must not be used afterwards.
func (c *Client) Close() error {
	return c.transport.Close()
}

// scrubEvent redacts the event in place. The scrubber methods build new
// maps and slices, so the caller's original event is never mutated.
func (c *Client) scrubEvent(event *Event) {
	event.Message = c.scrubber.ScrubMessage(event.Message)
	event.Tags = c.scrubber.ScrubTags(event.Tags)
	event.Extra = c.scrubber.ScrubExtra(event.Extra)
	event.Breadcrumbs = c.scrubber.ScrubBreadcrumbs(event.Breadcrumbs)
	event.RawStacktrace = c.scrubber.ScrubStacktrace(event.RawStacktrace)
	if event.Stacktrace != nil {
		event.Stacktrace = &Stacktrace{Frames: c.scrubber.ScrubFrames(event.Stacktrace.Frames)}
	}
}

// resolveStacktrace produces the event's final stack trace: a caller-built
// one as-is, otherwise the parsed RawStacktrace. The client's frame filter
// runs exactly once, here. An unparsable or fully filtered trace yields nil
// so the payload omits the key entirely.
func (c *Client) resolveStacktrace(event *Event) *Stacktrace {
	st := event.Stacktrace
	if st == nil && event.RawStacktrace != "" {
		st = ParseStacktrace(event.RawStacktrace, nil)
		if len(st.Frames) == 0 {
			if c.logger != nil {
				c.logger.Warn("sentry: dropping unparsable stack trace")
			}
			st = nil
		}
	}
	if st == nil {
		return nil
	}

	if c.frameFilter != nil {
		frames := make([]Frame, len(st.Frames))
		copy(frames, st.Frames)
		st = &Stacktrace{Frames: c.frameFilter(frames)}
	}
	if len(st.Frames) == 0 {
		return nil
	}
	return st
}

// ambientUserAttributes returns the ambient user overlay, or nil when no
// user is set.
func (c *Client) ambientUserAttributes() map[string]any {
	c.mu.RLock()
	user := c.ambientUser
	c.mu.RUnlock()

	if user == nil {
		return nil
	}
	return map[string]any{"user": user.wire()}
}

// eventIDFromResponse classifies the server's response: 200 yields the id
// from the response body, anything else a *ServerError.
func eventIDFromResponse(resp *Response) (string, error) {
	if resp.StatusCode != http.StatusOK {
		return "", &ServerError{
			StatusCode: resp.StatusCode,
			Reason:     resp.Header.Get("X-Sentry-Error"),
		}
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return "", fmt.Errorf("sentry: malformed server response: %w", err)
	}
	return body.ID, nil
}

// newEventID returns 32 lowercase hex characters with no separators.
func newEventID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
