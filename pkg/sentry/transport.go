// transport.go defines the Transport abstraction and its net/http implementation.

package sentry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Response is the raw result of one submission: status code, response
// headers, and body, before any protocol interpretation.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport delivers encoded payloads to the ingest endpoint.
// Implementations must be safe for concurrent use.
type Transport interface {
	// Send posts one payload and returns the raw response. It returns an
	// error only for transport-level failures; a protocol-level rejection
	// comes back as a Response with a non-200 status.
	Send(ctx context.Context, url string, header http.Header, body []byte) (*Response, error)

	// Close releases resources held by the transport. After Close, Send
	// may fail.
	Close() error
}

// defaultSendTimeout bounds a submission when the caller's context carries
// no deadline of its own.
const defaultSendTimeout = 30 * time.Second

// maxResponseBytes caps how much of a response body is read. Store-API
// responses are a few dozen bytes; anything larger is pathological.
const maxResponseBytes = 1 << 20

// HTTPTransport sends payloads with net/http.
type HTTPTransport struct {
	client *http.Client
}

// HTTPTransportOption configures an HTTPTransport.
type HTTPTransportOption func(*HTTPTransport)

// WithHTTPClient sets the underlying http.Client, e.g. to control proxies
// or TLS configuration.
func WithHTTPClient(client *http.Client) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.client = client
	}
}

// NewHTTPTransport creates an HTTPTransport with the given options.
func NewHTTPTransport(opts ...HTTPTransportOption) *HTTPTransport {
	t := &HTTPTransport{}
	for _, opt := range opts {
		opt(t)
	}
	if t.client == nil {
		t.client = &http.Client{Timeout: defaultSendTimeout}
	}
	return t
}

// Send issues a single POST and reads the full response. No retries: the
// caller owns the failure policy.
func (t *HTTPTransport) Send(ctx context.Context, url string, header http.Header, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// Close drops idle connections held by the underlying client.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// DebugTransport writes submissions to a writer in human-readable form
// instead of sending them anywhere, and reports every event as accepted.
// Useful for development and for trying out capture flows without a live
// endpoint.
type DebugTransport struct {
	w io.Writer
}

// NewDebugTransport creates a DebugTransport. A nil writer means stderr.
func NewDebugTransport(w io.Writer) *DebugTransport {
	if w == nil {
		w = os.Stderr
	}
	return &DebugTransport{w: w}
}

// Send prints the submission and fabricates an accepted response. Payloads
// sent with Content-Encoding set are printed as-is, without inflating.
func (t *DebugTransport) Send(ctx context.Context, url string, header http.Header, body []byte) (*Response, error) {
	fmt.Fprintf(t.w, "[SENTRY] POST %s (%d bytes)\n", url, len(body))
	if header.Get("Content-Encoding") == "" {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, body, "        ", "  "); err == nil {
			fmt.Fprintf(t.w, "        %s\n", pretty.String())
		}
	}
	return &Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       []byte(`{"id":"00000000000000000000000000000000"}`),
	}, nil
}

// Close is a no-op.
func (t *DebugTransport) Close() error {
	return nil
}
