package sentry

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPTransport_Send(t *testing.T) {
	var (
		gotMethod string
		gotAuth   string
		gotBody   []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("X-Sentry-Auth")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"abc123"}`))
	}))
	defer server.Close()

	transport := NewHTTPTransport()
	defer transport.Close()

	header := make(http.Header)
	header.Set("X-Sentry-Auth", "Sentry sentry_version=7")

	resp, err := transport.Send(context.Background(), server.URL, header, []byte(`{"message":"hi"}`))
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotAuth != "Sentry sentry_version=7" {
		t.Errorf("X-Sentry-Auth = %q, want the header passed through", gotAuth)
	}
	if string(gotBody) != `{"message":"hi"}` {
		t.Errorf("body = %q, want the payload passed through", gotBody)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != `{"id":"abc123"}` {
		t.Errorf("Body = %q, want the response body", resp.Body)
	}
}

func TestHTTPTransport_NonOKPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Sentry-Error", "rate limited")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	transport := NewHTTPTransport()
	defer transport.Close()

	resp, err := transport.Send(context.Background(), server.URL, nil, []byte("{}"))
	if err != nil {
		t.Fatalf("Send returned error for a non-200 response: %v", err)
	}

	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Sentry-Error"); got != "rate limited" {
		t.Errorf("X-Sentry-Error = %q, want %q", got, "rate limited")
	}
}

func TestHTTPTransport_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	transport := NewHTTPTransport()
	defer transport.Close()

	if _, err := transport.Send(context.Background(), url, nil, []byte("{}")); err == nil {
		t.Error("Send succeeded against a closed server, want error")
	}
}

func TestHTTPTransport_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so net/http's background read can observe the
		// client disconnect and cancel the request context; otherwise the
		// handler never unblocks and server.Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	transport := NewHTTPTransport()
	defer transport.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := transport.Send(ctx, server.URL, nil, []byte("{}")); err == nil {
		t.Error("Send succeeded despite a canceled context, want error")
	}
}

func TestNewHTTPTransport_WithHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: time.Second}

	transport := NewHTTPTransport(WithHTTPClient(custom))
	if transport.client != custom {
		t.Error("WithHTTPClient was not applied")
	}
}

func TestDebugTransport_Send(t *testing.T) {
	var out bytes.Buffer
	transport := NewDebugTransport(&out)
	defer transport.Close()

	header := make(http.Header)
	resp, err := transport.Send(context.Background(),
		"https://sentry.example.com/api/123/store/", header, []byte(`{"message":"boom"}`))
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		t.Fatalf("synthetic response is not valid JSON: %v", err)
	}
	if len(body.ID) != 32 {
		t.Errorf("synthetic id %q has length %d, want 32", body.ID, len(body.ID))
	}

	printed := out.String()
	if !strings.Contains(printed, "POST https://sentry.example.com/api/123/store/") {
		t.Errorf("output %q does not name the endpoint", printed)
	}
	if !strings.Contains(printed, `"message"`) {
		t.Errorf("output %q does not include the payload", printed)
	}
}

func TestDebugTransport_SkipsCompressedBodies(t *testing.T) {
	var out bytes.Buffer
	transport := NewDebugTransport(&out)

	header := make(http.Header)
	header.Set("Content-Encoding", "gzip")
	if _, err := transport.Send(context.Background(), "https://x/api/1/store/", header, []byte{0x1f, 0x8b}); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	printed := out.String()
	if !strings.Contains(printed, "POST") {
		t.Errorf("output %q is missing the summary line", printed)
	}
	if strings.Contains(printed, "\x1f") {
		t.Errorf("output %q dumps raw compressed bytes", printed)
	}
}
