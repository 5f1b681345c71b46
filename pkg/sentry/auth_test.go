package sentry

import (
	"strings"
	"testing"
	"time"
)

func TestAuthHeader_WithSecret(t *testing.T) {
	ts := time.UnixMilli(1700000000123)

	got := authHeader(ts, "pub", "sec")
	want := "Sentry sentry_version=7, sentry_client=sentry-go/1.0.0, " +
		"sentry_timestamp=1700000000123, sentry_key=pub, sentry_secret=sec"
	if got != want {
		t.Errorf("authHeader =\n%q\nwant\n%q", got, want)
	}
}

func TestAuthHeader_WithoutSecret(t *testing.T) {
	ts := time.UnixMilli(1700000000123)

	got := authHeader(ts, "pub", "")
	want := "Sentry sentry_version=7, sentry_client=sentry-go/1.0.0, " +
		"sentry_timestamp=1700000000123, sentry_key=pub"
	if got != want {
		t.Errorf("authHeader =\n%q\nwant\n%q", got, want)
	}
	if strings.Contains(got, "sentry_secret") {
		t.Error("header contains a secret clause for a DSN without a secret key")
	}
}

func TestAuthHeader_EpochMilliseconds(t *testing.T) {
	// A sub-millisecond component must not leak into the header.
	ts := time.UnixMilli(42).Add(500 * time.Microsecond)

	got := authHeader(ts, "pub", "")
	if !strings.Contains(got, "sentry_timestamp=42,") {
		t.Errorf("header = %q, want sentry_timestamp=42", got)
	}
}
