// auth.go builds the X-Sentry-Auth header for event submission.

package sentry

import (
	"fmt"
	"time"
)

// authHeader renders the X-Sentry-Auth value for one submission. The
// timestamp is the same clock reading stamped into the event body, encoded
// here as epoch milliseconds. The secret clause appears only when the DSN
// carries a secret key; the endpoint URL itself never carries either key.
func authHeader(ts time.Time, publicKey, secretKey string) string {
	header := fmt.Sprintf(
		"Sentry sentry_version=%s, sentry_client=%s, sentry_timestamp=%d, sentry_key=%s",
		protocolVersion, userAgent, ts.UnixMilli(), publicKey,
	)
	if secretKey != "" {
		header += ", sentry_secret=" + secretKey
	}
	return header
}
