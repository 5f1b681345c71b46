// codec.go serializes payload maps to JSON with optional gzip compression.

package sentry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/gzip"
)

// timestampLayout is the wire format for event and breadcrumb timestamps.
// Timestamps are always rendered in UTC.
const timestampLayout = "2006-01-02T15:04:05"

// encodePayload renders attrs as UTF-8 JSON, gzip-compressed when compress
// is set. Top-level map keys encode in sorted order, so the same attribute
// map always produces the same bytes. Compression uses a fixed level; the
// caller is responsible for the matching Content-Encoding header.
func encodePayload(attrs map[string]any, compress bool) ([]byte, error) {
	body, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("sentry: encode payload: %w", err)
	}
	if !compress {
		return body, nil
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("sentry: compress payload: %w", err)
	}
	if _, err := zw.Write(body); err != nil {
		zw.Close()
		return nil, fmt.Errorf("sentry: compress payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("sentry: compress payload: %w", err)
	}
	return buf.Bytes(), nil
}
