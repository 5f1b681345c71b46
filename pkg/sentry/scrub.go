// scrub.go implements sensitive data redaction applied before submission.

package sentry

import (
	"regexp"
	"strings"
)

// ScrubConfig controls scrubbing behavior.
type ScrubConfig struct {
	// SensitiveKeys contains additional substrings (matched case-insensitively)
	// that mark a tag, extra, or breadcrumb data key as sensitive.
	SensitiveKeys []string

	// MaxMessageSize is the maximum length for messages (default: 4096).
	MaxMessageSize int

	// ScrubMessages enables pattern-based redaction of message text (default: true).
	ScrubMessages bool

	// NormalizePaths rewrites user-specific directories in stack traces (default: true).
	NormalizePaths bool
}

// DefaultScrubConfig returns production-safe defaults.
func DefaultScrubConfig() ScrubConfig {
	return ScrubConfig{
		MaxMessageSize: 4096,
		ScrubMessages:  true,
		NormalizePaths: true,
	}
}

// Compiled patterns for message scrubbing (compiled once at package init)
var messageScrubPatterns = []*regexp.Regexp{
	// API keys and tokens
	regexp.MustCompile(`(?i)(api[_-]?key|token)[=:\s]+['"]?[\w\-\.]+['"]?`),
	regexp.MustCompile(`(?i)(authorization|bearer)[=:\s]+['"]?[\w\-\.]+['"]?[\s]+['"]?[\w\-\.]+['"]?`), // Authorization: Bearer <token>
	regexp.MustCompile(`(?i)sk-[a-zA-Z0-9_-]{20,}`),                               // OpenAI-style keys
	regexp.MustCompile(`(?i)ghp_[a-zA-Z0-9]{36}`),                                 // GitHub tokens
	regexp.MustCompile(`(?i)xox[baprs]-[a-zA-Z0-9\-]{10,}`),                       // Slack tokens
	regexp.MustCompile(`(?i)eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`), // JWT

	// Credentials
	regexp.MustCompile(`(?i)password[=:\s]+['"]?[^\s'",]+['"]?`),
	regexp.MustCompile(`(?i)secret[=:\s]+['"]?[^\s'",]+['"]?`),
	regexp.MustCompile(`(?i)passwd[=:\s]+['"]?[^\s'",]+['"]?`),
	regexp.MustCompile(`(?i)credential[=:\s]+['"]?[^\s'",]+['"]?`),

	// PII
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`), // email
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),                               // SSN
	regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),          // credit card
}

// Sensitive key substrings (case-insensitive match)
var sensitiveKeyPatterns = []string{
	"token",
	"key",
	"secret",
	"password",
	"credential",
	"auth",
	"passwd",
}

// Path patterns normalized in stack traces
var pathNormalizationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/home/[^/]+/`),
	regexp.MustCompile(`/Users/[^/]+/`),
	regexp.MustCompile(`C:\\Users\\[^\\]+\\`),
	regexp.MustCompile(`/tmp/[^/]+/`),
}

var memAddrPattern = regexp.MustCompile(`0x[0-9a-fA-F]+`)

// Scrubber redacts sensitive data from events before anything leaves the
// process. Scrubbing is off unless configured on the client; when enabled it
// runs on every capture, after BeforeSend and before serialization.
type Scrubber struct {
	cfg ScrubConfig
}

// NewScrubber creates a Scrubber with the given configuration.
func NewScrubber(cfg ScrubConfig) *Scrubber {
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 4096
	}
	return &Scrubber{cfg: cfg}
}

// ScrubMessage redacts sensitive patterns from free-text and truncates
// overlong input.
func (s *Scrubber) ScrubMessage(msg string) string {
	if msg == "" {
		return msg
	}
	if len(msg) > s.cfg.MaxMessageSize {
		msg = truncateWithMarker(msg, s.cfg.MaxMessageSize)
	}
	if !s.cfg.ScrubMessages {
		return msg
	}
	for _, pattern := range messageScrubPatterns {
		msg = pattern.ReplaceAllString(msg, "[REDACTED]")
	}
	return msg
}

// ScrubTags redacts values whose keys look sensitive. Returns a new map;
// the input is never mutated.
func (s *Scrubber) ScrubTags(tags map[string]string) map[string]string {
	if tags == nil {
		return nil
	}
	result := make(map[string]string, len(tags))
	for key, value := range tags {
		if s.isSensitiveKey(key) {
			result[key] = "[REDACTED]"
		} else {
			result[key] = s.ScrubMessage(value)
		}
	}
	return result
}

// ScrubExtra recursively redacts extra values: sensitive keys are replaced
// wholesale, and string leaves pass through message scrubbing. Returns a
// new map; the input is never mutated.
func (s *Scrubber) ScrubExtra(extra map[string]any) map[string]any {
	if extra == nil {
		return nil
	}
	result := make(map[string]any, len(extra))
	for key, value := range extra {
		if s.isSensitiveKey(key) {
			result[key] = "[REDACTED]"
		} else {
			result[key] = s.scrubValue(value)
		}
	}
	return result
}

// scrubValue walks nested maps, slices, and string leaves. Numbers,
// booleans, and other leaves pass through.
func (s *Scrubber) scrubValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return s.ScrubExtra(v)
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = s.scrubValue(item)
		}
		return result
	case string:
		return s.ScrubMessage(v)
	default:
		return v
	}
}

// ScrubBreadcrumbs redacts breadcrumb messages and data values. Returns a
// new slice; the input is never mutated.
func (s *Scrubber) ScrubBreadcrumbs(crumbs []Breadcrumb) []Breadcrumb {
	if crumbs == nil {
		return nil
	}
	result := make([]Breadcrumb, len(crumbs))
	for i, crumb := range crumbs {
		crumb.Message = s.ScrubMessage(crumb.Message)
		crumb.Data = s.ScrubTags(crumb.Data)
		result[i] = crumb
	}
	return result
}

// ScrubStacktrace normalizes user-specific paths and memory addresses in a
// preformatted text trace.
func (s *Scrubber) ScrubStacktrace(trace string) string {
	if trace == "" || !s.cfg.NormalizePaths {
		return trace
	}
	for _, pattern := range pathNormalizationPatterns {
		trace = pattern.ReplaceAllString(trace, "/[PATH]/")
	}
	return memAddrPattern.ReplaceAllString(trace, "0x...")
}

// ScrubFrames normalizes user-specific paths in structured frames. Returns
// a new slice; the input is never mutated.
func (s *Scrubber) ScrubFrames(frames []Frame) []Frame {
	if frames == nil || !s.cfg.NormalizePaths {
		return frames
	}
	result := make([]Frame, len(frames))
	for i, frame := range frames {
		for _, pattern := range pathNormalizationPatterns {
			frame.Filename = pattern.ReplaceAllString(frame.Filename, "/[PATH]/")
		}
		result[i] = frame
	}
	return result
}

// isSensitiveKey reports whether a key matches the built-in or configured
// sensitive substrings.
func (s *Scrubber) isSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	for _, pattern := range s.cfg.SensitiveKeys {
		if strings.Contains(keyLower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// truncateWithMarker truncates a string and appends a truncation marker.
func truncateWithMarker(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	marker := "...[TRUNCATED]"
	if maxLen <= len(marker) {
		return marker[:maxLen]
	}
	return s[:maxLen-len(marker)] + marker
}
