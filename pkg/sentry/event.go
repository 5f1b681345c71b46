// event.go defines the event value object and its wire-level attributes.

package sentry

// Severity indicates the severity level of an event, carrying the
// wire-protocol name for each level.
type Severity string

const (
	// SeverityFatal indicates an unrecoverable error such as a panic.
	SeverityFatal Severity = "fatal"

	// SeverityError indicates a recoverable error that caused an operation to fail.
	SeverityError Severity = "error"

	// SeverityWarning indicates a non-fatal issue that may need attention.
	SeverityWarning Severity = "warning"

	// SeverityInfo indicates an informational report.
	SeverityInfo Severity = "info"

	// SeverityDebug indicates diagnostic detail below informational level.
	SeverityDebug Severity = "debug"
)

// Event is a single report. Every field is optional; callers are expected
// to supply at least Message or Exception, though this is not enforced.
//
// An Event doubles as the bag of client defaults passed to WithDefaults:
// the slow-changing fields (Logger, ServerName, Release, Environment) are
// supplied once at construction and merged under every capture, with the
// captured event's own fields taking precedence key by key.
type Event struct {
	// Classification

	// Logger names the logger that recorded the event.
	Logger string

	// Level is the severity level.
	Level Severity

	// Culprit identifies the code location blamed for the event.
	Culprit string

	// Transaction names the transaction or request in which the event occurred.
	Transaction string

	// Fingerprint overrides server-side grouping when set.
	Fingerprint []string

	// Report content

	// Message is the free-text description.
	Message string

	// Exception describes the causing error, if any.
	Exception *Exception

	// Stacktrace is the normalized stack trace, if the caller already has one.
	Stacktrace *Stacktrace

	// RawStacktrace is a preformatted text trace (e.g. debug.Stack output).
	// It is parsed during capture when Stacktrace is unset; if parsing fails
	// the event is submitted without a trace.
	RawStacktrace string

	// Deployment context

	// ServerName identifies the reporting host.
	ServerName string

	// Release is the application release identifier.
	Release string

	// Environment names the deployment environment (production, staging, ...).
	Environment string

	// Attached context

	// Tags are short indexed key-value pairs.
	Tags map[string]string

	// Extra holds arbitrary JSON-serializable context values.
	Extra map[string]any

	// User overrides the client's ambient user for this event. The override
	// replaces the ambient user as a whole object, never field by field.
	User *User

	// Breadcrumbs is the trail of actions leading up to the event, in
	// caller-supplied order, preserved verbatim.
	Breadcrumbs []Breadcrumb
}

// attributes returns the event's wire-level overlay map. Unset fields are
// absent from the map entirely, and empty maps and lists are likewise
// omitted, so that merging overlays never resurrects an empty key.
// RawStacktrace is not encoded here; capture resolves it into Stacktrace
// first.
func (e *Event) attributes() map[string]any {
	attrs := make(map[string]any)

	if e.Logger != "" {
		attrs["logger"] = e.Logger
	}
	if e.Level != "" {
		attrs["level"] = string(e.Level)
	}
	if e.Culprit != "" {
		attrs["culprit"] = e.Culprit
	}
	if e.Transaction != "" {
		attrs["transaction"] = e.Transaction
	}
	if len(e.Fingerprint) > 0 {
		attrs["fingerprint"] = e.Fingerprint
	}
	if e.Message != "" {
		attrs["message"] = e.Message
	}
	if e.Exception != nil {
		attrs["exception"] = []*Exception{e.Exception}
	}
	if e.Stacktrace != nil && len(e.Stacktrace.Frames) > 0 {
		attrs["stacktrace"] = e.Stacktrace
	}
	if e.ServerName != "" {
		attrs["server_name"] = e.ServerName
	}
	if e.Release != "" {
		attrs["release"] = e.Release
	}
	if e.Environment != "" {
		attrs["environment"] = e.Environment
	}
	if len(e.Tags) > 0 {
		attrs["tags"] = e.Tags
	}
	if len(e.Extra) > 0 {
		attrs["extra"] = e.Extra
	}
	if e.User != nil {
		attrs["user"] = e.User.wire()
	}
	if len(e.Breadcrumbs) > 0 {
		values := make([]map[string]any, len(e.Breadcrumbs))
		for i, crumb := range e.Breadcrumbs {
			values[i] = crumb.wire()
		}
		attrs["breadcrumbs"] = map[string]any{"values": values}
	}

	return attrs
}
