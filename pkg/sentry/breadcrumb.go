// breadcrumb.go defines breadcrumbs and the bounded trail that collects them.

package sentry

import (
	"sync"
	"time"
)

// Breadcrumb is one timestamped trail entry describing an action leading up
// to an event. The order of breadcrumbs on an Event is caller-supplied and
// preserved verbatim on the wire.
type Breadcrumb struct {
	// Message is the human-readable description.
	Message string

	// Category groups related breadcrumbs (e.g. "http", "db").
	Category string

	// Data holds structured key-value detail.
	Data map[string]string

	// Level is the severity; the wire default is info when unset.
	Level Severity

	// Type distinguishes breadcrumb renderings (e.g. "navigation").
	Type string

	// Timestamp is when the action happened. Required on the wire;
	// Trail.Add fills it in when left zero.
	Timestamp time.Time
}

// wire returns the breadcrumb's wire object. Optional fields are omitted
// when unset; the level defaults to info.
func (b Breadcrumb) wire() map[string]any {
	obj := map[string]any{
		"timestamp": b.Timestamp.UTC().Format(timestampLayout),
	}

	level := b.Level
	if level == "" {
		level = SeverityInfo
	}
	obj["level"] = string(level)

	if b.Message != "" {
		obj["message"] = b.Message
	}
	if b.Category != "" {
		obj["category"] = b.Category
	}
	if b.Type != "" {
		obj["type"] = b.Type
	}
	if len(b.Data) > 0 {
		obj["data"] = b.Data
	}
	return obj
}

// Trail is a bounded, concurrency-safe breadcrumb buffer. Once full, adding
// a breadcrumb evicts the oldest one. Attach a snapshot to an event with
// All:
//
//	event.Breadcrumbs = trail.All()
//
// The trail is caller-owned; the client never reads or writes it on its own.
type Trail struct {
	mu       sync.Mutex
	crumbs   []Breadcrumb
	maxSize  int
	writeIdx int
}

// DefaultTrailSize is the capacity used when NewTrail is given a
// non-positive one.
const DefaultTrailSize = 100

// NewTrail creates a Trail holding at most capacity breadcrumbs.
func NewTrail(capacity int) *Trail {
	if capacity <= 0 {
		capacity = DefaultTrailSize
	}
	return &Trail{maxSize: capacity}
}

// Add appends a breadcrumb, evicting the oldest when the trail is full.
// A zero timestamp is replaced with the current time.
func (t *Trail) Add(crumb Breadcrumb) {
	if crumb.Timestamp.IsZero() {
		crumb.Timestamp = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.crumbs) < t.maxSize {
		t.crumbs = append(t.crumbs, crumb)
		return
	}
	t.crumbs[t.writeIdx] = crumb
	t.writeIdx = (t.writeIdx + 1) % t.maxSize
}

// All returns a copy of the breadcrumbs in chronological order (oldest
// first).
func (t *Trail) All() []Breadcrumb {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.crumbs) == 0 {
		return nil
	}

	result := make([]Breadcrumb, len(t.crumbs))
	if len(t.crumbs) < t.maxSize {
		copy(result, t.crumbs)
		return result
	}

	// Full buffer: writeIdx points at the oldest breadcrumb.
	copy(result, t.crumbs[t.writeIdx:])
	copy(result[len(t.crumbs)-t.writeIdx:], t.crumbs[:t.writeIdx])
	return result
}

// Len returns the number of breadcrumbs currently held.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.crumbs)
}

// Clear empties the trail.
func (t *Trail) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.crumbs = t.crumbs[:0]
	t.writeIdx = 0
}
