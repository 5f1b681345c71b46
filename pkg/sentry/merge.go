// merge.go folds layered attribute sources into one payload map.

package sentry

import "maps"

// mergeAttributes folds the overlays left to right with shallow key
// overwrite: a later overlay's key replaces an earlier one's value
// entirely. Nested maps are never merged field by field, so a per-event
// user object fully displaces the ambient one instead of producing a
// hybrid identity. Nil overlays are skipped.
func mergeAttributes(overlays ...map[string]any) map[string]any {
	merged := make(map[string]any)
	for _, overlay := range overlays {
		maps.Copy(merged, overlay)
	}
	return merged
}

// protocolAttributes returns the fixed lowest-precedence overlay carried by
// every payload.
func protocolAttributes() map[string]any {
	return map[string]any{
		"platform": platformName,
		"sdk": map[string]string{
			"name":    sdkName,
			"version": sdkVersion,
		},
	}
}
