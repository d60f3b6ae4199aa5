// Package noteid generates sortable, timestamp-derived note identifiers.
package noteid

import "time"

// layout yields ids like "20250115093042": fixed width, lexicographically
// sortable, unique at one-second resolution. Two notes created within the
// same second collide; that is a known limitation, not handled here.
const layout = "20060102150405"

// New returns the identifier for a note created at t.
func New(t time.Time) string {
	return t.Format(layout)
}

// Time parses an identifier back into its creation time.
// Returns the zero time for malformed ids.
func Time(id string) time.Time {
	t, err := time.Parse(layout, id)
	if err != nil {
		return time.Time{}
	}
	return t
}
