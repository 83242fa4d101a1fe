// Package forms validates user input locally before anything is sent to the
// backend.
package forms

import (
	"sort"
	"strings"
)

// FieldErrors maps a field name to the message shown next to it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, f := range fe.Fields() {
		parts = append(parts, f+": "+fe[f])
	}
	return strings.Join(parts, "; ")
}

// Add keeps the first message recorded for a field.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

// Fields returns the field names in sorted order.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for f := range fe {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Err returns nil when there are no errors, so callers never see a non-nil
// error holding an empty map.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
