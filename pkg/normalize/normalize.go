// Package normalize converts optionally-stringified fields of an insight
// payload into their structured form. Depending on which analysis chain
// produced a field, the value may arrive as a parsed object or as a
// JSON-encoded string of that object; the two shapes can mix freely
// within one payload and across requests.
package normalize

import "encoding/json"

// StringifiedFields are the payload keys that may carry JSON-encoded
// strings instead of structured values. Each is independently one shape
// or the other.
var StringifiedFields = []string{
	"case_priority_level",
	"sentiment",
	"dialogue_history",
}

// Value applies the parse-or-pass-through policy to a single field value:
//
//   - non-strings pass through unchanged
//   - strings that parse as JSON are replaced by the parsed structure
//   - strings that do not parse are returned untouched, never an error
//
// A JSON string whose parse yields another string (e.g. `"\"High\""`) is
// also passed through unchanged; replacing it would make a second
// normalization pass observe a different value, breaking idempotence.
func Value(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return v
	}
	if _, isString := parsed.(string); isString {
		return v
	}
	return parsed
}

// Payload normalizes the known stringified fields of a decoded payload in
// place and returns it. Fields that are absent are skipped; applying
// Payload to an already-normalized map is a no-op.
func Payload(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	for _, key := range StringifiedFields {
		if v, ok := m[key]; ok {
			m[key] = Value(v)
		}
	}
	return m
}
