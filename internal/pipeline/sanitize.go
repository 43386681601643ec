package pipeline

import (
	"encoding/json"
	"strings"
)

// redactionMarker replaces the value of any sensitive field before logging.
const redactionMarker = "***REDACTED***"

// sensitiveKeys are field names whose values must never reach the logs.
// Matching is case-insensitive.
var sensitiveKeys = map[string]struct{}{
	"password":   {},
	"token":      {},
	"secret":     {},
	"creditcard": {},
	"cvv":        {},
	"ssn":        {},
}

// sanitizeBody decodes a JSON payload and redacts sensitive fields at any
// nesting depth. The result is a freshly built value tree, so the raw bytes
// (and whatever they were decoded from upstream) are never modified.
//
// Non-JSON payloads are reported by size only rather than logged verbatim.
func sanitizeBody(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return map[string]any{"non_json_bytes": len(raw)}
	}
	return redactValue(v)
}

// redactValue walks the decoded JSON tree, replacing values of sensitive
// keys and recursing into nested objects and arrays otherwise unchanged.
func redactValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if _, sensitive := sensitiveKeys[strings.ToLower(k)]; sensitive {
				out[k] = redactionMarker
				continue
			}
			out[k] = redactValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = redactValue(inner)
		}
		return out
	default:
		return v
	}
}
