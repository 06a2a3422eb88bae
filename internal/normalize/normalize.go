// Package normalize recovers structured payloads from free-text model output.
//
// Generative models wrap answers in prose and markdown fences, truncate
// mid-fragment, and drift from requested schemas. Every function here is
// total: recovery failure resolves to a caller-supplied default, never an
// error. The boundary layer must be able to degrade to a usable placeholder
// instead of a 500.
package normalize

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/gowebpki/jcs"
	"github.com/kaptinlin/jsonschema"
)

// StripFence removes a surrounding markdown code fence from text, if present.
// The opening fence may be indented and may carry a language tag; the closing
// fence may be absent (truncated output). Already-clean text passes through
// unchanged.
func StripFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	// Drop the opening fence line (``` plus optional language tag).
	lines = lines[1:]

	// Drop the closing fence if the last non-empty line is exactly a fence.
	for i := len(lines) - 1; i >= 0; i-- {
		last := strings.TrimSpace(lines[i])
		if last == "" {
			continue
		}
		if last == "```" {
			lines = lines[:i]
		}
		break
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// JSON recovers a JSON object from model output, tolerating a markdown fence
// around it. On any failure (empty input, unparsable text, non-object top
// level) it returns def unchanged: object-level replacement, no field merging.
// Callers that want per-field defaults should use Into with a prefilled struct.
//
// JSON is deterministic and idempotent on already-clean JSON text.
func JSON(text string, def map[string]any) map[string]any {
	body := StripFence(text)
	if body == "" {
		return def
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return def
	}
	if parsed == nil {
		return def
	}
	return parsed
}

// JSONSchema recovers a JSON object like JSON, then gates it against schema.
// A parsed object that does not conform counts as a failure and yields def.
// A nil schema disables the gate.
func JSONSchema(text string, def map[string]any, schema *jsonschema.Schema) map[string]any {
	body := StripFence(text)
	if body == "" {
		return def
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return def
	}
	if parsed == nil {
		return def
	}

	if schema != nil {
		result := schema.ValidateJSON([]byte(body))
		if !result.IsValid() {
			return def
		}
	}
	return parsed
}

// Into unmarshals model output over a caller-prefilled struct, so keys the
// model omitted keep their default values (field-level merge). v must be a
// non-nil pointer. Returns whether a parse happened; on failure v is left
// exactly as it was, never partially overwritten.
func Into(text string, v any) bool {
	body := StripFence(text)
	if body == "" {
		return false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false
	}

	// Unmarshal into a copy carrying the caller's defaults; commit only on
	// success so a mid-decode error cannot leave v half-written.
	tmp := reflect.New(rv.Elem().Type())
	tmp.Elem().Set(rv.Elem())
	if err := json.Unmarshal([]byte(body), tmp.Interface()); err != nil {
		return false
	}
	rv.Elem().Set(tmp.Elem())
	return true
}

// Fragment extracts the substring spanning the first occurrence of open and
// the last occurrence of close (inclusive). Prose before and after the
// fragment is discarded. If either marker is missing, or close ends before
// open starts (truncated or malformed output), fallback is invoked instead.
func Fragment(text, open, close string, fallback func() string) string {
	start := strings.Index(text, open)
	end := strings.LastIndex(text, close)
	if start < 0 || end < 0 || end < start {
		return fallback()
	}
	return text[start : end+len(close)]
}

// Canonical returns the RFC 8785 (JCS) canonical JSON encoding of v. Useful
// for byte-stable persistence and digests of recovered values.
func Canonical(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jcs.Transform(raw)
}
