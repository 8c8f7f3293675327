// File: ycmdconfig/helper.go
package ycmdconfig

import (
	"maps"
	"slices"
	"strings"
)

// flattenLayer converts layer data to a flat key -> value map.
// Nested maps are descended with dot-notation until a registered key is
// reached, so map-valued settings stay intact while TOML/YAML tables
// ("ycmd.log_level" style) are flattened.
func flattenLayer(reg *Registry, data map[string]any) map[string]any {
	flat := make(map[string]any, len(data))
	flattenInto(reg, data, "", flat)
	return flat
}

func flattenInto(reg *Registry, data map[string]any, prefix string, flat map[string]any) {
	for key, value := range data {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if _, registered := reg.Lookup(path); registered {
			flat[path] = value
			continue
		}

		// Unregistered tables are descended, anything else is an unknown key
		if nested, isMap := value.(map[string]any); isMap && len(nested) > 0 {
			flattenInto(reg, nested, path, flat)
		} else {
			flat[path] = value
		}
	}
}

// setNestedValue sets a value in a nested map using a dot-notation path.
// It creates intermediate maps if they don't exist.
// If a segment exists but is not a map, it will be overwritten by a new map.
func setNestedValue(nested map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := nested

	for i := 0; i < len(segments)-1; i++ {
		segment := segments[i]
		if next, isMap := current[segment].(map[string]any); isMap {
			current = next
			continue
		}
		next := make(map[string]any)
		current[segment] = next
		current = next
	}

	current[segments[len(segments)-1]] = value
}

// asList returns the elements of a list-shaped raw value.
func asList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for n, s := range v {
			out[n] = s
		}
		return out, true
	}
	return nil, false
}

// asTable returns the entries of a map-shaped raw value.
func asTable(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

// cloneRaw deep-copies list and map raw values so merged documents never
// alias layer data.
func cloneRaw(raw any) any {
	switch v := raw.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = cloneRaw(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for n, item := range v {
			out[n] = cloneRaw(item)
		}
		return out
	case []string:
		return slices.Clone(v)
	case map[string]string:
		return maps.Clone(v)
	default:
		return raw
	}
}

// isValidKeySegment checks if a single key segment is a valid bare key part.
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}
	// Bare keys are sequences of ASCII letters, ASCII digits, underscores, and dashes (A-Za-z0-9_-).
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isUnderscore := r == '_'
		isDash := r == '-'

		if !(isLetter || isDigit || isUnderscore || isDash) {
			return false
		}
	}
	return true
}
