// FILE: ycmdconfig/register.go
package ycmdconfig

import (
	"fmt"
	"slices"
	"strings"
)

// NewRegistry builds a read-only registry from entries.
// Keys should be flat or dot-separated (e.g., "ycmd_keep_logs", "server.port").
// Each segment must be a valid bare key: ASCII letters, digits, '_' and '-'.
// Every default must satisfy its own kind and validator.
func NewRegistry(entries ...SchemaEntry) (*Registry, error) {
	r := &Registry{
		entries:  make([]SchemaEntry, 0, len(entries)),
		index:    make(map[string]int, len(entries)),
		defaults: make([]Value, 0, len(entries)),
		denies:   make(map[string]string),
	}

	var errors []string

	for _, entry := range entries {
		if err := validateKey(entry.Key); err != nil {
			errors = append(errors, err.Error())
			continue
		}
		if _, exists := r.index[entry.Key]; exists {
			errors = append(errors, fmt.Sprintf("duplicate key %q", entry.Key))
			continue
		}
		if entry.Kind == KindEnumString && len(entry.Enum) == 0 {
			errors = append(errors, fmt.Sprintf("key %q: enum kind requires a value set", entry.Key))
			continue
		}
		if entry.DenyKey != "" && entry.Merge != MergeListUnion {
			errors = append(errors, fmt.Sprintf("key %q: deny key requires list union merge", entry.Key))
			continue
		}

		// Defaults go through the same coercion as layer values
		def, err := coerce(entry, entry.Default)
		if err != nil {
			errors = append(errors, fmt.Sprintf("key %q: invalid default: %v", entry.Key, err))
			continue
		}
		if entry.Validate != nil {
			if err := entry.Validate(def); err != nil {
				errors = append(errors, fmt.Sprintf("key %q: default fails validation: %v", entry.Key, err))
				continue
			}
		}

		entry.Enum = slices.Clone(entry.Enum)
		r.index[entry.Key] = len(r.entries)
		r.entries = append(r.entries, entry)
		r.defaults = append(r.defaults, def)
	}

	// Deny keys can only be checked once every entry is known
	for _, entry := range r.entries {
		if entry.DenyKey == "" {
			continue
		}
		deny, ok := r.Lookup(entry.DenyKey)
		switch {
		case !ok:
			errors = append(errors, fmt.Sprintf("key %q: deny key %q not registered", entry.Key, entry.DenyKey))
		case deny.Kind != KindStringList || deny.Merge != MergeListUnion:
			errors = append(errors, fmt.Sprintf("key %q: deny key %q must be a list union string list", entry.Key, entry.DenyKey))
		default:
			r.denies[entry.DenyKey] = entry.Key
		}
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("failed to register %d entr(ies): %s", len(errors), strings.Join(errors, "; "))
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(entries ...SchemaEntry) *Registry {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(fmt.Sprintf("registry build failed: %v", err))
	}
	return r
}

// validateKey checks a flat or dotted key.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	for _, segment := range strings.Split(key, ".") {
		if !isValidKeySegment(segment) {
			return fmt.Errorf("invalid key segment %q in key %q", segment, key)
		}
	}
	return nil
}
