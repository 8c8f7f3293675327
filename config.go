// FILE: ycmdconfig/config.go
package ycmdconfig

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/zeebo/blake3"
)

// Resolved is the typed output of one resolution pass: every registered key
// has exactly one valid value. It is never mutated after construction and is
// safe to share between goroutines.
type Resolved struct {
	registry    *Registry
	values      map[string]Value
	derived     map[string]bool
	exhausted   map[string]bool
	issues      Issues
	settings    Settings
	settingsErr error
	canonical   []byte
	digest      [32]byte
}

func newResolved(reg *Registry, values map[string]Value, derived, exhausted map[string]bool, issues Issues) *Resolved {
	r := &Resolved{
		registry:  reg,
		values:    values,
		derived:   derived,
		exhausted: exhausted,
		issues:    slices.Clip(issues),
	}

	plain := make(map[string]any, len(values))
	for key, v := range values {
		plain[key] = v.Interface()
	}
	// Map keys are sorted by encoding/json, so the document is canonical
	r.canonical, _ = json.Marshal(plain)

	// An exhausted list and an unset list share the value [], so the
	// exhausted keys are hashed too
	h := blake3.New()
	_, _ = h.Write(r.canonical)
	for _, key := range slices.Sorted(maps.Keys(exhausted)) {
		_, _ = h.Write([]byte("\x00exhausted:" + key))
	}
	copy(r.digest[:], h.Sum(nil))

	// Every value already matches its kind, so decoding cannot fail for the
	// built-in keys. A custom registry may reuse a built-in key name with
	// another kind.
	if err := decodeInto(plain, &r.settings); err != nil {
		r.settings = Settings{}
		r.settingsErr = fmt.Errorf("settings view unavailable: %w", err)
	}
	return r
}

// Registry returns the registry the configuration was resolved against.
func (r *Resolved) Registry() *Registry { return r.registry }

// Get returns the value of key. The boolean is false for unregistered keys.
func (r *Resolved) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns every key in registry order.
func (r *Resolved) Keys() []string { return r.registry.Keys() }

// Issues returns the issues collected while resolving.
func (r *Resolved) Issues() Issues { return slices.Clone(r.issues) }

// Exhausted reports whether every item of the allow list key was removed by
// its deny list. An exhausted list allows nothing, while an empty list that no
// deny list touched places no restriction.
func (r *Resolved) Exhausted(key string) bool { return r.exhausted[key] }

// SettingsErr reports why Settings is zero, or nil when the view decoded.
func (r *Resolved) SettingsErr() error { return r.settingsErr }

// IsDerived reports whether key holds a value computed by a derived-default
// heuristic rather than one taken from a layer or the schema default.
func (r *Resolved) IsDerived(key string) bool { return r.derived[key] }

// Settings returns the typed view of the built-in keys. The view is zero
// when SettingsErr is non-nil.
func (r *Resolved) Settings() Settings {
	s := r.settings
	s.LanguageWhitelist = slices.Clone(s.LanguageWhitelist)
	s.LanguageBlacklist = slices.Clone(s.LanguageBlacklist)
	s.LanguageFiletype = maps.Clone(s.LanguageFiletype)
	return s
}

// AsMap returns the plain Go representation of every value.
func (r *Resolved) AsMap() map[string]any {
	out := make(map[string]any, len(r.values))
	for key, v := range r.values {
		out[key] = v.Interface()
	}
	return out
}

// MarshalJSON returns the canonical JSON document: keys sorted, lists and
// maps in resolved order.
func (r *Resolved) MarshalJSON() ([]byte, error) {
	return slices.Clone(r.canonical), nil
}

// Digest returns the hex BLAKE3 digest of the canonical JSON document and
// the exhausted allow lists. Equal digests mean equal configurations.
func (r *Resolved) Digest() string {
	return hex.EncodeToString(r.digest[:])
}

// Diff returns the keys whose values differ between two configurations, in
// registry order of r. A nil other differs on every key.
func (r *Resolved) Diff(other *Resolved) []string {
	var changed []string
	for _, key := range r.Keys() {
		if other == nil {
			changed = append(changed, key)
			continue
		}
		ov, ok := other.values[key]
		if !ok || !ov.Equal(r.values[key]) || other.exhausted[key] != r.exhausted[key] {
			changed = append(changed, key)
		}
	}
	return changed
}

// RequiresServerRestart reports whether moving from old to new changes a key
// that is only read when a completion server starts.
func RequiresServerRestart(old, new *Resolved) bool {
	return groupChanged(old, new, GroupServer, GroupLogging)
}

// RequiresPoolRestart reports whether moving from old to new resizes the
// background worker pool.
func RequiresPoolRestart(old, new *Resolved) bool {
	return groupChanged(old, new, GroupPool)
}

func groupChanged(old, new *Resolved, groups ...Group) bool {
	if old == nil || new == nil {
		return old != new
	}
	for _, key := range new.Diff(old) {
		entry, ok := new.registry.Lookup(key)
		if ok && slices.Contains(groups, entry.Group) {
			return true
		}
	}
	return false
}
