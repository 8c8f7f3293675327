// FILE: ycmdconfig/layer.go
package ycmdconfig

import (
	"fmt"
	"slices"
)

// Tier is the fixed precedence rank of a layer. Higher tiers override lower ones.
type Tier uint8

const (
	// TierDefaults holds the packaged default settings file.
	TierDefaults Tier = iota
	// TierUser holds the user's global settings.
	TierUser
	// TierProject holds project-level overrides.
	TierProject
	// TierSyntax holds per-syntax overrides.
	TierSyntax
	// TierEnv holds environment variable overrides.
	TierEnv
	// TierOverride holds command-line overrides.
	TierOverride
)

// String returns the conventional layer name for the tier.
func (t Tier) String() string {
	switch t {
	case TierDefaults:
		return "defaults"
	case TierUser:
		return "user"
	case TierProject:
		return "project"
	case TierSyntax:
		return "syntax"
	case TierEnv:
		return "env"
	case TierOverride:
		return "override"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}

// RawLayer is one source of untyped settings as authored by a human or tool.
// The engine treats Data as read-only.
type RawLayer struct {
	// Name identifies the layer in issues (e.g. "user", "project", "syntax:python").
	Name string
	// Tier is the precedence rank used when layers are sorted.
	Tier Tier
	// Path is the file the layer was loaded from, empty for in-memory layers.
	Path string
	// Data maps keys to raw values.
	Data map[string]any
}

// NewLayer creates an in-memory layer. An empty name defaults to the tier name.
func NewLayer(name string, tier Tier, data map[string]any) *RawLayer {
	if name == "" {
		name = tier.String()
	}
	if data == nil {
		data = make(map[string]any)
	}
	return &RawLayer{Name: name, Tier: tier, Data: data}
}

// LayerFromValue wraps an already-decoded document. Anything other than a
// mapping is a StructuralError.
func LayerFromValue(name string, tier Tier, doc any) (*RawLayer, error) {
	if name == "" {
		name = tier.String()
	}
	switch v := doc.(type) {
	case nil:
		return NewLayer(name, tier, nil), nil
	case map[string]any:
		return NewLayer(name, tier, v), nil
	default:
		return nil, newStructuralError(name, "", "document must be a mapping, got %T", doc)
	}
}

// Keys returns the layer's top-level keys, sorted.
func (l *RawLayer) Keys() []string {
	keys := make([]string, 0, len(l.Data))
	for k := range l.Data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone creates a deep copy of the layer.
func (l *RawLayer) Clone() *RawLayer {
	data, _ := cloneRaw(l.Data).(map[string]any)
	return &RawLayer{Name: l.Name, Tier: l.Tier, Path: l.Path, Data: data}
}

// SortLayers orders layers by tier, lowest precedence first. Layers within
// the same tier keep their relative order.
func SortLayers(layers []*RawLayer) {
	slices.SortStableFunc(layers, func(a, b *RawLayer) int {
		return int(a.Tier) - int(b.Tier)
	})
}
