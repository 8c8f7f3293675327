// FILE: ycmdconfig/merge.go
package ycmdconfig

import (
	"fmt"
	"maps"
	"slices"
)

// MergedDocument is the single raw document produced by merging layers.
// It is built fresh for every resolution pass.
type MergedDocument struct {
	// Values maps registered keys to merged raw values. Keys no layer
	// defines are absent.
	Values map[string]any
	// Origins maps each key in Values to the highest-precedence layer that
	// contributed to it.
	Origins map[string]string
	// Issues holds unknown keys and per-layer shape mismatches.
	Issues Issues
	// Exhausted holds allow-list keys whose every item was removed by the
	// paired deny list. Such a list allows nothing.
	Exhausted map[string]bool
}

// Merge combines layers, lowest precedence first, into one document using
// each key's merge strategy. Iteration order depends only on the layer
// order and sorted keys, so the result is reproducible.
func Merge(reg *Registry, layers ...*RawLayer) (*MergedDocument, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}

	flats := make([]map[string]any, len(layers))
	for n, layer := range layers {
		if layer == nil {
			return nil, newStructuralError(fmt.Sprintf("#%d", n), "", "layer is nil")
		}
		flats[n] = flattenLayer(reg, layer.Data)
	}

	doc := &MergedDocument{
		Values:    make(map[string]any),
		Origins:   make(map[string]string),
		Exhausted: make(map[string]bool),
	}

	// Unknown keys are reported per layer, never dropped silently
	for n, layer := range layers {
		for _, key := range slices.Sorted(maps.Keys(flats[n])) {
			if _, ok := reg.Lookup(key); !ok {
				doc.Issues = append(doc.Issues, Issue{
					Key:    key,
					Code:   IssueUnknownKey,
					Reason: "not a recognized setting, ignored",
					Layer:  layer.Name,
				})
			}
		}
	}

	for _, entry := range reg.entries {
		switch entry.Merge {
		case MergeListUnion:
			doc.mergeList(entry, layers, flats)
		case MergeMapUnion:
			doc.mergeMap(entry, layers, flats)
		default:
			doc.mergeReplace(entry, layers, flats)
		}
	}

	doc.applyDenies(reg)
	return doc, nil
}

// mergeReplace keeps the value of the highest-precedence layer.
func (d *MergedDocument) mergeReplace(entry SchemaEntry, layers []*RawLayer, flats []map[string]any) {
	for n := len(layers) - 1; n >= 0; n-- {
		if raw, ok := flats[n][entry.Key]; ok {
			d.Values[entry.Key] = cloneRaw(raw)
			d.Origins[entry.Key] = layers[n].Name
			return
		}
	}
}

// mergeList appends each layer's items after the lower layers' items,
// keeping the first occurrence of every string.
func (d *MergedDocument) mergeList(entry SchemaEntry, layers []*RawLayer, flats []map[string]any) {
	var (
		merged  []any
		seen    = make(map[string]bool)
		present bool
	)

	for n, layer := range layers {
		raw, ok := flats[n][entry.Key]
		if !ok {
			continue
		}
		items, isList := asList(raw)
		if !isList {
			d.Issues = append(d.Issues, shapeIssue(entry, layer, raw))
			continue
		}

		present = true
		d.Origins[entry.Key] = layer.Name
		for _, item := range items {
			if s, isString := item.(string); isString {
				if seen[s] {
					continue
				}
				seen[s] = true
			}
			// Non-string items are kept so the resolver can reject them
			merged = append(merged, cloneRaw(item))
		}
	}

	if present {
		if merged == nil {
			merged = []any{}
		}
		d.Values[entry.Key] = merged
	}
}

// mergeMap unions entries key by key, higher layers winning collisions.
func (d *MergedDocument) mergeMap(entry SchemaEntry, layers []*RawLayer, flats []map[string]any) {
	var merged map[string]any

	for n, layer := range layers {
		raw, ok := flats[n][entry.Key]
		if !ok {
			continue
		}
		table, isTable := asTable(raw)
		if !isTable {
			d.Issues = append(d.Issues, shapeIssue(entry, layer, raw))
			continue
		}

		if merged == nil {
			merged = make(map[string]any, len(table))
		}
		d.Origins[entry.Key] = layer.Name
		for _, sub := range slices.Sorted(maps.Keys(table)) {
			merged[sub] = cloneRaw(table[sub])
		}
	}

	if merged != nil {
		d.Values[entry.Key] = merged
	}
}

// applyDenies removes every deny-list item from its allow list. A deny
// item from any layer wins over allow items from every layer.
func (d *MergedDocument) applyDenies(reg *Registry) {
	for _, entry := range reg.entries {
		if entry.DenyKey == "" {
			continue
		}

		denyItems, _ := asList(d.Values[entry.DenyKey])
		denied := make(map[string]bool, len(denyItems))
		for _, item := range denyItems {
			if s, isString := item.(string); isString {
				denied[s] = true
			}
		}
		if len(denied) == 0 {
			continue
		}

		allowRaw, present := d.Values[entry.Key]
		if !present {
			def, _ := reg.Default(entry.Key)
			if len(def.list) == 0 {
				continue
			}
			allowRaw = def.List()
		}

		allowItems, _ := asList(allowRaw)
		kept := make([]any, 0, len(allowItems))
		for _, item := range allowItems {
			if s, isString := item.(string); isString && denied[s] {
				continue
			}
			kept = append(kept, item)
		}
		d.Values[entry.Key] = kept
		if len(kept) == 0 && len(allowItems) > 0 {
			d.Exhausted[entry.Key] = true
		}
	}
}

func shapeIssue(entry SchemaEntry, layer *RawLayer, raw any) Issue {
	return Issue{
		Key:    entry.Key,
		Code:   IssueTypeMismatch,
		Reason: fmt.Sprintf("expected %s, got %s; layer value ignored", entry.Kind, describeRaw(raw)),
		Layer:  layer.Name,
	}
}
