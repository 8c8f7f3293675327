// FILE: ycmdconfig/resolve.go
package ycmdconfig

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"runtime"
	"slices"
)

// CPUProbe reports the number of usable CPU cores.
type CPUProbe func() int

// ResolveOptions configures the resolver.
type ResolveOptions struct {
	// CPUProbe is consulted by derived defaults. Nil uses runtime.NumCPU.
	CPUProbe CPUProbe
}

// cpuCount returns the probed core count, never less than 1.
func (o ResolveOptions) cpuCount() int {
	probe := o.CPUProbe
	if probe == nil {
		probe = runtime.NumCPU
	}
	return max(1, probe())
}

// Engine runs resolution passes against one registry.
type Engine struct {
	registry *Registry
	opts     ResolveOptions
}

// NewEngine creates an engine. A nil registry uses DefaultRegistry.
func NewEngine(reg *Registry, opts ResolveOptions) *Engine {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Engine{registry: reg, opts: opts}
}

// Registry returns the engine's registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Resolve performs one full pass: merge the layers (lowest precedence
// first), then validate. The only error is a *StructuralError; every other
// problem is reported in the returned issues.
func (e *Engine) Resolve(layers ...*RawLayer) (*Resolved, Issues, error) {
	doc, err := Merge(e.registry, layers...)
	if err != nil {
		return nil, nil, err
	}
	cfg, issues := Resolve(e.registry, doc, e.opts)
	return cfg, issues, nil
}

// ResolveLayers resolves layers against the default registry.
func ResolveLayers(layers ...*RawLayer) (*Resolved, Issues, error) {
	return NewEngine(nil, ResolveOptions{}).Resolve(layers...)
}

// Resolve validates a merged document against the registry. Every key is
// visited; a key that fails coercion or validation falls back to its
// default and adds an issue. Derived defaults run afterwards, in registry
// order, on the validated (or defaulted) values.
func Resolve(reg *Registry, doc *MergedDocument, opts ResolveOptions) (*Resolved, Issues) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	if doc == nil {
		doc = &MergedDocument{}
	}

	values := make(map[string]Value, reg.Len())
	issues := slices.Clone(doc.Issues)

	for n, entry := range reg.entries {
		def := reg.defaults[n]
		raw, present := doc.Values[entry.Key]
		if !present {
			values[entry.Key] = def
			continue
		}

		v, err := coerce(entry, raw)
		if err == nil && entry.Validate != nil {
			if verr := entry.Validate(v); verr != nil {
				err = &valueError{code: IssueConstraintViolation, reason: verr.Error()}
			}
		}
		if err != nil {
			issues = append(issues, Issue{
				Key:    entry.Key,
				Code:   err.code,
				Reason: err.reason + "; using default " + def.String(),
				Layer:  doc.Origins[entry.Key],
			})
			v = def
		}
		values[entry.Key] = v
	}

	derived := make(map[string]bool)
	ctx := DeriveContext{
		CPUCount: opts.cpuCount(),
		Get:      func(key string) Value { return values[key] },
	}
	for _, entry := range reg.entries {
		if entry.Derive == nil {
			continue
		}
		if v, changed := entry.Derive(values[entry.Key], ctx); changed {
			values[entry.Key] = v
			derived[entry.Key] = true
		}
	}

	exhausted := make(map[string]bool)
	for key := range doc.Exhausted {
		if v, ok := values[key]; ok && v.Kind() == KindStringList && len(v.list) == 0 {
			exhausted[key] = true
		}
	}

	return newResolved(reg, values, derived, exhausted, issues), issues
}

// valueError is a coercion or validation failure for one value.
type valueError struct {
	code   IssueCode
	reason string
}

func (e *valueError) Error() string { return e.reason }

func (e *valueError) Unwrap() error { return Issue{Code: e.code}.Unwrap() }

func mismatch(entry SchemaEntry, raw any) *valueError {
	return &valueError{
		code:   IssueTypeMismatch,
		reason: fmt.Sprintf("expected %s, got %s", describeKind(entry), describeRaw(raw)),
	}
}

// coerce converts a raw value to the entry's kind. No implicit conversion
// between strings, numbers and booleans is performed.
func coerce(entry SchemaEntry, raw any) (Value, *valueError) {
	switch entry.Kind {
	case KindBoolean:
		if b, ok := raw.(bool); ok {
			return BoolValue(b), nil
		}

	case KindInteger:
		if i, ok := toInt64(raw); ok {
			return IntValue(i), nil
		}

	case KindString, KindNullableString:
		if raw == nil && (entry.Nullable || entry.Kind == KindNullableString) {
			return NullValue(entry.Kind), nil
		}
		if s, ok := raw.(string); ok {
			return StringValue(entry.Kind, s), nil
		}

	case KindTriState:
		switch v := raw.(type) {
		case nil:
			return TriValue(TriNull), nil
		case bool:
			if v {
				return TriValue(TriTrue), nil
			}
			return TriValue(TriFalse), nil
		case string:
			if !entry.AcceptPath {
				break
			}
			if v == "" {
				return Value{}, &valueError{code: IssueConstraintViolation, reason: "path must not be empty"}
			}
			return PathValue(v), nil
		}

	case KindEnumString:
		if raw == nil && entry.Nullable {
			return NullValue(KindEnumString), nil
		}
		if s, ok := raw.(string); ok {
			if !slices.Contains(entry.Enum, s) {
				return Value{}, &valueError{
					code:   IssueConstraintViolation,
					reason: fmt.Sprintf("%q is not one of %q", s, entry.Enum),
				}
			}
			return StringValue(KindEnumString, s), nil
		}

	case KindStringList:
		items, ok := asList(raw)
		if !ok {
			break
		}
		list := make([]string, len(items))
		for n, item := range items {
			s, isString := item.(string)
			if !isString {
				return Value{}, &valueError{
					code:   IssueTypeMismatch,
					reason: fmt.Sprintf("element %d: expected string, got %s", n, describeRaw(item)),
				}
			}
			list[n] = s
		}
		return ListValue(list), nil

	case KindStringMap:
		table, ok := asTable(raw)
		if !ok {
			break
		}
		m := make(map[string]string, len(table))
		for _, k := range sortedKeys(table) {
			s, isString := table[k].(string)
			if !isString {
				return Value{}, &valueError{
					code:   IssueTypeMismatch,
					reason: fmt.Sprintf("entry %q: expected string, got %s", k, describeRaw(table[k])),
				}
			}
			m[k] = s
		}
		return MapValue(m), nil
	}

	return Value{}, mismatch(entry, raw)
}

// toInt64 accepts integer types, json.Number integers and integral floats.
// Strings and booleans are rejected.
func toInt64(raw any) (int64, bool) {
	if n, ok := raw.(json.Number); ok {
		i, err := n.Int64()
		return i, err == nil
	}
	if raw == nil {
		return 0, false
	}

	v := reflect.ValueOf(raw)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		// Check for overflow converting uint64 to int64
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

func describeKind(entry SchemaEntry) string {
	switch entry.Kind {
	case KindTriState:
		if entry.AcceptPath {
			return "null, true, false or a path string"
		}
		return "null, true or false"
	case KindEnumString:
		if entry.Nullable {
			return fmt.Sprintf("null or one of %q", entry.Enum)
		}
		return fmt.Sprintf("one of %q", entry.Enum)
	case KindString:
		if entry.Nullable {
			return "null or string"
		}
	case KindNullableString:
		return "null or string"
	}
	return entry.Kind.String()
}

// describeRaw names the kind of a raw value for issue messages.
func describeRaw(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "null"
	case bool:
		return fmt.Sprintf("boolean %t", v)
	case string:
		return fmt.Sprintf("string %q", v)
	case json.Number:
		return "number " + v.String()
	case []any, []string:
		return "list"
	case map[string]any, map[string]string:
		return "mapping"
	}
	switch reflect.ValueOf(raw).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("number %v", raw)
	}
	return fmt.Sprintf("%T", raw)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
