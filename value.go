// FILE: ycmdconfig/value.go
package ycmdconfig

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
)

// Value is a resolved, typed setting. It is a tagged union over the schema
// kinds; accessors for a kind other than the value's own return zero values.
type Value struct {
	kind  Kind
	null  bool
	b     bool
	i     int64
	s     string
	tri   TriState
	path  bool // TriState carrying a string path
	list  []string
	table map[string]string
}

// NullValue returns the null value of kind.
func NullValue(kind Kind) Value { return Value{kind: kind, null: true} }

// BoolValue returns a Boolean value.
func BoolValue(b bool) Value { return Value{kind: KindBoolean, b: b} }

// IntValue returns an Integer value.
func IntValue(i int64) Value { return Value{kind: KindInteger, i: i} }

// StringValue returns a value of a string kind (String, NullableString or EnumString).
func StringValue(kind Kind, s string) Value { return Value{kind: kind, s: s} }

// TriValue returns a TriState value.
func TriValue(t TriState) Value {
	return Value{kind: KindTriState, tri: t, null: t == TriNull}
}

// PathValue returns a TriState value that carries a string instead of a flag.
func PathValue(p string) Value { return Value{kind: KindTriState, path: true, s: p} }

// ListValue returns a StringList value holding a copy of items.
func ListValue(items []string) Value {
	return Value{kind: KindStringList, list: append([]string{}, items...)}
}

// MapValue returns a StringToStringMap value holding a copy of m.
func MapValue(m map[string]string) Value {
	t := make(map[string]string, len(m))
	maps.Copy(t, m)
	return Value{kind: KindStringMap, table: t}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.null }

// Bool returns the Boolean payload.
func (v Value) Bool() bool { return v.b }

// Int returns the Integer payload.
func (v Value) Int() int64 { return v.i }

// Str returns the string payload of string kinds and of path-carrying TriStates.
func (v Value) Str() string { return v.s }

// Tri returns the TriState payload.
func (v Value) Tri() TriState { return v.tri }

// IsPath reports whether a TriState value carries a path string.
func (v Value) IsPath() bool { return v.kind == KindTriState && v.path }

// List returns a copy of the StringList payload.
func (v Value) List() []string { return append([]string{}, v.list...) }

// Map returns a copy of the StringToStringMap payload.
func (v Value) Map() map[string]string {
	m := make(map[string]string, len(v.table))
	maps.Copy(m, v.table)
	return m
}

// LogFile interprets a TriState value as a log file variant.
func (v Value) LogFile() LogFile {
	switch {
	case v.path:
		return LogFile{Mode: LogFilePath, Path: v.s}
	case v.tri == TriFalse:
		return LogFile{Mode: LogFileDisabled}
	case v.tri == TriTrue:
		return LogFile{Mode: LogFileTemporary}
	default:
		return LogFile{Mode: LogFileSuppressed}
	}
}

// Interface returns the plain Go representation used for JSON export and
// struct decoding: nil, bool, int64, string, []string or map[string]string.
func (v Value) Interface() any {
	if v.null {
		return nil
	}
	switch v.kind {
	case KindBoolean:
		return v.b
	case KindInteger:
		return v.i
	case KindString, KindNullableString, KindEnumString:
		return v.s
	case KindTriState:
		if v.path {
			return v.s
		}
		return v.tri == TriTrue
	case KindStringList:
		return v.List()
	case KindStringMap:
		return v.Map()
	}
	return nil
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.null != o.null {
		return false
	}
	return reflect.DeepEqual(v.Interface(), o.Interface())
}

// String renders the value for diagnostics.
func (v Value) String() string {
	if v.null {
		return "null"
	}
	switch v.kind {
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindString, KindNullableString, KindEnumString:
		return strconv.Quote(v.s)
	case KindTriState:
		if v.path {
			return strconv.Quote(v.s)
		}
		return v.tri.String()
	case KindStringList:
		return fmt.Sprintf("%q", v.list)
	case KindStringMap:
		keys := slices.Sorted(maps.Keys(v.table))
		out := "{"
		for n, k := range keys {
			if n > 0 {
				out += ", "
			}
			out += strconv.Quote(k) + ": " + strconv.Quote(v.table[k])
		}
		return out + "}"
	}
	return "<invalid>"
}
