// File: ycmdconfig/type.go
package ycmdconfig

import (
	"fmt"
)

// lookup returns the value for key or an error when it is not registered.
func (r *Resolved) lookup(key string, kinds ...Kind) (Value, error) {
	v, found := r.values[key]
	if !found {
		return Value{}, fmt.Errorf("key not registered: %s", key)
	}
	for _, k := range kinds {
		if v.Kind() == k {
			return v, nil
		}
	}
	return Value{}, fmt.Errorf("key %s is %s, not %s: %w", key, v.Kind(), kinds[0], ErrTypeMismatch)
}

// Bool retrieves a Boolean value.
func (r *Resolved) Bool(key string) (bool, error) {
	v, err := r.lookup(key, KindBoolean)
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}

// Int64 retrieves an Integer value.
func (r *Resolved) Int64(key string) (int64, error) {
	v, err := r.lookup(key, KindInteger)
	if err != nil {
		return 0, err
	}
	return v.Int(), nil
}

// Int retrieves an Integer value as int.
func (r *Resolved) Int(key string) (int, error) {
	i, err := r.Int64(key)
	return int(i), err
}

// String retrieves a string value. Null strings are returned as "" with
// ok set to false.
func (r *Resolved) String(key string) (s string, ok bool, err error) {
	v, err := r.lookup(key, KindString, KindNullableString, KindEnumString)
	if err != nil {
		return "", false, err
	}
	if v.IsNull() {
		return "", false, nil
	}
	return v.Str(), true, nil
}

// StringList retrieves a copy of a StringList value.
func (r *Resolved) StringList(key string) ([]string, error) {
	v, err := r.lookup(key, KindStringList)
	if err != nil {
		return nil, err
	}
	return v.List(), nil
}

// StringMap retrieves a copy of a StringToStringMap value.
func (r *Resolved) StringMap(key string) (map[string]string, error) {
	v, err := r.lookup(key, KindStringMap)
	if err != nil {
		return nil, err
	}
	return v.Map(), nil
}

// TriState retrieves a TriState value. Path-carrying values report an error;
// use LogFile for keys that accept a path.
func (r *Resolved) TriState(key string) (TriState, error) {
	v, err := r.lookup(key, KindTriState)
	if err != nil {
		return TriNull, err
	}
	if v.IsPath() {
		return TriNull, fmt.Errorf("key %s holds a path, not a tri-state flag: %w", key, ErrTypeMismatch)
	}
	return v.Tri(), nil
}

// LogFile retrieves a TriState value as a log file variant.
func (r *Resolved) LogFile(key string) (LogFile, error) {
	v, err := r.lookup(key, KindTriState)
	if err != nil {
		return LogFile{}, err
	}
	return v.LogFile(), nil
}
