// FILE: ycmdconfig/env.go
package ycmdconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DefaultEnvPrefix is prepended to environment variable names.
const DefaultEnvPrefix = "YCMD_"

// EnvTransformFunc converts a settings key to an environment variable name.
type EnvTransformFunc func(key string) string

// EnvOptions configures the environment layer.
type EnvOptions struct {
	// Prefix is prepended to variable names.
	// Example: "YCMD_" maps "ycmd_keep_logs" to "YCMD_YCMD_KEEP_LOGS".
	Prefix string

	// Transform customizes how keys map to variable names.
	// If nil, dots become underscores and the name is uppercased.
	Transform EnvTransformFunc

	// Whitelist limits which keys are read (nil = all).
	Whitelist map[string]bool

	// Lookup reads a variable. Nil uses os.LookupEnv.
	Lookup func(name string) (string, bool)
}

func (o EnvOptions) transform() EnvTransformFunc {
	if o.Transform != nil {
		return o.Transform
	}
	return defaultEnvTransform(o.Prefix)
}

// EnvLayer builds a TierEnv layer from the environment variables that match
// registered keys. Values are parsed as JSON literals when possible, so
// `["source.go"]`, `true`, `42` and `null` keep their types; anything else
// is taken as a plain string.
func EnvLayer(reg *Registry, opts EnvOptions) (*RawLayer, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	transform := opts.transform()

	data := make(map[string]any)
	for _, key := range reg.Keys() {
		if opts.Whitelist != nil && !opts.Whitelist[key] {
			continue
		}
		name := transform(key)
		value, exists := lookup(name)
		if !exists {
			continue
		}
		if len(value) > MaxValueSize {
			return nil, fmt.Errorf("%w: %s", ErrValueSize, name)
		}
		data[key] = parseValue(value)
	}
	return NewLayer(TierEnv.String(), TierEnv, data), nil
}

// DiscoverEnv returns key -> variable name for every registered key whose
// variable is set.
func DiscoverEnv(reg *Registry, opts EnvOptions) map[string]string {
	if reg == nil {
		reg = DefaultRegistry()
	}
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	transform := opts.transform()

	discovered := make(map[string]string)
	for _, key := range reg.Keys() {
		name := transform(key)
		if _, exists := lookup(name); exists {
			discovered[key] = name
		}
	}
	return discovered
}

// ParseOverrides builds a TierOverride layer from command-line style
// assignments. Accepted forms are "key=value", "--key=value", "--key value"
// and a bare "--flag" (meaning true). Values are parsed like environment
// values.
func ParseOverrides(args []string) (*RawLayer, error) {
	data := make(map[string]any)

	i := 0
	for i < len(args) {
		arg := args[i]
		content, isFlag := strings.CutPrefix(arg, "--")
		if content == "" {
			// Skip "--" separators and empty arguments
			i++
			continue
		}

		var keyPath, valueStr string
		switch {
		case strings.Contains(content, "="):
			keyPath, valueStr, _ = strings.Cut(content, "=")
			i++
		case !isFlag:
			return nil, fmt.Errorf("override %q: expected key=value", arg)
		case i+1 >= len(args) || strings.HasPrefix(args[i+1], "--"):
			keyPath, valueStr = content, "true"
			i++
		default:
			keyPath, valueStr = content, args[i+1]
			i += 2
		}

		if err := validateKey(keyPath); err != nil {
			return nil, fmt.Errorf("override %q: %w", arg, err)
		}
		if len(valueStr) > MaxValueSize {
			return nil, fmt.Errorf("%w: %s", ErrValueSize, keyPath)
		}
		data[keyPath] = parseValue(valueStr)
	}

	return NewLayer(TierOverride.String(), TierOverride, data), nil
}

// defaultEnvTransform creates the default environment variable transformer
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(key string) string {
		env := strings.ReplaceAll(key, ".", "_")
		env = strings.ToUpper(env)
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}

// parseValue decodes s as a single JSON value, falling back to the raw
// string. Numbers are kept as json.Number.
func parseValue(s string) any {
	decoder := json.NewDecoder(bytes.NewReader([]byte(s)))
	decoder.UseNumber()

	var v any
	if err := decoder.Decode(&v); err != nil || decoder.More() {
		return s
	}
	// Reject trailing garbage such as `12abc`
	if _, err := decoder.Token(); err == nil {
		return s
	}
	return v
}
