// FILE: ycmdconfig/schema.go
package ycmdconfig

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Validator checks a value that already matches its entry's kind.
type Validator func(v Value) error

// DeriveContext is handed to derived-default heuristics.
type DeriveContext struct {
	// CPUCount is the probed core count, always at least 1.
	CPUCount int
	// Get returns the resolved value of another key. Keys earlier in the
	// registry have already had their own heuristics applied.
	Get func(key string) Value
}

// DeriveFunc replaces a validated value with a computed one. It reports
// false when the value should be kept as is.
type DeriveFunc func(v Value, ctx DeriveContext) (Value, bool)

// SchemaEntry describes one recognized key.
type SchemaEntry struct {
	Key      string
	Kind     Kind
	Default  any
	Merge    MergeStrategy
	Validate Validator
	Derive   DeriveFunc

	// Nullable lets String and EnumString keys accept null.
	Nullable bool
	// Enum is the closed, case-sensitive set accepted by EnumString keys.
	Enum []string
	// AcceptPath lets a TriState key also accept a string.
	AcceptPath bool
	// DenyKey names the list whose items are removed from this list.
	DenyKey string

	Group       Group
	Description string
}

// Registry is the read-only set of schema entries for one process.
type Registry struct {
	entries  []SchemaEntry
	index    map[string]int
	defaults []Value
	denies   map[string]string // deny key -> allow key
}

// Lookup returns the entry for key.
func (r *Registry) Lookup(key string) (SchemaEntry, bool) {
	n, ok := r.index[key]
	if !ok {
		return SchemaEntry{}, false
	}
	return r.entries[n], true
}

// Default returns the typed default for key.
func (r *Registry) Default(key string) (Value, bool) {
	n, ok := r.index[key]
	if !ok {
		return Value{}, false
	}
	return r.defaults[n], true
}

// Entries returns all entries in registration order.
func (r *Registry) Entries() []SchemaEntry {
	return append([]SchemaEntry{}, r.entries...)
}

// Keys returns all keys in registration order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.entries))
	for n, e := range r.entries {
		keys[n] = e.Key
	}
	return keys
}

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.entries) }

// NonNegative rejects Integer values below zero.
func NonNegative(v Value) error {
	if v.Int() < 0 {
		return fmt.Errorf("must be >= 0, got %d", v.Int())
	}
	return nil
}

// NotEmpty rejects empty strings. Null values pass.
func NotEmpty(v Value) error {
	if !v.IsNull() && v.Str() == "" {
		return fmt.Errorf("must not be empty")
	}
	return nil
}

// deriveThreadCount turns 0 into max(1, cpu*ThreadsPerCPU).
func deriveThreadCount(v Value, ctx DeriveContext) (Value, bool) {
	if v.Int() != 0 {
		return v, false
	}
	return IntValue(int64(max(1, ctx.CPUCount*ThreadsPerCPU))), true
}

// deriveCleanPath normalizes a configured path without touching the disk.
func deriveCleanPath(v Value, _ DeriveContext) (Value, bool) {
	if v.IsNull() {
		return v, false
	}
	cleaned := filepath.Clean(v.Str())
	if cleaned == v.Str() {
		return v, false
	}
	return StringValue(v.Kind(), cleaned), true
}

// deriveDefaultSettingsPath points at the settings template shipped in the
// ycmd root directory when no explicit path is set.
func deriveDefaultSettingsPath(v Value, ctx DeriveContext) (Value, bool) {
	if !v.IsNull() {
		return deriveCleanPath(v, ctx)
	}
	root := ctx.Get(KeyRootDirectory)
	if root.IsNull() {
		return v, false
	}
	return StringValue(KindNullableString, filepath.Join(root.Str(), filepath.FromSlash(defaultSettingsRelPath))), true
}

// builtinEntries is the fixed schema of the completion plugin.
func builtinEntries() []SchemaEntry {
	return []SchemaEntry{
		{
			Key: KeyRootDirectory, Kind: KindNullableString, Validate: NotEmpty, Derive: deriveCleanPath,
			Group: GroupServer, Description: "Path to the ycmd repository. Required to start servers.",
		},
		{
			Key: KeyDefaultSettingsPath, Kind: KindNullableString, Validate: NotEmpty, Derive: deriveDefaultSettingsPath,
			Group: GroupServer, Description: "Path to the ycmd default settings template. Derived from the root directory when unset.",
		},
		{
			Key: KeyPythonBinaryPath, Kind: KindNullableString, Validate: NotEmpty,
			Group: GroupServer, Description: "Python interpreter used to launch ycmd. Looked up on PATH when unset.",
		},
		{
			Key: KeyLanguageWhitelist, Kind: KindStringList, Default: []string{}, Merge: MergeListUnion,
			DenyKey: KeyLanguageBlacklist, Group: GroupLanguage,
			Description: "Scopes to enable completions for. Empty enables every scope.",
		},
		{
			Key: KeyLanguageBlacklist, Kind: KindStringList, Default: []string{}, Merge: MergeListUnion,
			Group: GroupLanguage, Description: "Scopes to disable completions for. Overrides the whitelist in every layer.",
		},
		{
			Key: KeyLanguageFiletype, Kind: KindStringMap, Merge: MergeMapUnion,
			Default: map[string]string{"c++": "cpp", "js": "javascript"},
			Group:   GroupLanguage, Description: "Translation from source scope names to ycmd file types.",
		},
		{
			Key: KeyLogLevel, Kind: KindEnumString, Nullable: true, Enum: LogLevels,
			Group: GroupLogging, Description: "ycmd server log level. Null keeps the server default.",
		},
		{
			Key: KeyLogFile, Kind: KindTriState, AcceptPath: true,
			Group: GroupLogging, Description: "null suppresses server output, false disables it, true writes temporary files, a string names a log file.",
		},
		{
			Key: KeyKeepLogs, Kind: KindBoolean, Default: false,
			Group: GroupLogging, Description: "Keep server log files after the server exits.",
		},
		{
			Key: KeyForceSemanticCompletion, Kind: KindBoolean, Default: false,
			Description: "Always request semantic completions.",
		},
		{
			Key: KeyIdleSuicideSeconds, Kind: KindInteger, Default: DefaultIdleSuicideSeconds, Validate: NonNegative,
			Group: GroupServer, Description: "Seconds of inactivity before a server shuts itself down. 0 disables.",
		},
		{
			Key: KeyCheckIntervalSeconds, Kind: KindInteger, Default: DefaultCheckIntervalSeconds, Validate: NonNegative,
			Group: GroupServer, Description: "Seconds a server waits on semantic subservers before answering.",
		},
		{
			Key: KeyBackgroundThreads, Kind: KindInteger, Default: 0, Validate: NonNegative, Derive: deriveThreadCount,
			Group: GroupPool, Description: "Background worker threads. 0 uses five per CPU core.",
		},
		{
			Key: KeyPluginLogLevel, Kind: KindEnumString, Nullable: true, Enum: LogLevels,
			Group: GroupPlugin, Description: "Plugin log level. Null disables plugin logging.",
		},
		{
			Key: KeyPluginLogFile, Kind: KindNullableString, Validate: NotEmpty,
			Group: GroupPlugin, Description: "Plugin log file. Null logs to the console.",
		},
	}
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(builtinEntries()...)
	if err != nil {
		panic(fmt.Sprintf("builtin schema is invalid: %v", err))
	}
	return r
})

// DefaultRegistry returns the process-wide registry of built-in keys.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}
