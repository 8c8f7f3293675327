// File: ycmdconfig/convenience.go
package ycmdconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// Quick builds a store from settings files and the environment with a
// single call. Files are assigned tiers in order: defaults, user, project,
// syntax. Missing files are skipped.
func Quick(envPrefix string, files ...string) (*Store, error) {
	if len(files) > int(TierSyntax)+1 {
		return nil, fmt.Errorf("at most %d settings files, got %d", int(TierSyntax)+1, len(files))
	}

	b := NewBuilder()
	for n, path := range files {
		b.WithLayerFile(Tier(n), path)
	}
	if envPrefix != "" {
		b.WithEnvPrefix(envPrefix)
	}
	return b.Build()
}

// MustQuick is like Quick but panics on error
func MustQuick(envPrefix string, files ...string) *Store {
	store, err := Quick(envPrefix, files...)
	if err != nil {
		panic(fmt.Sprintf("settings initialization failed: %v", err))
	}
	return store
}

// GenerateFlags creates one flag per registered key. Every flag takes a
// string that is parsed like an environment value, so lists can be given
// as JSON ("--ycmd_language_whitelist=[\"source.go\"]").
func GenerateFlags(reg *Registry) *pflag.FlagSet {
	if reg == nil {
		reg = DefaultRegistry()
	}
	fs := pflag.NewFlagSet("settings", pflag.ContinueOnError)
	for _, entry := range reg.Entries() {
		def, _ := reg.Default(entry.Key)
		usage := entry.Description
		if usage == "" {
			usage = fmt.Sprintf("Setting: %s", entry.Key)
		}
		fs.String(entry.Key, "", fmt.Sprintf("%s (%s, default %s)", usage, entry.Kind, def))
	}
	return fs
}

// FlagLayer builds a TierOverride layer from the flags that were set.
func FlagLayer(fs *pflag.FlagSet) (*RawLayer, error) {
	data := make(map[string]any)
	var errs []string

	fs.Visit(func(f *pflag.Flag) {
		value := f.Value.String()
		if len(value) > MaxValueSize {
			errs = append(errs, f.Name)
			return
		}
		data[f.Name] = parseValue(value)
	})

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValueSize, strings.Join(errs, ", "))
	}
	return NewLayer("flags", TierOverride, data), nil
}

// Validate checks that every required key holds a non-null value that
// differs from its default.
func Validate(cfg *Resolved, required ...string) error {
	var missing []string
	for _, key := range required {
		v, ok := cfg.Get(key)
		if !ok {
			missing = append(missing, key+" (not registered)")
			continue
		}
		def, _ := cfg.Registry().Default(key)
		if v.IsNull() || v.Equal(def) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Debug returns a formatted string of every resolved value
func Debug(cfg *Resolved) string {
	var b strings.Builder
	b.WriteString("Resolved settings:\n")
	for _, key := range cfg.Keys() {
		v, _ := cfg.Get(key)
		marker := ""
		if cfg.IsDerived(key) {
			marker = " (derived)"
		}
		fmt.Fprintf(&b, "  %s = %s%s\n", key, v, marker)
	}
	if issues := cfg.Issues(); len(issues) > 0 {
		fmt.Fprintf(&b, "Issues (%d):\n", len(issues))
		for _, issue := range issues {
			fmt.Fprintf(&b, "  %s\n", issue.Error())
		}
	}
	return b.String()
}

// Dump writes the current configuration to stdout in TOML format
func Dump(cfg *Resolved) error {
	data, err := Marshal(cfg, FormatTOML)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
