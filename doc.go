// File: ycmdconfig/doc.go

// Package ycmdconfig resolves the settings of a ycmd code-completion plugin
// from layered sources into a single immutable, typed configuration.
//
// Features:
//   - Declarative schema of every recognized key with kind, default,
//     merge strategy and validator
//   - Layers in fixed precedence: defaults < user < project < syntax,
//     plus environment and command-line overrides
//   - Per-key merge strategies: replace, list union with a deny list that
//     always wins, and map union
//   - Partial-failure resilience: a bad key falls back to its default and
//     is reported as an Issue; only malformed layers fail a pass
//   - Derived defaults (worker threads from the CPU count, default settings
//     path from the ycmd root directory)
//   - Lock-free readers over an atomically swapped snapshot, with
//     subscriptions, restart detection and file watching
//   - JSONC (.sublime-settings), TOML and YAML layer files
//
// Quick Start:
//
//	store, err := ycmdconfig.NewBuilder().
//	    WithLayerFile(ycmdconfig.TierDefaults, "sublime-ycmd.sublime-settings").
//	    WithLayerFile(ycmdconfig.TierUser, userSettings).
//	    WithEnvPrefix("YCMD_").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg := store.Current()
//	threads, _ := cfg.Int64(ycmdconfig.KeyBackgroundThreads)
//	if cfg.ScopeEnabled("source.python") {
//	    ft, _ := cfg.FiletypeForScope("source.python")
//	    ...
//	}
//
// Precedence (highest to lowest):
//  1. Command-line overrides (--set ycmd_keep_logs=true)
//  2. Environment variables (YCMD_YCMD_KEEP_LOGS=true)
//  3. Syntax settings
//  4. Project settings
//  5. User settings
//  6. Packaged defaults
//  7. Schema defaults
//
// The language blacklist is the exception: a scope blacklisted in any layer
// is removed from the whitelist of every layer. An empty whitelist enables
// every scope, but a whitelist the blacklist emptied enables none.
//
// Thread Safety:
// A Resolved is never mutated after construction. Store.Current is a single
// atomic load; reloads are serialized by the store.
package ycmdconfig
