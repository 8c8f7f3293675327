// File: ycmdconfig/builder.go
package ycmdconfig

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Builder provides a fluent interface for building a Store
type Builder struct {
	registry   *Registry
	opts       ResolveOptions
	logger     *slog.Logger
	sources    []LayerSource
	env        *EnvOptions
	overrides  []string
	err        error
	validators []ValidatorFunc
}

// NewBuilder creates a new store builder using the built-in registry
func NewBuilder() *Builder {
	return &Builder{
		validators: make([]ValidatorFunc, 0),
	}
}

// WithRegistry sets a custom schema registry
func (b *Builder) WithRegistry(reg *Registry) *Builder {
	b.registry = reg
	return b
}

// WithLayer adds an in-memory layer
func (b *Builder) WithLayer(layer *RawLayer) *Builder {
	if layer == nil {
		b.err = errors.Join(b.err, fmt.Errorf("nil layer"))
		return b
	}
	b.sources = append(b.sources, StaticSource(layer))
	return b
}

// WithLayerFile adds an optional settings file at the given tier
func (b *Builder) WithLayerFile(tier Tier, path string) *Builder {
	if path != "" {
		b.sources = append(b.sources, FileSource{Tier: tier, Path: path})
	}
	return b
}

// WithRequiredLayerFile adds a settings file that must exist
func (b *Builder) WithRequiredLayerFile(tier Tier, path string) *Builder {
	b.sources = append(b.sources, FileSource{Tier: tier, Path: path, Required: true})
	return b
}

// WithSource adds a custom layer source
func (b *Builder) WithSource(src LayerSource) *Builder {
	if src != nil {
		b.sources = append(b.sources, src)
	}
	return b
}

// WithDiscovery adds every settings file found by Discover
func (b *Builder) WithDiscovery(opts DiscoveryOptions) *Builder {
	for _, src := range Discover(opts) {
		b.sources = append(b.sources, src)
	}
	return b
}

// WithEnvPrefix enables the environment layer with the given prefix
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	if b.env == nil {
		b.env = &EnvOptions{}
	}
	b.env.Prefix = prefix
	return b
}

// WithEnvOptions enables the environment layer with full options
func (b *Builder) WithEnvOptions(opts EnvOptions) *Builder {
	b.env = &opts
	return b
}

// WithOverrides adds "key=value" command-line overrides as the top layer
func (b *Builder) WithOverrides(args ...string) *Builder {
	b.overrides = append(b.overrides, args...)
	return b
}

// WithCPUProbe sets the core count probe used by derived defaults
func (b *Builder) WithCPUProbe(probe CPUProbe) *Builder {
	b.opts.CPUProbe = probe
	return b
}

// WithLogger sets the store logger
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithValidator adds a validation function that runs before every publication
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the Store and performs the first reload. Sources are sorted
// by tier; the environment and override layers come last.
func (b *Builder) Build() (*Store, error) {
	if b.err != nil {
		return nil, b.err
	}

	engine := NewEngine(b.registry, b.opts)
	sources := b.sortedSources()

	if b.env != nil {
		sources = append(sources, EnvSource(engine.Registry(), *b.env))
	}
	if len(b.overrides) > 0 {
		layer, err := ParseOverrides(b.overrides)
		if err != nil {
			return nil, fmt.Errorf("invalid overrides: %w", err)
		}
		sources = append(sources, StaticSource(layer))
	}

	store := NewStore(engine, b.logger, sources...)
	for _, validator := range b.validators {
		store.AddValidator(validator)
	}

	if _, err := store.Reload(); err != nil {
		return nil, fmt.Errorf("initial settings resolution failed: %w", err)
	}
	return store, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Store {
	store, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("settings build failed: %v", err))
	}
	return store
}

// BuildAndScan builds the store and decodes the current configuration into target
func (b *Builder) BuildAndScan(target any) (*Store, error) {
	store, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := store.Current().Scan("", target); err != nil {
		return nil, fmt.Errorf("failed to scan settings into target: %w", err)
	}
	return store, nil
}

// sortedSources orders tiered sources by tier, keeping insertion order
// within a tier. Sources without a known tier keep their position at the end.
func (b *Builder) sortedSources() []LayerSource {
	type ranked struct {
		tier Tier
		src  LayerSource
	}
	var tiered []ranked
	var other []LayerSource
	for _, src := range b.sources {
		switch s := src.(type) {
		case FileSource:
			tiered = append(tiered, ranked{s.Tier, s})
		case staticSource:
			if s.layer == nil {
				other = append(other, src)
				continue
			}
			tiered = append(tiered, ranked{s.layer.Tier, s})
		default:
			other = append(other, src)
		}
	}

	slices.SortStableFunc(tiered, func(x, y ranked) int {
		return int(x.tier) - int(y.tier)
	})

	out := make([]LayerSource, 0, len(b.sources))
	for _, r := range tiered {
		out = append(out, r.src)
	}
	return append(out, other...)
}
