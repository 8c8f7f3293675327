// FILE: ycmdconfig/store.go
package ycmdconfig

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// LayerSource produces one layer on every reload.
type LayerSource interface {
	// Load returns the current layer. ErrLayerNotFound skips the layer.
	Load() (*RawLayer, error)
}

// LayerSourceFunc adapts a function to LayerSource.
type LayerSourceFunc func() (*RawLayer, error)

// Load calls f.
func (f LayerSourceFunc) Load() (*RawLayer, error) { return f() }

// StaticSource always returns the same layer.
func StaticSource(layer *RawLayer) LayerSource {
	return staticSource{layer: layer}
}

type staticSource struct {
	layer *RawLayer
}

func (s staticSource) Load() (*RawLayer, error) { return s.layer, nil }

// FileSource reads a settings file on every reload.
type FileSource struct {
	Name string
	Tier Tier
	Path string
	// Required turns a missing file into a StructuralError.
	Required bool
}

// Load implements LayerSource.
func (s FileSource) Load() (*RawLayer, error) {
	layer, err := LoadLayerFile(s.Name, s.Tier, s.Path)
	if err != nil && s.Required && errors.Is(err, ErrLayerNotFound) {
		name := s.Name
		if name == "" {
			name = s.Tier.String()
		}
		return nil, &StructuralError{Layer: name, Path: s.Path, Err: err}
	}
	return layer, err
}

// EnvSource reads the environment on every reload.
func EnvSource(reg *Registry, opts EnvOptions) LayerSource {
	return LayerSourceFunc(func() (*RawLayer, error) { return EnvLayer(reg, opts) })
}

// ValidatorFunc checks a resolved configuration before it is published.
// A non-nil error rejects the configuration.
type ValidatorFunc func(cfg *Resolved) error

// Event is delivered to subscribers after every reload attempt.
type Event struct {
	// Config is the configuration now current. On failure it is the
	// retained previous configuration.
	Config *Resolved
	// Previous is the configuration replaced by Config, nil on failure or
	// for the first publication.
	Previous *Resolved
	// Issues are the non-fatal issues of the pass.
	Issues Issues
	// Err is set when the pass failed and the previous configuration was kept.
	Err error
	// ServerRestart reports that a server launch setting changed.
	ServerRestart bool
	// PoolRestart reports that the worker pool must be resized.
	PoolRestart bool
}

// Store holds the current Resolved and replaces it atomically on reload.
// Readers never block; reloads are serialized.
type Store struct {
	engine     *Engine
	sources    []LayerSource
	validators []ValidatorFunc
	logger     *slog.Logger

	current atomic.Pointer[Resolved]
	reload  sync.Mutex // single writer

	mu          sync.RWMutex
	subscribers map[int64]func(Event)
	channels    map[int64]chan Event
	nextID      int64
	closed      bool

	watcher *watcher
}

// NewStore creates a store. Nothing is resolved until the first Reload.
// A nil logger discards output.
func NewStore(engine *Engine, logger *slog.Logger, sources ...LayerSource) *Store {
	if engine == nil {
		engine = NewEngine(nil, ResolveOptions{})
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		engine:      engine,
		sources:     sources,
		logger:      logger,
		subscribers: make(map[int64]func(Event)),
		channels:    make(map[int64]chan Event),
	}
}

// AddValidator registers a check run on every candidate configuration.
func (s *Store) AddValidator(fn ValidatorFunc) {
	s.reload.Lock()
	defer s.reload.Unlock()
	s.validators = append(s.validators, fn)
}

// Current returns the published configuration, or nil before the first
// successful reload.
func (s *Store) Current() *Resolved {
	return s.current.Load()
}

// Engine returns the store's engine.
func (s *Store) Engine() *Engine { return s.engine }

// Reload reads every source and resolves them. On failure the previous
// configuration stays current and the error is returned and delivered to
// subscribers.
func (s *Store) Reload() (Issues, error) {
	s.reload.Lock()
	defer s.reload.Unlock()

	layers := make([]*RawLayer, 0, len(s.sources))
	var skipped []error
	for _, src := range s.sources {
		layer, err := src.Load()
		if err != nil {
			if errors.Is(err, ErrLayerNotFound) && !errors.Is(err, ErrStructural) {
				skipped = append(skipped, err)
				continue
			}
			return nil, s.fail(err)
		}
		if layer != nil {
			layers = append(layers, layer)
		}
	}
	if len(skipped) > 0 {
		s.logger.Debug("optional settings layers skipped", "error", errors.Join(skipped...))
	}

	return s.publish(layers)
}

// ReloadWith resolves the given layers instead of the configured sources.
func (s *Store) ReloadWith(layers ...*RawLayer) (Issues, error) {
	s.reload.Lock()
	defer s.reload.Unlock()
	return s.publish(layers)
}

// publish must be called with the reload lock held.
func (s *Store) publish(layers []*RawLayer) (Issues, error) {
	cfg, issues, err := s.engine.Resolve(layers...)
	if err != nil {
		return nil, s.fail(err)
	}

	for _, validate := range s.validators {
		if verr := validate(cfg); verr != nil {
			return issues, s.fail(fmt.Errorf("configuration rejected: %w", verr))
		}
	}

	for _, issue := range issues {
		s.logger.Warn("settings issue",
			"key", issue.Key, "code", issue.Code.String(), "layer", issue.Layer, "reason", issue.Reason)
	}

	if serr := cfg.SettingsErr(); serr != nil {
		s.logger.Debug("typed settings view not decoded", "error", serr)
	}

	prev := s.current.Load()
	if prev != nil && prev.Digest() == cfg.Digest() && slices.Equal(prev.issues, cfg.issues) {
		s.logger.Debug("settings unchanged", "digest", cfg.Digest())
		return issues, nil
	}

	s.current.Store(cfg)
	event := Event{
		Config:        cfg,
		Previous:      prev,
		Issues:        issues,
		ServerRestart: prev != nil && RequiresServerRestart(prev, cfg),
		PoolRestart:   prev != nil && RequiresPoolRestart(prev, cfg),
	}
	s.logger.Debug("settings published",
		"digest", cfg.Digest(), "layers", len(layers), "issues", len(issues),
		"server_restart", event.ServerRestart, "pool_restart", event.PoolRestart)
	s.notify(event)
	return issues, nil
}

func (s *Store) fail(err error) error {
	s.logger.Error("settings reload failed, keeping previous configuration", "error", err)
	s.notify(Event{Config: s.current.Load(), Err: err})
	return err
}

// Subscribe registers fn to be called synchronously after every reload
// attempt. fn must not call Reload. The returned function removes the
// subscription.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Watch returns a buffered channel of reload events. Events are dropped
// when the channel is full. The channel is closed by Close; a closed store
// returns a closed channel.
func (s *Store) Watch() <-chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, eventBufferSize)
	if s.closed || len(s.channels) >= DefaultMaxWatchers {
		close(ch)
		return ch
	}
	s.nextID++
	s.channels[s.nextID] = ch
	return ch
}

// WatcherCount returns the number of open Watch channels.
func (s *Store) WatcherCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.channels)
}

func (s *Store) notify(event Event) {
	s.mu.RLock()
	subscribers := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.RUnlock()

	// Callbacks run unlocked so they may unsubscribe
	for _, fn := range subscribers {
		fn(event)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.channels {
		select {
		case ch <- event:
		default:
			// Channel full, skip
		}
	}
}

// Close stops auto-reload and closes every Watch channel.
func (s *Store) Close() {
	s.StopAutoReload()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.channels {
		close(ch)
		delete(s.channels, id)
	}
}
