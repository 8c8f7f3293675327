// FILE: ycmdconfig/watch.go
package ycmdconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// WatchOptions configures settings file watching.
type WatchOptions struct {
	// PollInterval for file stat checks (minimum 100ms)
	PollInterval time.Duration

	// Debounce duration to avoid rapid reloads
	Debounce time.Duration

	// ReloadTimeout bounds a single reload
	ReloadTimeout time.Duration

	// VerifyPermissions skips reloads when group/world permission bits change
	VerifyPermissions bool

	// Paths are watched in addition to the store's file sources
	Paths []string
}

// DefaultWatchOptions returns sensible defaults for file watching
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval:      DefaultPollInterval,
		Debounce:          DefaultDebounce,
		ReloadTimeout:     DefaultReloadTimeout,
		VerifyPermissions: true,
	}
}

// fileState is the last observed stat of a watched path.
type fileState struct {
	exists  bool
	modTime time.Time
	size    int64
	mode    os.FileMode
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, modTime: info.ModTime(), size: info.Size(), mode: info.Mode()}
}

func (f fileState) equal(o fileState) bool {
	return f.exists == o.exists && f.modTime.Equal(o.modTime) && f.size == o.size && f.mode == o.mode
}

// watcher polls settings files and reloads the store when they change.
type watcher struct {
	mu               sync.Mutex
	ctx              context.Context
	cancel           context.CancelFunc
	opts             WatchOptions
	paths            []string
	states           map[string]fileState
	watching         atomic.Bool
	reloadInProgress atomic.Bool
	debounceTimer    *time.Timer
	done             chan struct{}
}

// AutoReload starts polling every file source (and opts.Paths) and reloads
// the store when one is created, modified or removed. A running watcher is
// replaced.
func (s *Store) AutoReload(opts WatchOptions) error {
	if opts.PollInterval < MinPollInterval {
		opts.PollInterval = MinPollInterval
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	if opts.ReloadTimeout <= 0 {
		opts.ReloadTimeout = DefaultReloadTimeout
	}

	paths := s.filePaths(opts.Paths)
	if len(paths) == 0 {
		return fmt.Errorf("no settings files to watch")
	}

	s.StopAutoReload()

	ctx, cancel := context.WithCancel(context.Background())
	w := &watcher{
		ctx:    ctx,
		cancel: cancel,
		opts:   opts,
		paths:  paths,
		states: make(map[string]fileState, len(paths)),
		done:   make(chan struct{}),
	}
	for _, p := range paths {
		w.states[p] = statFile(p)
	}

	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()

	w.watching.Store(true)
	go w.watchLoop(s)
	s.logger.Debug("watching settings files", "paths", paths, "interval", opts.PollInterval)
	return nil
}

// StopAutoReload stops the file watcher, if any.
func (s *Store) StopAutoReload() {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if w != nil {
		w.stop()
	}
}

// IsWatching reports whether auto-reload is running.
func (s *Store) IsWatching() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watcher != nil && s.watcher.watching.Load()
}

// WatchedPaths returns the paths polled by the running watcher.
func (s *Store) WatchedPaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.watcher == nil {
		return nil
	}
	return slices.Clone(s.watcher.paths)
}

func (s *Store) filePaths(extra []string) []string {
	var paths []string
	for _, src := range s.sources {
		switch fs := src.(type) {
		case FileSource:
			paths = append(paths, fs.Path)
		case *FileSource:
			paths = append(paths, fs.Path)
		}
	}
	paths = append(paths, extra...)
	slices.Sort(paths)
	return slices.Compact(paths)
}

// watchLoop is the main file watching loop
func (w *watcher) watchLoop(s *Store) {
	defer close(w.done)
	defer w.watching.Store(false)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.check(s)
		}
	}
}

// check compares every path against its last state and schedules a reload
func (w *watcher) check(s *Store) {
	changed := false
	for _, path := range w.paths {
		prev := w.states[path]
		cur := statFile(path)
		if cur.equal(prev) {
			continue
		}

		// Group/world permission changes are suspicious; do not reload on them
		if w.opts.VerifyPermissions && prev.exists && cur.exists &&
			cur.modTime.Equal(prev.modTime) && cur.size == prev.size &&
			(cur.mode&0077) != (prev.mode&0077) {
			s.logger.Warn("settings file permissions changed, not reloading", "path", path, "mode", cur.mode)
			w.states[path] = cur
			continue
		}

		w.states[path] = cur
		changed = true
		s.logger.Debug("settings file changed", "path", path, "exists", cur.exists)
	}
	if !changed {
		return
	}

	// Debounce rapid changes
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.opts.Debounce, func() {
		w.performReload(s)
	})
}

// performReload reloads the store with a timeout
func (w *watcher) performReload(s *Store) {
	if w.ctx.Err() != nil {
		return
	}
	// Prevent concurrent reloads
	if !w.reloadInProgress.CompareAndSwap(false, true) {
		return
	}
	defer w.reloadInProgress.Store(false)

	ctx, cancel := context.WithTimeout(w.ctx, w.opts.ReloadTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := s.Reload()
		done <- err
	}()

	// Reload failures are logged and delivered to subscribers by the store
	select {
	case <-done:
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			s.logger.Error("settings reload timed out", "timeout", w.opts.ReloadTimeout)
		}
	}
}

// stop terminates the watcher
func (w *watcher) stop() {
	w.cancel()

	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.mu.Unlock()

	select {
	case <-w.done:
	case <-time.After(ShutdownTimeout):
	}
}
