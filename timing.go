// FILE: ycmdconfig/timing.go
package ycmdconfig

import "time"

// Core timing constants for production use.
// These define the fundamental timing behavior of settings reloads.
const (
	// File watching intervals (ordered by frequency)
	MinPollInterval      = 100 * time.Millisecond // Hard floor for file stat polling
	ShutdownTimeout      = 100 * time.Millisecond // Graceful watcher termination window
	DefaultDebounce      = 500 * time.Millisecond // File change coalescence period
	DefaultPollInterval  = time.Second            // Standard file monitoring frequency
	DefaultReloadTimeout = 5 * time.Second        // Maximum duration for reload operations
)

// Subscriber limits.
const (
	DefaultMaxWatchers = 100 // Prevent resource exhaustion
	eventBufferSize    = 10  // Per-channel event backlog before drops
)

// Derived timing relationships for internal use.
const (
	// debounceSettleMultiplier ensures sufficient time for debounce to complete
	debounceSettleMultiplier = 3 // Wait 3x debounce period for value stabilization
)
