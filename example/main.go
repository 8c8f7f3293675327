// FILE: ycmdconfig/example/main.go
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ycmdconfig"
)

const defaultsJSONC = `{
	// Packaged defaults
	"ycmd_root_directory": "/opt/ycmd",
	"ycmd_language_whitelist": ["source.c", "source.c++", "source.python"],
	"ycmd_idle_suicide_seconds": 300,
}
`

const userTOML = `
ycmd_language_blacklist = ["source.c"]
ycmd_log_file = true
sublime_ycmd_background_threads = 0
`

func main() {
	// =========================================================================
	// PART 1: INITIAL SETUP
	// Write a defaults file and a user file into a scratch directory.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Creating settings files...")

	dir, err := os.MkdirTemp("", "ycmdconfig-example")
	if err != nil {
		log.Fatalf("❌ Failed to create scratch directory: %v", err)
	}
	defer func() {
		log.Println("---")
		log.Println("🧹 Cleaning up...")
		os.RemoveAll(dir)
	}()

	defaultsPath := filepath.Join(dir, "sublime-ycmd.sublime-settings")
	userPath := filepath.Join(dir, "user.toml")
	mustWrite(defaultsPath, defaultsJSONC)
	mustWrite(userPath, userTOML)
	log.Printf("✅ Settings written to %s.", dir)

	// =========================================================================
	// PART 2: RESOLUTION WITH THE BUILDER
	// The blacklist removes source.c from the whitelist even though the
	// whitelist comes from a different layer.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Resolving with the Builder...")

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	store, err := ycmdconfig.NewBuilder().
		WithLogger(logger).
		WithLayerFile(ycmdconfig.TierDefaults, defaultsPath).
		WithLayerFile(ycmdconfig.TierUser, userPath).
		WithCPUProbe(func() int { return 4 }).
		WithValidator(func(cfg *ycmdconfig.Resolved) error {
			if s := cfg.Settings(); s.BackgroundThreads > 64 {
				return fmt.Errorf("too many background threads: %d", s.BackgroundThreads)
			}
			return nil
		}).
		Build()
	if err != nil {
		log.Fatalf("❌ Builder failed: %v", err)
	}
	defer store.Close()

	printCurrentState(store.Current(), "Initial State")

	// =========================================================================
	// PART 3: DYNAMIC RELOADING WITH THE WATCHER
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Testing the file watcher...")

	if err := store.AutoReload(ycmdconfig.WatchOptions{
		PollInterval: 250 * time.Millisecond,
		Debounce:     100 * time.Millisecond,
	}); err != nil {
		log.Fatalf("❌ AutoReload failed: %v", err)
	}
	events := store.Watch()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(time.Second)
		log.Println("   (Modifier goroutine: enabling debug server logs...)")
		mustWrite(userPath, userTOML+"\nycmd_log_level = \"debug\"\n")
	}()

	select {
	case event := <-events:
		if event.Err != nil {
			log.Fatalf("❌ Reload failed: %v", event.Err)
		}
		log.Printf("✅ Reload detected; changed keys: %v", event.Config.Diff(event.Previous))
		log.Printf("   server restart required: %v", event.ServerRestart)
		printCurrentState(event.Config, "Final State (Updated by Watcher)")
	case <-time.After(5 * time.Second):
		log.Fatalf("❌ Timed out waiting for reload.")
	}

	wg.Wait()
}

func mustWrite(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		log.Fatalf("❌ Failed to write %s: %v", path, err)
	}
}

// printCurrentState is a helper to display the typed settings.
func printCurrentState(cfg *ycmdconfig.Resolved, title string) {
	s := cfg.Settings()
	fmt.Println("   --------------------------------------------------")
	fmt.Printf("             %s\n", title)
	fmt.Println("   --------------------------------------------------")
	fmt.Printf("     Root:             %s\n", s.RootDirectory)
	fmt.Printf("     Default settings: %s\n", s.DefaultSettingsPath)
	fmt.Printf("     Whitelist:        %v\n", s.LanguageWhitelist)
	fmt.Printf("     Blacklist:        %v\n", s.LanguageBlacklist)
	fmt.Printf("     Log file:         %s\n", s.LogFile)
	fmt.Printf("     Log level:        %q\n", s.LogLevel)
	fmt.Printf("     Threads:          %d\n", s.BackgroundThreads)
	fmt.Printf("     python enabled:   %v\n", cfg.ScopeEnabled("source.python"))
	fmt.Printf("     c enabled:        %v\n", cfg.ScopeEnabled("source.c"))
	fmt.Printf("     digest:           %s\n", cfg.Digest())
	for _, issue := range cfg.Issues() {
		fmt.Printf("     issue:            %s\n", issue.Error())
	}
	fmt.Println("   --------------------------------------------------")
}
