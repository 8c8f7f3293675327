// FILE: ycmdconfig/decode_test.go
package ycmdconfig

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSettings tests the typed view of the built-in keys
func TestSettings(t *testing.T) {
	cfg, issues := resolveLayers(t,
		layer("defaults", TierDefaults, map[string]any{
			KeyRootDirectory:     "/opt/ycmd",
			KeyLanguageWhitelist: []any{"source.c"},
			KeyLanguageFiletype:  map[string]any{"c++": "cpp"},
		}),
		layer("user", TierUser, map[string]any{
			KeyLogLevel:             "info",
			KeyLogFile:              "/var/log/ycmd.log",
			KeyKeepLogs:             true,
			KeyIdleSuicideSeconds:   600,
			KeyCheckIntervalSeconds: 2,
			KeyPluginLogLevel:       "debug",
			KeyPluginLogFile:        "/tmp/plugin.log",
		}),
	)
	require.Empty(t, issues)

	s := cfg.Settings()
	assert.Equal(t, "/opt/ycmd", s.RootDirectory)
	assert.Equal(t, "/opt/ycmd/ycmd/default_settings.json", s.DefaultSettingsPath)
	assert.Equal(t, "", s.PythonBinaryPath)
	assert.Equal(t, []string{"source.c"}, s.LanguageWhitelist)
	assert.Empty(t, s.LanguageBlacklist)
	assert.Equal(t, map[string]string{"c++": "cpp"}, s.LanguageFiletype)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, LogFile{Mode: LogFilePath, Path: "/var/log/ycmd.log"}, s.LogFile)
	assert.True(t, s.KeepLogs)
	assert.False(t, s.ForceSemanticCompletion)
	assert.Equal(t, 10*time.Minute, s.IdleSuicide())
	assert.Equal(t, 2*time.Second, s.CheckInterval())
	assert.Equal(t, 20, s.BackgroundThreads)
	assert.Equal(t, "debug", s.PluginLogLevel)
	assert.Equal(t, "/tmp/plugin.log", s.PluginLogFile)
	assert.NoError(t, cfg.SettingsErr())

	t.Run("ReturnsCopies", func(t *testing.T) {
		s.LanguageWhitelist[0] = "mutated"
		s.LanguageFiletype["c++"] = "mutated"

		again := cfg.Settings()
		assert.Equal(t, []string{"source.c"}, again.LanguageWhitelist)
		assert.Equal(t, "cpp", again.LanguageFiletype["c++"])
	})
}

// TestSettingsDecodeFailure tests a custom registry whose values do not fit
// the typed view
func TestSettingsDecodeFailure(t *testing.T) {
	reg := MustRegistry(
		SchemaEntry{Key: KeyKeepLogs, Kind: KindString, Default: "always"},
		SchemaEntry{Key: KeyIdleSuicideSeconds, Kind: KindInteger, Default: 60},
	)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := NewStore(NewEngine(reg, cpus(4)), logger)
	defer store.Close()

	issues, err := store.Reload()
	require.NoError(t, err)
	assert.Empty(t, issues)

	cfg := store.Current()
	require.Error(t, cfg.SettingsErr())
	assert.Contains(t, cfg.SettingsErr().Error(), KeyKeepLogs)
	assert.Equal(t, Settings{}, cfg.Settings())
	assert.Contains(t, buf.String(), "typed settings view not decoded")

	keep, ok, err := cfg.String(KeyKeepLogs)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "always", keep)
}

// TestScan tests decoding sections of a custom registry into structs
func TestScan(t *testing.T) {
	reg := MustRegistry(
		SchemaEntry{Key: "server.host", Kind: KindString, Default: "localhost"},
		SchemaEntry{Key: "server.port", Kind: KindInteger, Default: 8080},
		SchemaEntry{Key: "server.log_file", Kind: KindTriState, AcceptPath: true},
		SchemaEntry{Key: "server.verbose", Kind: KindTriState},
		SchemaEntry{Key: "server.timeout", Kind: KindString, Default: "30s"},
		SchemaEntry{Key: "features", Kind: KindStringList, Default: []string{}, Merge: MergeListUnion},
	)

	type ServerConfig struct {
		Host    string        `settings:"host"`
		Port    int           `settings:"port"`
		LogFile LogFile       `settings:"log_file"`
		Verbose TriState      `settings:"verbose"`
		Timeout time.Duration `settings:"timeout"`
	}

	cfg, issues, err := NewEngine(reg, cpus(1)).Resolve(layer("user", TierUser, map[string]any{
		"server": map[string]any{
			"port":     9000,
			"log_file": true,
			"verbose":  false,
			"timeout":  "1m",
		},
		"features": []any{"a", "b"},
	}))
	require.NoError(t, err)
	require.Empty(t, issues)

	t.Run("Section", func(t *testing.T) {
		var server ServerConfig
		require.NoError(t, cfg.Scan("server", &server))
		assert.Equal(t, "localhost", server.Host)
		assert.Equal(t, 9000, server.Port)
		assert.Equal(t, LogFile{Mode: LogFileTemporary}, server.LogFile)
		assert.Equal(t, TriFalse, server.Verbose)
		assert.Equal(t, time.Minute, server.Timeout)
	})

	t.Run("Root", func(t *testing.T) {
		var root struct {
			Server   ServerConfig `settings:"server"`
			Features []string     `settings:"features"`
		}
		require.NoError(t, cfg.Scan("", &root))
		assert.Equal(t, 9000, root.Server.Port)
		assert.Equal(t, []string{"a", "b"}, root.Features)
	})

	t.Run("MissingSection", func(t *testing.T) {
		server := ServerConfig{Host: "stale"}
		require.NoError(t, cfg.Scan("client", &server))
		assert.Equal(t, "stale", server.Host)
	})

	t.Run("NonMapSection", func(t *testing.T) {
		var server ServerConfig
		err := cfg.Scan("server.port", &server)
		assert.Error(t, err)
	})

	t.Run("NonPointerTarget", func(t *testing.T) {
		var server ServerConfig
		err := cfg.Scan("server", server)
		assert.Error(t, err)
	})
}

// TestBuildAndScan tests decoding through the builder
func TestBuildAndScan(t *testing.T) {
	var s Settings
	store, err := NewBuilder().
		WithLayer(NewLayer("user", TierUser, map[string]any{KeyKeepLogs: true, KeyLogFile: false})).
		WithCPUProbe(func() int { return 2 }).
		BuildAndScan(&s)
	require.NoError(t, err)
	defer store.Close()

	assert.True(t, s.KeepLogs)
	assert.Equal(t, LogFileDisabled, s.LogFile.Mode)
	assert.Equal(t, 10, s.BackgroundThreads)
	assert.Equal(t, store.Current().Settings(), s)
}
