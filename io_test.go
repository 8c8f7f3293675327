// FILE: ycmdconfig/io_test.go
package ycmdconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customizedConfig(t *testing.T) *Resolved {
	t.Helper()
	cfg, issues := resolveLayers(t, layer("user", TierUser, map[string]any{
		KeyRootDirectory:     "/opt/ycmd",
		KeyLanguageWhitelist: []any{"source.go", "source.python"},
		KeyLanguageFiletype:  map[string]any{"c++": "cpp", "objc": "objective-c"},
		KeyLogLevel:          "debug",
		KeyLogFile:           "/tmp/ycmd.log",
		KeyKeepLogs:          true,
		KeyPluginLogFile:     "true",
	}))
	require.Empty(t, issues)
	return cfg
}

// TestSave tests that a saved configuration loads back to the same digest
func TestSave(t *testing.T) {
	cfg := customizedConfig(t)
	tmpDir := t.TempDir()

	for _, name := range []string{"resolved.json", "resolved.toml", "resolved.yaml", "resolved"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, name)
			require.NoError(t, Save(path, cfg))

			l, err := LoadLayerFile("saved", TierUser, path)
			require.NoError(t, err)

			reloaded, issues := resolveLayers(t, l)
			assert.Empty(t, issues)
			assert.Equal(t, cfg.Digest(), reloaded.Digest())
		})
	}

	t.Run("CreatesDirectories", func(t *testing.T) {
		path := filepath.Join(tmpDir, "nested", "dir", "settings.json")
		require.NoError(t, Save(path, cfg))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})
}

// TestMarshal tests format specific rendering
func TestMarshal(t *testing.T) {
	cfg := customizedConfig(t)

	t.Run("JSONKeepsNulls", func(t *testing.T) {
		data, err := Marshal(cfg, "json")
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		value, present := doc[KeyPythonBinaryPath]
		assert.True(t, present)
		assert.Nil(t, value)
	})

	t.Run("TOMLOmitsNulls", func(t *testing.T) {
		data, err := Marshal(cfg, FormatTOML)
		require.NoError(t, err)
		assert.NotContains(t, string(data), KeyPythonBinaryPath)
		assert.Contains(t, string(data), KeyKeepLogs+" = true")
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		_, err := Marshal(cfg, "ini")
		assert.Error(t, err)
	})
}

// TestSaveLayer tests writing a raw layer as authored
func TestSaveLayer(t *testing.T) {
	tmpDir := t.TempDir()
	authored := NewLayer("user", TierUser, map[string]any{
		KeyKeepLogs:          true,
		KeyLanguageBlacklist: []any{"source.python"},
		"ycmd_unknown":       "kept",
	})

	for _, name := range []string{"user.json", "user.toml", "user.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, name)
			require.NoError(t, SaveLayer(path, authored))

			l, err := LoadLayerFile("user", TierUser, path)
			require.NoError(t, err)
			assert.Equal(t, authored.Keys(), l.Keys())

			_, issues := resolveLayers(t, l)
			require.Len(t, issues, 1)
			assert.Equal(t, IssueUnknownKey, issues[0].Code)
		})
	}
}

// TestExportEnv tests that exported variables rebuild the same configuration
func TestExportEnv(t *testing.T) {
	cfg := customizedConfig(t)
	opts := EnvOptions{Prefix: "YCMD_"}

	exports := ExportEnv(cfg, opts)
	assert.Equal(t, "debug", exports["YCMD_YCMD_LOG_LEVEL"])
	assert.Equal(t, "/tmp/ycmd.log", exports["YCMD_YCMD_LOG_FILE"])
	assert.Equal(t, `"true"`, exports["YCMD_SUBLIME_YCMD_LOG_FILE"])
	assert.Equal(t, `["source.go","source.python"]`, exports["YCMD_YCMD_LANGUAGE_WHITELIST"])
	assert.Equal(t, "20", exports["YCMD_SUBLIME_YCMD_BACKGROUND_THREADS"])
	assert.NotContains(t, exports, "YCMD_YCMD_IDLE_SUICIDE_SECONDS", "defaults are not exported")

	opts.Lookup = mapLookup(exports)
	l, err := EnvLayer(nil, opts)
	require.NoError(t, err)

	rebuilt, issues := resolveLayers(t, l)
	assert.Empty(t, issues)
	assert.Equal(t, cfg.Digest(), rebuilt.Digest())
}

// TestExportExhaustedWhitelist tests that a whitelist emptied by the
// blacklist survives saving and exporting
func TestExportExhaustedWhitelist(t *testing.T) {
	cfg, issues := resolveLayers(t,
		layer("defaults", TierDefaults, map[string]any{KeyLanguageWhitelist: []any{"source.js"}}),
		layer("project", TierProject, map[string]any{KeyLanguageBlacklist: []any{"source.js"}}),
	)
	require.Empty(t, issues)
	require.True(t, cfg.Exhausted(KeyLanguageWhitelist))

	tmpDir := t.TempDir()
	for _, name := range []string{"closed.json", "closed.toml", "closed.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, name)
			require.NoError(t, Save(path, cfg))

			l, err := LoadLayerFile("saved", TierUser, path)
			require.NoError(t, err)

			reloaded, _ := resolveLayers(t, l)
			assert.True(t, reloaded.Exhausted(KeyLanguageWhitelist))
			assert.False(t, reloaded.ScopeEnabled("source.go"))
			assert.Equal(t, cfg.Digest(), reloaded.Digest())
		})
	}

	t.Run("Env", func(t *testing.T) {
		opts := EnvOptions{Prefix: "YCMD_"}
		exports := ExportEnv(cfg, opts)
		assert.Equal(t, `["source.js"]`, exports["YCMD_YCMD_LANGUAGE_WHITELIST"])

		opts.Lookup = mapLookup(exports)
		l, err := EnvLayer(nil, opts)
		require.NoError(t, err)

		rebuilt, _ := resolveLayers(t, l)
		assert.Equal(t, cfg.Digest(), rebuilt.Digest())
	})
}
