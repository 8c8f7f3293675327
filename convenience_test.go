// FILE: ycmdconfig/convenience_test.go
package ycmdconfig

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestQuick tests the one-call store constructor
func TestQuick(t *testing.T) {
	tmpDir := t.TempDir()
	defaults := filepath.Join(tmpDir, "sublime-ycmd.sublime-settings")
	user := filepath.Join(tmpDir, "user.json")
	writeFile(t, defaults, `{"ycmd_language_whitelist": ["source.c", "source.python"], "ycmd_keep_logs": false}`)
	writeFile(t, user, `{"ycmd_language_blacklist": ["source.python"], "ycmd_keep_logs": true}`)

	t.Setenv("QUICKTEST_YCMD_LOG_LEVEL", "error")

	store, err := Quick("QUICKTEST_", defaults, user, filepath.Join(tmpDir, "no-project.json"))
	require.NoError(t, err)
	defer store.Close()

	s := store.Current().Settings()
	assert.Equal(t, []string{"source.c"}, s.LanguageWhitelist)
	assert.True(t, s.KeepLogs)
	assert.Equal(t, "error", s.LogLevel)

	_, err = Quick("", "a", "b", "c", "d", "e")
	assert.Error(t, err)

	assert.Panics(t, func() { MustQuick("", "a", "b", "c", "d", "e") })
}

// TestGenerateFlags tests flags generated from the registry
func TestGenerateFlags(t *testing.T) {
	fs := GenerateFlags(nil)
	assert.NotNil(t, fs.Lookup(KeyKeepLogs))
	assert.NotNil(t, fs.Lookup(KeyBackgroundThreads))
	assert.Contains(t, fs.Lookup(KeyIdleSuicideSeconds).Usage, "default 300")

	require.NoError(t, fs.Parse([]string{
		"--ycmd_keep_logs=true",
		"--sublime_ycmd_background_threads", "3",
		`--ycmd_language_whitelist=["source.rust"]`,
	}))

	l, err := FlagLayer(fs)
	require.NoError(t, err)
	assert.Equal(t, TierOverride, l.Tier)
	assert.Equal(t, "flags", l.Name)
	assert.Len(t, l.Data, 3)

	cfg, issues := resolveLayers(t, l)
	assert.Empty(t, issues)
	s := cfg.Settings()
	assert.True(t, s.KeepLogs)
	assert.Equal(t, 3, s.BackgroundThreads)
	assert.Equal(t, []string{"source.rust"}, s.LanguageWhitelist)

	t.Run("UnknownFlag", func(t *testing.T) {
		fs := GenerateFlags(nil)
		assert.Error(t, fs.Parse([]string{"--ycmd_nope=1"}))
	})
}

// TestValidate tests required-key checks
func TestValidate(t *testing.T) {
	cfg, _ := resolveLayers(t, layer("user", TierUser, map[string]any{
		KeyRootDirectory: "/opt/ycmd",
		KeyKeepLogs:      false,
	}))

	assert.NoError(t, Validate(cfg, KeyRootDirectory))

	err := Validate(cfg, KeyRootDirectory, KeyPythonBinaryPath, KeyKeepLogs, "ycmd_nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyPythonBinaryPath)
	assert.Contains(t, err.Error(), KeyKeepLogs)
	assert.Contains(t, err.Error(), "ycmd_nope (not registered)")
	assert.NotContains(t, err.Error(), KeyRootDirectory)
}

// TestDebug tests the diagnostic dump
func TestDebug(t *testing.T) {
	cfg, _ := resolveLayers(t, layer("user", TierUser, map[string]any{
		KeyIdleSuicideSeconds: "soon",
	}))

	out := Debug(cfg)
	assert.Contains(t, out, KeyBackgroundThreads+" = 20 (derived)")
	assert.Contains(t, out, KeyIdleSuicideSeconds+" = 300\n")
	assert.Contains(t, out, "Issues (1):")
	assert.Contains(t, out, "TypeMismatch: "+KeyIdleSuicideSeconds+" (layer user)")
}
