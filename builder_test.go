// FILE: ycmdconfig/builder_test.go
package ycmdconfig

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuilder tests store construction through the fluent API
func TestBuilder(t *testing.T) {
	t.Run("TierOrderIndependentOfCallOrder", func(t *testing.T) {
		store, err := NewBuilder().
			WithCPUProbe(func() int { return 1 }).
			WithLayer(NewLayer("project", TierProject, map[string]any{KeyLogLevel: "error"})).
			WithLayer(NewLayer("defaults", TierDefaults, map[string]any{KeyLogLevel: "info"})).
			WithLayer(NewLayer("user", TierUser, map[string]any{KeyLogLevel: "debug"})).
			Build()
		require.NoError(t, err)
		defer store.Close()

		level, _, _ := store.Current().String(KeyLogLevel)
		assert.Equal(t, "error", level)
		threads, _ := store.Current().Int(KeyBackgroundThreads)
		assert.Equal(t, 5, threads)
	})

	t.Run("EnvAndOverridesOnTop", func(t *testing.T) {
		t.Setenv("BTEST_YCMD_KEEP_LOGS", "false")
		t.Setenv("BTEST_YCMD_LOG_LEVEL", "warning")

		store, err := NewBuilder().
			WithLayer(NewLayer("syntax:go", TierSyntax, map[string]any{KeyKeepLogs: true, KeyLogLevel: "info"})).
			WithEnvPrefix("BTEST_").
			WithOverrides("ycmd_log_level=critical").
			Build()
		require.NoError(t, err)
		defer store.Close()

		cfg := store.Current()
		keep, _ := cfg.Bool(KeyKeepLogs)
		assert.False(t, keep, "environment beats syntax settings")
		level, _, _ := cfg.String(KeyLogLevel)
		assert.Equal(t, "critical", level, "overrides beat the environment")
	})

	t.Run("LayerFiles", func(t *testing.T) {
		tmpDir := t.TempDir()
		userPath := filepath.Join(tmpDir, "user.yaml")
		writeFile(t, userPath, "ycmd_force_semantic_completion: true\n")

		store, err := NewBuilder().
			WithLayerFile(TierUser, userPath).
			WithLayerFile(TierProject, filepath.Join(tmpDir, "absent.json")).
			WithLayerFile(TierSyntax, "").
			Build()
		require.NoError(t, err)
		defer store.Close()

		force, _ := store.Current().Bool(KeyForceSemanticCompletion)
		assert.True(t, force)
	})

	t.Run("Logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		store, err := NewBuilder().
			WithLogger(logger).
			WithLayer(NewLayer("user", TierUser, map[string]any{"ycmd_mystery": 1})).
			Build()
		require.NoError(t, err)
		defer store.Close()

		assert.Contains(t, buf.String(), "settings issue")
		assert.Contains(t, buf.String(), "key=ycmd_mystery")
		assert.Contains(t, buf.String(), "settings published")
	})
}

// TestBuilderErrors tests failures surfaced by Build
func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() *Builder
		wantIs  error
	}{
		{
			name:    "NilLayer",
			builder: func() *Builder { return NewBuilder().WithLayer(nil) },
		},
		{
			name:    "BadOverride",
			builder: func() *Builder { return NewBuilder().WithOverrides("ycmd_keep_logs") },
		},
		{
			name: "RequiredFileMissing",
			builder: func() *Builder {
				return NewBuilder().WithRequiredLayerFile(TierDefaults, filepath.Join(t.TempDir(), "none.json"))
			},
			wantIs: ErrStructural,
		},
		{
			name: "ValidatorRejects",
			builder: func() *Builder {
				return NewBuilder().WithValidator(func(*Resolved) error { return errors.New("nope") })
			},
		},
		{
			name: "SourceFails",
			builder: func() *Builder {
				return NewBuilder().WithSource(LayerSourceFunc(func() (*RawLayer, error) {
					return nil, ErrStructural
				}))
			},
			wantIs: ErrStructural,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := tt.builder().Build()
			require.Error(t, err)
			assert.Nil(t, store)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}

	t.Run("MustBuildPanics", func(t *testing.T) {
		assert.Panics(t, func() { NewBuilder().WithLayer(nil).MustBuild() })
	})
}

// TestSortedSources tests tier ordering of mixed sources
func TestSortedSources(t *testing.T) {
	custom := LayerSourceFunc(func() (*RawLayer, error) { return nil, nil })
	b := NewBuilder().
		WithLayerFile(TierSyntax, "syntax.json").
		WithSource(custom).
		WithLayer(NewLayer("user", TierUser, nil)).
		WithLayerFile(TierDefaults, "defaults.json").
		WithLayerFile(TierUser, "user.json")

	sources := b.sortedSources()
	require.Len(t, sources, 5)
	assert.Equal(t, FileSource{Tier: TierDefaults, Path: "defaults.json"}, sources[0])
	assert.IsType(t, staticSource{}, sources[1])
	assert.Equal(t, FileSource{Tier: TierUser, Path: "user.json"}, sources[2])
	assert.Equal(t, FileSource{Tier: TierSyntax, Path: "syntax.json"}, sources[3])
	assert.IsType(t, LayerSourceFunc(nil), sources[4])
}
