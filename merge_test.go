// FILE: ycmdconfig/merge_test.go
package ycmdconfig

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layer(name string, tier Tier, data map[string]any) *RawLayer {
	return NewLayer(name, tier, data)
}

// TestMergeReplace tests that the highest-precedence layer wins
func TestMergeReplace(t *testing.T) {
	doc, err := Merge(nil,
		layer("defaults", TierDefaults, map[string]any{KeyKeepLogs: false, KeyIdleSuicideSeconds: 300}),
		layer("user", TierUser, map[string]any{KeyKeepLogs: true}),
		layer("project", TierProject, map[string]any{KeyKeepLogs: false}),
	)
	require.NoError(t, err)

	assert.Equal(t, false, doc.Values[KeyKeepLogs])
	assert.Equal(t, "project", doc.Origins[KeyKeepLogs])
	assert.Equal(t, 300, doc.Values[KeyIdleSuicideSeconds])
	assert.Equal(t, "defaults", doc.Origins[KeyIdleSuicideSeconds])

	_, present := doc.Values[KeyRootDirectory]
	assert.False(t, present, "keys no layer defines stay absent")
	assert.Empty(t, doc.Issues)
}

// TestMergeListUnion tests list union ordering and deduplication
func TestMergeListUnion(t *testing.T) {
	doc, err := Merge(nil,
		layer("defaults", TierDefaults, map[string]any{KeyLanguageWhitelist: []any{"source.c", "source.python"}}),
		layer("user", TierUser, map[string]any{KeyLanguageWhitelist: []any{"source.go", "source.c"}}),
		layer("project", TierProject, map[string]any{KeyLanguageWhitelist: []string{"source.rust"}}),
	)
	require.NoError(t, err)

	assert.Equal(t, []any{"source.c", "source.python", "source.go", "source.rust"}, doc.Values[KeyLanguageWhitelist])
	assert.Equal(t, "project", doc.Origins[KeyLanguageWhitelist])
}

// TestMergeBlacklistDominance tests that deny items from any layer remove allow items from every layer
func TestMergeBlacklistDominance(t *testing.T) {
	tests := []struct {
		name      string
		layers    []*RawLayer
		want      []any
		exhausted bool
	}{
		{
			name: "BlacklistInHigherLayer",
			layers: []*RawLayer{
				layer("defaults", TierDefaults, map[string]any{KeyLanguageWhitelist: []any{"source.c", "source.python"}}),
				layer("user", TierUser, map[string]any{KeyLanguageBlacklist: []any{"source.python"}}),
			},
			want: []any{"source.c"},
		},
		{
			name: "BlacklistInLowerLayer",
			layers: []*RawLayer{
				layer("defaults", TierDefaults, map[string]any{KeyLanguageBlacklist: []any{"source.python"}}),
				layer("project", TierProject, map[string]any{KeyLanguageWhitelist: []any{"source.c", "source.python"}}),
			},
			want: []any{"source.c"},
		},
		{
			name: "EverythingDenied",
			layers: []*RawLayer{
				layer("user", TierUser, map[string]any{
					KeyLanguageWhitelist: []any{"source.c"},
					KeyLanguageBlacklist: []any{"source.c"},
				}),
			},
			want:      []any{},
			exhausted: true,
		},
		{
			name: "EverythingDeniedAcrossLayers",
			layers: []*RawLayer{
				layer("defaults", TierDefaults, map[string]any{KeyLanguageWhitelist: []any{"source.js"}}),
				layer("project", TierProject, map[string]any{KeyLanguageBlacklist: []any{"source.js"}}),
			},
			want:      []any{},
			exhausted: true,
		},
		{
			name: "EmptyWhitelistNotExhausted",
			layers: []*RawLayer{
				layer("user", TierUser, map[string]any{
					KeyLanguageWhitelist: []any{},
					KeyLanguageBlacklist: []any{"source.c"},
				}),
			},
			want: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Merge(nil, tt.layers...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Values[KeyLanguageWhitelist])
			assert.Equal(t, tt.exhausted, doc.Exhausted[KeyLanguageWhitelist])
		})
	}
}

// TestMergeMapUnion tests sub-key union with precedence on collision
func TestMergeMapUnion(t *testing.T) {
	doc, err := Merge(nil,
		layer("defaults", TierDefaults, map[string]any{KeyLanguageFiletype: map[string]any{"a": "x", "b": "y"}}),
		layer("user", TierUser, map[string]any{KeyLanguageFiletype: map[string]string{"b": "z"}}),
	)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"a": "x", "b": "z"}, doc.Values[KeyLanguageFiletype])
	assert.Equal(t, "user", doc.Origins[KeyLanguageFiletype])
}

// TestMergeIssues tests unknown keys and container shape mismatches
func TestMergeIssues(t *testing.T) {
	doc, err := Merge(nil,
		layer("defaults", TierDefaults, map[string]any{KeyLanguageWhitelist: []any{"source.c"}}),
		layer("user", TierUser, map[string]any{
			KeyLanguageWhitelist: "source.go",
			KeyLanguageFiletype:  []any{"go"},
			"zz_unknown":         1,
			"aa_unknown":         2,
		}),
	)
	require.NoError(t, err)

	unknown := doc.Issues.WithCode(IssueUnknownKey)
	require.Len(t, unknown, 2)
	assert.Equal(t, "aa_unknown", unknown[0].Key)
	assert.Equal(t, "zz_unknown", unknown[1].Key)
	assert.Equal(t, "user", unknown[0].Layer)

	shape := doc.Issues.WithCode(IssueTypeMismatch)
	require.Len(t, shape, 2)
	assert.Equal(t, KeyLanguageWhitelist, shape[0].Key)
	assert.Equal(t, "user", shape[0].Layer)
	assert.Equal(t, KeyLanguageFiletype, shape[1].Key)

	// The malformed layer contributes nothing; the valid one still does
	assert.Equal(t, []any{"source.c"}, doc.Values[KeyLanguageWhitelist])
	assert.Equal(t, "defaults", doc.Origins[KeyLanguageWhitelist])
	_, present := doc.Values[KeyLanguageFiletype]
	assert.False(t, present)
}

// TestMergeNestedTables tests flattening of TOML/YAML style tables
func TestMergeNestedTables(t *testing.T) {
	reg := MustRegistry(
		SchemaEntry{Key: "server.port", Kind: KindInteger, Default: 8080},
		SchemaEntry{Key: "server.aliases", Kind: KindStringMap, Default: map[string]string{}, Merge: MergeMapUnion},
	)

	doc, err := Merge(reg, layer("user", TierUser, map[string]any{
		"server": map[string]any{
			"port":    9090,
			"aliases": map[string]any{"a": "b"},
			"extra":   true,
		},
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, doc.Values["server.port"])
	assert.Equal(t, map[string]any{"a": "b"}, doc.Values["server.aliases"])
	require.Len(t, doc.Issues, 1)
	assert.Equal(t, "server.extra", doc.Issues[0].Key)
}

// TestMergeDoesNotAliasLayers tests that merged values are copies
func TestMergeDoesNotAliasLayers(t *testing.T) {
	list := []any{"source.c"}
	user := layer("user", TierUser, map[string]any{KeyLanguageBlacklist: list})

	doc, err := Merge(nil, user)
	require.NoError(t, err)

	merged := doc.Values[KeyLanguageBlacklist].([]any)
	merged[0] = "mutated"
	assert.Equal(t, "source.c", list[0])
}

// TestMergeStructural tests that a nil layer aborts the pass
func TestMergeStructural(t *testing.T) {
	_, err := Merge(nil, layer("user", TierUser, nil), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStructural))

	var se *StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "#1", se.Layer)
}

// TestSortLayers tests stable ordering by tier
func TestSortLayers(t *testing.T) {
	layers := []*RawLayer{
		layer("syntax", TierSyntax, nil),
		layer("user-a", TierUser, nil),
		layer("defaults", TierDefaults, nil),
		layer("user-b", TierUser, nil),
	}
	SortLayers(layers)

	var names []string
	for _, l := range layers {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"defaults", "user-a", "user-b", "syntax"}, names)
}

// TestLayerFromValue tests document shape checks
func TestLayerFromValue(t *testing.T) {
	l, err := LayerFromValue("", TierProject, map[string]any{"k": 1})
	require.NoError(t, err)
	assert.Equal(t, "project", l.Name)
	assert.Equal(t, []string{"k"}, l.Keys())

	empty, err := LayerFromValue("user", TierUser, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Data)

	_, err = LayerFromValue("user", TierUser, []any{1, 2})
	assert.ErrorIs(t, err, ErrStructural)
}
