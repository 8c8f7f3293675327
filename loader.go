// FILE: ycmdconfig/loader.go
package ycmdconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	// MaxLayerFileSize caps the size of a settings file.
	MaxLayerFileSize = 10 * 1024 * 1024
	// MaxValueSize caps a single environment or override value.
	MaxValueSize = 1024 * 1024
)

// Supported layer file formats.
const (
	FormatJSONC = "jsonc"
	FormatTOML  = "toml"
	FormatYAML  = "yaml"
)

// LoadLayerFile reads one settings file into a layer named name. A missing
// file returns ErrLayerNotFound; any other read or parse failure is a
// *StructuralError.
func LoadLayerFile(name string, tier Tier, path string) (*RawLayer, error) {
	if name == "" {
		name = tier.String()
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, path)
		}
		return nil, &StructuralError{Layer: name, Path: path, Err: fmt.Errorf("failed to stat settings file: %w", err)}
	}
	if fileInfo.IsDir() {
		return nil, newStructuralError(name, path, "settings path is a directory")
	}
	if fileInfo.Size() > MaxLayerFileSize {
		return nil, newStructuralError(name, path, "settings file exceeds maximum size %d bytes", MaxLayerFileSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &StructuralError{Layer: name, Path: path, Err: fmt.Errorf("failed to open settings file: %w", err)}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxLayerFileSize))
	if err != nil {
		return nil, &StructuralError{Layer: name, Path: path, Err: fmt.Errorf("failed to read settings file: %w", err)}
	}

	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(data)
	}

	layer, err := ParseLayer(name, tier, format, data)
	if err != nil {
		var se *StructuralError
		if errors.As(err, &se) {
			se.Path = path
		}
		return nil, err
	}
	layer.Path = path
	return layer, nil
}

// ParseLayer decodes settings content in the given format. Empty content
// yields an empty layer. A document that is not a mapping, or that does not
// parse, is a *StructuralError.
func ParseLayer(name string, tier Tier, format string, data []byte) (*RawLayer, error) {
	if name == "" {
		name = tier.String()
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return NewLayer(name, tier, nil), nil
	}

	var doc any
	switch format {
	case FormatJSONC, "json", "":
		// Sublime settings allow comments and trailing commas
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.UseNumber()
		if err := decoder.Decode(&doc); err != nil {
			return nil, newStructuralError(name, "", "failed to parse JSON settings: %v", err)
		}
	case FormatTOML:
		table := make(map[string]any)
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, newStructuralError(name, "", "failed to parse TOML settings: %v", err)
		}
		doc = table
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, newStructuralError(name, "", "failed to parse YAML settings: %v", err)
		}
	default:
		return nil, newStructuralError(name, "", "unsupported settings format %q", format)
	}

	return LayerFromValue(name, tier, doc)
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".sublime-settings", ".json", ".jsonc":
		return FormatJSONC
	case ".toml", ".tml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest any
	if err := json.Unmarshal(jsonc.ToJSON(data), &jsonTest); err == nil {
		return FormatJSONC
	}

	// TOML before YAML: most key = value files are also valid YAML scalars
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML
	}

	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return FormatYAML
	}

	return FormatJSONC
}
