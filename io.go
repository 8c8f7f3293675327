// File: ycmdconfig/io.go
package ycmdconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Marshal renders a resolved configuration in the given format. TOML has no
// null, so null values are omitted from TOML output.
func Marshal(cfg *Resolved, format string) ([]byte, error) {
	switch format {
	case FormatJSONC, "json":
		data, err := json.MarshalIndent(exportValues(cfg), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to format JSON settings: %w", err)
		}
		return append(data, '\n'), nil
	case FormatTOML:
		return marshalTOML(exportValues(cfg))
	case FormatYAML:
		data, err := yaml.Marshal(exportValues(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal settings to YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported settings format %q", format)
	}
}

// Save writes the resolved configuration atomically. The format follows the
// file extension and defaults to JSON.
func Save(path string, cfg *Resolved) error {
	format := detectFileFormat(path)
	if format == "" {
		format = FormatJSONC
	}
	data, err := Marshal(cfg, format)
	if err != nil {
		return err
	}
	return atomicWriteFile(path, data)
}

// SaveLayer writes a raw layer's data atomically, keeping its keys as
// authored. The format follows the file extension and defaults to JSON.
func SaveLayer(path string, layer *RawLayer) error {
	var (
		data []byte
		err  error
	)
	switch detectFileFormat(path) {
	case FormatTOML:
		data, err = marshalTOML(layer.Data)
	case FormatYAML:
		data, err = yaml.Marshal(layer.Data)
	default:
		data, err = json.MarshalIndent(layer.Data, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to marshal layer %s: %w", layer.Name, err)
	}
	return atomicWriteFile(path, data)
}

// ExportEnv returns variable -> value for every key whose resolved value
// differs from its default. Values use the same JSON literal syntax that
// EnvLayer reads back.
func ExportEnv(cfg *Resolved, opts EnvOptions) map[string]string {
	transform := opts.transform()
	exports := make(map[string]string)
	values := exportValues(cfg)

	for _, key := range cfg.Keys() {
		v, _ := cfg.Get(key)
		if def, _ := cfg.Registry().Default(key); v.Equal(def) && !cfg.Exhausted(key) {
			continue
		}
		var value string
		if s, isString := values[key].(string); isString && parseValue(s) == any(s) {
			value = s
		} else {
			raw, err := json.Marshal(values[key])
			if err != nil {
				continue
			}
			value = string(raw)
		}
		exports[transform(key)] = value
	}
	return exports
}

// exportValues returns the plain values to write out. An exhausted allow
// list is written as its deny list so that loading it back exhausts it again.
func exportValues(cfg *Resolved) map[string]any {
	values := cfg.AsMap()
	for _, entry := range cfg.Registry().Entries() {
		if entry.DenyKey != "" && cfg.Exhausted(entry.Key) {
			values[entry.Key] = values[entry.DenyKey]
		}
	}
	return values
}

func marshalTOML(data map[string]any) ([]byte, error) {
	nested := make(map[string]any, len(data))
	for key, value := range data {
		if value == nil {
			continue
		}
		setNestedValue(nested, key, value)
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(nested); err != nil {
		return nil, fmt.Errorf("failed to marshal settings to TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
