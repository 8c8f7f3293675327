// FILE: ycmdconfig/decode.go
package ycmdconfig

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// TagName is the struct tag read by Scan.
const TagName = "settings"

// Settings is the typed view of the built-in keys. Null strings decode as "".
type Settings struct {
	RootDirectory       string `settings:"ycmd_root_directory"`
	DefaultSettingsPath string `settings:"ycmd_default_settings_path"`
	PythonBinaryPath    string `settings:"ycmd_python_binary_path"`

	LanguageWhitelist []string          `settings:"ycmd_language_whitelist"`
	LanguageBlacklist []string          `settings:"ycmd_language_blacklist"`
	LanguageFiletype  map[string]string `settings:"ycmd_language_filetype"`

	LogLevel string  `settings:"ycmd_log_level"`
	LogFile  LogFile `settings:"ycmd_log_file"`
	KeepLogs bool    `settings:"ycmd_keep_logs"`

	ForceSemanticCompletion bool `settings:"ycmd_force_semantic_completion"`
	IdleSuicideSeconds      int  `settings:"ycmd_idle_suicide_seconds"`
	CheckIntervalSeconds    int  `settings:"ycmd_check_interval_seconds"`
	BackgroundThreads       int  `settings:"sublime_ycmd_background_threads"`

	PluginLogLevel string `settings:"sublime_ycmd_log_level"`
	PluginLogFile  string `settings:"sublime_ycmd_log_file"`
}

// IdleSuicide returns the idle shutdown timeout. Zero disables it.
func (s Settings) IdleSuicide() time.Duration {
	return time.Duration(s.IdleSuicideSeconds) * time.Second
}

// CheckInterval returns how long a server waits on semantic subservers.
func (s Settings) CheckInterval() time.Duration {
	return time.Duration(s.CheckIntervalSeconds) * time.Second
}

// Scan decodes the keys under basePath into target using `settings` tags.
// Dotted keys are treated as nested sections, so Scan("server", &cfg) fills
// cfg from keys named "server.*". An empty basePath decodes every key.
func (r *Resolved) Scan(basePath string, target any) error {
	nested := make(map[string]any, len(r.values))
	for key, v := range r.values {
		setNestedValue(nested, key, v.Interface())
	}

	section := navigateToPath(nested, basePath)
	sectionMap, ok := section.(map[string]any)
	if !ok {
		if section != nil {
			return fmt.Errorf("path %q refers to non-map value (type %T)", basePath, section)
		}
		sectionMap = make(map[string]any)
	}

	if err := decodeInto(sectionMap, target); err != nil {
		return fmt.Errorf("decode failed for path %q: %w", basePath, err)
	}
	return nil
}

// decodeInto is the single decoding path for Settings and Scan. Values are
// already typed, so no weak conversion is enabled.
func decodeInto(source map[string]any, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode target must be non-nil pointer, got %T", target)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     target,
		TagName:    TagName,
		DecodeHook: decodeHook(),
		ZeroFields: true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}
	return decoder.Decode(source)
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		logFileHookFunc(),
		triStateHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)
}

// logFileHookFunc maps raw false/true/string onto the LogFile variant.
func logFileHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(LogFile{}) {
			return data, nil
		}
		switch v := data.(type) {
		case bool:
			if v {
				return LogFile{Mode: LogFileTemporary}, nil
			}
			return LogFile{Mode: LogFileDisabled}, nil
		case string:
			if v == "" {
				return nil, fmt.Errorf("log file path must not be empty")
			}
			return LogFile{Mode: LogFilePath, Path: v}, nil
		}
		return data, nil
	}
}

// triStateHookFunc maps raw booleans onto TriState.
func triStateHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(TriNull) {
			return data, nil
		}
		if b, ok := data.(bool); ok {
			if b {
				return TriTrue, nil
			}
			return TriFalse, nil
		}
		return data, nil
	}
}

// navigateToPath traverses nested map to reach the specified path
func navigateToPath(nested map[string]any, path string) any {
	path = strings.TrimSuffix(path, ".")
	if path == "" {
		return nested
	}

	current := any(nested)
	for _, segment := range strings.Split(path, ".") {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		value, exists := currentMap[segment]
		if !exists {
			return nil
		}
		current = value
	}
	return current
}
