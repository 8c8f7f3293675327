// FILE: ycmdconfig/discovery.go
package ycmdconfig

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultSettingsName is the base name of the plugin's settings files.
const DefaultSettingsName = "sublime-ycmd"

// DiscoveryOptions configures automatic settings file discovery
type DiscoveryOptions struct {
	// Base name of settings files (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// DefaultsDir holds the packaged defaults file
	DefaultsDir string

	// Custom user search paths, searched before XDG paths
	UserDirs []string

	// Environment variable naming an explicit user settings file
	EnvVar string

	// Whether to search in XDG config directories
	UseXDG bool

	// ProjectDir is searched for "<name>.<ext>" and ".<name>.<ext>"
	ProjectDir string

	// Syntax names a per-syntax file ("<Syntax>.<ext>") in the user dirs
	Syntax string
}

// DefaultDiscoveryOptions returns sensible defaults
func DefaultDiscoveryOptions(name string) DiscoveryOptions {
	if name == "" {
		name = DefaultSettingsName
	}
	return DiscoveryOptions{
		Name:       name,
		Extensions: []string{".sublime-settings", ".json", ".toml", ".yaml", ".yml"},
		EnvVar:     strings.ToUpper(strings.ReplaceAll(name, "-", "_")) + "_SETTINGS",
		UseXDG:     true,
	}
}

// Discover returns one file source per tier that has a settings file,
// lowest precedence first. A tier with no file found is omitted; a missing
// file is not an error.
func Discover(opts DiscoveryOptions) []FileSource {
	var sources []FileSource

	if opts.DefaultsDir != "" {
		if path := findFile([]string{opts.DefaultsDir}, opts.Name, opts.Extensions); path != "" {
			sources = append(sources, FileSource{Tier: TierDefaults, Path: path})
		}
	}

	userDirs := append([]string{}, opts.UserDirs...)
	if opts.UseXDG {
		userDirs = append(userDirs, getXDGConfigPaths(opts.Name)...)
	}

	userPath := ""
	if opts.EnvVar != "" {
		userPath = os.Getenv(opts.EnvVar)
	}
	if userPath == "" {
		userPath = findFile(userDirs, opts.Name, opts.Extensions)
	}
	if userPath != "" {
		sources = append(sources, FileSource{Tier: TierUser, Path: userPath})
	}

	if opts.ProjectDir != "" {
		path := findFile([]string{opts.ProjectDir}, opts.Name, opts.Extensions)
		if path == "" {
			path = findFile([]string{opts.ProjectDir}, "."+opts.Name, opts.Extensions)
		}
		if path != "" {
			sources = append(sources, FileSource{Tier: TierProject, Path: path})
		}
	}

	if opts.Syntax != "" {
		if path := findFile(userDirs, opts.Syntax, opts.Extensions); path != "" {
			sources = append(sources, FileSource{Name: "syntax:" + opts.Syntax, Tier: TierSyntax, Path: path})
		}
	}

	return sources
}

// findFile returns the first existing dir/name+ext.
func findFile(dirs []string, name string, extensions []string) string {
	for _, dir := range dirs {
		for _, ext := range extensions {
			path := filepath.Join(dir, name+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// getXDGConfigPaths returns XDG-compliant config search paths
func getXDGConfigPaths(appName string) []string {
	var paths []string

	// XDG_CONFIG_HOME
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	// XDG_CONFIG_DIRS
	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		// Default system paths
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}
