// FILE: ycmdconfig/keys.go
package ycmdconfig

// Recognized settings keys.
const (
	KeyRootDirectory       = "ycmd_root_directory"
	KeyDefaultSettingsPath = "ycmd_default_settings_path"
	KeyPythonBinaryPath    = "ycmd_python_binary_path"

	KeyLanguageWhitelist = "ycmd_language_whitelist"
	KeyLanguageBlacklist = "ycmd_language_blacklist"
	KeyLanguageFiletype  = "ycmd_language_filetype"

	KeyLogLevel = "ycmd_log_level"
	KeyLogFile  = "ycmd_log_file"
	KeyKeepLogs = "ycmd_keep_logs"

	KeyForceSemanticCompletion = "ycmd_force_semantic_completion"
	KeyIdleSuicideSeconds      = "ycmd_idle_suicide_seconds"
	KeyCheckIntervalSeconds    = "ycmd_check_interval_seconds"

	KeyBackgroundThreads = "sublime_ycmd_background_threads"
	KeyPluginLogLevel    = "sublime_ycmd_log_level"
	KeyPluginLogFile     = "sublime_ycmd_log_file"
)

// Built-in defaults that are not zero values.
const (
	DefaultIdleSuicideSeconds   = 5 * 60
	DefaultCheckIntervalSeconds = 5

	// ThreadsPerCPU multiplies the probed CPU count when the background
	// thread count is left at 0.
	ThreadsPerCPU = 5

	// defaultSettingsRelPath is joined onto the root directory when no
	// default settings path is configured.
	defaultSettingsRelPath = "ycmd/default_settings.json"
)

// LogLevels is the closed set of log level names understood by ycmd.
var LogLevels = []string{"debug", "info", "warning", "error", "critical"}
