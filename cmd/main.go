// FILE: ycmdconfig/cmd/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ycmdconfig"
)

var (
	defaultsFile string
	userFile     string
	projectFile  string
	syntaxFile   string
	envPrefix    string
	noEnv        bool
	logLevel     string
	cpuCount     int
	overrides    []string
	format       string
	strict       bool
	pollInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "ycmdconfig",
	Short: "Resolve layered ycmd plugin settings",
	Long: `ycmdconfig merges the defaults, user, project and syntax settings layers of
the ycmd completion plugin, validates every key against the built-in schema
and prints the resolved configuration together with any issues found.`,
	SilenceUsage: true,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStore(newLogger())
		if err != nil {
			return err
		}
		defer store.Close()

		cfg := store.Current()
		data, err := ycmdconfig.Marshal(cfg, format)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		printIssues(cmd.ErrOrStderr(), cfg.Issues())
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report settings issues without printing the configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStore(newLogger())
		if err != nil {
			return err
		}
		defer store.Close()

		cfg := store.Current()
		issues := cfg.Issues()
		printIssues(cmd.OutOrStdout(), issues)
		if len(issues) == 0 {
			success(cmd.OutOrStdout(), "settings are valid (digest "+cfg.Digest()[:12]+")")
			return nil
		}
		if strict {
			return fmt.Errorf("%d settings issue(s)", len(issues))
		}
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "List every recognized setting",
	Run: func(cmd *cobra.Command, args []string) {
		reg := ycmdconfig.DefaultRegistry()
		for _, entry := range reg.Entries() {
			def, _ := reg.Default(entry.Key)
			printSchemaEntry(cmd.OutOrStdout(), entry, def)
		}
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Resolve settings and re-resolve whenever a settings file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		store, err := buildStore(logger)
		if err != nil {
			return err
		}
		defer store.Close()

		opts := ycmdconfig.DefaultWatchOptions()
		opts.PollInterval = pollInterval
		if err := store.AutoReload(opts); err != nil {
			return err
		}

		events := store.Watch()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		info(out, fmt.Sprintf("watching %s", strings.Join(store.WatchedPaths(), ", ")))
		info(out, "current digest "+store.Current().Digest())

		for {
			select {
			case <-ctx.Done():
				info(out, "shutting down")
				return nil
			case event, ok := <-events:
				if !ok {
					return nil
				}
				printEvent(out, event)
			}
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&defaultsFile, "defaults", "", "Packaged defaults settings file")
	flags.StringVar(&userFile, "user", "", "User settings file")
	flags.StringVar(&projectFile, "project", "", "Project settings file")
	flags.StringVar(&syntaxFile, "syntax", "", "Syntax-specific settings file")
	flags.StringVar(&envPrefix, "env-prefix", ycmdconfig.DefaultEnvPrefix, "Prefix of environment overrides")
	flags.BoolVar(&noEnv, "no-env", false, "Ignore environment overrides")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.IntVar(&cpuCount, "cpus", 0, "CPU count used by derived defaults (0 probes the machine)")
	flags.StringArrayVar(&overrides, "set", nil, "Override a setting (key=value, repeatable)")

	resolveCmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, toml, yaml)")
	validateCmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when issues are found")
	watchCmd.Flags().DurationVar(&pollInterval, "interval", ycmdconfig.DefaultPollInterval, "File poll interval")

	rootCmd.AddCommand(resolveCmd, validateCmd, schemaCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func buildStore(logger *slog.Logger) (*ycmdconfig.Store, error) {
	b := ycmdconfig.NewBuilder().
		WithLogger(logger).
		WithLayerFile(ycmdconfig.TierDefaults, defaultsFile).
		WithLayerFile(ycmdconfig.TierUser, userFile).
		WithLayerFile(ycmdconfig.TierProject, projectFile).
		WithLayerFile(ycmdconfig.TierSyntax, syntaxFile).
		WithOverrides(overrides...)

	if !noEnv {
		b.WithEnvPrefix(envPrefix)
	}
	if cpuCount > 0 {
		b.WithCPUProbe(func() int { return cpuCount })
	}

	store, err := b.Build()
	if err != nil {
		var se *ycmdconfig.StructuralError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("layer %q is malformed: %w", se.Layer, se.Err)
		}
		return nil, err
	}
	return store, nil
}
