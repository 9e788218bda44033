// Package main provides the semmap binary entry point.
// Semmap turns mapping rule snapshots into TransformRules documents and
// serves the rules API those documents are saved to.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/semmap/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semmap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	project    string
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Mapping rule serializer and rules API",
		Long: `Semmap serializes mapping rules into TransformRules XML documents.

It provides:
- serialize and validate for rule snapshot files (YAML or JSON)
- push and watch to save snapshots to a rules API over HTTP or NATS
- serve to run the rules API that stores documents per project
- config init and config show for the layered configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.project, "project", "", "Project key (overrides config)")

	cmd.AddCommand(
		serializeCmd(opts),
		validateCmd(opts),
		pushCmd(opts),
		watchCmd(opts),
		serveCmd(opts),
		configCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// setup configures logging and loads the layered configuration.
func (o *globalOptions) setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	logger := newLogger(o.logLevel, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	cfg, err := config.NewLoader(logger).Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if o.project != "" {
		cfg.Project = o.project
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, logger, nil
}

func newLogger(logLevel string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
