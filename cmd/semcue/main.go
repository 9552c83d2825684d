// Package main provides the semcue binary entry point.
// Semcue serves per-language transition word tables and rates how well
// documents use them.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/semcue/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semcue"
)

func main() {
	// Add panic recovery
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

// globals holds the state shared by all subcommands. It is filled in by the
// root command's PersistentPreRunE.
type globals struct {
	configPath string
	logLevel   string
	tablesDir  string

	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Transition word tables and research",
		Long: `Semcue provides per-language transition word and cue phrase tables
(single words and multi-word phrases) and uses them to rate how well a
document connects its sentences.

Tables for English and Hebrew are built in; more can be added or the built-in
ones replaced with YAML tables on disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&g.tablesDir, "tables", "", "Directory of extra phrase tables")

	cmd.AddCommand(
		languagesCmd(g),
		phrasesCmd(g),
		scanCmd(g),
		serveCmd(g),
		configCmd(g),
	)

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Needs no config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			g.setupLogging(cmd.ErrOrStderr())
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// setup configures logging and loads the layered configuration.
func (g *globals) setup(stderr io.Writer) error {
	g.setupLogging(stderr)

	cfg, err := config.NewLoader(g.logger).Load(g.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if g.tablesDir != "" {
		cfg.Tables.Dir = g.tablesDir
	}
	g.cfg = cfg
	return nil
}

func (g *globals) setupLogging(stderr io.Writer) {
	level := slog.LevelInfo
	switch strings.ToLower(g.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	g.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.logger)
}
