package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/semcue/api"
	"github.com/c360studio/semcue/config"
)

// shutdownTimeout bounds graceful shutdown of the serve command.
const shutdownTimeout = 30 * time.Second

func languagesCmd(g *globals) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the languages with phrase tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(g.cfg, g.logger)
			if err != nil {
				return err
			}
			langs := api.NewServer(registry, g.cfg.Thresholds(), nil, g.logger).Languages()

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, langs)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LANGUAGE\tNAME\tSINGLE\tMULTIPLE")
			for _, l := range langs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", l.Language, l.Name, l.Single, l.Multiple)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func phrasesCmd(g *globals) *cobra.Command {
	var (
		view   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "phrases [language]",
		Short: "Print the cue phrases of a language",
		Long: `Print the cue phrases of a language, one per line. Without an argument the
configured default language is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := g.cfg.Language.Default
			if len(args) == 1 {
				lang = args[0]
			}

			registry, err := loadRegistry(g.cfg, g.logger)
			if err != nil {
				return err
			}
			resp, err := api.NewServer(registry, g.cfg.Thresholds(), nil, g.logger).Phrases(api.PhraseRequest{
				Language: lang,
				View:     view,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, resp)
			}
			words := resp.Words
			if resp.Phrases != nil {
				words = resp.Phrases.AllWords
			}
			for _, w := range words {
				fmt.Fprintln(out, w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&view, "view", "all", "Which list to print (single, multiple, all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func serveCmd(g *globals) *cobra.Command {
	var (
		addr     string
		embedded bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve phrase tables over HTTP and NATS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				g.cfg.HTTP.Enabled = true
				g.cfg.HTTP.Addr = addr
			}
			if embedded {
				g.cfg.NATS.Enabled = true
				g.cfg.NATS.Embedded = true
			}

			app, err := NewApp(g.cfg, g.logger)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := app.Start(ctx); err != nil {
				return err
			}
			g.logger.Info("Semcue ready",
				slog.String("version", Version),
				slog.String("languages", strings.Join(app.registry.Languages(), ",")))

			<-ctx.Done()
			g.logger.Info("Received shutdown signal")
			app.Shutdown(shutdownTimeout)
			g.logger.Info("Semcue shutdown complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides http.addr)")
	cmd.Flags().BoolVar(&embedded, "embedded-nats", false, "Answer phrase requests on an in-process NATS server")
	return cmd
}

func configCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialise configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(g.cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default user config if it does not exist",
		Args:  cobra.NoArgs,
		// The existing config may be invalid; do not load it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			g.setupLogging(cmd.ErrOrStderr())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.NewLoader(g.logger).EnsureUserConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
