package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/semcue/cuephrase"
	"github.com/c360studio/semcue/document"
	"github.com/c360studio/semcue/transition"
)

type scanOptions struct {
	lang    string
	urls    []string
	watch   bool
	asJSON  bool
	verbose bool
}

func scanCmd(g *globals) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan [files or globs...]",
		Short: "Rate the transition word usage of documents",
		Long: `Scan documents sentence by sentence for transition words and rate the
share of sentences that contain one.

Arguments may be files, directories (searched for markdown, text and HTML
documents) or doublestar globs such as "docs/**/*.md". Pages can be fetched
with --url.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(opts.urls) == 0 {
				return fmt.Errorf("nothing to scan: pass files, globs or --url")
			}
			if opts.watch && len(args) == 0 {
				return fmt.Errorf("--watch needs local files")
			}
			return runScan(commandContext(cmd), g, opts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "Language of the documents (default language.default)")
	cmd.Flags().StringSliceVar(&opts.urls, "url", nil, "Fetch and scan an https page (repeatable)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-scan files when they change")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print JSON reports")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "List the sentences with transition words")
	return cmd
}

// scanner researches documents with one analyzer.
type scanner struct {
	analyzer   *transition.Analyzer
	thresholds transition.Thresholds
	out        io.Writer
	opts       *scanOptions
}

func runScan(ctx context.Context, g *globals, opts *scanOptions, patterns []string, out io.Writer) error {
	lang := opts.lang
	if lang == "" {
		lang = g.cfg.Language.Default
	}

	registry, err := loadRegistry(g.cfg, g.logger)
	if err != nil {
		return err
	}
	set, err := registry.Get(lang)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, registry.Languages())
	}

	s := &scanner{
		analyzer:   transition.NewAnalyzer(set),
		thresholds: g.cfg.Thresholds(),
		out:        out,
		opts:       opts,
	}

	var files []string
	if len(patterns) > 0 {
		files, err = document.ResolveFiles(patterns)
		if err != nil {
			return err
		}
		for _, path := range files {
			if err := s.scanFile(path); err != nil {
				return err
			}
		}
	}

	if len(opts.urls) > 0 {
		fetcher := document.NewFetcher(g.cfg.Fetch.Timeout, g.cfg.Fetch.UserAgent, g.cfg.Fetch.MaxContentSize)
		for _, u := range opts.urls {
			doc, err := fetcher.Fetch(ctx, u)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", u, err)
			}
			if err := s.report(doc); err != nil {
				return err
			}
		}
	}

	if !opts.watch {
		return nil
	}
	return s.watch(ctx, g.logger, set, files, g.cfg.Watch.DebounceDelay)
}

func (s *scanner) scanFile(path string) error {
	doc, err := document.ReadFile(path)
	if err != nil {
		return err
	}
	return s.report(doc)
}

func (s *scanner) report(doc *document.Document) error {
	rep := s.analyzer.Report(doc.Source, doc.Text, s.thresholds)
	if s.opts.asJSON {
		return writeJSON(s.out, rep)
	}

	fmt.Fprintf(s.out, "%s: %d sentences, %d with transition words (%.1f%%) %s\n",
		displayName(doc), rep.TotalSentences, rep.TransitionWordSentences,
		percentage(rep.Result), rep.Assessment.Rating)
	fmt.Fprintf(s.out, "  %s\n", rep.Assessment.Text)
	if s.opts.verbose {
		for _, sr := range rep.Sentences {
			fmt.Fprintf(s.out, "  - %s %v\n", sr.Sentence, sr.TransitionWords)
		}
	}
	return nil
}

func (s *scanner) watch(ctx context.Context, logger *slog.Logger, set *cuephrase.Set, files []string, debounce time.Duration) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	w, err := document.NewWatcher(files, debounce, logger)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	go w.Run(ctx)

	logger.Info("Watching for changes", slog.Int("files", len(files)), slog.String("language", set.Language()))
	for change := range w.Changes() {
		if change.Removed {
			logger.Info("File removed", slog.String("path", change.Path))
			continue
		}
		if err := s.scanFile(change.Path); err != nil {
			logger.Warn("Rescan failed", slog.String("path", change.Path), slog.String("error", err.Error()))
		}
	}
	return nil
}

func displayName(doc *document.Document) string {
	if doc.Title != "" {
		return fmt.Sprintf("%s (%s)", doc.Source, doc.Title)
	}
	return doc.Source
}

func percentage(r transition.Result) float64 {
	if r.TotalSentences == 0 {
		return 0
	}
	return 100 * float64(r.TransitionWordSentences) / float64(r.TotalSentences)
}
