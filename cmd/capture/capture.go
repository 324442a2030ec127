// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/capture/internal/browser"
	"github.com/pdiddy/capture/internal/capture"
	"github.com/pdiddy/capture/internal/catalog"
	"github.com/pdiddy/capture/internal/convert"
	"github.com/pdiddy/capture/internal/format"
	"github.com/pdiddy/capture/internal/hackernews"
	"github.com/pdiddy/capture/internal/llm"
	"github.com/pdiddy/capture/internal/metadata"
	"github.com/pdiddy/capture/internal/reconcile"
	"github.com/pdiddy/capture/internal/reducto"
	"github.com/pdiddy/capture/internal/toolchain"
	"github.com/pdiddy/capture/pkg/types"
)

func runCapture(cmd *cobra.Command, args []string) error {
	retagDir, _ := cmd.Flags().GetString("retag")
	if retagDir == "" && len(args) == 0 {
		return errors.New("provide a URL, a PDF or HTML file, or --retag FOLDER")
	}

	cfg := loadConfig(viper.GetViper(), loadedSecrets)
	strategy, err := strategyFromFlags(cmd, cfg.Strategy)
	if err != nil {
		return err
	}
	cfg.Strategy = strategy

	if retagDir != "" {
		if err := cfg.AI.Validate(); err != nil {
			return err
		}
		s, err := newSession(cfg, os.Stdout, false)
		if err != nil {
			return err
		}
		defer s.Close()
		_, err = s.pipeline.Retag(cmd.Context(), retagDir)
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	input := args[0]
	kind := capture.Detect(input)
	s, err := newSession(cfg, os.Stdout, kind != capture.KindPDF && cfg.Strategy != types.StrategyGenerate)
	if err != nil {
		return err
	}
	defer s.Close()

	if needsBrowser(kind, cfg.Strategy) {
		if _, err := s.browser.Resolve(); err != nil {
			return err
		}
	}

	opts := capture.Options{OutputDir: cfg.OutputDir, Strategy: cfg.Strategy}
	ctx := cmd.Context()
	switch kind {
	case capture.KindPDF:
		_, err = s.pipeline.CapturePDF(ctx, input, opts)
	case capture.KindHTML:
		_, err = s.pipeline.CaptureHTMLFile(ctx, input, opts)
	default:
		_, err = s.pipeline.CaptureURL(ctx, input, opts)
	}
	return err
}

// needsBrowser reports whether a capture of kind under strategy launches a
// browser, so a missing one fails before any work starts.
func needsBrowser(kind capture.Kind, strategy types.Strategy) bool {
	switch kind {
	case capture.KindURL:
		return true
	case capture.KindHTML:
		return strategy != types.StrategyInject
	default:
		return false
	}
}

// session is a wired pipeline plus the resources it holds open.
type session struct {
	pipeline *capture.Pipeline
	browser  *browser.Resolver
	catalog  *catalog.Store
}

// newSession wires the collaborators named in cfg. The HTML converter is
// only built when withConverter is set, so paths that never convert HTML
// do not require pandoc.
func newSession(cfg types.CaptureConfig, out io.Writer, withConverter bool) (*session, error) {
	runner := toolchain.OSRunner{}
	httpClient := &http.Client{}

	backend, err := llm.New(cfg.AI, runner, httpClient)
	if err != nil {
		return nil, err
	}

	resolver := browser.NewResolver(cfg.Browser, runner)
	printer := browser.NewChromePrinter(resolver)
	printer.NoSandbox = cfg.NoSandbox

	p := &capture.Pipeline{
		Snapshotter: browser.NewSingleFile(resolver, runner),
		Printer:     printer,
		Formatter:   format.New(cfg.Formatter.Enabled, runner, out),
		Engine:      reconcile.New(backend, out),
		Metadata:    metadata.NewExtractor(backend, out),
		CleanupPDF:  cfg.CleanupPDF,
		Out:         out,
	}

	if withConverter {
		conv, err := convert.New(cfg.Converter, runner)
		if err != nil {
			return nil, err
		}
		p.Converter = conv
	}
	if cfg.Reducto.APIKey != "" {
		p.Parser = reducto.New(cfg.Reducto, httpClient)
	}
	if cfg.HackerNews.Enabled {
		p.Threads = hackernews.New(cfg.HackerNews, httpClient)
	}

	s := &session{pipeline: p, browser: resolver}
	if cfg.Catalog.Path != "" {
		store, err := catalog.Open(cfg.Catalog.Path)
		if err != nil {
			fmt.Fprintf(out, "warning: catalog unavailable: %v\n", err)
		} else {
			s.catalog = store
			p.Catalog = store
		}
	}
	return s, nil
}

// Close releases the catalog.
func (s *session) Close() error {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Close()
}
