// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capture

import (
	"context"
	"fmt"

	"github.com/pdiddy/capture/internal/convert"
	"github.com/pdiddy/capture/internal/reconcile"
	"github.com/pdiddy/capture/internal/sanitize"
	"github.com/pdiddy/capture/internal/stage"
	"github.com/pdiddy/capture/pkg/types"
)

const (
	pageHTML = "page.html"
	pagePDF  = "page.pdf"
)

// CaptureURL snapshots the page at rawURL and captures it.
func (p *Pipeline) CaptureURL(ctx context.Context, rawURL string, opts Options) (Result, error) {
	if err := p.checkParser(opts.strategy()); err != nil {
		return Result{}, err
	}

	ws, err := stage.New(opts.OutputDir)
	if err != nil {
		return Result{}, err
	}
	defer ws.Cleanup()

	htmlPath := ws.Path(pageHTML)
	fmt.Fprintf(p.out(), "Capturing %s...\n", rawURL)
	if err := p.Snapshotter.Snapshot(ctx, rawURL, htmlPath); err != nil {
		return Result{}, err
	}

	prov := types.Provenance{Domain: Domain(rawURL), URL: rawURL, CaptureDate: p.today()}
	return p.captureHTML(ctx, ws, htmlPath, prov, opts)
}

// CaptureHTMLFile captures a saved HTML page. The source URL is recovered
// from the file when possible; otherwise the file stem stands in for the
// domain and url is empty.
func (p *Pipeline) CaptureHTMLFile(ctx context.Context, path string, opts Options) (Result, error) {
	if err := p.checkParser(opts.strategy()); err != nil {
		return Result{}, err
	}

	sourceURL, err := convert.SourceURL(path)
	if err != nil {
		return Result{}, err
	}
	prov := types.Provenance{Domain: stem(path), URL: sourceURL, CaptureDate: p.today()}
	if sourceURL != "" {
		prov.Domain = Domain(sourceURL)
	}

	ws, err := stage.New(opts.OutputDir)
	if err != nil {
		return Result{}, err
	}
	defer ws.Cleanup()

	htmlPath := ws.Path(pageHTML)
	if err := copyFile(path, htmlPath); err != nil {
		return Result{}, err
	}
	return p.captureHTML(ctx, ws, htmlPath, prov, opts)
}

// captureHTML runs the shared part of the URL and HTML-file paths against
// the staged page.
func (p *Pipeline) captureHTML(ctx context.Context, ws *stage.Workspace, htmlPath string, prov types.Provenance, opts Options) (Result, error) {
	strategy := opts.strategy()
	page := artifact{src: htmlPath, ext: ".html"}

	if strategy == types.StrategyGenerate {
		pdfPath := ws.Scratch(pagePDF)
		fmt.Fprintf(p.out(), "Rendering PDF...\n")
		if err := p.Printer.PrintPDF(ctx, htmlPath, pdfPath); err != nil {
			return Result{}, err
		}
		return p.generate(ctx, ws, pdfPath, prov, opts, page)
	}

	var c reconcile.Candidates
	if strategy == types.StrategyMerge {
		pdfPath := ws.Scratch(pagePDF)
		fmt.Fprintf(p.out(), "Rendering PDF...\n")
		if err := p.Printer.PrintPDF(ctx, htmlPath, pdfPath); err != nil {
			return Result{}, err
		}
		fmt.Fprintf(p.out(), "Parsing with Reducto...\n")
		structured, err := p.Parser.Parse(ctx, pdfPath)
		if err != nil {
			return Result{}, err
		}
		c.Structured = structured
	}

	if _, err := sanitize.File(htmlPath); err != nil {
		return Result{}, err
	}
	fmt.Fprintf(p.out(), "Converting HTML to markdown...\n")
	linked, err := p.Converter.Convert(htmlPath, ws.Dir)
	if err != nil {
		return Result{}, err
	}
	c.Linked = linked

	mode := reconcile.SelectMode(c, strategy == types.StrategyMerge)
	body, err := p.Engine.Reconcile(ctx, c, mode)
	if err != nil {
		return Result{}, err
	}
	body = p.Formatter.Format(body)

	meta, err := p.Metadata.Extract(ctx, body)
	if err != nil {
		return Result{}, err
	}
	prov.Hackernews = p.lookupThread(ctx, prov.URL)

	rec := types.NewFrontmatterRecord(meta, prov)
	return p.finish(ctx, ws, opts, rec, p.renderDocument(rec, body), page)
}

// checkParser fails fast when strategy needs the document parser and none
// is configured.
func (p *Pipeline) checkParser(strategy types.Strategy) error {
	if strategy == types.StrategyMerge && p.Parser == nil {
		return ErrMissingCredential
	}
	return nil
}
