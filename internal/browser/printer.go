// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromePrinter renders local HTML files to PDF in a headless browser.
type ChromePrinter struct {
	Resolver *Resolver

	// NoSandbox disables the Chrome sandbox, needed in some containers.
	NoSandbox bool
}

// NewChromePrinter creates a printer that launches the resolved browser.
func NewChromePrinter(r *Resolver) *ChromePrinter {
	return &ChromePrinter{Resolver: r}
}

// PrintPDF renders htmlPath and writes the PDF to pdfPath. A fresh browser
// is started for each call and closed before returning.
func (p *ChromePrinter) PrintPDF(ctx context.Context, htmlPath, pdfPath string) error {
	exe, err := p.Resolver.Resolve()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", htmlPath, err)
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(exe),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-first-run", true),
	)
	if p.NoSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var buf []byte
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+abs),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	); err != nil {
		return fmt.Errorf("printing %s to PDF: %w", htmlPath, err)
	}

	if err := os.WriteFile(pdfPath, buf, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", pdfPath, err)
	}
	return nil
}
