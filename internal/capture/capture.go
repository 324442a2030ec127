// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package capture orchestrates a capture: acquire the source, extract one or
// two candidate Markdown texts, reconcile them, derive metadata, render the
// frontmatter and move the staged folder into place. Every external tool or
// service is reached through a one-method interface so the whole pipeline
// runs against test doubles.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/capture/internal/frontmatter"
	"github.com/pdiddy/capture/internal/metadata"
	"github.com/pdiddy/capture/internal/reconcile"
	"github.com/pdiddy/capture/internal/stage"
	"github.com/pdiddy/capture/pkg/types"
)

var (
	// ErrMissingCredential is returned before any work starts when the
	// selected strategy needs the document parser and it has no credential.
	ErrMissingCredential = errors.New("REDUCTO_API_KEY is not set")

	// ErrNoDocument is returned by Retag when the folder holds no .md file.
	ErrNoDocument = errors.New("no .md file found")

	// ErrNoFrontmatter is returned by Retag when the document has no
	// frontmatter to preserve.
	ErrNoFrontmatter = errors.New("no frontmatter found")
)

// Snapshotter saves a web page as a single self-contained HTML file.
type Snapshotter interface {
	Snapshot(ctx context.Context, url, out string) error
}

// PDFPrinter renders a local HTML file to PDF.
type PDFPrinter interface {
	PrintPDF(ctx context.Context, htmlPath, pdfPath string) error
}

// DocumentParser extracts structure-faithful Markdown from a PDF.
type DocumentParser interface {
	Parse(ctx context.Context, pdfPath string) (string, error)
}

// Converter turns HTML into link- and image-faithful Markdown, writing
// media under workDir.
type Converter interface {
	Convert(htmlPath, workDir string) (string, error)
}

// Formatter canonicalizes Markdown. It never fails.
type Formatter interface {
	Format(markdown string) string
}

// ThreadFinder looks up a discussion thread for a URL. "" means none.
type ThreadFinder interface {
	Lookup(ctx context.Context, url string) string
}

// Recorder indexes finalized captures.
type Recorder interface {
	Record(ctx context.Context, folder, path string, rec types.FrontmatterRecord) error
}

// Options are the per-invocation choices.
type Options struct {
	// OutputDir is the base directory the capture folder is created in.
	OutputDir string

	// Strategy is merge, inject or generate. Empty means merge.
	Strategy types.Strategy
}

func (o Options) strategy() types.Strategy {
	if o.Strategy == "" {
		return types.StrategyMerge
	}
	return o.Strategy
}

// Result describes a finished capture.
type Result struct {
	// Dir is the final capture folder.
	Dir string
	// Document is the Markdown file inside Dir.
	Document string
	// Record is the frontmatter that was written.
	Record types.FrontmatterRecord
}

// Pipeline holds the collaborators of a capture. Parser may be nil when no
// credential is configured; Threads and Catalog may be nil to skip them.
type Pipeline struct {
	Snapshotter Snapshotter
	Printer     PDFPrinter
	Parser      DocumentParser
	Converter   Converter
	Formatter   Formatter
	Threads     ThreadFinder
	Catalog     Recorder
	Engine      *reconcile.Engine
	Metadata    *metadata.Extractor

	// CleanupPDF runs the generative cleanup over PDF extractions.
	CleanupPDF bool

	// Out receives progress lines and warnings.
	Out io.Writer

	// Now is the clock for capture_date. Nil means time.Now.
	Now func() time.Time
}

func (p *Pipeline) out() io.Writer {
	if p.Out == nil {
		return io.Discard
	}
	return p.Out
}

func (p *Pipeline) today() string {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return now().Format("2006-01-02")
}

func (p *Pipeline) lookupThread(ctx context.Context, u string) string {
	if p.Threads == nil || u == "" {
		return ""
	}
	fmt.Fprintf(p.out(), "Looking up Hacker News thread...\n")
	return p.Threads.Lookup(ctx, u)
}

// Kind is the type of a capture input.
type Kind int

const (
	KindURL Kind = iota
	KindPDF
	KindHTML
)

func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindHTML:
		return "html"
	default:
		return "url"
	}
}

// Detect classifies input. An existing .pdf file is a PDF, an existing
// .html or .htm file is HTML, and anything else is treated as a URL.
func Detect(input string) Kind {
	info, err := os.Stat(input)
	if err != nil || info.IsDir() {
		return KindURL
	}
	switch strings.ToLower(filepath.Ext(input)) {
	case ".pdf":
		return KindPDF
	case ".html", ".htm":
		return KindHTML
	default:
		return KindURL
	}
}

// Domain returns the host part of a URL, including any port.
func Domain(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Host
	}
	s := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	host, _, _ := strings.Cut(s, "/")
	return host
}

// stem is a filename without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// artifact is a file moved into the final folder under the folder's name.
type artifact struct {
	src  string
	ext  string
	copy bool
}

// finish renders the document, names the folder, places the artifacts and
// moves the staged folder into the output directory.
func (p *Pipeline) finish(ctx context.Context, ws *stage.Workspace, opts Options, rec types.FrontmatterRecord, document string, artifacts ...artifact) (Result, error) {
	folder := stage.FolderName(rec.Domain, rec.PublishDate, rec.Title)

	mdName := folder + ".md"
	if err := os.WriteFile(ws.Path(mdName), []byte(document), 0o644); err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", mdName, err)
	}

	for _, a := range artifacts {
		dst := ws.Path(folder + a.ext)
		if a.copy {
			if err := copyFile(a.src, dst); err != nil {
				return Result{}, err
			}
			continue
		}
		if err := os.Rename(a.src, dst); err != nil {
			return Result{}, fmt.Errorf("renaming %s: %w", filepath.Base(a.src), err)
		}
	}

	final, err := ws.Finalize(opts.OutputDir, folder)
	if err != nil {
		return Result{}, err
	}
	res := Result{Dir: final, Document: filepath.Join(final, mdName), Record: rec}

	p.record(ctx, folder, final, rec)
	fmt.Fprintf(p.out(), "Saved to %s/\n", final)
	return res, nil
}

// record indexes a capture. Failures are warnings.
func (p *Pipeline) record(ctx context.Context, folder, dir string, rec types.FrontmatterRecord) {
	if p.Catalog == nil {
		return
	}
	if err := p.Catalog.Record(ctx, folder, dir, rec); err != nil {
		fmt.Fprintf(p.out(), "warning: could not update catalog: %v\n", err)
	}
}

// renderDocument builds and formats the canonical document.
func (p *Pipeline) renderDocument(rec types.FrontmatterRecord, body string) string {
	return p.Formatter.Format(frontmatter.RenderRecord(rec, body))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
