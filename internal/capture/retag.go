// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdiddy/capture/internal/frontmatter"
	"github.com/pdiddy/capture/pkg/types"
)

// unknownDomain fills a missing domain on retag.
const unknownDomain = "unknown"

// Retag re-extracts metadata for the capture in folder and rewrites its
// frontmatter in place. domain, url and capture_date are preserved; the
// thread link is looked up again and kept when the lookup finds nothing.
func (p *Pipeline) Retag(ctx context.Context, folder string) (Result, error) {
	matches, err := filepath.Glob(filepath.Join(folder, "*.md"))
	if err != nil {
		return Result{}, fmt.Errorf("listing %s: %w", folder, err)
	}
	if len(matches) == 0 {
		return Result{}, fmt.Errorf("%s: %w", folder, ErrNoDocument)
	}
	sort.Strings(matches)
	path := matches[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := frontmatter.Parse(string(data))
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	if !doc.HasFrontmatter || doc.Record.IsZero() {
		return Result{}, fmt.Errorf("%s: %w", path, ErrNoFrontmatter)
	}

	meta, err := p.Metadata.Extract(ctx, doc.Body)
	if err != nil {
		return Result{}, err
	}

	prov := doc.Record.Provenance()
	if prov.Domain == "" {
		prov.Domain = unknownDomain
	}
	if thread := p.lookupThread(ctx, prov.URL); thread != "" {
		prov.Hackernews = thread
	}

	rec := types.NewFrontmatterRecord(meta, prov)
	if err := os.WriteFile(path, []byte(p.renderDocument(rec, doc.Body)), 0o644); err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", path, err)
	}

	dir, err := filepath.Abs(folder)
	if err != nil {
		dir = folder
	}
	p.record(ctx, filepath.Base(dir), dir, rec)
	fmt.Fprintf(p.out(), "Updated %s\n", path)
	return Result{Dir: dir, Document: path, Record: rec}, nil
}
