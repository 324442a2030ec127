// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capture

import (
	"context"

	"github.com/pdiddy/capture/internal/frontmatter"
	"github.com/pdiddy/capture/internal/metadata"
	"github.com/pdiddy/capture/internal/stage"
	"github.com/pdiddy/capture/pkg/types"
)

// generate runs the generation strategy: one model call turns the PDF into
// a frontmatter-prefixed document, metadata is read back from that
// frontmatter, and the provenance fields the model cannot know are
// injected after its title line.
func (p *Pipeline) generate(ctx context.Context, ws *stage.Workspace, pdfPath string, prov types.Provenance, opts Options, artifacts ...artifact) (Result, error) {
	doc, err := p.Engine.Generate(ctx, pdfPath)
	if err != nil {
		return Result{}, err
	}

	meta, err := metadata.FromFrontmatter(doc)
	if err != nil {
		return Result{}, err
	}
	prov.Hackernews = p.lookupThread(ctx, prov.URL)

	document := p.Formatter.Format(frontmatter.InjectFields(doc, prov))
	return p.finish(ctx, ws, opts, types.NewFrontmatterRecord(meta, prov), document, artifacts...)
}
