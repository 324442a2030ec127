// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capture

import (
	"context"
	"fmt"

	"github.com/pdiddy/capture/internal/stage"
	"github.com/pdiddy/capture/pkg/types"
)

// CapturePDF captures a local PDF. The PDF stem stands in for the domain
// and url is empty. Outside the generate strategy the document parser is
// required whatever the strategy.
func (p *Pipeline) CapturePDF(ctx context.Context, path string, opts Options) (Result, error) {
	strategy := opts.strategy()
	if strategy != types.StrategyGenerate && p.Parser == nil {
		return Result{}, ErrMissingCredential
	}

	ws, err := stage.New(opts.OutputDir)
	if err != nil {
		return Result{}, err
	}
	defer ws.Cleanup()

	prov := types.Provenance{Domain: stem(path), CaptureDate: p.today()}
	original := artifact{src: path, ext: ".pdf", copy: true}

	if strategy == types.StrategyGenerate {
		return p.generate(ctx, ws, path, prov, opts, original)
	}

	fmt.Fprintf(p.out(), "Parsing with Reducto...\n")
	body, err := p.Parser.Parse(ctx, path)
	if err != nil {
		return Result{}, err
	}
	if p.CleanupPDF {
		if body, err = p.Engine.Cleanup(ctx, body); err != nil {
			return Result{}, err
		}
	}
	body = p.Formatter.Format(body)

	meta, err := p.Metadata.Extract(ctx, body)
	if err != nil {
		return Result{}, err
	}

	rec := types.NewFrontmatterRecord(meta, prov)
	return p.finish(ctx, ws, opts, rec, p.renderDocument(rec, body), original)
}
