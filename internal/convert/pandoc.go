// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"path/filepath"

	"github.com/pdiddy/capture/internal/toolchain"
)

const pandocBinary = "pandoc"

// PandocConverter converts HTML by running pandoc with media extraction.
type PandocConverter struct {
	runner toolchain.Runner
}

// NewPandocConverter creates a converter that runs pandoc through runner.
// It verifies that pandoc is on PATH before returning.
func NewPandocConverter(runner toolchain.Runner) (*PandocConverter, error) {
	if runner == nil {
		runner = toolchain.OSRunner{}
	}
	if _, err := runner.LookPath(pandocBinary); err != nil {
		return nil, fmt.Errorf("pandoc not available: %w", err)
	}
	return &PandocConverter{runner: runner}, nil
}

// Convert runs `pandoc -f html -t markdown --extract-media images <html>`
// inside workDir so that image references come out relative to it.
func (p *PandocConverter) Convert(htmlPath, workDir string) (string, error) {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", htmlPath, err)
	}

	out, err := toolchain.Output(p.runner, toolchain.Command{
		Name: pandocBinary,
		Args: []string{"-f", "html", "-t", "markdown", "--extract-media", MediaDir, abs},
		Dir:  workDir,
	})
	if err != nil {
		return "", fmt.Errorf("converting %s with pandoc: %w", htmlPath, err)
	}
	return out, nil
}
