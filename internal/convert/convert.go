// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements HTML-to-Markdown conversion with pluggable
// backends. Converted documents keep their hyperlinks, and inline images
// are written under an images/ directory next to the output and referenced
// relatively.
package convert

import (
	"fmt"

	"github.com/pdiddy/capture/internal/toolchain"
	"github.com/pdiddy/capture/pkg/types"
)

// MediaDir is the directory, relative to the work directory, that extracted
// images are written to.
const MediaDir = "images"

// Converter transforms an HTML file into Markdown. Different backends
// (pandoc, in-process) implement this interface.
type Converter interface {
	// Convert reads the HTML at htmlPath and returns Markdown. Media files
	// are written under workDir/images and referenced relative to workDir.
	Convert(htmlPath, workDir string) (string, error)
}

// New returns the converter named in cfg. The pandoc backend checks that
// pandoc is installed.
func New(cfg types.ConverterConfig, runner toolchain.Runner) (Converter, error) {
	switch cfg.Backend {
	case types.ConverterPandoc, "":
		return NewPandocConverter(runner)
	case types.ConverterBuiltin:
		return &BuiltinConverter{}, nil
	default:
		return nil, fmt.Errorf("unknown converter backend %q", cfg.Backend)
	}
}
