// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format canonicalizes Markdown style. Formatting never fails a
// capture: when the formatter cannot run, the text passes through unchanged.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/capture/internal/toolchain"
)

// Formatter rewrites Markdown into canonical style.
type Formatter interface {
	Format(markdown string) string
}

// Passthrough returns its input unchanged.
type Passthrough struct{}

// Format implements Formatter.
func (Passthrough) Format(markdown string) string { return markdown }

// Dprint formats with `dprint fmt --stdin md`.
type Dprint struct {
	Runner toolchain.Runner
	Out    io.Writer
}

// NewDprint creates a dprint formatter. Warnings are written to w.
func NewDprint(runner toolchain.Runner, w io.Writer) *Dprint {
	if runner == nil {
		runner = toolchain.OSRunner{}
	}
	if w == nil {
		w = io.Discard
	}
	return &Dprint{Runner: runner, Out: w}
}

// Format implements Formatter. A failure prints a warning and returns
// markdown as given.
func (d *Dprint) Format(markdown string) string {
	fmt.Fprintf(d.Out, "Formatting with dprint...\n")
	out, err := toolchain.Output(d.Runner, toolchain.Command{
		Name:  "dprint",
		Args:  []string{"fmt", "--stdin", "md"},
		Stdin: strings.NewReader(markdown),
	})
	if err != nil {
		fmt.Fprintf(d.Out, "warning: dprint failed, keeping unformatted markdown: %v\n", err)
		return markdown
	}
	return out
}

// New returns Dprint when enabled, otherwise Passthrough.
func New(enabled bool, runner toolchain.Runner, w io.Writer) Formatter {
	if !enabled {
		return Passthrough{}
	}
	return NewDprint(runner, w)
}
