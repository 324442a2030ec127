// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"context"
	"fmt"

	"github.com/pdiddy/capture/internal/toolchain"
)

const singleFileBinary = "single-file"

// SingleFile snapshots a page into one self-contained HTML file with the
// single-file CLI.
type SingleFile struct {
	Resolver *Resolver
	Runner   toolchain.Runner
}

// NewSingleFile creates a snapshotter.
func NewSingleFile(r *Resolver, runner toolchain.Runner) *SingleFile {
	if runner == nil {
		runner = toolchain.OSRunner{}
	}
	return &SingleFile{Resolver: r, Runner: runner}
}

// Snapshot saves url to out. The process has no timeout.
func (s *SingleFile) Snapshot(_ context.Context, url, out string) error {
	exe, err := s.Resolver.Resolve()
	if err != nil {
		return err
	}
	if err := s.Runner.Run(toolchain.Command{
		Name: singleFileBinary,
		Args: []string{"--browser-executable-path", exe, url, out},
	}); err != nil {
		return fmt.Errorf("capturing %s: %w", url, err)
	}
	return nil
}
