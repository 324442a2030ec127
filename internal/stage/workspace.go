// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const workDirName = "capture"

// Workspace is a per-invocation staging area. Dir collects the artifacts
// that become the final folder; Scratch paths hold intermediates that are
// discarded. The temporary root lives inside the output base so the final
// move is a same-filesystem rename.
type Workspace struct {
	// Dir is the directory whose contents become the capture folder.
	Dir string

	root      string
	finalized bool
}

// New creates a workspace under outputBase, creating outputBase if needed.
func New(outputBase string) (*Workspace, error) {
	if err := os.MkdirAll(outputBase, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outputBase, err)
	}
	root, err := os.MkdirTemp(outputBase, ".capture-*")
	if err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	dir := filepath.Join(root, workDirName)
	if err := os.Mkdir(dir, 0o755); err != nil {
		os.RemoveAll(root)
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	return &Workspace{Dir: dir, root: root}, nil
}

// Path returns name inside the staged folder.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Scratch returns a path for an intermediate file that is not part of the
// final folder.
func (w *Workspace) Scratch(name string) string {
	return filepath.Join(w.root, name)
}

// Finalize moves the staged folder to outputBase/name, replacing any
// existing directory of that name. It returns the final path.
func (w *Workspace) Finalize(outputBase, name string) (string, error) {
	if w.finalized {
		return "", errors.New("workspace already finalized")
	}
	final := filepath.Join(outputBase, name)
	if err := os.RemoveAll(final); err != nil {
		return "", fmt.Errorf("removing existing %s: %w", final, err)
	}
	if err := os.Rename(w.Dir, final); err != nil {
		return "", fmt.Errorf("moving capture into %s: %w", final, err)
	}
	w.finalized = true
	return final, nil
}

// Cleanup removes the staging root and anything left in it. It is safe to
// call after Finalize and more than once.
func (w *Workspace) Cleanup() error {
	if err := os.RemoveAll(w.root); err != nil {
		return fmt.Errorf("removing staging directory %s: %w", w.root, err)
	}
	return nil
}
