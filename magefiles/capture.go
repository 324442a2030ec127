//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// capturesDir is where the Capture target writes.
const capturesDir = "captures"

// Capture builds the CLI and captures input (a URL, PDF or HTML file) into captures/.
func Capture(input string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), input, "-o", capturesDir)
}

// Retag re-extracts metadata for a capture folder.
func Retag(folder string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "--retag", folder)
}
