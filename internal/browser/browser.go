// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package browser locates a Chromium-family browser and drives it to
// snapshot pages (through the single-file CLI) and to print HTML to PDF
// (through the DevTools protocol).
package browser

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/pdiddy/capture/internal/toolchain"
)

// Candidates are the executable names tried on PATH, in order.
var Candidates = []string{"chrome", "chromium", "google-chrome", "google-chrome-stable", "chromium-browser"}

// ErrNoBrowser is returned when no browser executable can be found.
var ErrNoBrowser = fmt.Errorf("no browser found; tried: %s", strings.Join(Candidates, ", "))

// Resolver finds the browser executable once and remembers the answer.
type Resolver struct {
	// Explicit is a user-supplied executable. It is used as given.
	Explicit string

	// Runner resolves candidates on PATH.
	Runner toolchain.Runner

	// Fallback is consulted after the PATH candidates. It defaults to
	// rod's launcher lookup, which knows platform install locations.
	Fallback func() (string, bool)

	once sync.Once
	path string
	err  error
}

// NewResolver creates a Resolver. An empty explicit path means auto-detect.
func NewResolver(explicit string, runner toolchain.Runner) *Resolver {
	if runner == nil {
		runner = toolchain.OSRunner{}
	}
	return &Resolver{Explicit: explicit, Runner: runner, Fallback: launcher.LookPath}
}

// Resolve returns the browser executable, or ErrNoBrowser.
func (r *Resolver) Resolve() (string, error) {
	r.once.Do(func() {
		r.path, r.err = r.resolve()
	})
	return r.path, r.err
}

func (r *Resolver) resolve() (string, error) {
	if r.Explicit != "" {
		return r.Explicit, nil
	}
	if name, ok := toolchain.FirstAvailable(r.Runner, Candidates); ok {
		if path, err := r.Runner.LookPath(name); err == nil {
			return path, nil
		}
		return name, nil
	}
	if r.Fallback != nil {
		if path, ok := r.Fallback(); ok && path != "" {
			return path, nil
		}
	}
	return "", ErrNoBrowser
}

// IsNoBrowser reports whether err is a browser-resolution failure.
func IsNoBrowser(err error) bool {
	return errors.Is(err, ErrNoBrowser)
}
