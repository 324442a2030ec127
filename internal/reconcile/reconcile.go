// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile turns the one or two candidate Markdown renderings of a
// captured document into a single canonical body, either by taking one
// candidate verbatim or by asking a generative model to merge them.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/capture/internal/frontmatter"
	"github.com/pdiddy/capture/internal/llm"
)

// ErrNoCandidates is returned when neither candidate has any text.
var ErrNoCandidates = errors.New("reconcile: no candidate text")

// Candidates holds the two extractions of one document. Structured (A) is
// strong on equations and tables; Linked (B) on hyperlinks and images.
// A blank string means that extraction did not run.
type Candidates struct {
	Structured string
	Linked     string
}

// HasStructured reports whether candidate A is present.
func (c Candidates) HasStructured() bool { return strings.TrimSpace(c.Structured) != "" }

// HasLinked reports whether candidate B is present.
func (c Candidates) HasLinked() bool { return strings.TrimSpace(c.Linked) != "" }

// Mode selects the reconciliation strategy.
type Mode int

const (
	// ModeInject takes one candidate verbatim.
	ModeInject Mode = iota
	// ModeMerge sends both candidates to the generative model.
	ModeMerge
)

func (m Mode) String() string {
	switch m {
	case ModeInject:
		return "inject"
	case ModeMerge:
		return "merge"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// SelectMode returns ModeMerge only when both candidates are present and
// the generative pass is enabled.
func SelectMode(c Candidates, generative bool) Mode {
	if generative && c.HasStructured() && c.HasLinked() {
		return ModeMerge
	}
	return ModeInject
}

// Engine runs the generative passes. Progress lines go to Out.
type Engine struct {
	Backend llm.Backend
	Out     io.Writer
}

// New creates an Engine. A nil w discards progress.
func New(backend llm.Backend, w io.Writer) *Engine {
	if w == nil {
		w = io.Discard
	}
	return &Engine{Backend: backend, Out: w}
}

// Reconcile produces the canonical body from c. In ModeInject the linked
// candidate wins when both are present. ModeMerge with a candidate missing
// degrades to injection. Backend failures are returned unchanged in kind.
func (e *Engine) Reconcile(ctx context.Context, c Candidates, mode Mode) (string, error) {
	if !c.HasStructured() && !c.HasLinked() {
		return "", ErrNoCandidates
	}

	if mode != ModeMerge || !c.HasStructured() || !c.HasLinked() {
		if c.HasLinked() {
			return c.Linked, nil
		}
		return c.Structured, nil
	}

	prompt, err := BuildMergePrompt(c)
	if err != nil {
		return "", fmt.Errorf("rendering merge prompt: %w", err)
	}

	fmt.Fprintf(e.Out, "Merging with LLM...\n")
	out, err := e.Backend.Generate(ctx, llm.Request{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("merging candidates: %w", err)
	}
	return frontmatter.StripGeneratedFences(out), nil
}

// Cleanup polishes a single candidate with the generative model.
func (e *Engine) Cleanup(ctx context.Context, markdown string) (string, error) {
	prompt, err := buildCleanupPrompt(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering cleanup prompt: %w", err)
	}

	fmt.Fprintf(e.Out, "Cleaning up with LLM...\n")
	out, err := e.Backend.Generate(ctx, llm.Request{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("cleaning up markdown: %w", err)
	}
	return frontmatter.StripGeneratedFences(out), nil
}

// Generate asks the model to convert the PDF at pdfPath directly into a
// frontmatter-prefixed Markdown document. The frontmatter carries title,
// publish_date and tags only. Leading blank lines are dropped so the
// frontmatter opens the document.
func (e *Engine) Generate(ctx context.Context, pdfPath string) (string, error) {
	prompt, err := buildGeneratePrompt()
	if err != nil {
		return "", fmt.Errorf("rendering generation prompt: %w", err)
	}

	fmt.Fprintf(e.Out, "Generating markdown with LLM...\n")
	out, err := e.Backend.Generate(ctx, llm.Request{Prompt: prompt, AttachmentPath: pdfPath})
	if err != nil {
		return "", fmt.Errorf("generating markdown: %w", err)
	}
	return strings.TrimLeft(frontmatter.StripGeneratedFences(out), " \t\r\n"), nil
}
