// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the generative text model behind one operation so
// the merge, cleanup, generation and metadata stages can run against a
// hosted API, a local script or a test double.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/capture/internal/toolchain"
	"github.com/pdiddy/capture/pkg/types"
)

// DefaultMaxTokens caps responses when the config leaves MaxTokens at zero.
// Merged documents can be long.
const DefaultMaxTokens = 16000

// Request is one generative call.
type Request struct {
	// Prompt is the full instruction text.
	Prompt string

	// Schema, when non-nil, is a JSON schema the response must conform to.
	Schema map[string]any

	// SchemaName names the schema for backends that require one.
	SchemaName string

	// AttachmentPath is a PDF sent alongside the prompt. Empty means none.
	AttachmentPath string
}

// Backend produces text for a Request. Implementations return the model's
// full text output; an error means the call did not complete.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// New builds the backend named in cfg. runner is used by the command
// backend and httpClient by the Claude backend; either may be nil.
func New(cfg types.AIConfig, runner toolchain.Runner, httpClient *http.Client) (Backend, error) {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	switch cfg.Backend {
	case types.AIBackendClaude:
		return &ClaudeBackend{APIKey: cfg.APIKey, Model: cfg.Model, MaxTokens: maxTokens, Client: httpClient}, nil
	case types.AIBackendOpenAI:
		return NewOpenAIBackend(cfg.APIKey, cfg.Model, maxTokens), nil
	case types.AIBackendCommand:
		if len(cfg.Command) == 0 {
			return nil, fmt.Errorf("ai: command backend needs a command")
		}
		if runner == nil {
			runner = toolchain.OSRunner{}
		}
		return &CommandBackend{Argv: cfg.Command, Runner: runner}, nil
	default:
		return nil, fmt.Errorf("ai: unknown backend %q", cfg.Backend)
	}
}
