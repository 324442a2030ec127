// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds a single request. Zero means the stage default.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ReductoConfig holds settings for the document-structure extraction API.
type ReductoConfig struct {
	// BaseURL is the API root (e.g. "https://platform.reducto.ai").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is the bearer credential. Required by every path that parses PDFs.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// UploadTimeout bounds the multipart upload (default 120s).
	UploadTimeout time.Duration `json:"upload_timeout" yaml:"upload_timeout"`

	// ParseTimeout bounds the parse request (default 300s).
	ParseTimeout time.Duration `json:"parse_timeout" yaml:"parse_timeout"`
}

// Validate checks the Reducto settings.
func (c *ReductoConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.UploadTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.ParseTimeout, validation.Min(time.Duration(0))),
	)
}

// AI backend names.
const (
	AIBackendClaude  = "claude"
	AIBackendOpenAI  = "openai"
	AIBackendCommand = "command"
)

// AIConfig holds settings for the generative text backend.
type AIConfig struct {
	// Backend selects the implementation: claude, openai or command.
	Backend string `json:"backend" yaml:"backend"`

	// Model is the model identifier passed to the API backends.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API backends.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens caps the response length of the API backends.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Command is the argv of the external script used by the command backend.
	Command []string `json:"command,omitempty" yaml:"command,omitempty"`
}

// Validate checks the AI backend settings.
func (c *AIConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(AIBackendClaude, AIBackendOpenAI, AIBackendCommand)),
		validation.Field(&c.MaxTokens, validation.Min(0)),
	); err != nil {
		return err
	}
	switch c.Backend {
	case AIBackendCommand:
		if len(c.Command) == 0 {
			return fmt.Errorf("ai: backend is %q but command is empty", AIBackendCommand)
		}
	default:
		if c.APIKey == "" {
			return fmt.Errorf("ai: backend %q requires an API key", c.Backend)
		}
		if c.Model == "" {
			return fmt.Errorf("ai: backend %q requires a model", c.Backend)
		}
	}
	return nil
}

// Converter backend names.
const (
	ConverterPandoc  = "pandoc"
	ConverterBuiltin = "builtin"
)

// ConverterConfig selects the generic HTML-to-Markdown converter.
type ConverterConfig struct {
	// Backend is pandoc (external binary) or builtin (in-process).
	Backend string `json:"backend" yaml:"backend"`
}

// Validate checks the converter settings.
func (c *ConverterConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(ConverterPandoc, ConverterBuiltin)),
	)
}

// FormatterConfig controls the Markdown formatter.
type FormatterConfig struct {
	// Enabled turns dprint formatting on. When off, text passes through.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// HackerNewsConfig holds settings for the discussion-thread lookup.
type HackerNewsConfig struct {
	HTTPConfig `yaml:",inline"`

	// Enabled turns the lookup on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// BaseURL is the search API root (e.g. "https://hn.algolia.com/api/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// CatalogConfig locates the SQLite capture catalog.
type CatalogConfig struct {
	// Path is the database file. Empty disables the catalog.
	Path string `json:"path" yaml:"path"`
}

// CaptureConfig groups the settings of one capture invocation.
type CaptureConfig struct {
	// OutputDir is the base directory the capture folder is created in.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Browser is an explicit browser executable. Empty means auto-detect.
	Browser string `json:"browser,omitempty" yaml:"browser,omitempty"`

	// NoSandbox launches the PDF-printing browser without its sandbox.
	NoSandbox bool `json:"no_sandbox" yaml:"no_sandbox"`

	// Strategy selects merge, inject or generate.
	Strategy Strategy `json:"strategy" yaml:"strategy"`

	// CleanupPDF runs the generative cleanup pass over PDF extractions.
	CleanupPDF bool `json:"cleanup_pdf" yaml:"cleanup_pdf"`

	Reducto    ReductoConfig    `json:"reducto" yaml:"reducto"`
	AI         AIConfig         `json:"ai" yaml:"ai"`
	Converter  ConverterConfig  `json:"converter" yaml:"converter"`
	Formatter  FormatterConfig  `json:"formatter" yaml:"formatter"`
	HackerNews HackerNewsConfig `json:"hackernews" yaml:"hackernews"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog"`
}

// Validate checks every section that a capture needs up front. Every path
// extracts metadata, so the AI section is always validated; the Reducto
// credential is checked lazily by the paths that parse PDFs.
func (c *CaptureConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.Strategy, validation.Required, validation.In(StrategyMerge, StrategyInject, StrategyGenerate)),
	); err != nil {
		return err
	}
	if err := c.Reducto.Validate(); err != nil {
		return fmt.Errorf("reducto: %w", err)
	}
	if err := c.Converter.Validate(); err != nil {
		return fmt.Errorf("converter: %w", err)
	}
	return c.AI.Validate()
}
