// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata derives a document's title, publish date and tags from
// its Markdown, either through a schema-constrained generative call or from
// frontmatter a generation pass already wrote.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/pdiddy/capture/internal/frontmatter"
	"github.com/pdiddy/capture/internal/llm"
	"github.com/pdiddy/capture/pkg/types"
)

// ContextBudget is how many characters of the document the model sees.
// The tail beyond it is dropped.
const ContextBudget = 8000

// SchemaName identifies Schema to backends that need a name.
const SchemaName = "capture_metadata"

var (
	// ErrMissingTitle is returned when the extracted record has no title.
	ErrMissingTitle = errors.New("metadata: no title extracted")

	// ErrMalformedResponse is returned when the model's answer is not the
	// expected JSON object.
	ErrMalformedResponse = errors.New("metadata: malformed response")
)

// Schema constrains the model's answer.
var Schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{
			"type":        "string",
			"description": "The document title as written by the author.",
		},
		"publish_date": map[string]any{
			"type":        "string",
			"description": "Publication date as YYYY-MM-DD, or an empty string when unknown.",
		},
		"tags": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "3 to 7 short lowercase topic tags.",
		},
	},
	"required":             []string{"title", "publish_date", "tags"},
	"additionalProperties": false,
}

var metadataPromptTmpl = template.Must(template.New("metadata").Parse(`Extract metadata from the following captured document.

- title: the document's title as the author wrote it. Never invent one; use the main heading when there is no explicit title.
- publish_date: the publication date as YYYY-MM-DD, or "" when the document does not state one.
- tags: 3 to 7 short lowercase topic tags, hyphenated when multi-word.

Respond with the JSON object only.

Document:
{{.Markdown}}
`))

// Extractor runs the schema-constrained metadata call.
type Extractor struct {
	Backend llm.Backend
	Out     io.Writer
}

// NewExtractor creates an Extractor. A nil w discards progress.
func NewExtractor(backend llm.Backend, w io.Writer) *Extractor {
	if w == nil {
		w = io.Discard
	}
	return &Extractor{Backend: backend, Out: w}
}

// Truncate returns the first ContextBudget characters of markdown.
func Truncate(markdown string) string {
	n := 0
	for i := range markdown {
		if n == ContextBudget {
			return markdown[:i]
		}
		n++
	}
	return markdown
}

// Extract derives metadata from markdown. Transport failures come back
// wrapped; unusable answers wrap ErrMalformedResponse or ErrMissingTitle.
func (e *Extractor) Extract(ctx context.Context, markdown string) (types.CaptureMetadata, error) {
	var buf bytes.Buffer
	if err := metadataPromptTmpl.Execute(&buf, struct{ Markdown string }{Truncate(markdown)}); err != nil {
		return types.CaptureMetadata{}, fmt.Errorf("rendering metadata prompt: %w", err)
	}

	fmt.Fprintf(e.Out, "Extracting metadata...\n")
	out, err := e.Backend.Generate(ctx, llm.Request{
		Prompt:     buf.String(),
		Schema:     Schema,
		SchemaName: SchemaName,
	})
	if err != nil {
		return types.CaptureMetadata{}, fmt.Errorf("extracting metadata: %w", err)
	}
	return Parse(out)
}

// response mirrors Schema. Pointers let a JSON null read as absent.
type response struct {
	Title       *string  `json:"title"`
	PublishDate *string  `json:"publish_date"`
	Tags        []string `json:"tags"`
}

// Parse decodes a model answer into metadata. A surrounding code fence is
// tolerated.
func Parse(answer string) (types.CaptureMetadata, error) {
	var r response
	if err := json.Unmarshal([]byte(stripJSONFence(answer)), &r); err != nil {
		return types.CaptureMetadata{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	meta := types.CaptureMetadata{}
	if r.Title != nil {
		meta.Title = strings.TrimSpace(*r.Title)
	}
	if r.PublishDate != nil {
		meta.PublishDate = strings.TrimSpace(*r.PublishDate)
	}
	meta.Tags = cleanTags(r.Tags)

	if meta.Title == "" {
		return types.CaptureMetadata{}, ErrMissingTitle
	}
	return meta, nil
}

// FromFrontmatter reads metadata from a document whose frontmatter was
// written by a generation pass.
func FromFrontmatter(doc string) (types.CaptureMetadata, error) {
	parsed, err := frontmatter.Parse(doc)
	if err != nil {
		return types.CaptureMetadata{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	meta := parsed.Record.Metadata()
	meta.Title = strings.TrimSpace(meta.Title)
	meta.PublishDate = strings.TrimSpace(meta.PublishDate)
	meta.Tags = cleanTags(meta.Tags)
	if meta.Title == "" {
		return types.CaptureMetadata{}, ErrMissingTitle
	}
	return meta, nil
}

func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// stripJSONFence removes a ```json fence some models wrap around their
// answer.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		return s
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
