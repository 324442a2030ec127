// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/capture/internal/llm"
	"github.com/pdiddy/capture/pkg/types"
)

func TestTruncate(t *testing.T) {
	short := "# Title\n\nbody"
	assert.Equal(t, short, Truncate(short))

	long := strings.Repeat("a", ContextBudget) + "TAIL"
	assert.Equal(t, strings.Repeat("a", ContextBudget), Truncate(long))

	// Counted in characters, not bytes.
	wide := strings.Repeat("é", ContextBudget+10)
	got := Truncate(wide)
	assert.Equal(t, ContextBudget, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

func TestExtract(t *testing.T) {
	backend := &llm.FakeBackend{Respond: func(llm.Request) (string, error) {
		return `{"title":"Hello, World!","publish_date":"2024-03-01","tags":["go"," parsing ",""]}`, nil
	}}
	e := NewExtractor(backend, nil)

	body := "# Hello\n\n" + strings.Repeat("x", ContextBudget*2)
	got, err := e.Extract(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, types.CaptureMetadata{
		Title:       "Hello, World!",
		PublishDate: "2024-03-01",
		Tags:        []string{"go", "parsing"},
	}, got)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, SchemaName, reqs[0].SchemaName)
	assert.NotNil(t, reqs[0].Schema)
	assert.Contains(t, reqs[0].Prompt, "# Hello")
	assert.NotContains(t, reqs[0].Prompt, strings.Repeat("x", ContextBudget))
}

func TestExtractFailures(t *testing.T) {
	transport := errors.New("connection refused")

	tests := []struct {
		name    string
		answer  string
		err     error
		wantErr error
	}{
		{name: "missing title", answer: `{"publish_date":"2024-01-01","tags":[]}`, wantErr: ErrMissingTitle},
		{name: "blank title", answer: `{"title":"   ","tags":["a"]}`, wantErr: ErrMissingTitle},
		{name: "null title", answer: `{"title":null}`, wantErr: ErrMissingTitle},
		{name: "not json", answer: `The title is Foo.`, wantErr: ErrMalformedResponse},
		{name: "wrong shape", answer: `{"title":["a"]}`, wantErr: ErrMalformedResponse},
		{name: "transport", err: transport, wantErr: transport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(&llm.FakeBackend{Respond: func(llm.Request) (string, error) {
				return tt.answer, tt.err
			}}, nil)
			_, err := e.Extract(context.Background(), "# Doc")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseFencedJSON(t *testing.T) {
	got, err := Parse("```json\n{\"title\":\"Fenced\",\"publish_date\":null,\"tags\":null}\n```\n")
	require.NoError(t, err)
	assert.Equal(t, types.CaptureMetadata{Title: "Fenced"}, got)
}

func TestFromFrontmatter(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    types.CaptureMetadata
		wantErr error
	}{
		{
			name: "full",
			doc:  "---\ntitle: \"Paper\"\npublish_date: 2023-05-06\ntags:\n  - ml\n  - vision\n---\n\n# Paper\n",
			want: types.CaptureMetadata{Title: "Paper", PublishDate: "2023-05-06", Tags: []string{"ml", "vision"}},
		},
		{
			name: "title only",
			doc:  "---\ntitle: Plain\n---\nbody",
			want: types.CaptureMetadata{Title: "Plain"},
		},
		{
			name:    "no frontmatter",
			doc:     "# Just a body\n",
			wantErr: ErrMissingTitle,
		},
		{
			name:    "no title",
			doc:     "---\ntags:\n  - a\n---\nbody",
			wantErr: ErrMissingTitle,
		},
		{
			name:    "invalid yaml",
			doc:     "---\ntitle: [unclosed\n---\nbody",
			wantErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromFrontmatter(tt.doc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
