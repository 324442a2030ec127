// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/capture/internal/toolchain"
	"github.com/pdiddy/capture/pkg/types"
)

var testSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{"type": "string"},
	},
	"required": []string{"title"},
}

func writeAttachment(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o644))
	return path
}

func TestClaudeBackend(t *testing.T) {
	var got claudeRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"content":[{"type":"text","text":"# Merged"},{"type":"text","text":"\n\nbody"}]}`))
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	b := &ClaudeBackend{APIKey: "secret", Model: "claude-test", MaxTokens: 100, Client: ts.Client()}
	out, err := b.Generate(context.Background(), Request{
		Prompt:         "merge these",
		Schema:         testSchema,
		AttachmentPath: writeAttachment(t),
	})
	require.NoError(t, err)
	assert.Equal(t, "# Merged\n\nbody", out)

	assert.Equal(t, "claude-test", got.Model)
	assert.Equal(t, 100, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	blocks := got.Messages[0].Content
	require.Len(t, blocks, 2)
	assert.Equal(t, "document", blocks[0].Type)
	require.NotNil(t, blocks[0].Source)
	assert.Equal(t, "application/pdf", blocks[0].Source.MediaType)
	assert.Equal(t, "JVBERg==", blocks[0].Source.Data)
	assert.Equal(t, "text", blocks[1].Type)
	assert.True(t, strings.HasPrefix(blocks[1].Text, "merge these"))
	assert.Contains(t, blocks[1].Text, `"title"`)
}

func TestClaudeBackend_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "http error", status: http.StatusUnauthorized, body: `{"error":"bad key"}`},
		{name: "no text blocks", status: http.StatusOK, body: `{"content":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			old := claudeAPIURL
			claudeAPIURL = ts.URL
			defer func() { claudeAPIURL = old }()

			b := &ClaudeBackend{APIKey: "k", Model: "m", MaxTokens: 10, Client: ts.Client()}
			_, err := b.Generate(context.Background(), Request{Prompt: "p"})
			assert.Error(t, err)
		})
	}
}

func TestOpenAIBackend(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/responses"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
  "id": "resp_1",
  "object": "response",
  "status": "completed",
  "output": [{
    "type": "message",
    "id": "msg_1",
    "role": "assistant",
    "status": "completed",
    "content": [{"type": "output_text", "text": "{\"title\":\"Hi\"}", "annotations": []}]
  }]
}`))
	}))
	defer ts.Close()

	b := NewOpenAIBackend("sk-test", "gpt-test", 200, option.WithBaseURL(ts.URL+"/"), option.WithHTTPClient(ts.Client()))
	out, err := b.Generate(context.Background(), Request{Prompt: "extract", Schema: testSchema, SchemaName: "capture_metadata"})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Hi"}`, out)

	assert.Equal(t, "gpt-test", body["model"])
	assert.Equal(t, "extract", body["input"])
	text, ok := body["text"].(map[string]any)
	require.True(t, ok)
	format, ok := text["format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, "capture_metadata", format["name"])
}

func TestCommandBackend(t *testing.T) {
	var schemaSeen string
	runner := &toolchain.FakeRunner{Handle: func(cmd toolchain.Command, stdin string) (string, error) {
		for i, a := range cmd.Args {
			if a == "--schema" {
				data, err := os.ReadFile(cmd.Args[i+1])
				if err != nil {
					return "", err
				}
				schemaSeen = string(data)
			}
		}
		return "echo: " + stdin, nil
	}}

	b := &CommandBackend{Argv: []string{"python3", "gen.py", "--quiet"}, Runner: runner}
	pdf := writeAttachment(t)
	out, err := b.Generate(context.Background(), Request{Prompt: "hello", Schema: testSchema, AttachmentPath: pdf})
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", out)
	assert.Contains(t, schemaSeen, `"title"`)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "python3", calls[0].Name)
	assert.Equal(t, []string{"gen.py", "--quiet"}, calls[0].Args[:2])
	assert.Equal(t, "--schema", calls[0].Args[2])
	assert.Equal(t, []string{"--file", pdf}, calls[0].Args[4:])
}

func TestCommandBackend_Failure(t *testing.T) {
	runner := &toolchain.FakeRunner{Handle: func(toolchain.Command, string) (string, error) {
		return "", errors.New("exit status 2")
	}}
	b := &CommandBackend{Argv: []string{"gen"}, Runner: runner}
	_, err := b.Generate(context.Background(), Request{Prompt: "x"})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.AIConfig
		want    any
		wantErr bool
	}{
		{name: "claude", cfg: types.AIConfig{Backend: types.AIBackendClaude, APIKey: "k", Model: "m"}, want: &ClaudeBackend{}},
		{name: "openai", cfg: types.AIConfig{Backend: types.AIBackendOpenAI, APIKey: "k", Model: "m"}, want: &OpenAIBackend{}},
		{name: "command", cfg: types.AIConfig{Backend: types.AIBackendCommand, Command: []string{"gen"}}, want: &CommandBackend{}},
		{name: "command without argv", cfg: types.AIConfig{Backend: types.AIBackendCommand}, wantErr: true},
		{name: "unknown", cfg: types.AIConfig{Backend: "gemini"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.cfg, nil, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, b)
		})
	}
}

func TestNew_DefaultMaxTokens(t *testing.T) {
	b, err := New(types.AIConfig{Backend: types.AIBackendClaude, APIKey: "k", Model: "m"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTokens, b.(*ClaudeBackend).MaxTokens)
}
