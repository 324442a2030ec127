// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIBackend calls the OpenAI Responses API.
type OpenAIBackend struct {
	client    openai.Client
	model     string
	maxTokens int
}

// NewOpenAIBackend creates a backend. Extra options (base URL, HTTP client)
// are passed through to the SDK client; retries are disabled.
func NewOpenAIBackend(apiKey, model string, maxTokens int, opts ...option.RequestOption) *OpenAIBackend {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &OpenAIBackend{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Generate implements Backend. A schema becomes a strict JSON-schema text
// format; an attachment travels as an inline PDF input file.
func (o *OpenAIBackend) Generate(ctx context.Context, r Request) (string, error) {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(o.model),
	}
	if o.maxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(o.maxTokens))
	}

	if r.AttachmentPath == "" {
		params.Input = responses.ResponseNewParamsInputUnion{OfString: openai.String(r.Prompt)}
	} else {
		data, err := os.ReadFile(r.AttachmentPath)
		if err != nil {
			return "", fmt.Errorf("reading attachment: %w", err)
		}
		params.Input = responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						responses.ResponseInputContentUnionParam{
							OfInputFile: &responses.ResponseInputFileParam{
								FileData: openai.String("data:application/pdf;base64," + base64.StdEncoding.EncodeToString(data)),
								Filename: openai.String(filepath.Base(r.AttachmentPath)),
							},
						},
						responses.ResponseInputContentParamOfInputText(r.Prompt),
					},
					"user",
				),
			},
		}
	}

	if r.Schema != nil {
		name := r.SchemaName
		if name == "" {
			name = "response"
		}
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigParamOfJSONSchema(name, r.Schema),
		}
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	text := resp.OutputText()
	if text == "" {
		return "", fmt.Errorf("no text content in OpenAI API response")
	}
	return text, nil
}
