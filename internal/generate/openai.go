// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const defaultOpenAIModel = "gpt-4o"

// OpenAIBackend calls the OpenAI Chat Completions API.
type OpenAIBackend struct {
	APIKey string
	Model  string

	// BaseURL overrides the API endpoint (e.g. a compatible gateway).
	BaseURL string

	// Timeout bounds one request. Zero leaves the SDK default.
	Timeout time.Duration

	HTTPClient *http.Client
}

func (b *OpenAIBackend) client() openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(b.APIKey),
		// Generate owns the retry policy.
		option.WithMaxRetries(0),
	}
	if b.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(b.BaseURL, "/")+"/"))
	}
	if b.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(b.Timeout))
	}
	if b.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(b.HTTPClient))
	}
	return openai.NewClient(opts...)
}

// Complete sends the prompt as a system and a user message and returns the
// first choice's content.
func (b *OpenAIBackend) Complete(ctx context.Context, p Prompt) (string, error) {
	model := b.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	client := b.client()
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.System),
			openai.UserMessage(p.User),
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("OpenAI API returned empty content (finish reason %q)", resp.Choices[0].FinishReason)
	}
	return content, nil
}
