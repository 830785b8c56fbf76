package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
)

// AnthropicClient wraps the Anthropic Messages endpoint behind Client, for
// deployments that prefer Claude over OpenAI as the reasoning model.
type AnthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicClient constructs an AnthropicClient for the given model.
func NewAnthropicClient(apiKey string, model anthropic.Model) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (a *AnthropicClient) Chat(ctx context.Context, system string, messages []Message, maxTokens int, temperature float64) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	for _, m := range messages {
		if m.Role == "assistant" {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
			continue
		}
		params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", errs.Wrap(errs.UpstreamUnavailable, "llm", "anthropic messages call failed", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errs.New(errs.UpstreamUnavailable, "llm", "anthropic messages call returned no text content")
	}
	return sb.String(), nil
}
