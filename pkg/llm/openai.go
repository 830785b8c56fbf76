package llm

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
)

// OpenAIClient wraps the OpenAI chat-completions endpoint. Construction
// follows the same option.WithAPIKey idiom used by pkg/embedding's
// OpenAIEmbedder.
type OpenAIClient struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAIClient constructs an OpenAIClient for the given model.
func NewOpenAIClient(apiKey string, model openai.ChatModel) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (o *OpenAIClient) Chat(ctx context.Context, system string, messages []Message, maxTokens int, temperature float64) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       o.model,
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(temperature),
	}

	if system != "" {
		params.Messages = append(params.Messages, openai.SystemMessage(system))
	}
	for _, m := range messages {
		switch m.Role {
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errs.Wrap(errs.UpstreamUnavailable, "llm", "openai chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", errs.New(errs.UpstreamUnavailable, "llm", "openai chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
