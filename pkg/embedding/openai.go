package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
)

// OpenAIEmbedder wraps the OpenAI embeddings endpoint behind the Embedder
// port. Construction follows the same option.WithAPIKey client-construction
// idiom used throughout this codebase's other OpenAI-backed adapters.
type OpenAIEmbedder struct {
	client     openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

// NewOpenAIEmbedder constructs an OpenAIEmbedder. dimensions must match the
// dimension the chosen model actually produces (or the `dimensions` request
// parameter the API accepts for models that support truncation).
func NewOpenAIEmbedder(apiKey string, model openai.EmbeddingModel, dimensions int) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client:     openai.NewClient(option.WithAPIKey(apiKey)),
		model:      model,
		dimensions: dimensions,
	}
}

func (o *OpenAIEmbedder) Dimensions() int { return o.dimensions }

func (o *OpenAIEmbedder) ModelID() string { return string(o.model) }

func (o *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:      o.model,
		Input:      openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Dimensions: openai.Int(int64(o.dimensions)),
	})
	if err != nil {
		return nil, errs.Wrap(errs.UpstreamUnavailable, "embedding", "openai embeddings call failed", err)
	}
	if len(resp.Data) == 0 {
		return nil, errs.New(errs.UpstreamUnavailable, "embedding", "openai embeddings call returned no data")
	}

	vector := resp.Data[0].Embedding
	if len(vector) != o.dimensions {
		return nil, errs.New(errs.Internal, "embedding",
			fmt.Sprintf("openai returned %d-dimensional vector, expected %d", len(vector), o.dimensions))
	}

	return vector, nil
}
