// Package embedding produces fixed-dimension vectors for text. Embed is a
// pure function of text under a fixed model identifier; output dimension is
// exactly D and every component is finite.
package embedding

import "context"

// Embedder converts text into a D-dimensional real vector.
type Embedder interface {
	// Embed returns a vector of Dimensions() finite components.
	Embed(ctx context.Context, text string) ([]float64, error)
	// Dimensions reports the fixed output dimension D.
	Dimensions() int
	// ModelID identifies the model that produced the vector, for the
	// optional embedding-model-identifier field on a vector record.
	ModelID() string
}
