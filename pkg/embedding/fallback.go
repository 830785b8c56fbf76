package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/Mayoengin/netfleet-rag/internal/vecmath"
)

// FallbackEmbedder is the total, network-free embedder this system falls
// back to when the upstream embedding model is unavailable. It is a pure
// function of its input text: the same text under the same boost table
// always produces the same vector, and it never fails for any finite input
// string (§8 "Fallback totality").
//
// Algorithm: hash the normalized text into Dimensions() components in
// [-1,1], then apply bounded additive "semantic boosts" for configured
// keywords present in the text, then clamp back into [-1,1].
type FallbackEmbedder struct {
	dimensions int
	// boosts maps a lowercase keyword to a set of dimension-index →
	// additive boost. Treated as illustrative/fallback-only data, never
	// authoritative for a real embedding model (spec.md §9 Open Question).
	boosts map[string]map[int]float64
}

// NewFallbackEmbedder constructs a FallbackEmbedder with the given output
// dimension and semantic-boost table. A nil boosts map is equivalent to an
// empty one.
func NewFallbackEmbedder(dimensions int, boosts map[string]map[int]float64) *FallbackEmbedder {
	if boosts == nil {
		boosts = map[string]map[int]float64{}
	}
	return &FallbackEmbedder{dimensions: dimensions, boosts: boosts}
}

func (f *FallbackEmbedder) Dimensions() int { return f.dimensions }

func (f *FallbackEmbedder) ModelID() string { return "fallback-hash-v1" }

// Embed never returns an error: it is the documented total fallback.
func (f *FallbackEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	vector := make([]float64, f.dimensions)

	for i := 0; i < f.dimensions; i++ {
		h := fnv.New64a()
		_, _ = h.Write([]byte(normalized))
		_, _ = h.Write([]byte{byte(i), byte(i >> 8)})
		// Map the hash uniformly into [-1,1].
		v := float64(h.Sum64()%2_000_001)/1_000_000.0 - 1.0
		vector[i] = v
	}

	for keyword, dims := range f.boosts {
		if !strings.Contains(normalized, keyword) {
			continue
		}
		for dim, boost := range dims {
			if dim < 0 || dim >= f.dimensions {
				continue
			}
			vector[dim] += boost
		}
	}

	for i, v := range vector {
		vector[i] = vecmath.Clamp(v, -1, 1)
		if math.IsNaN(vector[i]) || math.IsInf(vector[i], 0) {
			vector[i] = 0
		}
	}

	return vector, nil
}
