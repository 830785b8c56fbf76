package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mayoengin/netfleet-rag/internal/vecmath"
)

func TestFallbackEmbedderDimensionAndFiniteness(t *testing.T) {
	e := NewFallbackEmbedder(384, nil)
	v, err := e.Embed(context.Background(), "OLT17PROP01 bandwidth")
	require.NoError(t, err)
	assert.Len(t, v, 384)
	assert.True(t, vecmath.AllFinite(v))
}

func TestFallbackEmbedderDeterministic(t *testing.T) {
	e := NewFallbackEmbedder(64, nil)
	v1, _ := e.Embed(context.Background(), "how many FTTH OLTs are there")
	v2, _ := e.Embed(context.Background(), "how many FTTH OLTs are there")
	assert.Equal(t, v1, v2)
}

func TestFallbackEmbedderDifferentTextDifferentVector(t *testing.T) {
	e := NewFallbackEmbedder(64, nil)
	v1, _ := e.Embed(context.Background(), "list network devices")
	v2, _ := e.Embed(context.Background(), "get device details")
	assert.NotEqual(t, v1, v2)
}

func TestFallbackEmbedderNeverErrors(t *testing.T) {
	e := NewFallbackEmbedder(8, nil)
	inputs := []string{"", " ", "a", "\x00\x01", "emoji 🟢🟡🔴", "very long text " + string(make([]byte, 10000))}
	for _, in := range inputs {
		_, err := e.Embed(context.Background(), in)
		assert.NoError(t, err)
	}
}

func TestFallbackEmbedderSemanticBoost(t *testing.T) {
	boosts := map[string]map[int]float64{
		"olt": {0: 0.9},
	}
	e := NewFallbackEmbedder(4, boosts)

	withKeyword, _ := e.Embed(context.Background(), "show me olt status")
	withoutBoost := NewFallbackEmbedder(4, nil)
	plain, _ := withoutBoost.Embed(context.Background(), "show me olt status")

	assert.NotEqual(t, withKeyword[0], plain[0])
	assert.LessOrEqual(t, withKeyword[0], 1.0)
	assert.GreaterOrEqual(t, withKeyword[0], -1.0)
}

func TestFallbackEmbedderModelID(t *testing.T) {
	e := NewFallbackEmbedder(32, nil)
	assert.NotEmpty(t, e.ModelID())
	assert.Equal(t, 32, e.Dimensions())
}
