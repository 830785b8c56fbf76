package vectorstore

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUpsertIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	rec := &Record{Vector: []float64{1, 0, 0}, Kind: "document"}

	require.NoError(t, store.Upsert(ctx, "doc-1", rec))
	require.NoError(t, store.Upsert(ctx, "doc-1", rec))

	matches, err := store.Search(ctx, []float64{1, 0, 0}, 10, 0.0, nil)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestMemoryStoreSearchSortedDescending(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "a", &Record{Vector: []float64{1, 0}}))
	require.NoError(t, store.Upsert(ctx, "b", &Record{Vector: []float64{0.9, 0.1}}))
	require.NoError(t, store.Upsert(ctx, "c", &Record{Vector: []float64{0, 1}}))

	matches, err := store.Search(ctx, []float64{1, 0}, 10, -1, nil)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Similarity, matches[i].Similarity)
	}
}

func TestMemoryStoreMinSimilarityFilter(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, "a", &Record{Vector: []float64{1, 0}}))
	require.NoError(t, store.Upsert(ctx, "b", &Record{Vector: []float64{0, 1}}))

	matches, err := store.Search(ctx, []float64{1, 0}, 10, 0.99, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].DocumentID)
}

func TestMemoryStoreKindFilter(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, "rule-1", &Record{Vector: []float64{1, 0}, Kind: "health_rule"}))
	require.NoError(t, store.Upsert(ctx, "doc-1", &Record{Vector: []float64{1, 0}, Kind: "document"}))

	matches, err := store.Search(ctx, []float64{1, 0}, 10, -1, &Filter{Kinds: []string{"health_rule"}})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "rule-1", matches[0].DocumentID)
}

func TestMemoryStoreRejectsNonFiniteVector(t *testing.T) {
	store := NewMemoryStore()
	err := store.Upsert(context.Background(), "bad", &Record{Vector: []float64{1, math.NaN()}})
	assert.Error(t, err)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, "a", &Record{Vector: []float64{1, 0}}))
	require.NoError(t, store.Delete(ctx, "a"))

	matches, err := store.Search(ctx, []float64{1, 0}, 10, -1, nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
