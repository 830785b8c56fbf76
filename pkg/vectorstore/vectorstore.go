// Package vectorstore defines the vector upsert/search port and its two
// implementations: an in-memory reference store and an optional
// Qdrant-backed store.
package vectorstore

import (
	"context"
)

// Record is what gets stored and searched: a document's vector plus the
// denormalized fields needed to filter and rank search results without a
// round-trip to the document store.
type Record struct {
	DocumentID string
	Vector     []float64
	Kind       string
	Keywords   []string
	Usefulness float64
	ModelID    string
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Vector = append([]float64(nil), r.Vector...)
	clone.Keywords = append([]string(nil), r.Keywords...)
	return &clone
}

// Match is one search hit: the stored record, its denormalized metadata,
// and the cosine similarity against the query vector.
type Match struct {
	DocumentID string
	Similarity float64
	Record     *Record
}

// Filter narrows a Search call to records whose Kind is one of Kinds (when
// non-empty); it exists to satisfy the §6 `search(vector, k, min_sim,
// filter)` contract without a general filter-expression language, which
// nothing in this system's scope requires (see DESIGN.md).
type Filter struct {
	Kinds []string
}

// Store is the vector upsert/search port. Implementations are safe for
// concurrent use: the document store and vector store are shared across
// calls and only accessed through idempotent reads or single-write
// operations.
type Store interface {
	// Upsert writes (or overwrites) the vector record for id. Idempotent:
	// upserting the same (id, vector) twice leaves exactly one record for
	// that id in the store.
	Upsert(ctx context.Context, id string, record *Record) error
	// Search returns at most limit records whose cosine similarity against
	// vector is ≥ minSimilarity, sorted by similarity descending.
	Search(ctx context.Context, vector []float64, limit int, minSimilarity float64, filter *Filter) ([]Match, error)
	// Delete removes the vector record for id, if present.
	Delete(ctx context.Context, id string) error
}
