package vectorstore

import (
	"context"
	"sort"
	"sync"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
	"github.com/Mayoengin/netfleet-rag/internal/vecmath"
)

// MemoryStore is the reference in-memory Store implementation: the default
// for every test in this repository, and a usable production store for a
// single-process deployment.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (m *MemoryStore) Upsert(_ context.Context, id string, record *Record) error {
	if id == "" {
		return errs.New(errs.InvalidInput, "vectorstore", "upsert requires a non-empty id")
	}
	if !vecmath.AllFinite(record.Vector) {
		return errs.New(errs.InvalidInput, "vectorstore", "vector contains NaN or Inf components")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id] = record.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *MemoryStore) Search(_ context.Context, vector []float64, limit int, minSimilarity float64, filter *Filter) ([]Match, error) {
	if limit <= 0 {
		limit = 10
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]Match, 0, len(m.records))
	for id, record := range m.records {
		if filter != nil && len(filter.Kinds) > 0 && !containsString(filter.Kinds, record.Kind) {
			continue
		}

		sim := vecmath.CosineSimilarity(vector, record.Vector)
		if sim < minSimilarity {
			continue
		}

		matches = append(matches, Match{
			DocumentID: id,
			Similarity: sim,
			Record:     record.Clone(),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
