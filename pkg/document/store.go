package document

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
	"github.com/Mayoengin/netfleet-rag/pkg/embedding"
	"github.com/Mayoengin/netfleet-rag/pkg/vectorstore"
)

// Store is the document-store port: create, search, touch. Implementations
// write the document and its vector record atomically from the caller's
// point of view.
type Store interface {
	Create(ctx context.Context, doc *Document) (*Document, error)
	Get(ctx context.Context, id string) (*Document, error)
	Put(ctx context.Context, doc *Document) error
	Search(ctx context.Context, query string, limit int, useVector bool) ([]Hit, error)
	Touch(ctx context.Context, id string) error
}

// MemoryStore is the reference Store implementation: documents kept in a
// map, vectors delegated to a vectorstore.Store, embeddings delegated to an
// embedding.Embedder.
type MemoryStore struct {
	mu          sync.RWMutex
	documents   map[string]*Document
	vectors     vectorstore.Store
	embedder    embedding.Embedder
	extractor   KeywordExtractor
	now         func() time.Time
	newID       func() string
}

// NewMemoryStore constructs a MemoryStore. extractor may be nil, in which
// case the frequency heuristic is used.
func NewMemoryStore(vectors vectorstore.Store, embedder embedding.Embedder, extractor KeywordExtractor) *MemoryStore {
	return &MemoryStore{
		documents: make(map[string]*Document),
		vectors:   vectors,
		embedder:  embedder,
		extractor: extractor,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (m *MemoryStore) extractKeywords(body string) []string {
	if m.extractor != nil {
		return m.extractor.Extract(body, maxKeywords)
	}
	return frequencyKeywords(body, maxKeywords)
}

// Create enforces title/body length minimums, extracts keywords, embeds the
// body, and writes the document and its vector record.
func (m *MemoryStore) Create(ctx context.Context, doc *Document) (*Document, error) {
	if len(strings.TrimSpace(doc.Title)) < minTitleLength {
		return nil, errs.New(errs.ValidationError, "document",
			fmt.Sprintf("title must be at least %d characters", minTitleLength))
	}
	if len(doc.Body) < minBodyLength {
		return nil, errs.New(errs.ValidationError, "document",
			fmt.Sprintf("body must be at least %d characters", minBodyLength))
	}
	if doc.Kind == "" {
		doc.Kind = KindOther
	}
	if !doc.Kind.valid() {
		return nil, errs.New(errs.ValidationError, "document", fmt.Sprintf("unknown document kind %q", doc.Kind))
	}

	out := doc.Clone()
	if out.ID == "" {
		out.ID = m.newID()
	}
	if len(out.Keywords) == 0 {
		out.Keywords = m.extractKeywords(out.Body)
	}

	now := m.now()
	out.CreatedAt = now
	out.UpdatedAt = now

	vector, err := m.embedder.Embed(ctx, out.Body)
	if err != nil {
		return nil, errs.Wrap(errs.UpstreamUnavailable, "document", "embedding document body failed", err)
	}

	if err := m.vectors.Upsert(ctx, out.ID, &vectorstore.Record{
		DocumentID: out.ID,
		Vector:     vector,
		Kind:       string(out.Kind),
		Keywords:   out.Keywords,
		Usefulness: out.Usefulness,
		ModelID:    m.embedder.ModelID(),
	}); err != nil {
		return nil, errs.Wrap(errs.UpstreamUnavailable, "document", "writing vector record failed", err)
	}

	m.mu.Lock()
	m.documents[out.ID] = out
	m.mu.Unlock()

	return out.Clone(), nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.documents[id]
	if !ok {
		return nil, errs.New(errs.NotFound, "document", fmt.Sprintf("no such document %q", id))
	}
	return doc.Clone(), nil
}

// Put overwrites (or inserts) a document verbatim, for restoring persisted
// state; it does not re-run validation or re-embed.
func (m *MemoryStore) Put(_ context.Context, doc *Document) error {
	if doc.ID == "" {
		return errs.New(errs.InvalidInput, "document", "put requires a non-empty id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = doc.Clone()
	return nil
}

func (m *MemoryStore) Touch(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.documents[id]
	if !ok {
		return errs.New(errs.NotFound, "document", fmt.Sprintf("no such document %q", id))
	}
	doc.ViewCount++
	doc.UpdatedAt = m.now()
	return nil
}

// businessValue computes 0.5·similarity + 0.3·usefulness + 0.2·recency,
// where recency is 1 within 90 days of `updated`, else 0.5.
func businessValue(similarity, usefulness float64, updatedAt, now time.Time) float64 {
	recency := 0.5
	if now.Sub(updatedAt) <= 90*24*time.Hour {
		recency = 1.0
	}
	return 0.5*similarity + 0.3*usefulness + 0.2*recency
}

// Search performs either vector-backed semantic search or a substring match,
// ranks hits by business value, drops usefulness < 0.3, and returns the top
// limit.
func (m *MemoryStore) Search(ctx context.Context, query string, limit int, useVector bool) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}

	type candidate struct {
		doc        *Document
		similarity float64
	}

	var candidates []candidate

	m.mu.RLock()
	all := make([]*Document, 0, len(m.documents))
	for _, doc := range m.documents {
		all = append(all, doc)
	}
	m.mu.RUnlock()

	if useVector {
		vector, err := m.embedder.Embed(ctx, query)
		if err != nil {
			return nil, errs.Wrap(errs.UpstreamUnavailable, "document", "embedding search query failed", err)
		}

		matches, err := m.vectors.Search(ctx, vector, max(limit*4, 20), 0, nil)
		if err != nil {
			return nil, errs.Wrap(errs.UpstreamUnavailable, "document", "vector search failed", err)
		}

		m.mu.RLock()
		for _, match := range matches {
			if doc, ok := m.documents[match.DocumentID]; ok {
				candidates = append(candidates, candidate{doc: doc, similarity: match.Similarity})
			}
		}
		m.mu.RUnlock()
	} else {
		lowered := strings.ToLower(query)
		for _, doc := range all {
			if strings.Contains(strings.ToLower(doc.Title), lowered) || strings.Contains(strings.ToLower(doc.Body), lowered) {
				candidates = append(candidates, candidate{doc: doc, similarity: 0})
			}
		}
	}

	now := m.now()
	hits := make([]Hit, 0, len(candidates))
	for _, c := range candidates {
		if c.doc.Usefulness < 0.3 {
			continue
		}
		hits = append(hits, Hit{
			Document:      c.doc.Clone(),
			BusinessValue: businessValue(c.similarity, c.doc.Usefulness, c.doc.UpdatedAt, now),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].BusinessValue > hits[j].BusinessValue
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
