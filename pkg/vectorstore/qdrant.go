package vectorstore

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
	mathx "github.com/Mayoengin/netfleet-rag/pkg/math"
	"github.com/Mayoengin/netfleet-rag/pkg/ptr"
)

// QdrantStore is a Store backed by a Qdrant collection. It mirrors the
// point/collection construction idiom used by this codebase's other Qdrant
// adapters: one vector per point, denormalized fields carried in the
// payload, cosine distance configured at collection creation.
type QdrantStore struct {
	client         *qdrant.Client
	collectionName string
}

// QdrantStoreConfig configures a new QdrantStore.
type QdrantStoreConfig struct {
	Client           *qdrant.Client
	CollectionName   string
	Dimensions       int
	InitializeSchema bool
}

// NewQdrantStore constructs a QdrantStore, optionally creating the backing
// collection if it does not already exist.
func NewQdrantStore(ctx context.Context, cfg QdrantStoreConfig) (*QdrantStore, error) {
	if cfg.Client == nil {
		return nil, errs.New(errs.InvalidInput, "vectorstore", "qdrant client is required")
	}
	if cfg.CollectionName == "" {
		return nil, errs.New(errs.InvalidInput, "vectorstore", "qdrant collection name is required")
	}

	store := &QdrantStore{client: cfg.Client, collectionName: cfg.CollectionName}

	if cfg.InitializeSchema {
		exists, err := cfg.Client.CollectionExists(ctx, cfg.CollectionName)
		if err != nil {
			return nil, errs.Wrap(errs.UpstreamUnavailable, "vectorstore", "checking collection existence failed", err)
		}
		if !exists {
			err = cfg.Client.CreateCollection(ctx, &qdrant.CreateCollection{
				CollectionName: cfg.CollectionName,
				VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
					Size:     uint64(cfg.Dimensions),
					Distance: qdrant.Distance_Cosine,
				}),
			})
			if err != nil {
				return nil, errs.Wrap(errs.UpstreamUnavailable, "vectorstore", "creating qdrant collection failed", err)
			}
		}
	}

	return store, nil
}

func (q *QdrantStore) Upsert(ctx context.Context, id string, record *Record) error {
	payload, err := qdrant.TryValueMap(map[string]any{
		"kind":       record.Kind,
		"keywords":   record.Keywords,
		"usefulness": record.Usefulness,
		"model_id":   record.ModelID,
	})
	if err != nil {
		return errs.Wrap(errs.Internal, "vectorstore", "converting record metadata to qdrant payload failed", err)
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(id),
		Vectors: qdrant.NewVectors(mathx.ConvertSlice[float64, float32](record.Vector)...),
		Payload: payload,
	}

	_, err = q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Wait:           ptr.Pointer(true),
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return errs.Wrap(errs.UpstreamUnavailable, "vectorstore",
			fmt.Sprintf("upsert to collection %s failed", q.collectionName), err)
	}
	return nil
}

func (q *QdrantStore) Delete(ctx context.Context, id string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points:         qdrant.NewPointsSelectorIDs([]*qdrant.PointId{qdrant.NewID(id)}),
	})
	if err != nil {
		return errs.Wrap(errs.UpstreamUnavailable, "vectorstore",
			fmt.Sprintf("delete from collection %s failed", q.collectionName), err)
	}
	return nil
}

func (q *QdrantStore) Search(ctx context.Context, vector []float64, limit int, minSimilarity float64, filter *Filter) ([]Match, error) {
	queryPoints := &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(mathx.ConvertSlice[float64, float32](vector)...),
		ScoreThreshold: ptr.Pointer(float32(minSimilarity)),
		Limit:          ptr.Pointer(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	}

	if filter != nil && len(filter.Kinds) > 0 {
		should := make([]*qdrant.Condition, 0, len(filter.Kinds))
		for _, kind := range filter.Kinds {
			should = append(should, qdrant.NewMatchKeyword("kind", kind))
		}
		queryPoints.Filter = &qdrant.Filter{Should: should}
	}

	scored, err := q.client.Query(ctx, queryPoints)
	if err != nil {
		return nil, errs.Wrap(errs.UpstreamUnavailable, "vectorstore",
			fmt.Sprintf("query on collection %s failed", q.collectionName), err)
	}

	matches := make([]Match, 0, len(scored))
	for _, point := range scored {
		record := &Record{}
		if kindVal, ok := point.Payload["kind"]; ok {
			record.Kind = kindVal.GetStringValue()
		}
		if usefulVal, ok := point.Payload["usefulness"]; ok {
			record.Usefulness = usefulVal.GetDoubleValue()
		}

		matches = append(matches, Match{
			DocumentID: point.GetId().GetUuid(),
			Similarity: float64(point.GetScore()),
			Record:     record,
		})
	}

	return matches, nil
}
