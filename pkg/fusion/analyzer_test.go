package fusion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
	"github.com/Mayoengin/netfleet-rag/pkg/document"
)

// fakeStore is a document.Store test double whose Search behavior is fully
// controlled by the test, so the analyzer's retrieval fan-out can be
// exercised without a real embedder or vector store.
type fakeStore struct {
	searchFn func(ctx context.Context, query string, limit int, useVector bool) ([]document.Hit, error)
	calls    int
}

func (f *fakeStore) Create(context.Context, *document.Document) (*document.Document, error) { return nil, nil }
func (f *fakeStore) Get(context.Context, string) (*document.Document, error)                { return nil, nil }
func (f *fakeStore) Put(context.Context, *document.Document) error                          { return nil }
func (f *fakeStore) Touch(context.Context, string) error                                    { return nil }
func (f *fakeStore) Search(ctx context.Context, query string, limit int, useVector bool) ([]document.Hit, error) {
	f.calls++
	return f.searchFn(ctx, query, limit, useVector)
}

func emptyHits(context.Context, string, int, bool) ([]document.Hit, error) {
	return nil, nil
}

func TestAnalyzeEmptyQueryReturnsGeneralSearchLow(t *testing.T) {
	store := &fakeStore{searchFn: emptyHits}
	a := NewAnalyzer(store)
	g, err := a.Analyze(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, GeneralSearch, g.AnalysisType)
	assert.Equal(t, ConfidenceLow, g.Confidence)
	assert.Empty(t, g.CitedDocIDs)
	assert.Equal(t, 0, store.calls)
}

func TestAnalyzeZeroDocumentsNeutralQueryFallsBackGeneralSearch(t *testing.T) {
	store := &fakeStore{searchFn: emptyHits}
	a := NewAnalyzer(store)
	g, err := a.Analyze(context.Background(), "what is the weather today")
	require.NoError(t, err)
	assert.Equal(t, GeneralSearch, g.AnalysisType)
	assert.Equal(t, ConfidenceLow, g.Confidence)
}

func TestAnalyzeHowManyQuerySelectsDeviceListing(t *testing.T) {
	store := &fakeStore{searchFn: emptyHits}
	a := NewAnalyzer(store)
	g, err := a.Analyze(context.Background(), "How many FTTH OLTs are there?")
	require.NoError(t, err)
	assert.Equal(t, DeviceListing, g.AnalysisType)
	assert.Equal(t, ToolList, g.Tool)
	assert.NotEqual(t, ConfidenceLow, g.Confidence)
}

func TestAnalyzeDeviceNamePatternSelectsDeviceDetails(t *testing.T) {
	store := &fakeStore{searchFn: emptyHits}
	a := NewAnalyzer(store)
	g, err := a.Analyze(context.Background(), "Show me OLT17PROP01 configuration")
	require.NoError(t, err)
	assert.Equal(t, DeviceDetails, g.AnalysisType)
	assert.Equal(t, ToolDetail, g.Tool)
}

func TestAnalyzeImpactQuerySelectsComplexAnalysis(t *testing.T) {
	store := &fakeStore{searchFn: emptyHits}
	a := NewAnalyzer(store)
	g, err := a.Analyze(context.Background(), "What happens if CINMECHA01 fails?")
	require.NoError(t, err)
	assert.Equal(t, ComplexAnalysis, g.AnalysisType)
}

func TestAnalyzeHighConfidenceWithStrongMarginAndCitations(t *testing.T) {
	store := &fakeStore{searchFn: func(ctx context.Context, query string, limit int, useVector bool) ([]document.Hit, error) {
		return []document.Hit{
			{Document: &document.Document{ID: "doc-1", Title: "list_network_devices tool", Body: "usage of list_network_devices"}, BusinessValue: 0.9},
		}, nil
	}}
	a := NewAnalyzer(store)
	g, err := a.Analyze(context.Background(), "How many FTTH OLTs are there in HOBO?")
	require.NoError(t, err)
	assert.Equal(t, DeviceListing, g.AnalysisType)
	assert.Equal(t, ConfidenceHigh, g.Confidence)
	assert.Contains(t, g.CitedDocIDs, "doc-1")
}

// TestAnalyzeTiedWeakCuesAgainstNonEmptyCorpusIsLowConfidence covers the
// actual LOW case: two weak cues tie (analysisMargin == 0) against a
// non-empty retrieval corpus, so neither the HIGH nor the MEDIUM branch
// applies.
func TestAnalyzeTiedWeakCuesAgainstNonEmptyCorpusIsLowConfidence(t *testing.T) {
	store := &fakeStore{searchFn: func(context.Context, string, int, bool) ([]document.Hit, error) {
		return []document.Hit{
			{Document: &document.Document{ID: "doc-1", Title: "unrelated", Body: "unrelated"}, BusinessValue: 0.5},
		}, nil
	}}
	a := NewAnalyzer(store)
	g, err := a.Analyze(context.Background(), "show me configuration in hobo")
	require.NoError(t, err)
	assert.Equal(t, ConfidenceLow, g.Confidence)
}

func TestAnalyzeTotalRetrievalFailureFallsBackToGeneralSearch(t *testing.T) {
	store := &fakeStore{searchFn: func(context.Context, string, int, bool) ([]document.Hit, error) {
		return nil, errs.New(errs.UpstreamUnavailable, "document", "vector store down")
	}}
	a := NewAnalyzer(store)
	g, err := a.Analyze(context.Background(), "How many OLTs are there?")
	require.NoError(t, err)
	assert.Equal(t, GeneralSearch, g.AnalysisType)
	assert.Equal(t, ConfidenceLow, g.Confidence)
	assert.Contains(t, g.Reasoning, "degraded")
}

func TestAnalyzePropagatesCanceledContext(t *testing.T) {
	store := &fakeStore{searchFn: emptyHits}
	a := NewAnalyzer(store)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Analyze(ctx, "How many OLTs?")
	require.Error(t, err)
	assert.Equal(t, errs.Canceled, errs.KindOf(err))
}

func TestAnalyzeDeduplicatesHitsKeepingBestBusinessValue(t *testing.T) {
	calls := 0
	store := &fakeStore{searchFn: func(context.Context, string, int, bool) ([]document.Hit, error) {
		calls++
		value := 0.3
		if calls == 1 {
			value = 0.9
		}
		return []document.Hit{
			{Document: &document.Document{ID: "dup", Title: "t", Body: "b"}, BusinessValue: value},
		}, nil
	}}
	a := NewAnalyzer(store)
	g, err := a.Analyze(context.Background(), "How many OLTs are there?")
	require.NoError(t, err)
	require.Len(t, g.CitedDocIDs, 1)
	assert.Equal(t, "dup", g.CitedDocIDs[0])
}
