package toolsurface

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mayoengin/netfleet-rag/internal/config"
	"github.com/Mayoengin/netfleet-rag/pkg/ctxbuild"
	"github.com/Mayoengin/netfleet-rag/pkg/device"
	"github.com/Mayoengin/netfleet-rag/pkg/document"
	"github.com/Mayoengin/netfleet-rag/pkg/embedding"
	"github.com/Mayoengin/netfleet-rag/pkg/fusion"
	"github.com/Mayoengin/netfleet-rag/pkg/health"
	"github.com/Mayoengin/netfleet-rag/pkg/llm"
	"github.com/Mayoengin/netfleet-rag/pkg/orchestrator"
	"github.com/Mayoengin/netfleet-rag/pkg/quality"
	"github.com/Mayoengin/netfleet-rag/pkg/schema"
	"github.com/Mayoengin/netfleet-rag/pkg/vectorstore"
)

func newTestSurface(t *testing.T) *Surface {
	t.Helper()
	cfg := config.Default()
	registry := schema.NewRegistry()
	embedder := embedding.NewFallbackEmbedder(cfg.EmbeddingDimension, cfg.SemanticBoosts)
	docs := document.NewMemoryStore(vectorstore.NewMemoryStore(), embedder, nil)
	source := device.NewMockSource(registry)
	analyzer := fusion.NewAnalyzer(docs)
	assessor := quality.NewAssessor(cfg.Quality)
	builder := ctxbuild.NewBuilder(source, assessor, 0)
	healthEngine := health.NewEngine(embedder, health.DefaultRules())
	ruleStore := vectorstore.NewMemoryStore()
	require.NoError(t, healthEngine.IndexRules(context.Background(), ruleStore))

	orch := orchestrator.New(analyzer, builder, registry, source, docs, healthEngine, ruleStore, &llm.MockClient{}, cfg, nil)
	return New(orch, registry, source, healthEngine, ruleStore, nil)
}

func TestNetworkQueryRendersMarkdownWithSections(t *testing.T) {
	s := newTestSurface(t)

	out, err := s.NetworkQuery(context.Background(), "How many FTTH OLTs are there?", true)
	require.NoError(t, err)

	assert.Contains(t, out, "# Network Query Result")
	assert.Contains(t, out, "**Analysis type:**")
	assert.Contains(t, out, "## Structured result")
}

func TestNetworkQueryRejectsEmptyQuery(t *testing.T) {
	s := newTestSurface(t)
	_, err := s.NetworkQuery(context.Background(), "   ", false)
	assert.Error(t, err)
}

func TestListNetworkDevicesFiltersByRegion(t *testing.T) {
	s := newTestSurface(t)

	out, err := s.ListNetworkDevices(context.Background(), ListNetworkDevicesParams{
		DeviceType: "olt",
		Region:     "HOBO",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "OLT01HOBO01")
	assert.NotContains(t, out, "OLT01GENT01")
}

func TestListNetworkDevicesUnknownTypeIsValidationFailure(t *testing.T) {
	s := newTestSurface(t)
	_, err := s.ListNetworkDevices(context.Background(), ListNetworkDevicesParams{DeviceType: "nonexistent"})
	assert.Error(t, err)
}

func TestListNetworkDevicesAllTypesCoversEveryRegisteredSchema(t *testing.T) {
	s := newTestSurface(t)

	out, err := s.ListNetworkDevices(context.Background(), ListNetworkDevicesParams{DeviceType: "all"})
	require.NoError(t, err)
	assert.Contains(t, out, "## olt")
	assert.Contains(t, out, "## lag")
	assert.Contains(t, out, "## mobile_modem")
}

func TestGetDeviceDetailsReturnsHealthAndFields(t *testing.T) {
	s := newTestSurface(t)

	out, err := s.GetDeviceDetails(context.Background(), "OLT17PROP01", "olt")
	require.NoError(t, err)
	assert.Contains(t, out, "# OLT17PROP01")
	assert.Contains(t, out, "HEALTHY")
}

func TestGetDeviceDetailsNotFoundIsSoftFailure(t *testing.T) {
	s := newTestSurface(t)

	out, err := s.GetDeviceDetails(context.Background(), "OLT99NOPE99", "olt")
	require.NoError(t, err)
	assert.Contains(t, out, "No olt device named")
}

func TestGetDeviceDetailsUnknownDeviceTypeIsValidationFailure(t *testing.T) {
	s := newTestSurface(t)
	_, err := s.GetDeviceDetails(context.Background(), "OLT17PROP01", "nonexistent")
	assert.Error(t, err)
}

func TestGetDeviceDetailsRejectsEmptyName(t *testing.T) {
	s := newTestSurface(t)
	_, err := s.GetDeviceDetails(context.Background(), "", "olt")
	assert.Error(t, err)
}

// Fixture OLTs span more than one health-scoring chunk (healthScoreChunkSize
// is smaller than the eight seeded OLTs), so this also exercises that
// concurrent per-chunk scoring preserves result order.
func TestListNetworkDevicesPreservesOrderAcrossScoringChunks(t *testing.T) {
	s := newTestSurface(t)

	records, err := s.source.Fetch(context.Background(), "olt", nil, 50)
	require.NoError(t, err)
	require.Greater(t, len(records), healthScoreChunkSize)

	outcomes := s.scoreRecords(context.Background(), records)
	require.Len(t, outcomes, len(records))
	for i, rec := range records {
		assert.Equal(t, rec.Name(), outcomes[i].Name)
	}
}
