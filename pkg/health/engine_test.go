package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mayoengin/netfleet-rag/pkg/device"
	"github.com/Mayoengin/netfleet-rag/pkg/embedding"
	"github.com/Mayoengin/netfleet-rag/pkg/vectorstore"
)

func newTestEngine(t *testing.T) (*Engine, vectorstore.Store) {
	t.Helper()
	embedder := embedding.NewFallbackEmbedder(8, nil)
	engine := NewEngine(embedder, DefaultRules())
	store := vectorstore.NewMemoryStore()
	require.NoError(t, engine.IndexRules(context.Background(), store))
	return engine, store
}

func oltRecord(serviceCount int, managed, complete bool, bandwidth float64) *device.Record {
	return &device.Record{
		SchemaName: "olt",
		Fields: map[string]any{
			"name":               "OLT1HOBO01",
			"region":             "HOBO",
			"service_count":      serviceCount,
			"managed_by_inmanta": managed,
			"complete_config":    complete,
			"bandwidth_gbps":     bandwidth,
		},
	}
}

func TestEvaluateReproducesScenarioScoringTable(t *testing.T) {
	engine, store := newTestEngine(t)

	cases := []struct {
		name           string
		record         *device.Record
		expectedScore  int
		expectedStatus Status
	}{
		{"fully healthy high bandwidth", oltRecord(200, true, true, 100), 100, StatusHealthy},
		{"unmanaged incomplete low bandwidth", oltRecord(150, false, false, 40), 30, StatusCritical},
		{"zero services incomplete", oltRecord(0, true, false, 40), 10, StatusCritical},
		{"borderline service count healthy", oltRecord(50, true, true, 100), 100, StatusHealthy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := engine.Evaluate(context.Background(), tc.record, store)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedScore, result.Score)
			assert.Equal(t, tc.expectedStatus, result.Status)
			assert.Equal(t, "olt-health-v1", result.RuleID)
		})
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	engine, store := newTestEngine(t)
	record := oltRecord(150, false, false, 40)

	first, err := engine.Evaluate(context.Background(), record, store)
	require.NoError(t, err)
	second, err := engine.Evaluate(context.Background(), record, store)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.FiredRecommendations, second.FiredRecommendations)
}

func TestEvaluateScoreStaysInBounds(t *testing.T) {
	engine, store := newTestEngine(t)
	record := oltRecord(0, false, false, 0)

	result, err := engine.Evaluate(context.Background(), record, store)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
	assert.Equal(t, StatusCritical, result.Status)
}

func TestEvaluateRecommendationsOrderedByPriorityThenDeclaration(t *testing.T) {
	engine, store := newTestEngine(t)
	record := oltRecord(0, false, false, 0)

	result, err := engine.Evaluate(context.Background(), record, store)
	require.NoError(t, err)

	require.Len(t, result.FiredRecommendations, 4)
	assert.Equal(t, "investigate zero service count immediately", result.FiredRecommendations[0])
	assert.Equal(t, "complete device configuration", result.FiredRecommendations[1])
	assert.Equal(t, "bring device under inmanta management", result.FiredRecommendations[2])
	assert.Equal(t, "verify ESI consistency before LAG failover", result.FiredRecommendations[3])
}

func TestEvaluateWarningConditionPreventsHealthyEvenAtHighScore(t *testing.T) {
	engine, store := newTestEngine(t)
	// service_count=40 triggers the -20 low-service-count adjustment and the
	// WARNING condition; bandwidth bonus keeps the raw score at 90, but the
	// WARNING condition must still prevent a HEALTHY status.
	record := oltRecord(40, true, true, 100)

	result, err := engine.Evaluate(context.Background(), record, store)
	require.NoError(t, err)
	assert.Equal(t, 90, result.Score)
	assert.Equal(t, StatusWarning, result.Status)
}

func TestEvaluateCriticalConditionForcesCriticalRegardlessOfScore(t *testing.T) {
	engine, store := newTestEngine(t)
	// service_count=0 always forces CRITICAL: the adjustments alone leave
	// the score at 50, which the score bands would rate WARNING.
	record := oltRecord(0, true, true, 0)

	result, err := engine.Evaluate(context.Background(), record, store)
	require.NoError(t, err)
	assert.Equal(t, StatusCritical, result.Status)
}

func TestEvaluateUnknownKindDoesNotError(t *testing.T) {
	engine, store := newTestEngine(t)
	record := &device.Record{SchemaName: "unmapped_kind", Fields: map[string]any{}}

	result, err := engine.Evaluate(context.Background(), record, store)
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, result.Status)
	assert.Equal(t, 0, result.Score)
	assert.NotEmpty(t, result.Note)
}

func TestEvaluatePropagatesCanceledContext(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Evaluate(ctx, oltRecord(10, true, true, 10), store)
	assert.Error(t, err)
}

func TestEvaluateWithoutIndexingYieldsUnknown(t *testing.T) {
	embedder := embedding.NewFallbackEmbedder(8, nil)
	engine := NewEngine(embedder, DefaultRules())
	store := vectorstore.NewMemoryStore() // never indexed

	result, err := engine.Evaluate(context.Background(), oltRecord(10, true, true, 10), store)
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, result.Status)
}

func TestLagAndMobileModemRulesScoreIndependently(t *testing.T) {
	engine, store := newTestEngine(t)

	lag := &device.Record{SchemaName: "lag", Fields: map[string]any{"member_count": 0}}
	result, err := engine.Evaluate(context.Background(), lag, store)
	require.NoError(t, err)
	assert.Equal(t, "lag-health-v1", result.RuleID)
	assert.Equal(t, StatusCritical, result.Status)

	modem := &device.Record{SchemaName: "mobile_modem", Fields: map[string]any{"signal_strength_dbm": -120.0}}
	result, err = engine.Evaluate(context.Background(), modem, store)
	require.NoError(t, err)
	assert.Equal(t, "mobile-modem-health-v1", result.RuleID)
	assert.Equal(t, StatusCritical, result.Status)
}
