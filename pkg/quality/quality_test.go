package quality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Mayoengin/netfleet-rag/internal/config"
	"github.com/Mayoengin/netfleet-rag/pkg/schema"
)

func newAssessor() *Assessor {
	return NewAssessor(config.DefaultQualityThresholds())
}

func oltSchema() *schema.Schema {
	return schema.NewRegistry().Get("olt")
}

func TestAssessZeroRecordsIsAllZeroAndRed(t *testing.T) {
	a := newAssessor()
	now := time.Now()
	score := a.Assess(oltSchema(), nil, now, now)

	assert.Equal(t, 0.0, score.Completeness)
	assert.Equal(t, 0.0, score.Freshness)
	assert.Equal(t, 0.0, score.Consistency)
	assert.Equal(t, 0.0, score.Accuracy)
	assert.Equal(t, 0.0, score.Overall)
	assert.Equal(t, BandRed, score.Band)
}

var oneRecord = []map[string]any{{"name": "OLT17PROP01"}}

func TestFreshnessFullWithinWindow(t *testing.T) {
	a := newAssessor()
	now := time.Now()
	assert.Equal(t, 1.0, a.freshness(oneRecord, now.Add(-5*time.Minute), now))
}

func TestFreshnessDecaysLinearly(t *testing.T) {
	a := newAssessor()
	now := time.Now()
	mid := a.freshness(oneRecord, now.Add(-12*time.Hour-7*time.Minute), now)
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, 1.0)
}

func TestFreshnessZeroBeyond24h(t *testing.T) {
	a := newAssessor()
	now := time.Now()
	assert.Equal(t, 0.0, a.freshness(oneRecord, now.Add(-25*time.Hour), now))
}

func TestFreshnessZeroRecordsIsZero(t *testing.T) {
	a := newAssessor()
	now := time.Now()
	assert.Equal(t, 0.0, a.freshness(nil, now, now))
}

func TestCompletenessFullyPresent(t *testing.T) {
	a := newAssessor()
	s := oltSchema()
	records := []map[string]any{
		{"name": "OLT17PROP01", "region": "HOBO", "environment": "PRODUCTION", "bandwidth_gbps": 100, "service_count": 50, "managed_by_inmanta": true, "complete_config": true},
	}
	assert.Equal(t, 1.0, a.completeness(s, records))
}

func TestCompletenessPartial(t *testing.T) {
	a := newAssessor()
	s := oltSchema()
	records := []map[string]any{
		{"name": "OLT17PROP01"},
	}
	got := a.completeness(s, records)
	assert.Greater(t, got, 0.0)
	assert.Less(t, got, 1.0)
}

func TestConsistencyRejectsBadEnum(t *testing.T) {
	a := newAssessor()
	s := oltSchema()
	records := []map[string]any{
		{"region": "MARS"},
	}
	assert.Equal(t, 0.0, a.consistency(s, records))
}

func TestConsistencyRejectsBadPattern(t *testing.T) {
	a := newAssessor()
	s := oltSchema()
	records := []map[string]any{
		{"name": "not-a-valid-olt-name"},
	}
	assert.Equal(t, 0.0, a.consistency(s, records))
}

func TestAccuracyInvariant(t *testing.T) {
	a := newAssessor()
	s := oltSchema()
	records := []map[string]any{
		{"complete_config": true, "managed_by_inmanta": true, "service_count": 50},
		{"complete_config": true, "managed_by_inmanta": false, "service_count": 0},
	}
	got := a.accuracy(s, records)
	assert.Equal(t, 0.5, got)
}

func TestOverallWeighting(t *testing.T) {
	a := newAssessor()
	s := oltSchema()
	now := time.Now()
	records := []map[string]any{
		{"name": "OLT17PROP01", "region": "HOBO", "environment": "PRODUCTION", "bandwidth_gbps": 100, "service_count": 50, "managed_by_inmanta": true, "complete_config": true},
	}
	score := a.Assess(s, records, now, now)
	assert.Equal(t, BandGreen, score.Band)
	assert.InDelta(t, 1.0, score.Overall, 1e-9)
}
