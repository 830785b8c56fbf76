package device

import (
	"context"
	"strings"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
	"github.com/Mayoengin/netfleet-rag/pkg/assert"
	"github.com/Mayoengin/netfleet-rag/pkg/schema"
)

// MockSource is a fixture Source used by tests and by any deployment that
// runs without a reachable inventory backend. Its records are validated
// once, at construction, against the schema registry: a malformed fixture is
// a programmer error and panics rather than surfacing as a runtime Fetch
// error.
type MockSource struct {
	registry *schema.Registry
	records  map[string][]*Record
}

// NewMockSource builds a MockSource seeded with a representative fleet:
// eight OLTs spanning HOBO, GENT, ROES and ASSE (including OLT17PROP01, used
// by the device-detail scenario), two LAGs, two mobile modems, and four
// on-call teams.
func NewMockSource(registry *schema.Registry) *MockSource {
	s := &MockSource{registry: registry, records: make(map[string][]*Record)}
	s.seed("olt", oltFixtures())
	s.seed("lag", lagFixtures())
	s.seed("mobile_modem", modemFixtures())
	s.seed("team", teamFixtures())
	return s
}

func (s *MockSource) seed(schemaName string, fields []map[string]any) {
	sch := s.registry.Get(schemaName)
	assert.Ensure(sch != nil, "device: mock fixtures reference unknown schema "+schemaName)
	for _, f := range fields {
		rec := &Record{SchemaName: schemaName, Fields: f}
		if err := Validate(sch, rec); err != nil {
			panic("device: invalid fixture for " + schemaName + ": " + err.Error())
		}
		s.records[schemaName] = append(s.records[schemaName], rec)
	}
}

// Fetch returns the records of schemaName matching filters, bounded to
// limit. Reserved filter keys are region, environment, name_prefix, and
// name_equals; any other key is ignored.
func (s *MockSource) Fetch(ctx context.Context, schemaName string, filters map[string]string, limit int) ([]*Record, error) {
	select {
	case <-ctx.Done():
		return nil, errs.Wrap(errs.Canceled, "device", "fetch canceled", ctx.Err())
	default:
	}

	all, known := s.records[schemaName]
	if !known {
		return nil, errs.New(errs.NotFound, "device", "unknown schema: "+schemaName)
	}

	matched := make([]*Record, 0, len(all))
	for _, rec := range all {
		if matches(rec, filters) {
			matched = append(matched, rec.Clone())
		}
	}

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func matches(rec *Record, filters map[string]string) bool {
	if region, ok := filters[FilterRegion]; ok && region != "" {
		if v, _ := rec.Fields["region"].(string); v != region {
			return false
		}
	}
	if env, ok := filters[FilterEnvironment]; ok && env != "" {
		if v, _ := rec.Fields["environment"].(string); v != env {
			return false
		}
	}
	if prefix, ok := filters[FilterNamePrefix]; ok && prefix != "" {
		if !strings.HasPrefix(rec.Name(), prefix) {
			return false
		}
	}
	if equals, ok := filters[FilterNameEquals]; ok && equals != "" {
		if rec.Name() != equals {
			return false
		}
	}
	return true
}

func oltFixtures() []map[string]any {
	return []map[string]any{
		{"name": "OLT01HOBO01", "region": "HOBO", "environment": "PRODUCTION", "bandwidth_gbps": 100, "service_count": 50, "managed_by_inmanta": true, "complete_config": true, "esi": "esi-hobo-01"},
		{"name": "OLT02HOBO01", "region": "HOBO", "environment": "PRODUCTION", "bandwidth_gbps": 100, "service_count": 80, "managed_by_inmanta": true, "complete_config": true},
		{"name": "OLT03HOBO01", "region": "HOBO", "environment": "UAT", "bandwidth_gbps": 40, "service_count": 10, "managed_by_inmanta": false, "complete_config": false},
		{"name": "OLT01GENT01", "region": "GENT", "environment": "PRODUCTION", "bandwidth_gbps": 100, "service_count": 60, "managed_by_inmanta": true, "complete_config": true},
		{"name": "OLT02GENT01", "region": "GENT", "environment": "PRODUCTION", "bandwidth_gbps": 40, "service_count": 5, "managed_by_inmanta": true, "complete_config": false},
		{"name": "OLT01ROES01", "region": "ROES", "environment": "PRODUCTION", "bandwidth_gbps": 100, "service_count": 40, "managed_by_inmanta": true, "complete_config": true},
		{"name": "OLT02ROES01", "region": "ROES", "environment": "TEST", "bandwidth_gbps": 40, "service_count": 0, "managed_by_inmanta": false, "complete_config": false},
		{"name": "OLT17PROP01", "region": "ASSE", "environment": "PRODUCTION", "bandwidth_gbps": 100, "service_count": 120, "managed_by_inmanta": true, "complete_config": true, "esi": "esi-asse-17"},
	}
}

func lagFixtures() []map[string]any {
	return []map[string]any{
		{"device_name": "OLT01HOBO01", "lag_id": 1, "description": "uplink bond", "admin_key": 100},
		{"device_name": "OLT01GENT01", "lag_id": 2, "description": "uplink bond", "admin_key": 200},
	}
}

func modemFixtures() []map[string]any {
	return []map[string]any{
		{"serial": "LPL1000AB1", "hardware_type": "LTE-CAT6", "subscriber_id": "SUB-1001"},
		{"serial": "LPL1000AB2", "hardware_type": "LTE-CAT12", "subscriber_id": "SUB-1002"},
	}
}

func teamFixtures() []map[string]any {
	return []map[string]any{
		{"name": "FTTH On-Call HOBO", "identifier": "TEAM-HOBO-FTTH", "region": "HOBO"},
		{"name": "Core On-Call HOBO", "identifier": "TEAM-HOBO-CORE", "region": "HOBO"},
		{"name": "FTTH On-Call GENT", "identifier": "TEAM-GENT-FTTH", "region": "GENT"},
		{"name": "FTTH On-Call ROES", "identifier": "TEAM-ROES-FTTH", "region": "ROES"},
	}
}
