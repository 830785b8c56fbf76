package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryLoadsAllSchemas(t *testing.T) {
	r := NewRegistry()
	names := make([]string, 0)
	for _, s := range r.All() {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"olt", "lag", "mobile_modem", "team"}, names)
}

func TestGetUnknownSchemaReturnsNil(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestSchemasForQueryMatchesIntentKeywords(t *testing.T) {
	r := NewRegistry()
	matched := r.SchemasForQuery("How many FTTH OLTs are there?")
	require.NotEmpty(t, matched)
	assert.Equal(t, "olt", matched[0].Name)
}

func TestSchemasForQueryMultiWordKeyword(t *testing.T) {
	r := NewRegistry()
	matched := r.SchemasForQuery("show me the link aggregation groups")
	require.NotEmpty(t, matched)
	names := make([]string, 0)
	for _, s := range matched {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "lag")
}

func TestSchemasForQueryNoMatch(t *testing.T) {
	r := NewRegistry()
	matched := r.SchemasForQuery("what is the weather today")
	assert.Empty(t, matched)
}

func TestOLTSchemaRequiredFields(t *testing.T) {
	r := NewRegistry()
	olt := r.Get("olt")
	require.NotNil(t, olt)
	required := olt.RequiredFieldNames()
	assert.Contains(t, required, "name")
	assert.Contains(t, required, "region")
	assert.NotContains(t, required, "esi")
}

func TestOLTInvariants(t *testing.T) {
	r := NewRegistry()
	olt := r.Get("olt")
	require.NotEmpty(t, olt.Invariants)

	passing := map[string]any{"complete_config": true, "managed_by_inmanta": true, "service_count": 10}
	failing := map[string]any{"complete_config": true, "managed_by_inmanta": false, "service_count": 0}

	var found bool
	for _, inv := range olt.Invariants {
		if inv.Name == "complete_config_implies_managed_and_serviced" {
			found = true
			assert.True(t, inv.Check(passing))
			assert.False(t, inv.Check(failing))
		}
	}
	assert.True(t, found)
}

func TestExtractDeviceNameMatchesOLTPattern(t *testing.T) {
	r := NewRegistry()
	name, schemaName, ok := r.ExtractDeviceName("Show me OLT17PROP01 configuration")
	require.True(t, ok)
	assert.Equal(t, "OLT17PROP01", name)
	assert.Equal(t, "olt", schemaName)
}

func TestExtractDeviceNameMatchesModemPattern(t *testing.T) {
	r := NewRegistry()
	name, schemaName, ok := r.ExtractDeviceName("details for LPL1000AB1 please")
	require.True(t, ok)
	assert.Equal(t, "LPL1000AB1", name)
	assert.Equal(t, "mobile_modem", schemaName)
}

func TestExtractDeviceNameNoMatch(t *testing.T) {
	r := NewRegistry()
	_, _, ok := r.ExtractDeviceName("what happens if CINMECHA01 fails?")
	assert.False(t, ok)
}

func TestFiltersFromQueryMatchesRegionAndEnvironment(t *testing.T) {
	r := NewRegistry()
	filters := r.FiltersFromQuery("show me FTTH OLTs in HOBO region for PRODUCTION", "olt")
	assert.Equal(t, "HOBO", filters["region"])
	assert.Equal(t, "PRODUCTION", filters["environment"])
}

func TestFiltersFromQueryUnknownSchemaReturnsEmpty(t *testing.T) {
	r := NewRegistry()
	filters := r.FiltersFromQuery("anything", "nonexistent")
	assert.Empty(t, filters)
}

func TestTeamsForRegion(t *testing.T) {
	r := NewRegistry()
	teams := []map[string]any{
		{"name": "ZEBRA", "region": "HOBO"},
		{"name": "ALPHA", "region": "HOBO"},
		{"name": "BRAVO", "region": "GENT"},
	}
	hobo := r.TeamsForRegion(teams, "HOBO")
	require.Len(t, hobo, 2)
	assert.Equal(t, "ALPHA", hobo[0]["name"])
}
