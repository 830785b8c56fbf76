// Package ctxbuild implements the Schema-Aware Context Builder (spec §4.6):
// it combines the schema registry, bounded live samples from the device
// data source, and the data quality assessor into an LLM-ready context.
package ctxbuild

import (
	"time"

	"github.com/Mayoengin/netfleet-rag/pkg/quality"
)

// DefaultSampleCap is the default bound on how many records are fetched per
// schema for quality assessment (spec §4.4: "a bounded sample of records
// (default cap 200)").
const DefaultSampleCap = 200

// DataSample is one schema's bounded live sample plus its quality score
// (spec §3 "Data Sample").
type DataSample struct {
	QueryTime   time.Time
	SchemaName  string
	Records     []map[string]any
	Quality     quality.Score
	GeneratedAt time.Time
}

// Context is the bundle of schemas, samples, and quality handed to the LLM
// alongside the question (spec §3 "Schema-Aware Context").
type Context struct {
	Query           string
	SelectedSchemas []string
	Samples         map[string]*DataSample
	Summary         string
	BusinessContext string
	Recommendations []string
	BuiltAt         time.Time
}
