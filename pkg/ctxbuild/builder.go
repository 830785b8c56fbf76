package ctxbuild

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
	"github.com/Mayoengin/netfleet-rag/pkg/device"
	"github.com/Mayoengin/netfleet-rag/pkg/quality"
	"github.com/Mayoengin/netfleet-rag/pkg/schema"
)

// Builder implements the Schema-Aware Context Builder.
type Builder struct {
	source    device.Source
	assessor  *quality.Assessor
	sampleCap int
	now       func() time.Time
}

// NewBuilder constructs a Builder. sampleCap <= 0 uses DefaultSampleCap.
func NewBuilder(source device.Source, assessor *quality.Assessor, sampleCap int) *Builder {
	if sampleCap <= 0 {
		sampleCap = DefaultSampleCap
	}
	return &Builder{source: source, assessor: assessor, sampleCap: sampleCap, now: time.Now}
}

// Build runs the context-builder algorithm: candidate schemas from the
// registry, a bounded live sample per schema, a quality assessment per
// schema, and quality-band-derived recommendations.
func (b *Builder) Build(ctx context.Context, query string, registry *schema.Registry) (*Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Canceled, "ctxbuild", "build canceled", err)
	}

	candidates := registry.SchemasForQuery(query)
	now := b.now()

	out := &Context{
		Query:   query,
		Samples: make(map[string]*DataSample, len(candidates)),
		BuiltAt: now,
	}

	for _, s := range candidates {
		out.SelectedSchemas = append(out.SelectedSchemas, s.Name)

		records, err := b.source.Fetch(ctx, s.Name, nil, b.sampleCap)
		if err != nil {
			// A single schema's fetch failing does not abort the whole
			// context; it is recorded as a zero-record, red-band sample so
			// downstream recommendations still surface the gap.
			out.Samples[s.Name] = b.zeroSample(s.Name, now)
			continue
		}

		fields := make([]map[string]any, 0, len(records))
		for _, r := range records {
			fields = append(fields, r.Fields)
		}

		score := b.assessor.Assess(s, fields, now, now)
		out.Samples[s.Name] = &DataSample{
			QueryTime:   now,
			SchemaName:  s.Name,
			Records:     fields,
			Quality:     score,
			GeneratedAt: now,
		}
	}

	out.Recommendations = recommendationsFor(out.Samples, candidates)
	out.Summary = renderSummary(out.Samples, candidates)
	out.BusinessContext = renderBusinessContext(query, candidates)

	return out, nil
}

func (b *Builder) zeroSample(schemaName string, now time.Time) *DataSample {
	return &DataSample{
		QueryTime:   now,
		SchemaName:  schemaName,
		Records:     nil,
		Quality:     b.assessor.Assess(&schema.Schema{Name: schemaName}, nil, now, now),
		GeneratedAt: now,
	}
}

// recommendationsFor derives one recommendation per schema from its quality
// band, in schema registration order (spec §4.6).
func recommendationsFor(samples map[string]*DataSample, schemas []*schema.Schema) []string {
	recs := make([]string, 0, len(schemas))
	for _, s := range schemas {
		sample, ok := samples[s.Name]
		if !ok {
			continue
		}
		switch sample.Quality.Band {
		case quality.BandRed:
			recs = append(recs, fmt.Sprintf("%s: recommend a data-refresh tool before proceeding", s.Name))
		case quality.BandYellow:
			recs = append(recs, fmt.Sprintf("%s: proceed with quality caveat", s.Name))
		default:
			recs = append(recs, fmt.Sprintf("%s: proceed", s.Name))
		}
	}
	return recs
}

func renderSummary(samples map[string]*DataSample, schemas []*schema.Schema) string {
	if len(schemas) == 0 {
		return "no schema matched this query"
	}

	var sb strings.Builder
	for _, s := range schemas {
		sample := samples[s.Name]
		if sample == nil {
			continue
		}
		fmt.Fprintf(&sb, "%s: %d record(s), quality %.2f (%s)\n",
			s.Name, len(sample.Records), sample.Quality.Overall, sample.Quality.Band)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func renderBusinessContext(query string, schemas []*schema.Schema) string {
	if len(schemas) == 0 {
		return fmt.Sprintf("query %q matched no known device schema", query)
	}
	names := make([]string, 0, len(schemas))
	for _, s := range schemas {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return fmt.Sprintf("query concerns schema(s): %s", strings.Join(names, ", "))
}
