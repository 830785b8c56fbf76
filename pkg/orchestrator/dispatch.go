package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Mayoengin/netfleet-rag/pkg/ctxbuild"
	"github.com/Mayoengin/netfleet-rag/pkg/device"
	"github.com/Mayoengin/netfleet-rag/pkg/fusion"
)

// dispatchListing implements spec §4.8 step 3 "device_listing": extract
// filters, fetch a bounded list, score each device, render a per-region
// summary.
func (o *Orchestrator) dispatchListing(ctx context.Context, query string, cctx *ctxbuild.Context, resp *Response, log *zap.Logger) {
	schemaName := firstOrDefault(cctx.SelectedSchemas, "olt")
	filters := o.registry.FiltersFromQuery(query, schemaName)

	records, err := o.source.Fetch(ctx, schemaName, filters, o.cfg.DefaultResultLimit)
	if err != nil {
		log.Warn("device listing fetch failed", zap.Error(err), zap.String("schema", schemaName))
		resp.Caveats = append(resp.Caveats, fmt.Sprintf("could not fetch %s records: data source unavailable", schemaName))
		return
	}

	resp.Devices = o.scoreAll(ctx, records, log)
	resp.StructuredSummary = renderListingSummary(schemaName, resp.Devices)
}

// dispatchDetails implements spec §4.8 step 3 "device_details": extract a
// device name matching any schema pattern, fetch it, score it.
func (o *Orchestrator) dispatchDetails(ctx context.Context, query string, resp *Response, log *zap.Logger) {
	name, schemaName, ok := o.registry.ExtractDeviceName(query)
	if !ok {
		resp.AnalysisType = fusion.ComplexAnalysis
		resp.Caveats = append(resp.Caveats, "no device name recognized in the query; falling back to a narrative analysis")
		return
	}

	records, err := o.source.Fetch(ctx, schemaName, map[string]string{device.FilterNameEquals: name}, 1)
	if err != nil || len(records) == 0 {
		resp.AnalysisType = fusion.ComplexAnalysis
		resp.Caveats = append(resp.Caveats, fmt.Sprintf("no %s device named %q found; this is not a known device", schemaName, name))
		log.Warn("device details fetch found nothing", zap.String("name", name), zap.String("schema", schemaName))
		return
	}

	resp.Devices = o.scoreAll(ctx, records, log)
	resp.StructuredSummary = renderDetailsSummary(resp.Devices[0])
}

// dispatchNarrative implements spec §4.8 step 3 "complex_analysis" /
// "general_search": collect cited documents and data samples into a
// narrative summary; no device-specific fetch is performed.
func (o *Orchestrator) dispatchNarrative(ctx context.Context, query string, guidance *fusion.Guidance, cctx *ctxbuild.Context, resp *Response, log *zap.Logger) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "narrative analysis for %q\n", query)
	if cctx.Summary != "" {
		fmt.Fprintf(&sb, "data context: %s\n", cctx.Summary)
	}
	if len(guidance.CitedDocIDs) > 0 {
		snippets := o.citationSnippets(ctx, guidance.CitedDocIDs, log)
		if len(snippets) > 0 {
			fmt.Fprintf(&sb, "cited documentation: %s\n", strings.Join(snippets, "; "))
		}
	} else {
		sb.WriteString("no documentation matched this query\n")
	}
	resp.StructuredSummary = strings.TrimSuffix(sb.String(), "\n")
}

func (o *Orchestrator) citationSnippets(ctx context.Context, ids []string, log *zap.Logger) []string {
	if o.docs == nil {
		return nil
	}
	snippets := make([]string, 0, len(ids))
	for _, id := range ids {
		doc, err := o.docs.Get(ctx, id)
		if err != nil {
			log.Warn("citation lookup failed", zap.String("doc_id", id), zap.Error(err))
			continue
		}
		snippets = append(snippets, doc.Title)
	}
	return snippets
}

func (o *Orchestrator) scoreAll(ctx context.Context, records []*device.Record, log *zap.Logger) []DeviceOutcome {
	out := make([]DeviceOutcome, 0, len(records))
	for _, r := range records {
		result, err := o.healthEngine.Evaluate(ctx, r, o.ruleStore)
		if err != nil {
			log.Warn("health evaluation canceled", zap.Error(err), zap.String("device", r.Name()))
			continue
		}
		out = append(out, DeviceOutcome{
			Name:       r.Name(),
			SchemaName: r.SchemaName,
			Fields:     r.Fields,
			Health:     result,
		})
	}
	return out
}

func renderListingSummary(schemaName string, devices []DeviceOutcome) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %s record(s) found\n", len(devices), schemaName)

	byRegion := make(map[string][]DeviceOutcome)
	for _, d := range devices {
		region, _ := d.Fields["region"].(string)
		byRegion[region] = append(byRegion[region], d)
	}
	regions := make([]string, 0, len(byRegion))
	for r := range byRegion {
		regions = append(regions, r)
	}
	sort.Strings(regions)

	for _, region := range regions {
		label := region
		if label == "" {
			label = "unspecified"
		}
		fmt.Fprintf(&sb, "%s: %d device(s)\n", label, len(byRegion[region]))
	}

	critical, healthy := 0, 0
	for _, d := range devices {
		if d.Health == nil {
			continue
		}
		switch d.Health.Status {
		case "CRITICAL":
			critical++
		case "HEALTHY":
			healthy++
		}
	}
	fmt.Fprintf(&sb, "%d critical, %d healthy", critical, healthy)
	return sb.String()
}

func renderDetailsSummary(d DeviceOutcome) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n", d.Name, d.SchemaName)
	if region, ok := d.Fields["region"].(string); ok {
		fmt.Fprintf(&sb, "region: %s\n", region)
	}
	if d.Health != nil {
		fmt.Fprintf(&sb, "health: %s (score %d)\n", d.Health.Status, d.Health.Score)
		for _, rec := range d.Health.FiredRecommendations {
			fmt.Fprintf(&sb, "- %s\n", rec)
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func firstOrDefault(names []string, fallback string) string {
	if len(names) == 0 {
		return fallback
	}
	return names[0]
}
