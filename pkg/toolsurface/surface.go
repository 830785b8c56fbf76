// Package toolsurface implements the three stable externally-callable
// operations (spec §4.9): network_query, list_network_devices, and
// get_device_details. Surface is the plain in-process API every test in
// this repo drives directly; pkg/toolsurface/mcpserver wraps the same
// Surface as MCP tools.
package toolsurface

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
	"github.com/Mayoengin/netfleet-rag/pkg/device"
	"github.com/Mayoengin/netfleet-rag/pkg/health"
	"github.com/Mayoengin/netfleet-rag/pkg/orchestrator"
	"github.com/Mayoengin/netfleet-rag/pkg/schema"
	slicesx "github.com/Mayoengin/netfleet-rag/pkg/slices"
	"github.com/Mayoengin/netfleet-rag/pkg/vectorstore"
)

const defaultListLimit = 50

// healthScoreChunkSize bounds how many records are scored concurrently at
// once. Evaluation hits ruleStore.Search per record, which is a network call
// against a Qdrant-backed store; scoring every record in a listing one at a
// time would serialize that latency across the whole result set.
const healthScoreChunkSize = 8

// Surface wires the orchestrator, schema registry, data source, and health
// engine into the three operations spec §4.9 describes.
type Surface struct {
	orchestrator *orchestrator.Orchestrator
	registry     *schema.Registry
	source       device.Source
	healthEngine *health.Engine
	ruleStore    vectorstore.Store
	logger       *zap.Logger
}

// New constructs a Surface. ruleStore must already be indexed via
// healthEngine.IndexRules. logger may be nil.
func New(orch *orchestrator.Orchestrator, registry *schema.Registry, source device.Source, healthEngine *health.Engine, ruleStore vectorstore.Store, logger *zap.Logger) *Surface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Surface{orchestrator: orch, registry: registry, source: source, healthEngine: healthEngine, ruleStore: ruleStore, logger: logger}
}

// NetworkQuery runs the full orchestrator pipeline (spec §4.8) and renders
// the result as markdown: title, query, analysis type and confidence, data
// context, structured result, LLM prose, and (optionally) recommendations.
func (s *Surface) NetworkQuery(ctx context.Context, query string, includeRecommendations bool) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", errs.New(errs.InvalidInput, "toolsurface", "query must not be empty")
	}

	resp, err := s.orchestrator.Execute(ctx, orchestrator.Request{
		Query:                  query,
		IncludeRecommendations: includeRecommendations,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Network Query Result\n\n")
	fmt.Fprintf(&b, "**Query:** %s\n\n", resp.Query)
	fmt.Fprintf(&b, "**Analysis type:** %s (confidence: %s)\n\n", resp.AnalysisType, resp.Confidence)
	if resp.Reasoning != "" {
		fmt.Fprintf(&b, "_%s_\n\n", resp.Reasoning)
	}
	if len(resp.Caveats) > 0 {
		fmt.Fprintf(&b, "**Caveats:**\n")
		for _, c := range resp.Caveats {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "## Structured result\n\n%s\n\n", resp.StructuredSummary)
	if resp.Narrative != "" {
		fmt.Fprintf(&b, "## Summary\n\n%s\n\n", resp.Narrative)
	}
	if includeRecommendations && len(resp.Recommendations) > 0 {
		fmt.Fprintf(&b, "## Recommendations\n\n")
		for _, r := range resp.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	return b.String(), nil
}

// ListNetworkDevicesParams are the request parameters for ListNetworkDevices.
type ListNetworkDevicesParams struct {
	DeviceType  string
	Region      string
	Environment string
	NamePrefix  string
	Limit       int
}

// ListNetworkDevices is a direct listing that bypasses the RAG Fusion
// Analyzer entirely: it still runs health scoring on every returned record.
// The only failure mode is validation failure (unknown device type); a
// fetch that returns zero records is still success, rendered as an empty
// table.
func (s *Surface) ListNetworkDevices(ctx context.Context, p ListNetworkDevicesParams) (string, error) {
	deviceType := p.DeviceType
	if deviceType == "" || deviceType == "all" {
		return s.listAllTypes(ctx, p)
	}

	sch := s.registry.Get(deviceType)
	if sch == nil {
		return "", errs.New(errs.InvalidInput, "toolsurface", "unknown device_type: "+deviceType)
	}

	limit := p.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	filters := buildFilters(p)

	records, err := s.source.Fetch(ctx, deviceType, filters, limit)
	if err != nil {
		return "", err
	}

	outcomes := s.scoreRecords(ctx, records)
	return renderDeviceTable(deviceType, outcomes), nil
}

func (s *Surface) listAllTypes(ctx context.Context, p ListNetworkDevicesParams) (string, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	filters := buildFilters(p)

	var b strings.Builder
	for _, sch := range s.registry.All() {
		records, err := s.source.Fetch(ctx, sch.Name, filters, limit)
		if err != nil {
			s.logger.Warn("list_network_devices: fetch failed for type", zap.String("device_type", sch.Name), zap.Error(err))
			continue
		}
		if len(records) == 0 {
			continue
		}
		outcomes := s.scoreRecords(ctx, records)
		b.WriteString(renderDeviceTable(sch.Name, outcomes))
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "No devices matched the given filters.\n", nil
	}
	return b.String(), nil
}

func buildFilters(p ListNetworkDevicesParams) map[string]string {
	filters := make(map[string]string)
	if p.Region != "" {
		filters[device.FilterRegion] = p.Region
	}
	if p.Environment != "" {
		filters[device.FilterEnvironment] = p.Environment
	}
	if p.NamePrefix != "" {
		filters[device.FilterNamePrefix] = p.NamePrefix
	}
	return filters
}

// GetDeviceDetails fetches a single device by exact name and scores its
// health. A not-found device is a soft failure: it returns a descriptive
// message with a nil error, per spec §4.9, since "device not found" is an
// expected outcome of a lookup, not an exceptional one.
func (s *Surface) GetDeviceDetails(ctx context.Context, deviceName, deviceType string) (string, error) {
	if strings.TrimSpace(deviceName) == "" {
		return "", errs.New(errs.InvalidInput, "toolsurface", "device_name must not be empty")
	}
	if deviceType == "" {
		deviceType = "olt"
	}
	if s.registry.Get(deviceType) == nil {
		return "", errs.New(errs.InvalidInput, "toolsurface", "unknown device_type: "+deviceType)
	}

	records, err := s.source.Fetch(ctx, deviceType, map[string]string{device.FilterNameEquals: deviceName}, 1)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return fmt.Sprintf("No %s device named %q was found.\n", deviceType, deviceName), nil
	}

	outcomes := s.scoreRecords(ctx, records)
	o := outcomes[0]

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", o.Name)
	fmt.Fprintf(&b, "**Type:** %s\n\n", o.SchemaName)
	if o.Health != nil {
		fmt.Fprintf(&b, "**Health:** %s (score %d)\n\n", o.Health.Status, o.Health.Score)
		if len(o.Health.FiredRecommendations) > 0 {
			b.WriteString("**Recommendations:**\n")
			for _, r := range o.Health.FiredRecommendations {
				fmt.Fprintf(&b, "- %s\n", r)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("**Fields:**\n\n")
	for _, key := range sortedFieldKeys(o.Fields) {
		fmt.Fprintf(&b, "- %s: %s\n", key, fmt.Sprint(o.Fields[key]))
	}
	return b.String(), nil
}

type scoredDevice struct {
	Name       string
	SchemaName string
	Fields     map[string]any
	Health     *health.Result
}

// scoreRecords runs health evaluation for every record, skipping (and
// logging) any record the rule engine cannot score rather than failing the
// whole listing, mirroring the orchestrator's per-device degrade policy.
// Records are evaluated in bounded-size chunks, concurrently within each
// chunk, to keep a large listing from paying its ruleStore lookups one at a
// time while still capping how many run in flight at once.
func (s *Surface) scoreRecords(ctx context.Context, records []*device.Record) []scoredDevice {
	outcomes := make([]scoredDevice, 0, len(records))
	for _, chunk := range slicesx.Chunk(records, healthScoreChunkSize) {
		results := make([]*health.Result, len(chunk))
		g, gctx := errgroup.WithContext(ctx)
		for i, rec := range chunk {
			i, rec := i, rec
			g.Go(func() error {
				result, err := s.healthEngine.Evaluate(gctx, rec, s.ruleStore)
				if err != nil {
					s.logger.Warn("toolsurface: health evaluation failed", zap.String("device", rec.Name()), zap.Error(err))
					return nil
				}
				results[i] = result
				return nil
			})
		}
		_ = g.Wait()

		for i, rec := range chunk {
			if results[i] == nil {
				continue
			}
			outcomes = append(outcomes, scoredDevice{
				Name:       rec.Name(),
				SchemaName: rec.SchemaName,
				Fields:     rec.Fields,
				Health:     results[i],
			})
		}
	}
	return outcomes
}

func sortedFieldKeys(fields map[string]any) []string {
	keys := lo.Keys(fields)
	sort.Strings(keys)
	return keys
}

func renderDeviceTable(schemaName string, outcomes []scoredDevice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%d)\n\n", schemaName, len(outcomes))
	if len(outcomes) == 0 {
		b.WriteString("No records.\n")
		return b.String()
	}
	critical := lo.CountBy(outcomes, func(o scoredDevice) bool {
		return o.Health != nil && o.Health.Status == health.StatusCritical
	})
	if critical > 0 {
		fmt.Fprintf(&b, "_%d of %d are CRITICAL._\n\n", critical, len(outcomes))
	}
	for _, o := range outcomes {
		status := "UNKNOWN"
		score := 0
		if o.Health != nil {
			status = string(o.Health.Status)
			score = o.Health.Score
		}
		fmt.Fprintf(&b, "- **%s** — %s (%s)\n", o.Name, status, strconv.Itoa(score))
	}
	return b.String()
}
