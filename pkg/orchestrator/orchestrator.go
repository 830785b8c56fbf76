// Package orchestrator implements the Query Orchestrator (spec §4.8): the
// top-level pipeline that fans out to the RAG Fusion Analyzer and the
// Schema-Aware Context Builder, dispatches on the resulting analysis type,
// runs per-device health scoring, and composes the final LLM-backed
// response.
package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/Mayoengin/netfleet-rag/internal/config"
	"github.com/Mayoengin/netfleet-rag/internal/errs"
	"github.com/Mayoengin/netfleet-rag/pkg/ctxbuild"
	"github.com/Mayoengin/netfleet-rag/pkg/device"
	"github.com/Mayoengin/netfleet-rag/pkg/document"
	"github.com/Mayoengin/netfleet-rag/pkg/fusion"
	"github.com/Mayoengin/netfleet-rag/pkg/health"
	"github.com/Mayoengin/netfleet-rag/pkg/llm"
	"github.com/Mayoengin/netfleet-rag/pkg/schema"
	"github.com/Mayoengin/netfleet-rag/pkg/vectorstore"
)

// Request is one orchestration call. SessionID is opaque and used only for
// log correlation (SPEC_FULL.md §3 supplemented type "Session identifier");
// it is never persisted.
type Request struct {
	Query                  string
	SessionID              string
	IncludeRecommendations bool
}

// DeviceOutcome pairs one fetched device record with its health result.
type DeviceOutcome struct {
	Name       string
	SchemaName string
	Fields     map[string]any
	Health     *health.Result
}

// Response is the orchestrator's structured result, ready for the Tool
// Surface (§4.9) to render as markdown.
type Response struct {
	SessionID         string
	Query             string
	AnalysisType      fusion.AnalysisType
	Confidence        fusion.Confidence
	Reasoning         string
	StructuredSummary string
	Devices           []DeviceOutcome
	Narrative         string
	Recommendations   []string
	Caveats           []string
	LLMUnavailable    bool
}

// Orchestrator wires the whole request pipeline together.
type Orchestrator struct {
	analyzer     *fusion.Analyzer
	builder      *ctxbuild.Builder
	registry     *schema.Registry
	source       device.Source
	docs         document.Store
	healthEngine *health.Engine
	ruleStore    vectorstore.Store
	llmClient    llm.Client
	sem          *semaphore.Weighted
	cfg          *config.Config
	logger       *zap.Logger
	metrics      *metrics
}

// New constructs an Orchestrator. logger and cfg must be non-nil; the
// caller is expected to have already called healthEngine.IndexRules against
// ruleStore during startup.
func New(
	analyzer *fusion.Analyzer,
	builder *ctxbuild.Builder,
	registry *schema.Registry,
	source device.Source,
	docs document.Store,
	healthEngine *health.Engine,
	ruleStore vectorstore.Store,
	llmClient llm.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		analyzer:     analyzer,
		builder:      builder,
		registry:     registry,
		source:       source,
		docs:         docs,
		healthEngine: healthEngine,
		ruleStore:    ruleStore,
		llmClient:    llmClient,
		sem:          semaphore.NewWeighted(cfg.LLMConcurrency),
		cfg:          cfg,
		logger:       logger,
		metrics:      newMetrics(),
	}
}

// Metrics returns every Prometheus collector this Orchestrator owns, for
// registration against a prometheus.Registerer at startup.
func (o *Orchestrator) Metrics() []prometheus.Collector {
	return o.metrics.Collectors()
}

// Execute runs the full pipeline for one request (spec §4.8 steps 1-5).
func (o *Orchestrator) Execute(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeouts.Overall)
	defer cancel()

	log := o.logger.With(zap.String("session_id", req.SessionID), zap.String("query", req.Query))

	guidance, cctx, err := o.analyzeAndBuildContext(ctx, req.Query)
	if err != nil {
		o.metrics.requestsTotal.WithLabelValues("canceled").Inc()
		return nil, err
	}

	effectiveType, caveats := o.applyQualityPolicy(guidance, cctx)

	resp := &Response{
		SessionID:    req.SessionID,
		Query:        req.Query,
		AnalysisType: effectiveType,
		Confidence:   guidance.Confidence,
		Reasoning:    guidance.Reasoning,
		Caveats:      caveats,
	}

	switch effectiveType {
	case fusion.DeviceListing:
		o.dispatchListing(ctx, req.Query, cctx, resp, log)
	case fusion.DeviceDetails:
		o.dispatchDetails(ctx, req.Query, resp, log)
	default:
		o.dispatchNarrative(ctx, req.Query, guidance, cctx, resp, log)
	}

	if req.IncludeRecommendations {
		resp.Recommendations = append(resp.Recommendations, cctx.Recommendations...)
	}

	o.invokeLLM(ctx, guidance, cctx, resp, log)

	o.metrics.requestsTotal.WithLabelValues(string(resp.AnalysisType)).Inc()
	o.metrics.requestDuration.Observe(time.Since(start).Seconds())

	return resp, nil
}

// analyzeAndBuildContext runs the Analyzer and Context Builder concurrently
// (spec §4.8 step 1, §5 "two concurrent legs, no ordering relationship").
func (o *Orchestrator) analyzeAndBuildContext(ctx context.Context, query string) (*fusion.Guidance, *ctxbuild.Context, error) {
	var guidance *fusion.Guidance
	var cctx *ctxbuild.Context

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := o.analyzer.Analyze(gctx, query)
		if err != nil {
			return err
		}
		guidance = result
		return nil
	})
	g.Go(func() error {
		result, err := o.builder.Build(gctx, query, o.registry)
		if err != nil {
			return err
		}
		cctx = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, errs.Wrap(errs.Canceled, "orchestrator", "analysis/context leg failed", err)
	}
	return guidance, cctx, nil
}

// applyQualityPolicy implements spec §4.8 step 2: a low quality score
// surfaces a caveat; a data-refresh recommendation coerces the analysis
// type to general_search regardless of what the analyzer chose.
func (o *Orchestrator) applyQualityPolicy(guidance *fusion.Guidance, cctx *ctxbuild.Context) (fusion.AnalysisType, []string) {
	effective := guidance.AnalysisType
	var caveats []string

	lowQuality := false
	for _, sample := range cctx.Samples {
		if sample.Quality.Overall < 0.5 {
			lowQuality = true
		}
	}
	if lowQuality {
		caveats = append(caveats, "one or more data samples are below the reliable quality threshold; treat this result as provisional")
	}

	for _, rec := range cctx.Recommendations {
		if strings.Contains(rec, "data-refresh") {
			effective = fusion.GeneralSearch
			caveats = append(caveats, "data quality triggered a refresh recommendation; falling back to general search")
			break
		}
	}

	return effective, caveats
}
